package market

import "time"

// Session is a trading session in UTC hours. Sessions with Open > Close
// cross midnight.
type Session struct {
	Name  string
	Open  int
	Close int
	Zone  string
}

var Sessions = []Session{
	{Name: "Sydney", Open: 22, Close: 7, Zone: "AEDT"},
	{Name: "Tokyo", Open: 0, Close: 9, Zone: "JST"},
	{Name: "London", Open: 8, Close: 17, Zone: "GMT"},
	{Name: "New York", Open: 13, Close: 22, Zone: "EST"},
}

// IsOpen reports whether the session is open at t (evaluated in UTC).
func (s Session) IsOpen(t time.Time) bool {
	h := t.UTC().Hour()
	if s.Open > s.Close {
		return h >= s.Open || h < s.Close
	}
	return h >= s.Open && h < s.Close
}

// IsSessionOpen looks a session up by name. Unknown names are treated as
// open.
func IsSessionOpen(name string, t time.Time) bool {
	for _, s := range Sessions {
		if s.Name == name {
			return s.IsOpen(t)
		}
	}
	return true
}

// OpenSessions lists the sessions open at t.
func OpenSessions(t time.Time) []string {
	var out []string
	for _, s := range Sessions {
		if s.IsOpen(t) {
			out = append(out, s.Name)
		}
	}
	return out
}
