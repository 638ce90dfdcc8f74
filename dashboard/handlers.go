package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rustyeddy/fxdash/analysis"
	"github.com/rustyeddy/fxdash/journal"
	"github.com/rustyeddy/fxdash/market"
	"github.com/rustyeddy/fxdash/risk"
	"github.com/rustyeddy/fxdash/safety"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Current(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, pageData{Snapshot: snap, Config: s.cfg}); err != nil {
		s.log.Error().Err(err).Msg("render dashboard")
	}
}

// handleSnapshot returns the last snapshot; ?refresh=1 forces a new one.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if ok, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); ok {
		writeJSON(w, http.StatusOK, s.engine.Refresh(r.Context()))
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Current(r.Context()))
}

// handleEvents accepts ?impact=High and ?currency=USD filters.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Current(r.Context())

	var impact market.Impact
	if v := r.URL.Query().Get("impact"); v != "" {
		parsed, err := market.ParseImpact(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		impact = parsed
	}
	currency := strings.ToUpper(r.URL.Query().Get("currency"))

	events := make([]market.EconomicEvent, 0, len(snap.Events))
	for _, ev := range snap.Events {
		if impact != "" && ev.Impact != impact {
			continue
		}
		if currency != "" && ev.Currency != currency {
			continue
		}
		events = append(events, ev)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events":     events,
		"avg_safety": snap.AvgSafety,
		"risk_level": snap.RiskLevel,
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Current(r.Context())
	resp := map[string]any{
		"news":      snap.News,
		"sentiment": snap.Sentiment,
	}
	if s.monitor != nil {
		resp["pending"] = s.monitor.Pending()
		resp["dropped"] = s.monitor.Dropped()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSignals accepts ?actionable=1 to keep only signals worth acting on.
func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Current(r.Context())
	signals := snap.Signals
	if ok, _ := strconv.ParseBool(r.URL.Query().Get("actionable")); ok {
		signals = signals[:0:0]
		for _, sig := range snap.Signals {
			if sig.IsActionable() {
				signals = append(signals, sig)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"signals":       signals,
		"open_sessions": snap.OpenSessions,
		"market_risk":   snap.MarketRisk,
	})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Current(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Context     analysis.MarketContext     `json:"context"`
		Insights    []string                   `json:"insights"`
		Correlation analysis.Matrix            `json:"correlation"`
		Levels      map[string]analysis.Levels `json:"levels"`
		Alerts      []safety.Alert             `json:"alerts"`
	}{snap.Context, snap.Insights, snap.Correlation, snap.Levels, snap.Alerts})
}

// PositionSizeRequest is the body of POST /api/position-size. A missing
// safety score uses the dashboard's current average; a zero risk percent
// uses the configured default. A missing pip value is looked up for the pair.
type PositionSizeRequest struct {
	Pair           string   `json:"pair"`
	AccountBalance float64  `json:"account_balance"`
	RiskPercent    float64  `json:"risk_percent"`
	EntryPrice     float64  `json:"entry_price"`
	StopLoss       float64  `json:"stop_loss"`
	SafetyScore    *int     `json:"safety_score,omitempty"`
	Impact         string   `json:"impact,omitempty"`
	TakeProfit     *float64 `json:"take_profit,omitempty"`
	PipValue       *float64 `json:"pip_value,omitempty"`
}

type PositionSizeResponse struct {
	risk.SizeResult
	Pair          string       `json:"pair"`
	SafetyScore   int          `json:"safety_score"`
	RiskLevel     safety.Level `json:"risk_level"`
	StopPips      float64      `json:"stop_pips"`
	RiskFormatted string       `json:"risk_formatted"`
}

func (s *Server) handlePositionSize(w http.ResponseWriter, r *http.Request) {
	var req PositionSizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	intent, ok := s.intent(w, r, req)
	if !ok {
		return
	}

	res := risk.Size(s.policy.Inputs(intent))
	writeJSON(w, http.StatusOK, PositionSizeResponse{
		SizeResult:    res,
		Pair:          intent.Pair,
		SafetyScore:   intent.SafetyScore,
		RiskLevel:     safety.RiskLevel(intent.SafetyScore),
		StopPips:      risk.Pips(intent.Pair, res.StopDistance),
		RiskFormatted: risk.FormatCurrency(res.RiskAmount, "USD"),
	})
}

// SetupCheckRequest is the body of POST /api/setup-check.
type SetupCheckRequest struct {
	PositionSizeRequest
	Action string `json:"action"`
}

func (s *Server) handleSetupCheck(w http.ResponseWriter, r *http.Request) {
	var req SetupCheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TakeProfit == nil {
		writeError(w, http.StatusBadRequest, "take_profit is required")
		return
	}
	action := strings.ToUpper(req.Action)
	if action != "BUY" && action != "SELL" {
		writeError(w, http.StatusBadRequest, "action must be BUY or SELL")
		return
	}
	intent, ok := s.intent(w, r, req.PositionSizeRequest)
	if !ok {
		return
	}
	intent.Action = action
	intent.TakeProfit = *req.TakeProfit

	res := risk.Size(s.policy.Inputs(intent))
	writeJSON(w, http.StatusOK, map[string]any{
		"decision": s.policy.Evaluate(intent),
		"size":     res,
	})
}

// intent validates a sizing request. It writes a 400 and returns false
// when the request is unusable.
func (s *Server) intent(w http.ResponseWriter, r *http.Request, req PositionSizeRequest) (risk.TradeIntent, bool) {
	pair, err := market.ParsePair(req.Pair)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return risk.TradeIntent{}, false
	}
	if req.AccountBalance <= 0 {
		writeError(w, http.StatusBadRequest, "account_balance must be positive")
		return risk.TradeIntent{}, false
	}
	if req.EntryPrice <= 0 || req.StopLoss <= 0 {
		writeError(w, http.StatusBadRequest, "entry_price and stop_loss must be positive")
		return risk.TradeIntent{}, false
	}
	if req.RiskPercent < 0 || req.RiskPercent > s.policy.MaxRiskPct {
		writeError(w, http.StatusBadRequest, "risk_percent must be between 0 and "+strconv.FormatFloat(s.policy.MaxRiskPct, 'f', -1, 64))
		return risk.TradeIntent{}, false
	}

	var impact market.Impact
	if req.Impact != "" {
		impact, err = market.ParseImpact(req.Impact)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return risk.TradeIntent{}, false
		}
	}

	var score int
	if req.SafetyScore != nil {
		score = *req.SafetyScore
		if score < 0 || score > 100 {
			writeError(w, http.StatusBadRequest, "safety_score must be between 0 and 100")
			return risk.TradeIntent{}, false
		}
	} else {
		score = s.engine.Current(r.Context()).AvgSafety
	}

	var pipValue float64
	if req.PipValue != nil {
		if *req.PipValue <= 0 {
			writeError(w, http.StatusBadRequest, "pip_value must be positive")
			return risk.TradeIntent{}, false
		}
		pipValue = *req.PipValue
	}

	riskPct := req.RiskPercent
	if riskPct == 0 {
		riskPct = s.policy.DefaultRiskPct
	}
	return risk.TradeIntent{
		Pair:        pair.String(),
		Entry:       req.EntryPrice,
		Stop:        req.StopLoss,
		Balance:     req.AccountBalance,
		RiskPercent: riskPct,
		SafetyScore: score,
		Impact:      impact,
		PipValue:    pipValue,
	}, true
}

func (s *Server) requireJournal(w http.ResponseWriter) bool {
	if s.journal == nil {
		writeError(w, http.StatusServiceUnavailable, "trade journal is not configured")
		return false
	}
	return true
}

// handleListTrades accepts ?limit=N, default 50.
func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	if !s.requireJournal(w) {
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	trades, err := s.journal.List(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("list trades")
		writeError(w, http.StatusInternalServerError, "failed to list trades")
		return
	}
	if trades == nil {
		trades = []journal.TradeRecord{}
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleSaveTrade(w http.ResponseWriter, r *http.Request) {
	if !s.requireJournal(w) {
		return
	}
	var rec journal.TradeRecord
	if !decodeJSON(w, r, &rec) {
		return
	}
	id, err := s.journal.Save(r.Context(), rec)
	if errors.Is(err, journal.ErrInvalidTrade) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("save trade")
		writeError(w, http.StatusInternalServerError, "failed to save trade")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleTradeStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireJournal(w) {
		return
	}
	stats, err := s.journal.Stats(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("trade stats")
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	if !s.requireJournal(w) {
		return
	}
	rec, err := s.journal.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, journal.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trade not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("get trade")
		writeError(w, http.StatusInternalServerError, "failed to load trade")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
