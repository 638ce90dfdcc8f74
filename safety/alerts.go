package safety

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/fxdash/market"
)

const (
	SafetyDropThreshold     = 20
	EventAlertWindow        = 60 * time.Minute
	SentimentShiftThreshold = 0.3
)

type AlertKind string

const (
	AlertSafetyDrop     AlertKind = "safety_drop"
	AlertUpcomingEvent  AlertKind = "upcoming_event"
	AlertSentimentShift AlertKind = "sentiment_shift"
)

type Alert struct {
	Kind    AlertKind `json:"kind"`
	Message string    `json:"message"`
}

// SafetyDrop alerts when the score fell by at least 20 points.
func SafetyDrop(previous, current int) (Alert, bool) {
	if previous-current < SafetyDropThreshold {
		return Alert{}, false
	}
	return Alert{
		Kind:    AlertSafetyDrop,
		Message: fmt.Sprintf("Safety score dropped from %d to %d", previous, current),
	}, true
}

// UpcomingEvents alerts on high-impact events starting within the next
// hour. Events already in the past are not reported.
func UpcomingEvents(events []market.EconomicEvent, now time.Time) []Alert {
	var alerts []Alert
	for _, e := range events {
		if !e.IsHighImpact() {
			continue
		}
		until := e.Time.Sub(now)
		if until < 0 || until > EventAlertWindow {
			continue
		}
		alerts = append(alerts, Alert{
			Kind:    AlertUpcomingEvent,
			Message: fmt.Sprintf("High-impact event in %.0f minutes: %s", until.Minutes(), e.Name),
		})
	}
	return alerts
}

// SentimentShift alerts when sentiment moved by at least 0.3.
func SentimentShift(previous, current float64) (Alert, bool) {
	if math.Abs(current-previous) < SentimentShiftThreshold {
		return Alert{}, false
	}
	direction := "deteriorated"
	if current > previous {
		direction = "improved"
	}
	return Alert{
		Kind:    AlertSentimentShift,
		Message: fmt.Sprintf("Market sentiment %s significantly", direction),
	}, true
}
