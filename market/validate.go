package market

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateEvent checks the required fields of an event coming from a source.
func ValidateEvent(e EconomicEvent) error {
	if err := validatorInstance().Struct(e); err != nil {
		return fmt.Errorf("event %q: %w", e.Name, err)
	}
	return nil
}

// ValidateNews checks the required fields of a news item coming from a source.
func ValidateNews(n NewsItem) error {
	if err := validatorInstance().Struct(n); err != nil {
		return fmt.Errorf("news %q: %w", n.Title, err)
	}
	return nil
}

// FilterEvents splits events into valid records and the validation errors
// of the rejected ones.
func FilterEvents(events []EconomicEvent) ([]EconomicEvent, []error) {
	out := make([]EconomicEvent, 0, len(events))
	var errs []error
	for _, e := range events {
		if err := ValidateEvent(e); err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, e)
	}
	return out, errs
}

// FilterNews is FilterEvents for news items.
func FilterNews(items []NewsItem) ([]NewsItem, []error) {
	out := make([]NewsItem, 0, len(items))
	var errs []error
	for _, n := range items {
		if err := ValidateNews(n); err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, n)
	}
	return out, errs
}
