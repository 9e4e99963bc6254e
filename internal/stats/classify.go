package stats

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/chuthree/brew-guide/internal/model"
)

// Event is a journal record reduced to the quantities statistics care
// about: when it happened, how many grams it consumed, what it cost,
// and which category it belongs to.
type Event struct {
	Time    time.Time
	AmountG float64
	Cost    float64
	// Category is only meaningful when HasCategory is set; events whose
	// bean link is missing count toward totals but not the breakdown.
	Category    model.Category
	HasCategory bool
}

var doseAmountRe = regexp.MustCompile(`\d+(\.\d+)?`)

// ParseDoseAmount extracts the first numeric token of a free-form dose
// field ("15g", "18±0.2g espresso"). Brewing logs are free-form, so a
// dose with no number is not an error; it simply carries no amount.
func ParseDoseAmount(dose string) (float64, bool) {
	match := doseAmountRe.FindString(dose)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Classify reduces records to consumption events, sorted ascending by
// time. Capacity adjustments are corrections rather than consumption
// and are dropped, as are brews whose dose yields no positive amount.
func Classify(records []model.Record, beans []model.Bean) []Event {
	byID := make(map[string]model.Bean, len(beans))
	for _, b := range beans {
		byID[b.ID] = b
	}

	events := make([]Event, 0, len(records))
	for _, r := range records {
		var amount float64
		switch r.Source {
		case model.SourceCapacityAdjustment:
			continue
		case model.SourceQuickDecrement, model.SourceRoasting:
			amount = r.AmountG
		case model.SourceBrew:
			amount, _ = ParseDoseAmount(r.Dose)
		default:
			continue
		}
		if amount <= 0 {
			continue
		}

		ev := Event{Time: r.BrewedAt, AmountG: amount}
		if bean, ok := byID[r.BeanID]; ok {
			ev.Category = bean.Category
			ev.HasCategory = true
			// For roasting the link is the green bag, so the cost is
			// computed against the green bean's price, not the derived
			// roasted bean's.
			if bean.Price > 0 && bean.CapacityG > 0 {
				ev.Cost = amount * bean.Price / bean.CapacityG
			}
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
	return events
}
