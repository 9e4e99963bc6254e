package stats

import (
	"sort"
	"time"

	"github.com/chuthree/brew-guide/internal/model"
)

// FreshnessState classifies where a roasted bag sits in its flavor
// window.
type FreshnessState string

const (
	FreshnessResting FreshnessState = "resting"
	FreshnessOptimal FreshnessState = "optimal"
	FreshnessFading  FreshnessState = "fading"
	FreshnessExpired FreshnessState = "expired"
	FreshnessFrozen  FreshnessState = "frozen"
)

const (
	defaultStartDay = 7
	defaultEndDay   = 30
	// Beans past their window stay drinkable for a while before they
	// count as expired.
	fadingGraceDays = 14
)

type BeanFreshness struct {
	Bean           model.Bean
	State          FreshnessState
	DaysSinceRoast int
	StartDay       int
	EndDay         int
	// ProgressPercent tracks position inside the optimal window, 0-100.
	ProgressPercent float64
}

// EvaluateFreshness classifies one bean against its flavor window. A
// missing or unparsable roast date counts as roasted today.
func EvaluateFreshness(bean model.Bean, today time.Time) BeanFreshness {
	days := 0
	if bean.RoastDate != "" {
		if roasted, err := time.ParseInLocation("2006-01-02", bean.RoastDate, time.Local); err == nil {
			days = daysBetweenInclusive(roasted, today) - 1
			if days < 0 {
				days = 0
			}
		}
	}

	startDay := bean.StartDay
	if startDay <= 0 {
		startDay = defaultStartDay
	}
	endDay := bean.EndDay
	if endDay <= 0 {
		endDay = defaultEndDay
	}

	f := BeanFreshness{
		Bean:           bean,
		DaysSinceRoast: days,
		StartDay:       startDay,
		EndDay:         endDay,
	}

	switch {
	case bean.IsFrozen:
		f.State = FreshnessFrozen
	case days < startDay:
		f.State = FreshnessResting
	case days <= endDay:
		f.State = FreshnessOptimal
	case days <= endDay+fadingGraceDays:
		f.State = FreshnessFading
	default:
		f.State = FreshnessExpired
	}

	window := float64(endDay - startDay)
	switch {
	case f.State == FreshnessOptimal && window > 0:
		p := float64(days-startDay) / window * 100
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		f.ProgressPercent = p
	case days > endDay:
		f.ProgressPercent = 100
	}
	return f
}

// EvaluateBeans classifies every bean with stock remaining and orders
// them by urgency: within each state, whoever leaves that state first
// comes first.
func EvaluateBeans(beans []model.Bean, today time.Time) []BeanFreshness {
	out := make([]BeanFreshness, 0, len(beans))
	for _, b := range beans {
		if b.RemainingG <= 0 {
			continue
		}
		out = append(out, EvaluateFreshness(b, today))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return stateRank(out[i].State) < stateRank(out[j].State)
		}
		return urgency(out[i]) < urgency(out[j])
	})
	return out
}

func stateRank(s FreshnessState) int {
	switch s {
	case FreshnessOptimal:
		return 0
	case FreshnessResting:
		return 1
	case FreshnessFading:
		return 2
	case FreshnessExpired:
		return 3
	default:
		return 4
	}
}

func urgency(f BeanFreshness) int {
	switch f.State {
	case FreshnessOptimal:
		return f.EndDay - f.DaysSinceRoast
	case FreshnessResting:
		return f.StartDay - f.DaysSinceRoast
	default:
		return f.DaysSinceRoast
	}
}
