package stats_test

import (
	"time"

	"github.com/chuthree/brew-guide/internal/model"
)

func roastedBean(id string, cat model.Category, capacity, remaining, price float64, createdAt time.Time) model.Bean {
	return model.Bean{
		ID:         id,
		Name:       "bean-" + id,
		Category:   cat,
		State:      model.BeanStateRoasted,
		CapacityG:  capacity,
		RemainingG: remaining,
		Price:      price,
		CreatedAt:  createdAt,
	}
}

func brewRecord(beanID, dose string, at time.Time) model.Record {
	return model.Record{
		ID:       "rec-" + dose + at.Format("20060102150405"),
		Source:   model.SourceBrew,
		BeanID:   beanID,
		Dose:     dose,
		BrewedAt: at,
	}
}

func quickRecord(beanID string, grams float64, at time.Time) model.Record {
	return model.Record{
		ID:       "quick-" + at.Format("20060102150405"),
		Source:   model.SourceQuickDecrement,
		BeanID:   beanID,
		AmountG:  grams,
		BrewedAt: at,
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
