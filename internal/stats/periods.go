package stats

import (
	"sort"

	"github.com/chuthree/brew-guide/internal/model"
)

// AvailablePeriods lists the distinct period keys present in the
// journal for a granularity, most recent first. Period-selector
// controls are populated from this.
func AvailablePeriods(records []model.Record, g Granularity) []string {
	seen := make(map[string]struct{}, len(records))
	keys := make([]string, 0)
	for _, r := range records {
		key := PeriodKey(g, r.BrewedAt)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}
