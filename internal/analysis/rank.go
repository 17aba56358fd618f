package analysis

import (
	"sort"

	"profit-forecast/internal/model"
)

type RankedScenario struct {
	Name string `json:"name"`
	SeriesSummary
}

// RankScenarios summarizes each named forecast and sorts by final-day price
// headroom, largest first. Ties are broken by name.
func RankScenarios(byName map[string][]model.ChartDataPoint) []RankedScenario {
	out := make([]RankedScenario, 0, len(byName))
	for name, points := range byName {
		out = append(out, RankedScenario{Name: name, SeriesSummary: Summarize(points)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FinalHeadroom != out[j].FinalHeadroom {
			return out[i].FinalHeadroom > out[j].FinalHeadroom
		}
		return out[i].Name < out[j].Name
	})
	return out
}
