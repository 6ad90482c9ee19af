package report

import (
	"github.com/tphakala/labelgap/internal/analysis"
	"github.com/tphakala/labelgap/internal/roster"
)

func testRanking() map[roster.Group][]analysis.Disparity {
	return map[roster.Group][]analysis.Disparity{
		roster.GroupFemale: {
			{Label: "Necklace", HomeRate: 50, OtherRate: 0, Statistic: 50},
			{Label: "Hair", HomeRate: 100, OtherRate: 25, Statistic: 45},
		},
		roster.GroupMale: {
			{Label: "Suit", HomeRate: 75, OtherRate: 10, Statistic: 4225.0 / 85.0},
		},
	}
}

func testCategories() analysis.CategoryCounts {
	return analysis.CategoryCounts{
		Counts: map[roster.Group]map[string]int{
			roster.GroupFemale: {"appearance": 3, "accessory": 1},
			roster.GroupMale:   {"clothing": 4},
		},
		Means: map[roster.Group]map[string]float64{
			roster.GroupFemale: {"appearance": 1.5, "accessory": 0.5},
			roster.GroupMale:   {"clothing": 2},
		},
		Population: map[roster.Group]int{roster.GroupFemale: 2, roster.GroupMale: 2},
	}
}
