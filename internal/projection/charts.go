package projection

import (
	"fmt"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/category"
	"github.com/five82/promptdeck/internal/state"
)

// TopN is how many entries the ranking chart shows.
const TopN = 5

// ChartKind tells the presentation layer how to draw a chart.
type ChartKind string

const (
	KindDistribution ChartKind = "distribution"
	KindRanking      ChartKind = "ranking"
)

// Chart is one titled data series.
type Chart struct {
	ID      string    `json:"id"`
	Kind    ChartKind `json:"kind"`
	Title   string    `json:"title"`
	Buckets []Bucket  `json:"buckets,omitempty"`
	Ranking []Ranked  `json:"ranking,omitempty"`
}

var chartTitles = map[string][2]string{
	"categories": {"カテゴリ分布", "Categories"},
	"position":   {"役職・立場", "Position"},
	"target":     {"対象者", "Target"},
	"category":   {"カテゴリ", "Category"},
	"model":      {"AIモデル", "AI Model"},
	"ranking":    {"人気ランキング (Top %d)", "Top %d Liked"},
}

func chartTitle(id, lang string) string {
	t := chartTitles[id]
	if lang == "en" {
		return t[1]
	}
	return t[0]
}

// Charts builds the chart set for the active role. Distributions count the
// visible entries; the ranking covers every entry of the role.
func Charts(snap state.Snapshot, table *category.Table) []Chart {
	lang := snap.View.Lang
	visible := Visible(snap)

	distribution := func(id, field string) Chart {
		return Chart{
			ID:      id,
			Kind:    KindDistribution,
			Title:   chartTitle(id, lang),
			Buckets: CountBy(visible, field, table, lang),
		}
	}

	var charts []Chart
	if snap.View.Role.Static() {
		charts = append(charts, distribution("categories", "category"))
	} else {
		charts = append(charts,
			distribution("position", "position"),
			distribution("target", "target"),
			distribution("category", "category"),
		)
		if snap.View.Role == catalog.RoleShared {
			charts = append(charts, distribution("model", "model"))
		}
	}
	charts = append(charts, Chart{
		ID:      "ranking",
		Kind:    KindRanking,
		Title:   fmt.Sprintf(chartTitle("ranking", lang), TopN),
		Ranking: TopLiked(snap.Working, TopN, lang),
	})
	return charts
}
