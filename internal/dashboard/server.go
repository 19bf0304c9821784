package dashboard

import (
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

// Handler renders composition charts for the queue returned by snapshot:
// a pie of media kinds and a bar of items per subreddit.
func Handler(snapshot func() []domain.MediaItem) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := snapshot()

		// 1. Kind breakdown
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Media Kinds"}),
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		)

		kindCounts := make(map[string]int)
		for _, item := range items {
			kindCounts[string(item.Kind)]++
		}

		var pieItems []opts.PieData
		for _, k := range sortedKeys(kindCounts) {
			pieItems = append(pieItems, opts.PieData{Name: k, Value: kindCounts[k]})
		}
		pie.AddSeries("Items", pieItems)

		// 2. Subreddit contribution
		bar := charts.NewBar()
		bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Items per Subreddit"}))

		subCounts := make(map[string]int)
		for _, item := range items {
			subCounts[item.Subreddit]++
		}

		var barX []string
		var barY []opts.BarData
		for _, k := range sortedKeys(subCounts) {
			barX = append(barX, k)
			barY = append(barY, opts.BarData{Value: subCounts[k]})
		}
		bar.SetXAxis(barX).AddSeries("Items", barY)

		pie.Render(w)
		bar.Render(w)
	})
}

// StartServer serves the dashboard on the given port until the listener fails.
func StartServer(port string, snapshot func() []domain.MediaItem) error {
	mux := http.NewServeMux()
	mux.Handle("/", Handler(snapshot))
	return http.ListenAndServe(":"+port, mux)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
