package views

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/truckline/dispatchdesk/internal/listview"
	"github.com/truckline/dispatchdesk/pkg/api"
)

// dashboardConcurrency bounds parallel collection loads.
const dashboardConcurrency = 4

// Summary is one dashboard card.
type Summary struct {
	Name    string
	Title   string
	Total   int
	Buckets []listview.BucketCount
	Err     error
}

// Summarize implements View.
func (d *Definition[T]) Summarize(ctx context.Context, client *api.Client) Summary {
	return d.summarize(ctx, d.Load(client))
}

func (d *Definition[T]) summarize(ctx context.Context, load listview.LoadFunc[T]) Summary {
	summary := Summary{Name: d.Entity, Title: d.Heading}

	items, err := load(ctx)
	if err != nil {
		summary.Err = &listview.FetchError{Source: d.Entity, Err: err}
		summary.Buckets = bucketCounts(d.Buckets, nil)

		return summary
	}

	summary.Total = len(items)
	summary.Buckets = bucketCounts(d.Buckets, listview.Partition(items, d.Buckets))

	return summary
}

func bucketCounts[T any](buckets []listview.Bucket[T], counts map[string]int) []listview.BucketCount {
	out := make([]listview.BucketCount, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, listview.BucketCount{Key: b.Key, Label: b.Label, Count: counts[b.Key]})
	}

	return out
}

// LoadDashboard summarizes every view concurrently. A failing view yields a
// card with Err set; the others are unaffected.
func LoadDashboard(ctx context.Context, client *api.Client, views []View) []Summary {
	summaries := make([]Summary, len(views))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)

	for i, v := range views {
		g.Go(func() error {
			summaries[i] = v.Summarize(gctx, client)
			return nil
		})
	}

	_ = g.Wait()

	return summaries
}
