package datasource

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/orbital/pkg/loader"
	"github.com/vanderheijden86/orbital/pkg/metrics"
	"github.com/vanderheijden86/orbital/pkg/model"
)

// Load reads a single data source, detecting its format.
func Load(ctx context.Context, path string) ([]model.Item, error) {
	defer metrics.Timer(metrics.DataLoad)()

	kind, err := Detect(path)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindJSON:
		return loader.LoadFile(path)
	case KindSQLite:
		return loadSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported data source: %s", path)
	}
}

// LoadAll reads several data sources concurrently and concatenates
// their items in argument order, so the merged category ordering is
// stable no matter which source finishes first. Duplicate ids across
// sources surface later, in the graph build.
func LoadAll(ctx context.Context, paths []string) ([]model.Item, error) {
	if len(paths) == 1 {
		return Load(ctx, paths[0])
	}

	results := make([][]model.Item, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			items, err := Load(ctx, path)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.Item
	for _, items := range results {
		merged = append(merged, items...)
	}
	return merged, nil
}
