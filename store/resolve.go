package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

// maxConcurrentResolves bounds the user lookups in flight during a load.
const maxConcurrentResolves = 8

// resolveRecords rebuilds submissions in record order. The first failed
// author resolution cancels the rest and is returned.
func resolveRecords(ctx context.Context, recs []model.Record, defaultKind model.Kind, dir model.UserDirectory) ([]*model.Submission, error) {
	subs := make([]*model.Submission, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentResolves)
	for i, rec := range recs {
		g.Go(func() error {
			sub, err := model.FromRecord(gctx, rec, defaultKind, dir)
			if err != nil {
				return err
			}
			subs[i] = sub
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return subs, nil
}
