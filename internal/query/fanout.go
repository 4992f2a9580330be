package query

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Fanout 并发执行互不依赖的查询（页查询 + 计数查询），任一失败整体失败
func Fanout(ctx context.Context, fns ...func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		fn := fn
		g.Go(func() error { return fn(ctx) })
	}
	return g.Wait()
}
