// Package cache holds artifacts webforge can reuse between renders:
// parsed templates within one process and minified output across
// processes.
//
// Memory is an LRU with optional capacity and TTL. Redis stores byte values
// in a shared Redis server under a key prefix. Loader adds
// compute-on-miss with singleflight deduplication:
//
//	l := cache.NewLoader[*Template](cache.NewMemory[*Template]())
//	tpl, err := l.Load(ctx, "index.html", func(ctx context.Context) (*Template, error) {
//		return parse("index.html")
//	})
package cache
