// Package minify shrinks web sources through an external worker process.
//
// The default worker runs html-minifier under node. It receives two extra
// file descriptors, announced as REQUEST_FD and RESPONSE_FD, and speaks a
// length-prefixed protocol over them:
//
//	request:  type (1 byte) | length (8 bytes, big endian) | source
//	response: length (8 bytes, big endian) | minified source
//
// A Minifier is safe for concurrent use; requests are handled one at a
// time. Results can be cached with WithCache, e.g. in Redis so several
// build machines share work:
//
//	m := minify.New(minify.WithCache(cache.NewRedis(client, "minify", 0)))
//	defer m.Close()
//	out, err := m.Minify(ctx, minify.CSS, src)
package minify
