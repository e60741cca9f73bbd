package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AdrianGjerstad/webforge/pkg/httpdate"
	"github.com/AdrianGjerstad/webforge/pkg/mimetype"
)

// staticChunkSize bounds how much of a file is held in memory at once.
const staticChunkSize = 4096

// StaticProcessor serves a single file resolved against the component
// path. A missing file or one that is not a regular file is an Internal
// failure.
func StaticProcessor(file string) ProcessorFunc {
	return func(req *Request, res *Response) error {
		path := filepath.Join(res.ComponentPath(), filepath.FromSlash(file))
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return InternalError("static file %q does not exist", file).Wrap(err)
			}
			return InternalError("failed to stat static file %q: %v", file, err).Wrap(err)
		}
		if !info.Mode().IsRegular() {
			return InternalError("static path %q is not a regular file", file)
		}
		return serveFile(req, res, path, info)
	}
}

// StaticMiddleware serves files from dir (relative to the component path)
// for request paths under the URL prefix base. Requests outside base, and
// paths that do not name a regular file, are passed on. Parent directory
// segments fail with NotFound.
func StaticMiddleware(dir, base string) Middleware {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return MiddlewareFunc(func(req *Request, res *Response, next NextFunc) {
		rel, ok := strings.CutPrefix(req.Path(), base)
		if !ok {
			next(nil)
			return
		}
		rel = strings.TrimLeft(rel, "/")

		for seg := range strings.SplitSeq(rel, "/") {
			if seg == ".." {
				next(NotFoundError("path traversal attempt detected"))
				return
			}
		}

		root := filepath.Join(res.ComponentPath(), dir)
		path := filepath.Join(root, filepath.FromSlash(rel))
		if !within(root, path) {
			next(NotFoundError("other path traversal attempt caught"))
			return
		}

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			next(nil)
			return
		}

		if err := serveFile(req, res, path, info); err != nil {
			next(err)
		}
	})
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func serveFile(req *Request, res *Response, path string, info os.FileInfo) error {
	mtime := httpdate.Truncate(info.ModTime())

	res.SetHeader("content-length", strconv.FormatInt(info.Size(), 10))
	res.SetHeader("content-type", mimetype.FromFilename(path))
	res.SetHeader("last-modified", httpdate.Format(mtime))

	if ims, ok := req.Header("if-modified-since"); ok {
		if since, err := httpdate.Parse(ims); err == nil && !mtime.After(since) {
			res.SetStatus(304)
			res.Finish()
			return nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return InternalError("failed to open static file: %v", err).Wrap(err)
	}
	defer f.Close()

	if err := res.WriteHead(); err != nil {
		return err
	}

	// Once the head is out a short body is all the client can get, so
	// read and write failures just end the response.
	buf := make([]byte, staticChunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, err := res.Write(buf[:n]); err != nil {
				break
			}
		}
		if rerr != nil {
			break
		}
	}

	res.Finish()
	return nil
}
