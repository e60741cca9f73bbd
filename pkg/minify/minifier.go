package minify

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/AdrianGjerstad/webforge/pkg/cache"
)

//go:embed worker.js
var workerScript string

const stopGrace = 2 * time.Second

// Minifier shrinks HTML, CSS, JavaScript and XML by delegating to a
// long-lived worker process. The worker is started on first use and
// restarted after it dies; requests are serialized.
type Minifier struct {
	cache   cache.Cache[[]byte]
	logger  *slog.Logger
	stderr  io.Writer
	cmd     *exec.Cmd
	reqW    *os.File
	respR   *os.File
	exited  chan struct{}
	command string
	args    []string
	env     []string
	mu      sync.Mutex
	closed  bool
}

// Option configures a Minifier.
type Option func(*Minifier)

// WithCommand replaces the default "node -e <script>" worker.
// The worker finds its pipes through REQUEST_FD and RESPONSE_FD.
func WithCommand(name string, args ...string) Option {
	return func(m *Minifier) {
		m.command = name
		m.args = args
	}
}

// WithEnv appends KEY=VALUE pairs to the worker environment.
func WithEnv(env ...string) Option {
	return func(m *Minifier) {
		m.env = append(m.env, env...)
	}
}

// WithCache stores results keyed by a hash of type and source.
func WithCache(c cache.Cache[[]byte]) Option {
	return func(m *Minifier) {
		m.cache = c
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Minifier) {
		m.logger = l
	}
}

// WithStderr forwards the worker's stderr to w.
func WithStderr(w io.Writer) Option {
	return func(m *Minifier) {
		m.stderr = w
	}
}

// New creates a Minifier. No process is started until the first Minify.
func New(opts ...Option) *Minifier {
	m := &Minifier{
		command: "node",
		args:    []string{"-e", workerScript},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Minify returns the minified form of src. Cancelling ctx while a request
// is in flight kills the worker.
func (m *Minifier) Minify(ctx context.Context, t SourceType, src []byte) ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidSourceType
	}

	key := cacheKey(t, src)
	if m.cache != nil {
		if out, err := m.cache.Get(ctx, key); err == nil {
			return out, nil
		}
	}

	out, err := m.roundTrip(ctx, t, src)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, key, out); err != nil {
			m.logger.WarnContext(ctx, "failed to cache minified output",
				slog.String("type", t.String()), slog.Any("error", err))
		}
	}
	return out, nil
}

func (m *Minifier) roundTrip(ctx context.Context, t SourceType, src []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.start(); err != nil {
		return nil, err
	}

	proc := m.cmd.Process
	stop := context.AfterFunc(ctx, func() { _ = proc.Kill() })
	defer stop()

	if err := WriteRequest(m.reqW, t, src); err != nil {
		m.stop()
		return nil, fmt.Errorf("%w: writing request: %v", ErrWorkerDied, err)
	}
	out, err := ReadResponse(m.respR)
	if err != nil {
		m.stop()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: reading response: %v", ErrWorkerDied, err)
	}
	return out, nil
}

// start must be called with mu held.
func (m *Minifier) start() error {
	if m.cmd != nil {
		return nil
	}

	reqR, reqW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWorkerStart, err)
	}
	respR, respW, err := os.Pipe()
	if err != nil {
		_ = reqR.Close()
		_ = reqW.Close()
		return fmt.Errorf("%w: %v", ErrWorkerStart, err)
	}

	cmd := exec.Command(m.command, m.args...)
	cmd.Env = append(append(os.Environ(), "REQUEST_FD=3", "RESPONSE_FD=4"), m.env...)
	cmd.ExtraFiles = []*os.File{reqR, respW}
	cmd.Stderr = m.stderr

	err = cmd.Start()
	// The child holds its own copies now.
	_ = reqR.Close()
	_ = respW.Close()
	if err != nil {
		_ = reqW.Close()
		_ = respR.Close()
		return fmt.Errorf("%w: %v", ErrWorkerStart, err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	m.cmd, m.reqW, m.respR, m.exited = cmd, reqW, respR, exited
	m.logger.Debug("minify worker started", slog.Int("pid", cmd.Process.Pid))
	return nil
}

// stop must be called with mu held. Closing the request pipe asks the
// worker to exit; it is killed if it does not within stopGrace.
func (m *Minifier) stop() {
	if m.cmd == nil {
		return
	}

	_ = m.reqW.Close()
	select {
	case <-m.exited:
	case <-time.After(stopGrace):
		_ = m.cmd.Process.Kill()
		<-m.exited
	}
	_ = m.respR.Close()

	m.logger.Debug("minify worker stopped", slog.Int("pid", m.cmd.Process.Pid))
	m.cmd, m.reqW, m.respR, m.exited = nil, nil, nil, nil
}

// Close terminates the worker. Later calls to Minify fail with ErrClosed.
func (m *Minifier) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.stop()
	return nil
}

func cacheKey(t SourceType, src []byte) string {
	h := sha256.New()
	h.Write([]byte{byte(t)})
	h.Write(src)
	return "minify:" + hex.EncodeToString(h.Sum(nil))
}
