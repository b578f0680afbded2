package assets

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Callback receives a GPU texture or the error that prevented it.
type Callback func(tex rl.Texture2D, err error)

type decoded struct {
	key     string
	img     image.Image
	cubemap bool
	err     error
}

// Loader decodes images on worker goroutines and uploads them on the render
// thread. Callbacks run inside Poll, in completion order, so scene mutation
// never leaves the render thread. Results are cached by path.
type Loader struct {
	uploader Uploader
	log      *slog.Logger
	sem      *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	done []decoded

	// Render-thread state.
	cache   map[string]rl.Texture2D
	failed  map[string]error
	waiters map[string][]Callback
	closed  bool
}

type Option func(*Loader)

func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// WithWorkers bounds concurrent decodes.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

func NewLoader(uploader Uploader, opts ...Option) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		uploader: uploader,
		log:      slog.Default(),
		sem:      semaphore.NewWeighted(4),
		ctx:      ctx,
		cancel:   cancel,
		cache:    make(map[string]rl.Texture2D),
		failed:   make(map[string]error),
		waiters:  make(map[string][]Callback),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadTexture requests the image at path. A cached result is delivered
// immediately; otherwise cb runs during a later Poll.
func (l *Loader) LoadTexture(path string, cb Callback) {
	l.request(path, cb, func() decoded {
		img, err := DecodeFile(path)
		return decoded{key: path, img: img, err: err}
	})
}

// LoadCubemap requests a cubemap from six face files ordered
// +X, -X, +Y, -Y, +Z, -Z.
func (l *Loader) LoadCubemap(faces [6]string, cb Callback) {
	key := "cubemap:" + strings.Join(faces[:], "|")
	l.request(key, cb, func() decoded {
		strip, err := l.decodeCubemap(faces)
		return decoded{key: key, img: strip, cubemap: true, err: err}
	})
}

func (l *Loader) decodeCubemap(paths [6]string) (image.Image, error) {
	faces := make([]image.Image, len(paths))
	g, ctx := errgroup.WithContext(l.ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := DecodeFile(path)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			faces[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ComposeCubemapStrip(faces)
}

func (l *Loader) request(key string, cb Callback, work func() decoded) {
	if l.closed {
		if cb != nil {
			cb(rl.Texture2D{}, context.Canceled)
		}
		return
	}
	if tex, ok := l.cache[key]; ok {
		if cb != nil {
			cb(tex, nil)
		}
		return
	}
	if err, ok := l.failed[key]; ok {
		if cb != nil {
			cb(rl.Texture2D{}, err)
		}
		return
	}
	_, inFlight := l.waiters[key]
	l.waiters[key] = append(l.waiters[key], cb)
	if inFlight {
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.sem.Acquire(l.ctx, 1); err != nil {
			return
		}
		res := work()
		l.sem.Release(1)
		if l.ctx.Err() != nil {
			return
		}
		l.mu.Lock()
		l.done = append(l.done, res)
		l.mu.Unlock()
	}()
}

// Poll uploads every finished decode and runs its callbacks. It returns the
// number of requests resolved. Call once per frame from the render thread.
func (l *Loader) Poll() int {
	if l.closed {
		return 0
	}
	l.mu.Lock()
	batch := l.done
	l.done = nil
	l.mu.Unlock()

	for _, res := range batch {
		tex, err := l.upload(res)
		if err != nil {
			l.failed[res.key] = err
			l.log.Warn("asset unavailable", "asset", res.key, "err", err)
		} else {
			l.cache[res.key] = tex
		}
		cbs := l.waiters[res.key]
		delete(l.waiters, res.key)
		for _, cb := range cbs {
			if cb != nil {
				cb(tex, err)
			}
		}
	}
	return len(batch)
}

func (l *Loader) upload(res decoded) (rl.Texture2D, error) {
	if res.err != nil {
		return rl.Texture2D{}, res.err
	}
	if res.cubemap {
		return l.uploader.UploadCubemap(res.img)
	}
	return l.uploader.UploadTexture(res.img)
}

// Pending reports requests that have not been resolved by Poll yet.
func (l *Loader) Pending() int {
	return len(l.waiters)
}

// Wait blocks until every started decode has finished. Results still need a
// Poll to be delivered.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close cancels outstanding decodes, drops undelivered results and unloads
// every uploaded texture. Safe to call more than once.
func (l *Loader) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.cancel()

	l.mu.Lock()
	l.done = nil
	l.mu.Unlock()

	for key, tex := range l.cache {
		l.uploader.Unload(tex)
		delete(l.cache, key)
	}
	clear(l.waiters)
	clear(l.failed)
}
