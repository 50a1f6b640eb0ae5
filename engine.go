// Package flare wires the vertex store, GPU upload and animation
// packages into a single engine facade.
package flare

import (
	"errors"

	"github.com/flare2d/flare/anim"
	"github.com/flare2d/flare/gpu"
)

// Config controls how an Engine boots. Zero values fall back to the
// gpu package's window defaults.
type Config struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string

	// Headless skips window creation and renders to no surface. Buffers
	// and uploads still work against the adapter's default device.
	Headless bool

	// Debug enables debug logging on the engine logger.
	Debug bool
}

func (c Config) withDefaults() Config {
	if c.WindowWidth <= 0 {
		c.WindowWidth = 1280
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = 720
	}
	if c.WindowTitle == "" {
		c.WindowTitle = "Flare"
	}
	return c
}

// Engine owns one GPU context, one juggler and one clock. Create it
// with NewEngine, then Boot it before creating buffers.
type Engine struct {
	cfg     Config
	log     Logger
	ctx     *gpu.Context
	juggler *anim.Juggler
	clock   *anim.Clock
	frameId uint64
}

func NewEngine() *Engine {
	return &Engine{
		log:     NewDefaultLogger("flare", false),
		juggler: anim.NewJuggler(),
		clock:   anim.NewClock(),
	}
}

// Boot acquires the window and GPU device described by cfg. Booting
// twice is an error; dispose the engine and create a new one instead.
func (e *Engine) Boot(cfg Config) error {
	if e.ctx != nil {
		return errors.New("engine is already booted")
	}
	cfg = cfg.withDefaults()
	e.log.SetDebug(cfg.Debug)

	ctx, err := gpu.NewContext(gpu.Options{
		WindowWidth:  cfg.WindowWidth,
		WindowHeight: cfg.WindowHeight,
		WindowTitle:  cfg.WindowTitle,
		Headless:     cfg.Headless,
	})
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.ctx = ctx
	e.clock = anim.NewClock()
	e.log.Infof("booted %dx%d %q (headless=%v)",
		cfg.WindowWidth, cfg.WindowHeight, cfg.WindowTitle, cfg.Headless)
	return nil
}

// AdvanceFrame pumps window events and forwards the wall-clock delta to
// the juggler. It reports whether the engine should keep running; false
// means the window was closed or the engine is not booted.
func (e *Engine) AdvanceFrame() bool {
	if e.ctx == nil {
		return false
	}
	if !e.ctx.ProcessEvents() {
		e.log.Infof("window closed after %d frames", e.frameId)
		return false
	}
	dt := e.clock.Tick()
	e.juggler.AdvanceTime(dt)
	e.frameId++
	return true
}

// FrameId returns the number of frames advanced so far.
func (e *Engine) FrameId() uint64 {
	return e.frameId
}

func (e *Engine) Juggler() *anim.Juggler {
	return e.juggler
}

// Context returns the GPU context, or nil before Boot.
func (e *Engine) Context() *gpu.Context {
	return e.ctx
}

func (e *Engine) Logger() Logger {
	return e.log
}

// SetLogger replaces the engine logger. A nil logger installs a no-op
// one, so callers can always log without checking.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NewNopLogger()
	}
	e.log = l
}

// NewVertexBuffer creates a vertex buffer on the engine's device. The
// label shows up in graphics debuggers. The buffer allocates lazily on
// first upload, so this works before Boot but uploads will fail until
// the engine is booted.
func (e *Engine) NewVertexBuffer(label string) *gpu.VertexBuffer {
	return gpu.NewVertexBuffer(e.ctx, label)
}

// NewIndexBuffer creates an index buffer on the engine's device.
func (e *Engine) NewIndexBuffer(label string) *gpu.IndexBuffer {
	return gpu.NewIndexBuffer(e.ctx, label)
}

// Dispose releases the GPU context and drops every juggled object.
// Safe to call on an engine that never booted.
func (e *Engine) Dispose() {
	if e.ctx != nil {
		e.log.Infof("shutting down after %d frames", e.frameId)
		e.ctx.Dispose()
		e.ctx = nil
	}
	e.juggler.Purge()
}
