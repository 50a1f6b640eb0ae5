// Package gpu acquires a WebGPU device and implements the render
// package's upload sinks on real GPU buffers. The render package stays
// free of GPU imports; everything device-facing lives here.
package gpu

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	defaultWindowWidth  = 1280
	defaultWindowHeight = 720
	defaultWindowTitle  = "Flare"
)

// Options configures context acquisition. Zero values select the
// defaults above.
type Options struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string

	// Headless skips the window and surface entirely. The context still
	// owns a device and queue, enough for buffer work and compute.
	Headless bool
}

func (o Options) withDefaults() Options {
	if o.WindowWidth <= 0 {
		o.WindowWidth = defaultWindowWidth
	}
	if o.WindowHeight <= 0 {
		o.WindowHeight = defaultWindowHeight
	}
	if o.WindowTitle == "" {
		o.WindowTitle = defaultWindowTitle
	}
	return o
}

// Context owns the GLFW window and the WebGPU objects that every buffer
// in the engine allocates against.
type Context struct {
	window *glfw.Window

	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig wgpu.SurfaceConfiguration

	released bool
}

// NewContext opens a window (unless opts.Headless), picks a
// high-performance adapter compatible with its surface and configures a
// vsynced swapchain. GLFW requires the calling goroutine to stay on its
// OS thread, so it is locked here.
func NewContext(opts Options) (*Context, error) {
	opts = opts.withDefaults()
	ctx := &Context{}

	if !opts.Headless {
		runtime.LockOSThread()
		if err := glfw.Init(); err != nil {
			return nil, fmt.Errorf("failed to init glfw: %w", err)
		}

		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // wgpu brings its own backend, no OpenGL
		glfw.WindowHint(glfw.Resizable, glfw.True)

		win, err := glfw.CreateWindow(opts.WindowWidth, opts.WindowHeight, opts.WindowTitle, nil, nil)
		if err != nil {
			glfw.Terminate()
			return nil, fmt.Errorf("failed to create window: %w", err)
		}
		ctx.window = win
	}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	if ctx.window != nil {
		ctx.surface = instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(ctx.window))
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: ctx.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		ctx.Dispose()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	ctx.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Flare Device",
	})
	if err != nil {
		ctx.Dispose()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	ctx.device = device
	ctx.queue = device.GetQueue()

	if ctx.surface != nil {
		caps := ctx.surface.GetCapabilities(adapter)
		ctx.surfaceConfig = wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      caps.Formats[0],
			Width:       uint32(opts.WindowWidth),
			Height:      uint32(opts.WindowHeight),
			PresentMode: wgpu.PresentModeFifo, // vsync
			AlphaMode:   caps.AlphaModes[0],
		}
		ctx.surface.Configure(adapter, device, &ctx.surfaceConfig)
	}

	return ctx, nil
}

// Device returns the WebGPU device.
func (c *Context) Device() *wgpu.Device { return c.device }

// Queue returns the device's command queue.
func (c *Context) Queue() *wgpu.Queue { return c.queue }

// Window returns the GLFW window, nil for headless contexts.
func (c *Context) Window() *glfw.Window { return c.window }

// SurfaceFormat returns the configured swapchain texture format. It is
// the zero format for headless contexts.
func (c *Context) SurfaceFormat() wgpu.TextureFormat {
	return c.surfaceConfig.Format
}

// Alive reports whether the context still owns its GPU objects.
func (c *Context) Alive() bool {
	return c != nil && !c.released
}

// ProcessEvents pumps the window event loop and reports false once the
// window has been asked to close. Headless contexts report true until
// disposed.
func (c *Context) ProcessEvents() bool {
	if c.released {
		return false
	}
	if c.window == nil {
		return true
	}
	if c.window.ShouldClose() {
		return false
	}
	glfw.PollEvents()
	return true
}

// Dispose releases the GPU objects and destroys the window. Calling it
// again does nothing.
func (c *Context) Dispose() {
	if c.released {
		return
	}
	c.released = true

	if c.device != nil {
		c.device.Release()
		c.device = nil
		c.queue = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.window != nil {
		c.window.Destroy()
		c.window = nil
		glfw.Terminate()
	}
}
