// Package sdlcontext provides graphics.Context on an SDL2 window.
package sdlcontext

import (
	"fmt"
	"log"
	"runtime"

	options "github.com/richinsley/goglsandbox/options"
	"github.com/veandco/go-sdl2/sdl"
)

// Context is an SDL window with a 4.1 core profile context.
type Context struct {
	window      *sdl.Window
	glctx       sdl.GLContext
	shouldClose bool
}

// New creates a window and makes its context current on the calling thread.
// InitGraphics must have been called first.
func New(opts *options.Options) (*Context, error) {
	attrs := []struct {
		attr  sdl.GLattr
		value int
	}{
		{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
		{sdl.GL_CONTEXT_MINOR_VERSION, 1},
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG},
		{sdl.GL_DOUBLEBUFFER, 1},
	}
	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			return nil, fmt.Errorf("failed to set GL attribute %d: %w", a.attr, err)
		}
	}

	win, err := sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(opts.Width), int32(opts.Height), sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	glctx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to create GL context: %w", err)
	}

	c := &Context{window: win, glctx: glctx}
	c.MakeCurrent()
	if err := sdl.GLSetSwapInterval(opts.SwapInterval); err != nil {
		log.Printf("Warning: could not set swap interval %d: %v", opts.SwapInterval, err)
	}
	return c, nil
}

func (c *Context) MakeCurrent() {
	if err := c.window.GLMakeCurrent(c.glctx); err != nil {
		log.Printf("Warning: could not make GL context current: %v", err)
	}
}

// Shutdown deletes the GL context and destroys the window.
func (c *Context) Shutdown() {
	sdl.GLDeleteContext(c.glctx)
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.shouldClose
}

func (c *Context) EndFrame() {
	c.window.GLSwap()
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch evt := e.(type) {
		case *sdl.QuitEvent:
			c.shouldClose = true
		case *sdl.KeyboardEvent:
			if evt.State == sdl.PRESSED && evt.Keysym.Sym == sdl.K_ESCAPE {
				c.shouldClose = true
			}
		}
	}
}

func (c *Context) GetFramebufferSize() (int, int) {
	w, h := c.window.GLGetDrawableSize()
	return int(w), int(h)
}

// Time is seconds since SDL was initialized.
func (c *Context) Time() float64 {
	return float64(sdl.GetTicks()) / 1000.0
}

// InitGraphics initializes SDL video. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}
	log.Printf("SDL Initialized")
	return nil
}

// TerminateGraphics shuts SDL down. Must be called from the main thread.
func TerminateGraphics() {
	sdl.Quit()
	log.Printf("SDL Terminated")
}
