package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/richinsley/goglsandbox/glapi"
	"github.com/richinsley/goglsandbox/glapi/gogl"
	"github.com/richinsley/goglsandbox/glfwcontext"
	"github.com/richinsley/goglsandbox/graphics"
	"github.com/richinsley/goglsandbox/options"
	"github.com/richinsley/goglsandbox/renderer"
	"github.com/richinsley/goglsandbox/sdlcontext"
)

func init() {
	runtime.LockOSThread()
}

// backend is one window library.
type backend struct {
	start     func() error
	terminate func()
	open      func(*options.Options) (graphics.Context, error)
}

var backends = map[string]backend{
	"glfw": {
		start:     glfwcontext.InitGraphics,
		terminate: glfwcontext.TerminateGraphics,
		open: func(o *options.Options) (graphics.Context, error) {
			return glfwcontext.New(o)
		},
	},
	"sdl": {
		start:     sdlcontext.InitGraphics,
		terminate: sdlcontext.TerminateGraphics,
		open: func(o *options.Options) (graphics.Context, error) {
			return sdlcontext.New(o)
		},
	},
}

func run(opts *options.Options) error {
	b := backends[opts.Backend]
	if err := b.start(); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", opts.Backend, err)
	}
	defer b.terminate()

	ctx, err := b.open(opts)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	gl := gogl.Functions{}
	if err := gl.Init(); err != nil {
		return err
	}
	var fn glapi.Functions = gl
	if opts.Debug {
		log.Printf("OpenGL error checking enabled (%s on error)", opts.Policy())
		fn = glapi.NewDebug(fn, opts.Policy())
	}

	r, err := renderer.New(fn, ctx, opts)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	log.Println("Starting render loop...")
	return r.Run()
}

func main() {
	opts, err := options.Parse(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	if err := run(opts); err != nil {
		log.Fatalf("%v", err)
	}
}
