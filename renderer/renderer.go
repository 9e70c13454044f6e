// Package renderer draws one mesh with one shader program per frame.
package renderer

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goglsandbox/glapi"
	"github.com/richinsley/goglsandbox/graphics"
	"github.com/richinsley/goglsandbox/mesh"
	"github.com/richinsley/goglsandbox/options"
	"github.com/richinsley/goglsandbox/shader"
	"github.com/richinsley/goglsandbox/translator"
)

// starting colour of the u_Color animation
var pulseBase = mgl32.Vec4{0.0, 0.3, 0.8, 1.0}

const pulseStep = 0.05

type Renderer struct {
	fn      glapi.Functions
	context graphics.Context
	opts    *options.Options

	mesh    *mesh.Mesh
	program *shader.Program
	color   shader.UniformLocation
	pulse   *Pulse

	frame    int64
	shutdown bool
}

// New uploads the configured mesh and builds its program. The context must
// be current on the calling thread. Nothing is left allocated on error.
func New(fn glapi.Functions, ctx graphics.Context, opts *options.Options) (*Renderer, error) {
	log.Printf("OpenGL %s, GLSL %s (%s)", fn.GetString(glapi.VERSION),
		fn.GetString(glapi.SHADING_LANGUAGE_VERSION), fn.GetString(glapi.RENDERER))

	data, err := mesh.ByName(opts.Mesh)
	if err != nil {
		return nil, err
	}

	src, err := loadSource(opts)
	if err != nil {
		return nil, err
	}
	var names map[string]string
	if opts.Translate {
		target, err := translator.ParseTarget(opts.TranslateTarget)
		if err != nil {
			return nil, err
		}
		src, names, err = translator.Translate(src, target)
		if err != nil {
			return nil, err
		}
	}

	m, err := mesh.Upload(fn, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload mesh: %w", err)
	}

	program, err := shader.Build(fn, src)
	if err != nil {
		m.Delete()
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	if names != nil {
		program.SetNames(names)
	}
	if opts.StrictValidate {
		if err := program.Err(); err != nil {
			program.Delete()
			m.Delete()
			return nil, err
		}
	}

	r := &Renderer{
		fn:      fn,
		context: ctx,
		opts:    opts,
		mesh:    m,
		program: program,
	}

	if opts.Animate {
		r.color, err = program.Uniform(shader.ColorUniform)
		if err != nil {
			log.Printf("Warning: %v, animation disabled", err)
		} else {
			r.pulse = NewPulse(pulseBase, pulseStep)
		}
	}

	c := opts.ClearColor
	fn.ClearColor(c[0], c[1], c[2], c[3])
	return r, nil
}

// loadSource reads the shader file or picks a built-in. Translation expects
// GLSL ES input, so the ES built-in is chosen then.
func loadSource(opts *options.Options) (shader.Source, error) {
	if opts.ShaderFile != "" {
		src, err := shader.LoadFile(opts.ShaderFile)
		if err != nil {
			return src, err
		}
		if src.Vertex == "" || src.Fragment == "" {
			log.Printf("Warning: %s is missing a stage", opts.ShaderFile)
		}
		return src, nil
	}
	return shader.Builtin(opts.Builtin, opts.Translate)
}

// Program is the linked program in use.
func (r *Renderer) Program() *shader.Program {
	return r.program
}

// Frames is the number of frames rendered so far.
func (r *Renderer) Frames() int64 {
	return r.frame
}

// RenderFrame clears, sets the animated colour and draws the mesh.
func (r *Renderer) RenderFrame() {
	width, height := r.context.GetFramebufferSize()
	r.fn.Viewport(0, 0, int32(width), int32(height))
	r.fn.Clear(glapi.COLOR_BUFFER_BIT)

	r.program.Use()
	if r.pulse != nil && r.color.Valid() {
		if err := r.color.SetVec4(r.pulse.Next()); err != nil {
			log.Printf("Warning: %v", err)
		}
	}
	r.mesh.Draw()
	r.frame++
}

func (r *Renderer) done() bool {
	if r.opts.Frames > 0 && r.frame >= int64(r.opts.Frames) {
		return true
	}
	return r.context.ShouldClose()
}

// Run renders until the window closes or the frame limit is reached. When
// recording, every frame is also read back and encoded.
func (r *Renderer) Run() error {
	if r.opts.Record != "" {
		return r.runRecord()
	}
	start := r.context.Time()
	for !r.done() {
		r.RenderFrame()
		r.context.EndFrame()
	}
	r.logRate(start)
	return nil
}

// logRate reports the frame count and the average rate since start.
func (r *Renderer) logRate(start float64) {
	elapsed := r.context.Time() - start
	if elapsed <= 0 {
		log.Printf("Rendered %d frames", r.frame)
		return
	}
	log.Printf("Rendered %d frames in %.2fs (%.1f fps)", r.frame, elapsed, float64(r.frame)/elapsed)
}

// Shutdown releases the program and mesh. The context itself is shut down by
// the caller.
func (r *Renderer) Shutdown() {
	if r.shutdown {
		return
	}
	r.shutdown = true
	r.fn.UseProgram(0)
	r.program.Delete()
	r.mesh.Delete()
}
