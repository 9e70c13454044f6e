package shader

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goglsandbox/glapi"
)

// Stage is one programmable pipeline stage.
type Stage int

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

func (s Stage) glType() glapi.Enum {
	if s == Fragment {
		return glapi.FRAGMENT_SHADER
	}
	return glapi.VERTEX_SHADER
}

// Op is the build step a BuildError came from.
type Op string

const (
	OpCompile  Op = "compile"
	OpLink     Op = "link"
	OpValidate Op = "validate"
)

var (
	ErrCompile         = errors.New("failed to compile shader")
	ErrLink            = errors.New("failed to link program")
	ErrValidate        = errors.New("program failed validation")
	ErrUniformNotFound = errors.New("uniform not found")
)

// BuildError carries the driver's info log for a failed build step.
type BuildError struct {
	Op    Op
	Stage Stage // set for OpCompile
	Log   string
}

func (e *BuildError) Error() string {
	var msg string
	switch e.Op {
	case OpCompile:
		msg = fmt.Sprintf("failed to compile %s shader", e.Stage)
	default:
		msg = e.Unwrap().Error()
	}
	if e.Log == "" {
		return msg
	}
	return msg + ": " + e.Log
}

func (e *BuildError) Unwrap() error {
	switch e.Op {
	case OpCompile:
		return ErrCompile
	case OpValidate:
		return ErrValidate
	}
	return ErrLink
}

// CompiledStage is a shader object that compiled successfully. It is owned
// by the caller until Link consumes it or Release is called.
type CompiledStage struct {
	Stage  Stage
	Handle glapi.Shader
}

// Release deletes the shader object. It is safe to call more than once.
func (cs *CompiledStage) Release(fn glapi.Functions) {
	if cs.Handle == 0 {
		return
	}
	fn.DeleteShader(cs.Handle)
	cs.Handle = 0
}

// Compile creates and compiles one stage. On failure the shader object is
// deleted before returning and the error is a *BuildError holding the log.
func Compile(fn glapi.Functions, stage Stage, src string) (CompiledStage, error) {
	sh := fn.CreateShader(stage.glType())
	if sh == 0 {
		return CompiledStage{}, &BuildError{Op: OpCompile, Stage: stage, Log: "glCreateShader returned 0"}
	}
	fn.ShaderSource(sh, src)
	fn.CompileShader(sh)

	if fn.GetShaderi(sh, glapi.COMPILE_STATUS) == glapi.FALSE {
		logLength := fn.GetShaderi(sh, glapi.INFO_LOG_LENGTH)
		infoLog := strings.TrimSpace(fn.GetShaderInfoLog(sh, logLength))
		log.Printf("Failed to compile %s shader:\n%s", stage, infoLog)
		fn.DeleteShader(sh)
		return CompiledStage{}, &BuildError{Op: OpCompile, Stage: stage, Log: infoLog}
	}
	return CompiledStage{Stage: stage, Handle: sh}, nil
}

// Program is a linked shader program. Delete releases it.
type Program struct {
	Handle glapi.Program
	// Valid is false when glValidateProgram rejected the program;
	// ValidationLog then holds the driver's explanation.
	Valid         bool
	ValidationLog string

	fn    glapi.Functions
	names map[string]string
}

// Link attaches both stages to a new program, links and validates it. The
// stages are detached and deleted on every path, so callers must not reuse
// them. A link failure deletes the program and returns a *BuildError; a
// validation failure is reported through Program.Valid and Program.Err.
func Link(fn glapi.Functions, vs, fs CompiledStage) (*Program, error) {
	if vs.Handle == 0 || fs.Handle == 0 || vs.Stage != Vertex || fs.Stage != Fragment {
		vs.Release(fn)
		fs.Release(fn)
		return nil, &BuildError{Op: OpLink, Log: "need a compiled vertex and a compiled fragment stage"}
	}

	prog := fn.CreateProgram()
	if prog == 0 {
		vs.Release(fn)
		fs.Release(fn)
		return nil, &BuildError{Op: OpLink, Log: "glCreateProgram returned 0"}
	}
	fn.AttachShader(prog, vs.Handle)
	fn.AttachShader(prog, fs.Handle)
	fn.LinkProgram(prog)

	release := func() {
		for _, cs := range []*CompiledStage{&vs, &fs} {
			fn.DetachShader(prog, cs.Handle)
			cs.Release(fn)
		}
	}

	if fn.GetProgrami(prog, glapi.LINK_STATUS) == glapi.FALSE {
		logLength := fn.GetProgrami(prog, glapi.INFO_LOG_LENGTH)
		infoLog := strings.TrimSpace(fn.GetProgramInfoLog(prog, logLength))
		log.Printf("Failed to link program:\n%s", infoLog)
		release()
		fn.DeleteProgram(prog)
		return nil, &BuildError{Op: OpLink, Log: infoLog}
	}

	p := &Program{Handle: prog, Valid: true, fn: fn}
	fn.ValidateProgram(prog)
	if fn.GetProgrami(prog, glapi.VALIDATE_STATUS) == glapi.FALSE {
		logLength := fn.GetProgrami(prog, glapi.INFO_LOG_LENGTH)
		p.Valid = false
		p.ValidationLog = strings.TrimSpace(fn.GetProgramInfoLog(prog, logLength))
		log.Printf("Warning: program %d failed validation: %s", prog, p.ValidationLog)
	}
	release()
	return p, nil
}

// Build compiles both stages of src and links them. If either stage fails to
// compile nothing is linked and every shader object created is released.
func Build(fn glapi.Functions, src Source) (*Program, error) {
	vs, err := Compile(fn, Vertex, src.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := Compile(fn, Fragment, src.Fragment)
	if err != nil {
		vs.Release(fn)
		return nil, err
	}
	return Link(fn, vs, fs)
}

// BuildFile loads a two-section asset and builds it.
func BuildFile(fn glapi.Functions, path string) (*Program, error) {
	src, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(fn, src)
}

// Err returns a *BuildError for a program that failed validation, or nil.
func (p *Program) Err() error {
	if p.Valid {
		return nil
	}
	return &BuildError{Op: OpValidate, Log: p.ValidationLog}
}

// SetNames installs a mapping from source uniform names to the names the
// driver sees, for programs built from translated source.
func (p *Program) SetNames(names map[string]string) {
	p.names = names
}

// Use makes p the current program.
func (p *Program) Use() {
	p.fn.UseProgram(p.Handle)
}

// Delete releases the program. Later calls do nothing.
func (p *Program) Delete() {
	if p == nil || p.Handle == 0 {
		return
	}
	p.fn.DeleteProgram(p.Handle)
	p.Handle = 0
}

// UniformLocation is a uniform resolved against one program. A location
// that was not found never reaches the driver.
type UniformLocation struct {
	Name    string
	program *Program
	loc     glapi.Uniform
}

// Uniform looks up name in p. If the program has no such active uniform the
// returned location is invalid and the error is ErrUniformNotFound.
func (p *Program) Uniform(name string) (UniformLocation, error) {
	mapped := name
	if m, ok := p.names[name]; ok {
		mapped = m
	}
	u := UniformLocation{Name: name, program: p, loc: p.fn.GetUniformLocation(p.Handle, mapped)}
	if !u.Valid() {
		return u, fmt.Errorf("%w: %q", ErrUniformNotFound, name)
	}
	return u, nil
}

// Valid reports whether u refers to an active uniform.
func (u UniformLocation) Valid() bool {
	return u.program != nil && u.loc != glapi.NoUniform
}

// Location returns the raw location.
func (u UniformLocation) Location() glapi.Uniform {
	if u.program == nil {
		return glapi.NoUniform
	}
	return u.loc
}

// SetVec4 uploads v. The owning program must be current.
func (u UniformLocation) SetVec4(v mgl32.Vec4) error {
	if !u.Valid() {
		return fmt.Errorf("%w: %q", ErrUniformNotFound, u.Name)
	}
	u.program.fn.Uniform4f(u.loc, v[0], v[1], v[2], v[3])
	return nil
}
