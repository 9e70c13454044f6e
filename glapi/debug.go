package glapi

import (
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"strings"
)

// Policy selects what Debug does once a call leaves an error behind.
type Policy int

const (
	// Panic halts at the offending call.
	Panic Policy = iota
	// Log reports the error and keeps going.
	Log
)

func (p Policy) String() string {
	switch p {
	case Panic:
		return "panic"
	case Log:
		return "log"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts the names printed by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "panic", "abort", "":
		return Panic, nil
	case "log":
		return Log, nil
	}
	return Panic, fmt.Errorf("unknown debug policy %q", s)
}

// maxDrain bounds how many queued errors are read after one call; a lost
// context can keep reporting errors forever.
const maxDrain = 32

// CallError describes a call that left errors in the GL error queue.
type CallError struct {
	Call  string
	File  string
	Line  int
	Codes []Enum
}

func (e *CallError) Error() string {
	names := make([]string, len(e.Codes))
	for i, c := range e.Codes {
		names[i] = fmt.Sprintf("%s (0x%04x)", ErrorString(c), uint32(c))
	}
	return fmt.Sprintf("OpenGL error %s in %s at %s:%d", strings.Join(names, ", "), e.Call, e.File, e.Line)
}

// Debug wraps another Functions and checks the error queue around every
// call: pending errors are cleared, the call is issued, and anything the
// call produced is reported with the caller's source location.
type Debug struct {
	fn     Functions
	policy Policy
	errors int
}

var _ Functions = (*Debug)(nil)

func NewDebug(fn Functions, policy Policy) *Debug {
	return &Debug{fn: fn, policy: policy}
}

// Errors returns the number of calls reported so far.
func (d *Debug) Errors() int {
	return d.errors
}

func (d *Debug) clearErrors() {
	for i := 0; i < maxDrain && d.fn.GetError() != NO_ERROR; i++ {
	}
}

func (d *Debug) check(name string, args ...interface{}) {
	var codes []Enum
	for i := 0; i < maxDrain; i++ {
		e := d.fn.GetError()
		if e == NO_ERROR {
			break
		}
		codes = append(codes, e)
	}
	if len(codes) == 0 {
		return
	}
	d.errors++

	// skip check and the wrapping method
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "???"
	}
	strArgs := make([]string, len(args))
	for i, a := range args {
		strArgs[i] = fmt.Sprint(a)
	}
	err := &CallError{
		Call:  name + "(" + strings.Join(strArgs, ", ") + ")",
		File:  filepath.Base(file),
		Line:  line,
		Codes: codes,
	}
	if d.policy == Panic {
		panic(err)
	}
	log.Printf("[OpenGL Error] %v", err)
}

// GetError is passed through unchecked; checking it would drain the queue.
func (d *Debug) GetError() Enum {
	return d.fn.GetError()
}

func (d *Debug) GetString(name Enum) string {
	d.clearErrors()
	s := d.fn.GetString(name)
	d.check("GetString", name)
	return s
}

func (d *Debug) ClearColor(r, g, b, a float32) {
	d.clearErrors()
	d.fn.ClearColor(r, g, b, a)
	d.check("ClearColor", r, g, b, a)
}

func (d *Debug) Clear(mask Enum) {
	d.clearErrors()
	d.fn.Clear(mask)
	d.check("Clear", mask)
}

func (d *Debug) Viewport(x, y, width, height int32) {
	d.clearErrors()
	d.fn.Viewport(x, y, width, height)
	d.check("Viewport", x, y, width, height)
}

func (d *Debug) ReadPixels(x, y, width, height int32, format, ty Enum, data []byte) {
	d.clearErrors()
	d.fn.ReadPixels(x, y, width, height, format, ty, data)
	d.check("ReadPixels", x, y, width, height, format, ty, len(data))
}

func (d *Debug) CreateBuffer() Buffer {
	d.clearErrors()
	b := d.fn.CreateBuffer()
	d.check("CreateBuffer")
	return b
}

func (d *Debug) BindBuffer(target Enum, b Buffer) {
	d.clearErrors()
	d.fn.BindBuffer(target, b)
	d.check("BindBuffer", target, b)
}

func (d *Debug) BufferData(target Enum, data []byte, usage Enum) {
	d.clearErrors()
	d.fn.BufferData(target, data, usage)
	d.check("BufferData", target, len(data), usage)
}

func (d *Debug) DeleteBuffer(b Buffer) {
	d.clearErrors()
	d.fn.DeleteBuffer(b)
	d.check("DeleteBuffer", b)
}

func (d *Debug) CreateVertexArray() VertexArray {
	d.clearErrors()
	va := d.fn.CreateVertexArray()
	d.check("CreateVertexArray")
	return va
}

func (d *Debug) BindVertexArray(va VertexArray) {
	d.clearErrors()
	d.fn.BindVertexArray(va)
	d.check("BindVertexArray", va)
}

func (d *Debug) DeleteVertexArray(va VertexArray) {
	d.clearErrors()
	d.fn.DeleteVertexArray(va)
	d.check("DeleteVertexArray", va)
}

func (d *Debug) EnableVertexAttribArray(index uint32) {
	d.clearErrors()
	d.fn.EnableVertexAttribArray(index)
	d.check("EnableVertexAttribArray", index)
}

func (d *Debug) VertexAttribPointer(index uint32, size int32, ty Enum, normalized bool, stride, offset int32) {
	d.clearErrors()
	d.fn.VertexAttribPointer(index, size, ty, normalized, stride, offset)
	d.check("VertexAttribPointer", index, size, ty, normalized, stride, offset)
}

func (d *Debug) CreateShader(ty Enum) Shader {
	d.clearErrors()
	s := d.fn.CreateShader(ty)
	d.check("CreateShader", ty)
	return s
}

func (d *Debug) ShaderSource(s Shader, src string) {
	d.clearErrors()
	d.fn.ShaderSource(s, src)
	d.check("ShaderSource", s, fmt.Sprintf("<%d bytes>", len(src)))
}

func (d *Debug) CompileShader(s Shader) {
	d.clearErrors()
	d.fn.CompileShader(s)
	d.check("CompileShader", s)
}

func (d *Debug) GetShaderi(s Shader, pname Enum) int32 {
	d.clearErrors()
	v := d.fn.GetShaderi(s, pname)
	d.check("GetShaderi", s, pname)
	return v
}

func (d *Debug) GetShaderInfoLog(s Shader, length int32) string {
	d.clearErrors()
	l := d.fn.GetShaderInfoLog(s, length)
	d.check("GetShaderInfoLog", s, length)
	return l
}

func (d *Debug) DeleteShader(s Shader) {
	d.clearErrors()
	d.fn.DeleteShader(s)
	d.check("DeleteShader", s)
}

func (d *Debug) CreateProgram() Program {
	d.clearErrors()
	p := d.fn.CreateProgram()
	d.check("CreateProgram")
	return p
}

func (d *Debug) AttachShader(p Program, s Shader) {
	d.clearErrors()
	d.fn.AttachShader(p, s)
	d.check("AttachShader", p, s)
}

func (d *Debug) DetachShader(p Program, s Shader) {
	d.clearErrors()
	d.fn.DetachShader(p, s)
	d.check("DetachShader", p, s)
}

func (d *Debug) LinkProgram(p Program) {
	d.clearErrors()
	d.fn.LinkProgram(p)
	d.check("LinkProgram", p)
}

func (d *Debug) ValidateProgram(p Program) {
	d.clearErrors()
	d.fn.ValidateProgram(p)
	d.check("ValidateProgram", p)
}

func (d *Debug) GetProgrami(p Program, pname Enum) int32 {
	d.clearErrors()
	v := d.fn.GetProgrami(p, pname)
	d.check("GetProgrami", p, pname)
	return v
}

func (d *Debug) GetProgramInfoLog(p Program, length int32) string {
	d.clearErrors()
	l := d.fn.GetProgramInfoLog(p, length)
	d.check("GetProgramInfoLog", p, length)
	return l
}

func (d *Debug) UseProgram(p Program) {
	d.clearErrors()
	d.fn.UseProgram(p)
	d.check("UseProgram", p)
}

func (d *Debug) DeleteProgram(p Program) {
	d.clearErrors()
	d.fn.DeleteProgram(p)
	d.check("DeleteProgram", p)
}

func (d *Debug) GetUniformLocation(p Program, name string) Uniform {
	d.clearErrors()
	u := d.fn.GetUniformLocation(p, name)
	d.check("GetUniformLocation", p, name)
	return u
}

func (d *Debug) Uniform4f(u Uniform, v0, v1, v2, v3 float32) {
	d.clearErrors()
	d.fn.Uniform4f(u, v0, v1, v2, v3)
	d.check("Uniform4f", u, v0, v1, v2, v3)
}

func (d *Debug) DrawArrays(mode Enum, first, count int32) {
	d.clearErrors()
	d.fn.DrawArrays(mode, first, count)
	d.check("DrawArrays", mode, first, count)
}

func (d *Debug) DrawElements(mode Enum, count int32, ty Enum, offset int32) {
	d.clearErrors()
	d.fn.DrawElements(mode, count, ty, offset)
	d.check("DrawElements", mode, count, ty, offset)
}
