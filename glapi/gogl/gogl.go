// Package gogl implements glapi.Functions on the go-gl 4.1 core bindings.
package gogl

import (
	"fmt"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goglsandbox/glapi"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

// Functions issues calls through the go-gl 4.1 core bindings. A context
// must be current on the calling thread before Init.
type Functions struct{}

var _ glapi.Functions = Functions{}

// Init loads the OpenGL function pointers. Only the first call does any
// work; later calls return its result.
func (Functions) Init() error {
	glInitOnce.Do(func() {
		if err := gl.Init(); err != nil {
			glInitErr = fmt.Errorf("failed to initialize OpenGL: %w", err)
		}
	})
	return glInitErr
}

func (Functions) GetError() glapi.Enum {
	return glapi.Enum(gl.GetError())
}

func (Functions) GetString(name glapi.Enum) string {
	s := gl.GetString(uint32(name))
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

func (Functions) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (Functions) Clear(mask glapi.Enum) {
	gl.Clear(uint32(mask))
}

func (Functions) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (Functions) ReadPixels(x, y, width, height int32, format, ty glapi.Enum, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.ReadPixels(x, y, width, height, uint32(format), uint32(ty), gl.Ptr(&data[0]))
}

func (Functions) CreateBuffer() glapi.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return glapi.Buffer(b)
}

func (Functions) BindBuffer(target glapi.Enum, b glapi.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (Functions) BufferData(target glapi.Enum, data []byte, usage glapi.Enum) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), len(data), gl.Ptr(&data[0]), uint32(usage))
}

func (Functions) DeleteBuffer(b glapi.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (Functions) CreateVertexArray() glapi.VertexArray {
	var va uint32
	gl.GenVertexArrays(1, &va)
	return glapi.VertexArray(va)
}

func (Functions) BindVertexArray(va glapi.VertexArray) {
	gl.BindVertexArray(uint32(va))
}

func (Functions) DeleteVertexArray(va glapi.VertexArray) {
	id := uint32(va)
	gl.DeleteVertexArrays(1, &id)
}

func (Functions) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (Functions) VertexAttribPointer(index uint32, size int32, ty glapi.Enum, normalized bool, stride, offset int32) {
	gl.VertexAttribPointer(index, size, uint32(ty), normalized, stride, gl.PtrOffset(int(offset)))
}

func (Functions) CreateShader(ty glapi.Enum) glapi.Shader {
	return glapi.Shader(gl.CreateShader(uint32(ty)))
}

// ShaderSource copies src into C memory for the duration of the call, so the
// driver never reads from Go-managed storage.
func (Functions) ShaderSource(s glapi.Shader, src string) {
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(uint32(s), 1, csources, nil)
	free()
}

func (Functions) CompileShader(s glapi.Shader) {
	gl.CompileShader(uint32(s))
}

func (Functions) GetShaderi(s glapi.Shader, pname glapi.Enum) int32 {
	var v int32
	gl.GetShaderiv(uint32(s), uint32(pname), &v)
	return v
}

func (Functions) GetShaderInfoLog(s glapi.Shader, length int32) string {
	if length <= 0 {
		return ""
	}
	buf := make([]uint8, length+1)
	gl.GetShaderInfoLog(uint32(s), length, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

func (Functions) DeleteShader(s glapi.Shader) {
	gl.DeleteShader(uint32(s))
}

func (Functions) CreateProgram() glapi.Program {
	return glapi.Program(gl.CreateProgram())
}

func (Functions) AttachShader(p glapi.Program, s glapi.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (Functions) DetachShader(p glapi.Program, s glapi.Shader) {
	gl.DetachShader(uint32(p), uint32(s))
}

func (Functions) LinkProgram(p glapi.Program) {
	gl.LinkProgram(uint32(p))
}

func (Functions) ValidateProgram(p glapi.Program) {
	gl.ValidateProgram(uint32(p))
}

func (Functions) GetProgrami(p glapi.Program, pname glapi.Enum) int32 {
	var v int32
	gl.GetProgramiv(uint32(p), uint32(pname), &v)
	return v
}

func (Functions) GetProgramInfoLog(p glapi.Program, length int32) string {
	if length <= 0 {
		return ""
	}
	buf := make([]uint8, length+1)
	gl.GetProgramInfoLog(uint32(p), length, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

func (Functions) UseProgram(p glapi.Program) {
	gl.UseProgram(uint32(p))
}

func (Functions) DeleteProgram(p glapi.Program) {
	gl.DeleteProgram(uint32(p))
}

func (Functions) GetUniformLocation(p glapi.Program, name string) glapi.Uniform {
	return glapi.Uniform(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (Functions) Uniform4f(u glapi.Uniform, v0, v1, v2, v3 float32) {
	gl.Uniform4f(int32(u), v0, v1, v2, v3)
}

func (Functions) DrawArrays(mode glapi.Enum, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

func (Functions) DrawElements(mode glapi.Enum, count int32, ty glapi.Enum, offset int32) {
	gl.DrawElements(uint32(mode), count, uint32(ty), gl.PtrOffset(int(offset)))
}
