// Package gltest provides an in-memory glapi.Functions for tests that need
// to exercise shader builds, mesh uploads and the frame loop without a GPU.
package gltest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/richinsley/goglsandbox/glapi"
)

// Draw records one draw submission.
type Draw struct {
	Mode    glapi.Enum
	Count   int32
	Indexed bool
	Program glapi.Program
}

// UniformSet records one Uniform4f call that reached a program.
type UniformSet struct {
	Program  glapi.Program
	Location glapi.Uniform
	Value    [4]float32
}

type shaderObj struct {
	ty       glapi.Enum
	src      string
	compiled bool
	log      string
	deleted  bool
}

type programObj struct {
	attached  map[glapi.Shader]bool
	linked    bool
	validated bool
	log       string
	uniforms  map[string]glapi.Uniform
	deleted   bool
}

type vertexArrayObj struct {
	element glapi.Buffer
	attribs map[uint32]bool
	deleted bool
}

type bufferObj struct {
	size    int
	deleted bool
}

// Fake is a single-context GL stand-in. Shader compilation is a syntax
// heuristic: sources must have balanced braces and parentheses, declare a
// main function and contain no #error directive.
type Fake struct {
	// Version is returned for GL_VERSION.
	Version string
	// ValidateFails makes ValidateProgram report failure with ValidateLog.
	ValidateFails bool
	ValidateLog   string

	Draws       []Draw
	UniformSets []UniformSet
	// IgnoredUniformSets counts Uniform4f calls made with location -1.
	IgnoredUniformSets int
	Clears             int
	ReadPixelCalls     int

	nextID       uint32
	errs         []glapi.Enum
	shaders      map[glapi.Shader]*shaderObj
	programs     map[glapi.Program]*programObj
	buffers      map[glapi.Buffer]*bufferObj
	vertexArrays map[glapi.VertexArray]*vertexArrayObj

	program      glapi.Program
	vertexArray  glapi.VertexArray
	arrayBuffer  glapi.Buffer
	elementFixed glapi.Buffer
}

var _ glapi.Functions = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		Version:      "4.1 gltest",
		shaders:      make(map[glapi.Shader]*shaderObj),
		programs:     make(map[glapi.Program]*programObj),
		buffers:      make(map[glapi.Buffer]*bufferObj),
		vertexArrays: make(map[glapi.VertexArray]*vertexArrayObj),
	}
}

func (f *Fake) id() uint32 {
	f.nextID++
	return f.nextID
}

func (f *Fake) raise(e glapi.Enum) {
	f.errs = append(f.errs, e)
}

// PendingErrors returns the queued errors without draining them.
func (f *Fake) PendingErrors() []glapi.Enum {
	return append([]glapi.Enum(nil), f.errs...)
}

// Leaks lists every object that was created and never deleted.
func (f *Fake) Leaks() []string {
	var leaks []string
	for id, s := range f.shaders {
		if !s.deleted {
			leaks = append(leaks, fmt.Sprintf("shader %d", id))
		}
	}
	for id, p := range f.programs {
		if !p.deleted {
			leaks = append(leaks, fmt.Sprintf("program %d", id))
		}
	}
	for id, b := range f.buffers {
		if !b.deleted {
			leaks = append(leaks, fmt.Sprintf("buffer %d", id))
		}
	}
	for id, va := range f.vertexArrays {
		if !va.deleted {
			leaks = append(leaks, fmt.Sprintf("vertex array %d", id))
		}
	}
	sort.Strings(leaks)
	return leaks
}

// ShaderDeleted reports whether s was created and later deleted.
func (f *Fake) ShaderDeleted(s glapi.Shader) bool {
	obj, ok := f.shaders[s]
	return ok && obj.deleted
}

// ProgramDeleted reports whether p was created and later deleted.
func (f *Fake) ProgramDeleted(p glapi.Program) bool {
	obj, ok := f.programs[p]
	return ok && obj.deleted
}

// ShaderCount is the number of shader objects ever created.
func (f *Fake) ShaderCount() int {
	return len(f.shaders)
}

// ProgramCount is the number of program objects ever created.
func (f *Fake) ProgramCount() int {
	return len(f.programs)
}

// ShaderSourceOf returns the last source given to s.
func (f *Fake) ShaderSourceOf(s glapi.Shader) string {
	if obj, ok := f.shaders[s]; ok {
		return obj.src
	}
	return ""
}

// BufferSize returns the size of the last BufferData upload into b.
func (f *Fake) BufferSize(b glapi.Buffer) int {
	if obj, ok := f.buffers[b]; ok {
		return obj.size
	}
	return 0
}

// CurrentProgram is the program bound with UseProgram.
func (f *Fake) CurrentProgram() glapi.Program {
	return f.program
}

func (f *Fake) GetError() glapi.Enum {
	if len(f.errs) == 0 {
		return glapi.NO_ERROR
	}
	e := f.errs[0]
	f.errs = f.errs[1:]
	return e
}

func (f *Fake) GetString(name glapi.Enum) string {
	switch name {
	case glapi.VERSION:
		return f.Version
	case glapi.VENDOR:
		return "gltest"
	case glapi.RENDERER:
		return "in-memory"
	case glapi.SHADING_LANGUAGE_VERSION:
		return "4.10"
	}
	f.raise(glapi.INVALID_ENUM)
	return ""
}

func (f *Fake) ClearColor(r, g, b, a float32) {}

func (f *Fake) Clear(mask glapi.Enum) {
	f.Clears++
}

func (f *Fake) Viewport(x, y, width, height int32) {
	if width < 0 || height < 0 {
		f.raise(glapi.INVALID_VALUE)
	}
}

func (f *Fake) ReadPixels(x, y, width, height int32, format, ty glapi.Enum, data []byte) {
	f.ReadPixelCalls++
	if width < 0 || height < 0 {
		f.raise(glapi.INVALID_VALUE)
		return
	}
	n := int(width) * int(height) * 4
	if len(data) < n {
		f.raise(glapi.INVALID_VALUE)
		return
	}
	for i := range data[:n] {
		data[i] = 0xff
	}
}

func (f *Fake) CreateBuffer() glapi.Buffer {
	b := glapi.Buffer(f.id())
	f.buffers[b] = &bufferObj{}
	return b
}

func (f *Fake) BindBuffer(target glapi.Enum, b glapi.Buffer) {
	if b != 0 {
		obj, ok := f.buffers[b]
		if !ok || obj.deleted {
			f.raise(glapi.INVALID_VALUE)
			return
		}
	}
	switch target {
	case glapi.ARRAY_BUFFER:
		f.arrayBuffer = b
	case glapi.ELEMENT_ARRAY_BUFFER:
		if va, ok := f.vertexArrays[f.vertexArray]; ok {
			va.element = b
		} else {
			f.elementFixed = b
		}
	default:
		f.raise(glapi.INVALID_ENUM)
	}
}

func (f *Fake) bound(target glapi.Enum) glapi.Buffer {
	switch target {
	case glapi.ARRAY_BUFFER:
		return f.arrayBuffer
	case glapi.ELEMENT_ARRAY_BUFFER:
		if va, ok := f.vertexArrays[f.vertexArray]; ok {
			return va.element
		}
		return f.elementFixed
	}
	return 0
}

func (f *Fake) BufferData(target glapi.Enum, data []byte, usage glapi.Enum) {
	b := f.bound(target)
	if b == 0 {
		f.raise(glapi.INVALID_OPERATION)
		return
	}
	f.buffers[b].size = len(data)
}

func (f *Fake) DeleteBuffer(b glapi.Buffer) {
	obj, ok := f.buffers[b]
	if !ok || obj.deleted {
		f.raise(glapi.INVALID_VALUE)
		return
	}
	obj.deleted = true
	if f.arrayBuffer == b {
		f.arrayBuffer = 0
	}
}

func (f *Fake) CreateVertexArray() glapi.VertexArray {
	va := glapi.VertexArray(f.id())
	f.vertexArrays[va] = &vertexArrayObj{attribs: make(map[uint32]bool)}
	return va
}

func (f *Fake) BindVertexArray(va glapi.VertexArray) {
	if va != 0 {
		obj, ok := f.vertexArrays[va]
		if !ok || obj.deleted {
			f.raise(glapi.INVALID_OPERATION)
			return
		}
	}
	f.vertexArray = va
}

func (f *Fake) DeleteVertexArray(va glapi.VertexArray) {
	obj, ok := f.vertexArrays[va]
	if !ok || obj.deleted {
		f.raise(glapi.INVALID_VALUE)
		return
	}
	obj.deleted = true
	if f.vertexArray == va {
		f.vertexArray = 0
	}
}

func (f *Fake) EnableVertexAttribArray(index uint32) {
	va, ok := f.vertexArrays[f.vertexArray]
	if !ok {
		f.raise(glapi.INVALID_OPERATION)
		return
	}
	va.attribs[index] = true
}

func (f *Fake) VertexAttribPointer(index uint32, size int32, ty glapi.Enum, normalized bool, stride, offset int32) {
	if _, ok := f.vertexArrays[f.vertexArray]; !ok || f.arrayBuffer == 0 {
		f.raise(glapi.INVALID_OPERATION)
		return
	}
	if size < 1 || size > 4 || stride < 0 {
		f.raise(glapi.INVALID_VALUE)
	}
}

func (f *Fake) CreateShader(ty glapi.Enum) glapi.Shader {
	if ty != glapi.VERTEX_SHADER && ty != glapi.FRAGMENT_SHADER {
		f.raise(glapi.INVALID_ENUM)
		return 0
	}
	s := glapi.Shader(f.id())
	f.shaders[s] = &shaderObj{ty: ty}
	return s
}

func (f *Fake) shader(s glapi.Shader) *shaderObj {
	obj, ok := f.shaders[s]
	if !ok || obj.deleted {
		f.raise(glapi.INVALID_VALUE)
		return nil
	}
	return obj
}

func (f *Fake) ShaderSource(s glapi.Shader, src string) {
	if obj := f.shader(s); obj != nil {
		obj.src = src
	}
}

var mainRe = regexp.MustCompile(`\bvoid\s+main\s*\(`)

func (f *Fake) CompileShader(s glapi.Shader) {
	obj := f.shader(s)
	if obj == nil {
		return
	}
	obj.compiled, obj.log = checkSyntax(obj.src)
}

func checkSyntax(src string) (bool, string) {
	if strings.TrimSpace(src) == "" {
		return false, "ERROR: 0:0: '' : empty shader source\n"
	}
	braces, parens := 0, 0
	for n, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#error") {
			return false, fmt.Sprintf("ERROR: 0:%d: '#error' : %s\n", n+1, strings.TrimSpace(line))
		}
		for _, r := range line {
			switch r {
			case '{':
				braces++
			case '}':
				braces--
			case '(':
				parens++
			case ')':
				parens--
			}
			if braces < 0 || parens < 0 {
				return false, fmt.Sprintf("ERROR: 0:%d: '%c' : syntax error\n", n+1, r)
			}
		}
	}
	if braces != 0 || parens != 0 {
		return false, "ERROR: 0:0: '' : syntax error: unexpected end of file\n"
	}
	if !mainRe.MatchString(src) {
		return false, "ERROR: 0:0: 'main' : function not defined\n"
	}
	return true, ""
}

func (f *Fake) GetShaderi(s glapi.Shader, pname glapi.Enum) int32 {
	obj := f.shader(s)
	if obj == nil {
		return 0
	}
	switch pname {
	case glapi.COMPILE_STATUS:
		if obj.compiled {
			return glapi.TRUE
		}
		return glapi.FALSE
	case glapi.INFO_LOG_LENGTH:
		if obj.log == "" {
			return 0
		}
		return int32(len(obj.log) + 1)
	}
	f.raise(glapi.INVALID_ENUM)
	return 0
}

func (f *Fake) GetShaderInfoLog(s glapi.Shader, length int32) string {
	obj := f.shader(s)
	if obj == nil {
		return ""
	}
	l := obj.log
	if length > 0 && int(length)-1 < len(l) {
		l = l[:length-1]
	}
	return l
}

func (f *Fake) DeleteShader(s glapi.Shader) {
	if s == 0 {
		return
	}
	if obj := f.shader(s); obj != nil {
		obj.deleted = true
	}
}

func (f *Fake) CreateProgram() glapi.Program {
	p := glapi.Program(f.id())
	f.programs[p] = &programObj{attached: make(map[glapi.Shader]bool)}
	return p
}

func (f *Fake) prog(p glapi.Program) *programObj {
	obj, ok := f.programs[p]
	if !ok || obj.deleted {
		f.raise(glapi.INVALID_VALUE)
		return nil
	}
	return obj
}

func (f *Fake) AttachShader(p glapi.Program, s glapi.Shader) {
	po := f.prog(p)
	if po == nil {
		return
	}
	if f.shader(s) == nil {
		return
	}
	if po.attached[s] {
		f.raise(glapi.INVALID_OPERATION)
		return
	}
	po.attached[s] = true
}

func (f *Fake) DetachShader(p glapi.Program, s glapi.Shader) {
	po := f.prog(p)
	if po == nil {
		return
	}
	if !po.attached[s] {
		f.raise(glapi.INVALID_OPERATION)
		return
	}
	delete(po.attached, s)
}

var uniformRe = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)`)

func (f *Fake) LinkProgram(p glapi.Program) {
	po := f.prog(p)
	if po == nil {
		return
	}
	var vs, fs int
	var names []string
	po.log = ""
	for s := range po.attached {
		obj := f.shaders[s]
		if !obj.compiled {
			po.log += fmt.Sprintf("error: shader %d is not compiled\n", s)
			continue
		}
		switch obj.ty {
		case glapi.VERTEX_SHADER:
			vs++
		case glapi.FRAGMENT_SHADER:
			fs++
		}
		for _, m := range uniformRe.FindAllStringSubmatch(obj.src, -1) {
			names = append(names, m[1])
		}
	}
	if vs != 1 || fs != 1 {
		po.log += fmt.Sprintf("error: need one vertex and one fragment shader, have %d and %d\n", vs, fs)
	}
	po.linked = po.log == ""
	po.uniforms = make(map[string]glapi.Uniform)
	if po.linked {
		sort.Strings(names)
		for _, n := range names {
			if _, ok := po.uniforms[n]; !ok {
				po.uniforms[n] = glapi.Uniform(len(po.uniforms))
			}
		}
	}
}

func (f *Fake) ValidateProgram(p glapi.Program) {
	po := f.prog(p)
	if po == nil {
		return
	}
	po.validated = po.linked && !f.ValidateFails
	if !po.validated {
		po.log = f.ValidateLog
		if !po.linked {
			po.log = "error: program is not linked\n"
		}
	}
}

func (f *Fake) GetProgrami(p glapi.Program, pname glapi.Enum) int32 {
	po := f.prog(p)
	if po == nil {
		return 0
	}
	var b bool
	switch pname {
	case glapi.LINK_STATUS:
		b = po.linked
	case glapi.VALIDATE_STATUS:
		b = po.validated
	case glapi.INFO_LOG_LENGTH:
		if po.log == "" {
			return 0
		}
		return int32(len(po.log) + 1)
	default:
		f.raise(glapi.INVALID_ENUM)
		return 0
	}
	if b {
		return glapi.TRUE
	}
	return glapi.FALSE
}

func (f *Fake) GetProgramInfoLog(p glapi.Program, length int32) string {
	po := f.prog(p)
	if po == nil {
		return ""
	}
	l := po.log
	if length > 0 && int(length)-1 < len(l) {
		l = l[:length-1]
	}
	return l
}

func (f *Fake) UseProgram(p glapi.Program) {
	if p != 0 {
		po := f.prog(p)
		if po == nil {
			return
		}
		if !po.linked {
			f.raise(glapi.INVALID_OPERATION)
			return
		}
	}
	f.program = p
}

func (f *Fake) DeleteProgram(p glapi.Program) {
	if p == 0 {
		return
	}
	if po := f.prog(p); po != nil {
		po.deleted = true
		if f.program == p {
			f.program = 0
		}
	}
}

func (f *Fake) GetUniformLocation(p glapi.Program, name string) glapi.Uniform {
	po := f.prog(p)
	if po == nil {
		return glapi.NoUniform
	}
	if !po.linked {
		f.raise(glapi.INVALID_OPERATION)
		return glapi.NoUniform
	}
	if u, ok := po.uniforms[name]; ok {
		return u
	}
	return glapi.NoUniform
}

func (f *Fake) Uniform4f(u glapi.Uniform, v0, v1, v2, v3 float32) {
	if f.program == 0 {
		f.raise(glapi.INVALID_OPERATION)
		return
	}
	if u == glapi.NoUniform {
		f.IgnoredUniformSets++
		return
	}
	if int(u) < 0 || int(u) >= len(f.programs[f.program].uniforms) {
		f.raise(glapi.INVALID_OPERATION)
		return
	}
	f.UniformSets = append(f.UniformSets, UniformSet{
		Program:  f.program,
		Location: u,
		Value:    [4]float32{v0, v1, v2, v3},
	})
}

func (f *Fake) drawable() bool {
	if f.program == 0 || f.vertexArray == 0 {
		f.raise(glapi.INVALID_OPERATION)
		return false
	}
	return true
}

func (f *Fake) DrawArrays(mode glapi.Enum, first, count int32) {
	if count < 0 || first < 0 {
		f.raise(glapi.INVALID_VALUE)
		return
	}
	if !f.drawable() {
		return
	}
	f.Draws = append(f.Draws, Draw{Mode: mode, Count: count, Program: f.program})
}

func (f *Fake) DrawElements(mode glapi.Enum, count int32, ty glapi.Enum, offset int32) {
	if count < 0 {
		f.raise(glapi.INVALID_VALUE)
		return
	}
	if !f.drawable() {
		return
	}
	if f.vertexArrays[f.vertexArray].element == 0 {
		f.raise(glapi.INVALID_OPERATION)
		return
	}
	f.Draws = append(f.Draws, Draw{Mode: mode, Count: count, Indexed: true, Program: f.program})
}
