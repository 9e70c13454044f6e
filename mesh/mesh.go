// Package mesh holds the sandbox's hard-coded 2D geometry and uploads it
// into a vertex array.
package mesh

import (
	"errors"
	"fmt"
	"sort"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goglsandbox/glapi"
)

// Data is a list of 2D positions, optionally drawn through an index list.
type Data struct {
	Positions []mgl32.Vec2
	Indices   []uint32
}

// Triangle is a single triangle centred on the origin.
func Triangle() Data {
	return Data{
		Positions: []mgl32.Vec2{
			{-0.5, -0.5},
			{0.0, 0.5},
			{0.5, -0.5},
		},
	}
}

// Quad is an indexed square made of two triangles.
func Quad() Data {
	return Data{
		Positions: []mgl32.Vec2{
			{-0.5, -0.5},
			{0.5, -0.5},
			{0.5, 0.5},
			{-0.5, 0.5},
		},
		Indices: []uint32{
			0, 1, 2,
			2, 3, 0,
		},
	}
}

var shapes = map[string]func() Data{
	"triangle": Triangle,
	"quad":     Quad,
}

// ByName returns "triangle" or "quad".
func ByName(name string) (Data, error) {
	f, ok := shapes[name]
	if !ok {
		return Data{}, fmt.Errorf("unknown mesh %q (have %v)", name, Names())
	}
	return f(), nil
}

// Names lists the meshes ByName accepts.
func Names() []string {
	names := make([]string, 0, len(shapes))
	for n := range shapes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ErrEmptyData indicates that the given data is empty.
var ErrEmptyData = errors.New("mesh data is empty")

// Count is the number of vertices a draw of d submits.
func (d Data) Count() int32 {
	if len(d.Indices) > 0 {
		return int32(len(d.Indices))
	}
	return int32(len(d.Positions))
}

// Validate checks that every index refers to a position.
func (d Data) Validate() error {
	if len(d.Positions) == 0 {
		return ErrEmptyData
	}
	for i, idx := range d.Indices {
		if int(idx) >= len(d.Positions) {
			return fmt.Errorf("index %d at %d is out of range for %d positions", idx, i, len(d.Positions))
		}
	}
	return nil
}

const (
	positionAttrib = 0
	// a vec2 of float32
	componentsPerVertex = 2
	vertexStride        = componentsPerVertex * 4
)

// Mesh is geometry resident in GPU buffers. Delete releases it.
type Mesh struct {
	fn    glapi.Functions
	vao   glapi.VertexArray
	vbo   glapi.Buffer
	ibo   glapi.Buffer
	count int32
}

// Upload creates a vertex array with the positions bound to attribute 0 and,
// for indexed data, an element buffer.
func Upload(fn glapi.Functions, d Data) (*Mesh, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	m := &Mesh{fn: fn, count: d.Count()}

	m.vao = fn.CreateVertexArray()
	fn.BindVertexArray(m.vao)

	m.vbo = fn.CreateBuffer()
	fn.BindBuffer(glapi.ARRAY_BUFFER, m.vbo)
	fn.BufferData(glapi.ARRAY_BUFFER, bytesOf(d.Positions), glapi.STATIC_DRAW)
	fn.EnableVertexAttribArray(positionAttrib)
	fn.VertexAttribPointer(positionAttrib, componentsPerVertex, glapi.FLOAT, false, vertexStride, 0)

	if len(d.Indices) > 0 {
		m.ibo = fn.CreateBuffer()
		fn.BindBuffer(glapi.ELEMENT_ARRAY_BUFFER, m.ibo)
		fn.BufferData(glapi.ELEMENT_ARRAY_BUFFER, bytesOf(d.Indices), glapi.STATIC_DRAW)
	}

	fn.BindVertexArray(0)
	fn.BindBuffer(glapi.ARRAY_BUFFER, 0)
	return m, nil
}

// Indexed reports whether the mesh draws through an element buffer.
func (m *Mesh) Indexed() bool {
	return m.ibo != 0
}

// Count is the number of vertices Draw submits.
func (m *Mesh) Count() int32 {
	return m.count
}

// Draw submits the mesh as triangles with whatever program is current.
func (m *Mesh) Draw() {
	m.fn.BindVertexArray(m.vao)
	if m.Indexed() {
		m.fn.DrawElements(glapi.TRIANGLES, m.count, glapi.UNSIGNED_INT, 0)
	} else {
		m.fn.DrawArrays(glapi.TRIANGLES, 0, m.count)
	}
}

// Delete frees the GPU objects. Later calls do nothing.
func (m *Mesh) Delete() {
	if m == nil || m.vao == 0 {
		return
	}
	m.fn.BindVertexArray(0)
	m.fn.DeleteVertexArray(m.vao)
	m.fn.DeleteBuffer(m.vbo)
	if m.ibo != 0 {
		m.fn.DeleteBuffer(m.ibo)
	}
	m.vao, m.vbo, m.ibo = 0, 0, 0
}

// bytesOf views a slice of fixed-size values as raw bytes in host order.
func bytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}
