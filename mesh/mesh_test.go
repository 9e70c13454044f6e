package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goglsandbox/glapi"
	"github.com/richinsley/goglsandbox/glapi/gltest"
	"github.com/richinsley/goglsandbox/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapes(t *testing.T) {
	tri := Triangle()
	assert.Len(t, tri.Positions, 3)
	assert.Empty(t, tri.Indices)
	assert.EqualValues(t, 3, tri.Count())
	assert.NoError(t, tri.Validate())

	quad := Quad()
	assert.Len(t, quad.Positions, 4)
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0}, quad.Indices)
	assert.EqualValues(t, 6, quad.Count())
	assert.NoError(t, quad.Validate())

	for _, name := range Names() {
		_, err := ByName(name)
		assert.NoError(t, err)
	}
	_, err := ByName("cube")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Data{}.Validate(), ErrEmptyData)
	bad := Data{Positions: []mgl32.Vec2{{0, 0}}, Indices: []uint32{0, 1}}
	assert.Error(t, bad.Validate())
}

func TestUploadAndDraw(t *testing.T) {
	for _, tc := range []struct {
		name    string
		data    Data
		indexed bool
		count   int32
	}{
		{"triangle", Triangle(), false, 3},
		{"quad", Quad(), true, 6},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fake := gltest.New()
			fn := glapi.NewDebug(fake, glapi.Panic)

			prog, err := shader.Build(fn, shader.SolidColor(false))
			require.NoError(t, err)

			m, err := Upload(fn, tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.indexed, m.Indexed())
			assert.Equal(t, tc.count, m.Count())
			assert.Equal(t, len(tc.data.Positions)*8, fake.BufferSize(m.vbo))
			if tc.indexed {
				assert.Equal(t, len(tc.data.Indices)*4, fake.BufferSize(m.ibo))
			}

			assert.NotPanics(t, func() {
				prog.Use()
				m.Draw()
			})
			require.Len(t, fake.Draws, 1)
			assert.Equal(t, tc.indexed, fake.Draws[0].Indexed)
			assert.Equal(t, tc.count, fake.Draws[0].Count)
			assert.Equal(t, glapi.TRIANGLES, fake.Draws[0].Mode)

			assert.NotPanics(t, func() {
				m.Delete()
				m.Delete()
				prog.Delete()
			})
			assert.Empty(t, fake.Leaks())
		})
	}
}

func TestUploadEmpty(t *testing.T) {
	fake := gltest.New()
	m, err := Upload(fake, Data{})
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrEmptyData)
	assert.Empty(t, fake.Leaks())
}

func TestBytesOf(t *testing.T) {
	assert.Nil(t, bytesOf([]uint32(nil)))
	assert.Len(t, bytesOf([]mgl32.Vec2{{1, 2}, {3, 4}}), 16)
	assert.Len(t, bytesOf([]uint32{1, 2, 3}), 12)
}
