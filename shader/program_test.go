package shader

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goglsandbox/glapi"
	"github.com/richinsley/goglsandbox/glapi/gltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const badFragment = `#version 330 core
out vec4 color;
void main() {
    color = vec4(1.0, 0.0, 0.0, 1.0;
}
`

func TestCompileValidStages(t *testing.T) {
	fake := gltest.New()
	src := SolidColor(false)

	vs, err := Compile(fake, Vertex, src.Vertex)
	require.NoError(t, err)
	fs, err := Compile(fake, Fragment, src.Fragment)
	require.NoError(t, err)

	assert.NotZero(t, vs.Handle)
	assert.NotZero(t, fs.Handle)
	assert.NotEqual(t, vs.Handle, fs.Handle)
	assert.Equal(t, Vertex, vs.Stage)
	assert.Equal(t, Fragment, fs.Stage)
	assert.Equal(t, src.Vertex, fake.ShaderSourceOf(vs.Handle))

	vs.Release(fake)
	fs.Release(fake)
	vs.Release(fake)
	assert.Empty(t, fake.Leaks())
	assert.Empty(t, fake.PendingErrors())
}

func TestCompileFailureReleasesShader(t *testing.T) {
	fake := gltest.New()
	cs, err := Compile(fake, Fragment, badFragment)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompile))
	assert.Zero(t, cs.Handle)

	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, OpCompile, be.Op)
	assert.Equal(t, Fragment, be.Stage)
	assert.NotEmpty(t, be.Log)
	assert.Contains(t, err.Error(), "fragment")

	assert.Equal(t, 1, fake.ShaderCount())
	assert.Empty(t, fake.Leaks())
}

func TestBuildEndToEnd(t *testing.T) {
	fake := gltest.New()
	fn := glapi.NewDebug(fake, glapi.Panic)
	asset := "#shader vertex\n" + positionVertexGL + "#shader fragment\n" + solidFragmentGL

	src, err := ParseString(asset)
	require.NoError(t, err)
	prog, err := Build(fn, src)
	require.NoError(t, err)
	require.NotNil(t, prog)
	assert.NotZero(t, prog.Handle)
	assert.True(t, prog.Valid)
	assert.NoError(t, prog.Err())

	va := fn.CreateVertexArray()
	assert.NotPanics(t, func() {
		fn.BindVertexArray(va)
		prog.Use()
		fn.DrawArrays(glapi.TRIANGLES, 0, 3)
	})
	assert.Len(t, fake.Draws, 1)
	assert.Equal(t, prog.Handle, fake.Draws[0].Program)
	assert.Zero(t, fn.Errors())

	// stages are gone once linked
	assert.Equal(t, []string{"program 3", "vertex array 4"}, fake.Leaks())

	prog.Delete()
	fn.DeleteVertexArray(va)
	assert.Empty(t, fake.Leaks())
}

func TestBuildStopsAtCompileFailure(t *testing.T) {
	fake := gltest.New()
	prog, err := Build(fake, Source{Vertex: positionVertexGL, Fragment: badFragment})
	assert.Nil(t, prog)
	assert.ErrorIs(t, err, ErrCompile)
	assert.Zero(t, fake.ProgramCount(), "no program is assembled from a failed stage")
	assert.Empty(t, fake.Leaks())

	prog, err = Build(fake, Source{Vertex: "void main( {", Fragment: solidFragmentGL})
	assert.Nil(t, prog)
	assert.ErrorIs(t, err, ErrCompile)
	assert.Zero(t, fake.ProgramCount())
	assert.Empty(t, fake.Leaks())
}

func TestLinkWithFailedStage(t *testing.T) {
	fake := gltest.New()
	vs, err := Compile(fake, Vertex, positionVertexGL)
	require.NoError(t, err)
	fs, err := Compile(fake, Fragment, badFragment)
	require.Error(t, err)

	prog, err := Link(fake, vs, fs)
	assert.Nil(t, prog)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLink)
	assert.NotErrorIs(t, err, ErrCompile)
	assert.Empty(t, fake.Leaks())
}

func TestLinkFailure(t *testing.T) {
	fake := gltest.New()
	vs, err := Compile(fake, Vertex, positionVertexGL)
	require.NoError(t, err)
	other, err := Compile(fake, Vertex, positionVertexGL)
	require.NoError(t, err)
	other.Stage = Fragment

	prog, err := Link(fake, vs, other)
	assert.Nil(t, prog)
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, OpLink, be.Op)
	assert.Contains(t, be.Log, "one vertex and one fragment")
	assert.Equal(t, 1, fake.ProgramCount())
	assert.Empty(t, fake.Leaks())
	assert.Empty(t, fake.PendingErrors())
}

func TestValidationFailureIsAdvisory(t *testing.T) {
	fake := gltest.New()
	fake.ValidateFails = true
	fake.ValidateLog = "no vertex array object bound"

	prog, err := Build(fake, SolidColor(false))
	require.NoError(t, err)
	require.NotNil(t, prog)
	assert.False(t, prog.Valid)
	assert.Equal(t, "no vertex array object bound", prog.ValidationLog)
	assert.ErrorIs(t, prog.Err(), ErrValidate)
	prog.Delete()
	assert.Empty(t, fake.Leaks())
}

func TestUniform(t *testing.T) {
	fake := gltest.New()
	prog, err := Build(fake, UniformColor(false))
	require.NoError(t, err)
	defer prog.Delete()
	prog.Use()

	color, err := prog.Uniform(ColorUniform)
	require.NoError(t, err)
	assert.True(t, color.Valid())
	require.NoError(t, color.SetVec4(mgl32.Vec4{0.2, 0.3, 0.8, 1}))
	require.Len(t, fake.UniformSets, 1)
	assert.Equal(t, [4]float32{0.2, 0.3, 0.8, 1}, fake.UniformSets[0].Value)

	missing, err := prog.Uniform("u_Missing")
	assert.ErrorIs(t, err, ErrUniformNotFound)
	assert.False(t, missing.Valid())
	assert.Equal(t, glapi.NoUniform, missing.Location())
	assert.ErrorIs(t, missing.SetVec4(mgl32.Vec4{1, 1, 1, 1}), ErrUniformNotFound)
	assert.Zero(t, fake.IgnoredUniformSets)
	assert.Len(t, fake.UniformSets, 1)

	var zero UniformLocation
	assert.False(t, zero.Valid())
	assert.Error(t, zero.SetVec4(mgl32.Vec4{}))
}

func TestUniformNames(t *testing.T) {
	fake := gltest.New()
	src := UniformColor(false)
	src.Fragment = `#version 330 core
out vec4 color;
uniform vec4 _uu_Color;
void main() {
    color = _uu_Color;
}
`
	prog, err := Build(fake, src)
	require.NoError(t, err)
	defer prog.Delete()

	_, err = prog.Uniform(ColorUniform)
	assert.ErrorIs(t, err, ErrUniformNotFound)

	prog.SetNames(map[string]string{ColorUniform: "_uu_Color"})
	u, err := prog.Uniform(ColorUniform)
	require.NoError(t, err)
	assert.True(t, u.Valid())
}

func TestProgramDeleteOnce(t *testing.T) {
	fake := gltest.New()
	fn := glapi.NewDebug(fake, glapi.Panic)
	prog, err := Build(fn, SolidColor(false))
	require.NoError(t, err)

	handle := prog.Handle
	assert.NotPanics(t, func() {
		prog.Delete()
		prog.Delete()
	})
	assert.True(t, fake.ProgramDeleted(handle))
	assert.Zero(t, prog.Handle)

	var nilProg *Program
	assert.NotPanics(t, nilProg.Delete)
}

func TestBuildFile(t *testing.T) {
	fake := gltest.New()
	prog, err := BuildFile(fake, filepath.Join("testdata", "basic.shader"))
	require.NoError(t, err)
	_, err = prog.Uniform(ColorUniform)
	assert.NoError(t, err)
	prog.Delete()

	prog, err = BuildFile(fake, filepath.Join("testdata", "broken.shader"))
	assert.Nil(t, prog)
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, Fragment, be.Stage)

	_, err = BuildFile(fake, filepath.Join("testdata", "missing.shader"))
	assert.Error(t, err)
	assert.Empty(t, fake.Leaks())
}

func TestBuiltins(t *testing.T) {
	for _, name := range BuiltinNames() {
		for _, es := range []bool{false, true} {
			src, err := Builtin(name, es)
			require.NoError(t, err)
			fake := gltest.New()
			prog, err := Build(fake, src)
			require.NoError(t, err, "%s es=%v", name, es)
			prog.Delete()
			assert.Empty(t, fake.Leaks())
		}
	}
	_, err := Builtin("rainbow", false)
	assert.Error(t, err)
}
