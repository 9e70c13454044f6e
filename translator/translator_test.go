package translator

import (
	"testing"

	"github.com/richinsley/goglsandbox/glapi/gltest"
	"github.com/richinsley/goglsandbox/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	for _, target := range []Target{GLSL410, GLSL330, ESSL} {
		got, err := ParseTarget(target.String())
		require.NoError(t, err)
		assert.Equal(t, target, got)
	}
	got, err := ParseTarget("")
	require.NoError(t, err)
	assert.Equal(t, GLSL410, got)

	_, err = ParseTarget("hlsl")
	assert.Error(t, err)
}

func TestMergeNames(t *testing.T) {
	merged := mergeNames(
		map[string]string{"a_Position": "_ua_Position", "u_Color": "_uu_Color"},
		map[string]string{"u_Color": "_uu_Color", "color": ""},
	)
	assert.Equal(t, map[string]string{
		"a_Position": "_ua_Position",
		"u_Color":    "_uu_Color",
	}, merged)
	assert.Empty(t, mergeNames())
}

func TestTranslateUniformColor(t *testing.T) {
	src, names, err := Translate(shader.UniformColor(true), GLSL410)
	require.NoError(t, err)

	assert.Contains(t, src.Vertex, "#version 410")
	assert.Contains(t, src.Fragment, "#version 410")
	assert.NotContains(t, src.Fragment, "#version 300 es")

	mapped := names[shader.ColorUniform]
	require.NotEmpty(t, mapped)
	assert.Contains(t, src.Fragment, "uniform vec4 "+mapped)

	// the translated program links and the original name resolves
	fake := gltest.New()
	prog, err := shader.Build(fake, src)
	require.NoError(t, err)
	defer prog.Delete()

	_, err = prog.Uniform(shader.ColorUniform)
	assert.ErrorIs(t, err, shader.ErrUniformNotFound)
	prog.SetNames(names)
	u, err := prog.Uniform(shader.ColorUniform)
	require.NoError(t, err)
	assert.True(t, u.Valid())
}

func TestTranslateRejectsBadSource(t *testing.T) {
	src := shader.UniformColor(true)
	src.Fragment = "#version 300 es\nvoid main( {\n"
	_, _, err := Translate(src, GLSL410)
	assert.ErrorContains(t, err, "fragment shader translation failed")
}
