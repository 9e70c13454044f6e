package shader

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSections(t *testing.T) {
	asset := "#shader vertex\nvoid main() {\n}\n#shader fragment\nout vec4 c;\nvoid main() {}\n"
	src, err := ParseString(asset)
	require.NoError(t, err)
	assert.Equal(t, "void main() {\n}\n", src.Vertex)
	assert.Equal(t, "out vec4 c;\nvoid main() {}\n", src.Fragment)

	var withoutMarkers strings.Builder
	for _, line := range strings.SplitAfter(asset, "\n") {
		if !strings.Contains(line, Marker) {
			withoutMarkers.WriteString(line)
		}
	}
	assert.Equal(t, withoutMarkers.String(), src.Vertex+src.Fragment)
}

func TestParseDiscardsLinesBeforeFirstMarker(t *testing.T) {
	src, err := ParseString("// preamble\n\nstray text\n#shader vertex\nv\n#shader fragment\nf\n")
	require.NoError(t, err)
	assert.Equal(t, "v\n", src.Vertex)
	assert.Equal(t, "f\n", src.Fragment)

	src, err = ParseString("no markers at all\nanother line\n")
	require.NoError(t, err)
	assert.True(t, src.Empty())
}

func TestParseMissingSection(t *testing.T) {
	src, err := ParseString("#shader vertex\nv\n")
	require.NoError(t, err)
	assert.Equal(t, "v\n", src.Vertex)
	assert.Empty(t, src.Fragment)

	src, err = ParseString("")
	require.NoError(t, err)
	assert.True(t, src.Empty())
}

func TestParseLineEndings(t *testing.T) {
	src, err := ParseString("#shader vertex\r\na\r\nb\r\n#shader fragment\r\nc")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", src.Vertex)
	assert.Equal(t, "c\n", src.Fragment, "last line gets a newline even without one in the asset")
}

func TestParseMarkerWording(t *testing.T) {
	src, err := ParseString("  #shader   vertex   // positions\nv\n#shader fragment stage\nf\n")
	require.NoError(t, err)
	assert.Equal(t, "v\n", src.Vertex)
	assert.Equal(t, "f\n", src.Fragment)
}

func TestParseUnsupportedStageIsText(t *testing.T) {
	src, err := ParseString("#shader vertex\nv\n#shader geometry\ng\n#shader fragment\nf\n")
	require.NoError(t, err)
	assert.Equal(t, "v\n#shader geometry\ng\n", src.Vertex)
	assert.Equal(t, "f\n", src.Fragment)

	src, err = ParseString("#shader tessellation\nt\n#shader fragment\nf\n")
	require.NoError(t, err)
	assert.Empty(t, src.Vertex, "nothing is marked before the fragment marker")
	assert.Equal(t, "f\n", src.Fragment)
}

func TestParseRepeatedMarkers(t *testing.T) {
	src, err := ParseString("#shader vertex\nv1\n#shader fragment\nf1\n#shader vertex\nv2\n")
	require.NoError(t, err)
	assert.Equal(t, "v1\nv2\n", src.Vertex)
	assert.Equal(t, "f1\n", src.Fragment)
}

func TestSourceRoundTrip(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("testdata", "basic.shader"))
	require.NoError(t, err)

	src, err := ParseString(string(b))
	require.NoError(t, err)
	assert.Equal(t, string(b), src.String())

	again, err := ParseString(src.String())
	require.NoError(t, err)
	assert.Equal(t, src, again)
}

func TestSourceRoundTripReorders(t *testing.T) {
	src, err := ParseString("#shader fragment\nf\n#shader vertex\nv\n")
	require.NoError(t, err)
	assert.Equal(t, "#shader vertex\nv\n#shader fragment\nf\n", src.String())

	var sb strings.Builder
	n, err := src.WriteTo(&sb)
	require.NoError(t, err)
	assert.EqualValues(t, sb.Len(), n)
}

func TestLoadFile(t *testing.T) {
	src, err := LoadFile(filepath.Join("testdata", "basic.shader"))
	require.NoError(t, err)
	assert.Contains(t, src.Vertex, "gl_Position = position;")
	assert.Contains(t, src.Fragment, "uniform vec4 u_Color;")
	assert.NotContains(t, src.Vertex, Marker)
	assert.NotContains(t, src.Fragment, Marker)
}

func TestLoadFileMissing(t *testing.T) {
	src, err := LoadFile(filepath.Join(t.TempDir(), "nope.shader"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, Source{}, src)
}
