package shader

import (
	"fmt"
	"sort"
)

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const positionVertexGL = `#version 330 core

layout(location = 0) in vec4 position;

void main() {
    gl_Position = position;
}
`

const solidFragmentGL = `#version 330 core

layout(location = 0) out vec4 color;

void main() {
    color = vec4(1.0, 0.0, 0.0, 1.0);
}
`

const uniformFragmentGL = `#version 330 core

layout(location = 0) out vec4 color;

uniform vec4 u_Color;

void main() {
    color = u_Color;
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const positionVertexGLES = `#version 300 es

layout(location = 0) in vec4 position;

void main() {
    gl_Position = position;
}
`

const solidFragmentGLES = `#version 300 es
precision mediump float;

layout(location = 0) out vec4 color;

void main() {
    color = vec4(1.0, 0.0, 0.0, 1.0);
}
`

const uniformFragmentGLES = `#version 300 es
precision mediump float;

layout(location = 0) out vec4 color;

uniform vec4 u_Color;

void main() {
    color = u_Color;
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// ColorUniform is the vec4 uniform the UniformColor program reads.
const ColorUniform = "u_Color"

// SolidColor draws every fragment opaque red.
func SolidColor(isGLES bool) Source {
	if isGLES {
		return Source{Vertex: positionVertexGLES, Fragment: solidFragmentGLES}
	}
	return Source{Vertex: positionVertexGL, Fragment: solidFragmentGL}
}

// UniformColor draws every fragment with the colour in u_Color.
func UniformColor(isGLES bool) Source {
	if isGLES {
		return Source{Vertex: positionVertexGLES, Fragment: uniformFragmentGLES}
	}
	return Source{Vertex: positionVertexGL, Fragment: uniformFragmentGL}
}

var builtins = map[string]func(bool) Source{
	"solid":   SolidColor,
	"uniform": UniformColor,
}

// Builtin returns a built-in program source by name.
func Builtin(name string, isGLES bool) (Source, error) {
	f, ok := builtins[name]
	if !ok {
		return Source{}, fmt.Errorf("no built-in shader named %q (have %v)", name, BuiltinNames())
	}
	return f(isGLES), nil
}

// BuiltinNames lists the names Builtin accepts.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
