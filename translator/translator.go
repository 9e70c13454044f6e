// Package translator converts GLSL ES 3.00 shader sources into the dialect
// the current context compiles, using ANGLE through goshadertranslator.
package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
	"github.com/richinsley/goglsandbox/shader"
)

// Target is the GLSL dialect translated sources are emitted in.
type Target int

const (
	GLSL410 Target = iota
	GLSL330
	ESSL
)

func (t Target) String() string {
	switch t {
	case GLSL330:
		return "glsl330"
	case ESSL:
		return "essl"
	default:
		return "glsl410"
	}
}

// ParseTarget accepts the names String returns.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "", "glsl410":
		return GLSL410, nil
	case "glsl330":
		return GLSL330, nil
	case "essl":
		return ESSL, nil
	}
	return GLSL410, fmt.Errorf("unknown translation target %q", s)
}

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// get starts the translator runtime on first use.
func get() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
		if initErr != nil {
			initErr = fmt.Errorf("failed to start shader translator: %w", initErr)
		}
	})
	return translator, initErr
}

// Translate converts both stages of src. The returned map takes each
// declared variable name to the name it has in the translated code, for use
// with shader.Program.SetNames.
func Translate(src shader.Source, target Target) (shader.Source, map[string]string, error) {
	t, err := get()
	if err != nil {
		return shader.Source{}, nil, err
	}

	vs, vsNames, err := translateStage(t, src.Vertex, "vertex", target)
	if err != nil {
		return shader.Source{}, nil, err
	}
	fs, fsNames, err := translateStage(t, src.Fragment, "fragment", target)
	if err != nil {
		return shader.Source{}, nil, err
	}
	return shader.Source{Vertex: vs, Fragment: fs}, mergeNames(vsNames, fsNames), nil
}

func translateStage(t *gst.ShaderTranslator, src, stage string, target Target) (string, map[string]string, error) {
	outputFormat := gst.OutputFormatGLSL410
	switch target {
	case GLSL330:
		outputFormat = gst.OutputFormatGLSL330
	case ESSL:
		outputFormat = gst.OutputFormatESSL
	}

	res, err := t.TranslateShader(src, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return "", nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}

	names := make(map[string]string, len(res.Variables))
	for name, v := range res.Variables {
		names[name] = v.MappedName
	}
	return res.Code, names, nil
}

// mergeNames joins per-stage maps. A uniform declared in both stages maps to
// the same name in each, so the fragment entry wins without loss.
func mergeNames(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			if v == "" {
				continue
			}
			out[k] = v
		}
	}
	return out
}
