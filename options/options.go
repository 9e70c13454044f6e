package options

import (
	"flag"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/richinsley/goglsandbox/glapi"
	"github.com/richinsley/goglsandbox/translator"
)

// Options configures one sandbox run. Values come from Default, then an
// optional TOML file, then command-line flags.
type Options struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	// Backend selects the window library: "glfw" or "sdl".
	Backend      string `toml:"backend"`
	SwapInterval int    `toml:"swap_interval"`

	// Mesh is "triangle" or "quad".
	Mesh string `toml:"mesh"`
	// ShaderFile is a two-section #shader asset. When empty the built-in
	// program named by Builtin is used.
	ShaderFile string `toml:"shader_file"`
	Builtin    string `toml:"builtin"`
	// Translate treats the shader source as GLSL ES 3.00 and translates it
	// to desktop GLSL before compiling.
	Translate bool `toml:"translate"`
	// TranslateTarget is the dialect translation emits: glsl410, glsl330 or
	// essl.
	TranslateTarget string     `toml:"translate_target"`
	Animate         bool       `toml:"animate"`
	StrictValidate  bool       `toml:"strict_validate"`
	ClearColor      [4]float32 `toml:"clear_color"`

	// Debug checks the GL error queue after every call.
	Debug       bool   `toml:"debug"`
	DebugPolicy string `toml:"debug_policy"`

	// Frames stops the loop after this many frames; 0 runs until the window
	// closes.
	Frames int `toml:"frames"`

	// Record is an output video file; empty disables recording.
	Record     string `toml:"record"`
	FFMPEGPath string `toml:"ffmpeg_path"`
	FPS        int    `toml:"fps"`
	Codec      string `toml:"codec"`
}

// Default returns the options of a plain windowed run.
func Default() *Options {
	return &Options{
		Width:           640,
		Height:          480,
		Title:           "Janela Foda",
		Backend:         "glfw",
		SwapInterval:    1,
		Mesh:            "quad",
		Builtin:         "uniform",
		Animate:         true,
		TranslateTarget: translator.GLSL410.String(),
		ClearColor:      [4]float32{0, 0, 0, 1},
		DebugPolicy:     glapi.Panic.String(),
		FPS:             60,
		Codec:           "h264",
	}
}

// Load reads a TOML file over the receiver's current values. Unknown keys
// are an error.
func (o *Options) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(o); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// BindFlags registers a flag for every option, writing into o.
func (o *Options) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&o.Width, "width", o.Width, "Window width")
	fs.IntVar(&o.Height, "height", o.Height, "Window height")
	fs.StringVar(&o.Title, "title", o.Title, "Window title")
	fs.StringVar(&o.Backend, "backend", o.Backend, "Window backend: glfw or sdl")
	fs.IntVar(&o.SwapInterval, "swap", o.SwapInterval, "Swap interval (0 disables vsync)")
	fs.StringVar(&o.Mesh, "mesh", o.Mesh, "Mesh to draw: triangle or quad")
	fs.StringVar(&o.ShaderFile, "shader", o.ShaderFile, "Path to a two-section #shader file")
	fs.StringVar(&o.Builtin, "builtin", o.Builtin, "Built-in program when no shader file is given: solid or uniform")
	fs.BoolVar(&o.Translate, "translate", o.Translate, "Translate GLSL ES 3.00 sources to desktop GLSL")
	fs.StringVar(&o.TranslateTarget, "translate-target", o.TranslateTarget, "Translation output: glsl410, glsl330 or essl")
	fs.BoolVar(&o.Animate, "animate", o.Animate, "Animate the u_Color uniform")
	fs.BoolVar(&o.StrictValidate, "strict", o.StrictValidate, "Treat program validation failure as fatal")
	fs.BoolVar(&o.Debug, "debug", o.Debug, "Check for OpenGL errors after every call")
	fs.StringVar(&o.DebugPolicy, "debug-policy", o.DebugPolicy, "What to do on an OpenGL error: panic or log")
	fs.IntVar(&o.Frames, "frames", o.Frames, "Stop after this many frames (0 = until closed)")
	fs.StringVar(&o.Record, "record", o.Record, "Record frames to this video file")
	fs.StringVar(&o.FFMPEGPath, "ffmpeg", o.FFMPEGPath, "Path to ffmpeg executable")
	fs.IntVar(&o.FPS, "fps", o.FPS, "Frames per second for recording")
	fs.StringVar(&o.Codec, "codec", o.Codec, "Recording codec: h264 or hevc")
}

// Parse builds Options from command-line arguments. A -config file is
// applied first so explicit flags override it.
func Parse(name string, args []string) (*Options, error) {
	o := Default()
	configPath, err := parseArgs(name, args, o)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		o = Default()
		if err := o.Load(configPath); err != nil {
			return nil, err
		}
		if _, err := parseArgs(name, args, o); err != nil {
			return nil, err
		}
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func parseArgs(name string, args []string, o *Options) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML config file")
	o.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *configPath, nil
}

// Validate reports the first option that can't be used.
func (o *Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", o.Width, o.Height)
	}
	switch o.Backend {
	case "glfw", "sdl":
	default:
		return fmt.Errorf("unknown backend %q", o.Backend)
	}
	switch o.Mesh {
	case "triangle", "quad":
	default:
		return fmt.Errorf("unknown mesh %q", o.Mesh)
	}
	if o.ShaderFile == "" {
		switch o.Builtin {
		case "solid", "uniform":
		default:
			return fmt.Errorf("unknown built-in shader %q", o.Builtin)
		}
	}
	if _, err := glapi.ParsePolicy(o.DebugPolicy); err != nil {
		return err
	}
	if o.Translate {
		if _, err := translator.ParseTarget(o.TranslateTarget); err != nil {
			return err
		}
	}
	if o.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", o.Frames)
	}
	if o.Record != "" {
		if o.FPS <= 0 {
			return fmt.Errorf("fps must be positive when recording, got %d", o.FPS)
		}
		switch o.Codec {
		case "h264", "hevc":
		default:
			return fmt.Errorf("unknown codec %q", o.Codec)
		}
	}
	return nil
}

// Policy returns the parsed debug policy.
func (o *Options) Policy() glapi.Policy {
	p, _ := glapi.ParsePolicy(o.DebugPolicy)
	return p
}
