// Package glapi describes the slice of OpenGL the sandbox uses as a
// capability interface, so the shader builder and renderer can run against
// the real driver or an in-memory fake.
package glapi

type (
	Enum        uint32
	Shader      uint32
	Program     uint32
	Buffer      uint32
	VertexArray uint32
	Uniform     int32
)

// NoUniform is the location reported for names a program does not use.
const NoUniform Uniform = -1

const (
	FALSE = 0
	TRUE  = 1

	NO_ERROR                      Enum = 0x0
	INVALID_ENUM                  Enum = 0x0500
	INVALID_VALUE                 Enum = 0x0501
	INVALID_OPERATION             Enum = 0x0502
	STACK_OVERFLOW                Enum = 0x0503
	STACK_UNDERFLOW               Enum = 0x0504
	OUT_OF_MEMORY                 Enum = 0x0505
	INVALID_FRAMEBUFFER_OPERATION Enum = 0x0506

	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STATIC_DRAW          Enum = 0x88e4
	COLOR_BUFFER_BIT     Enum = 0x4000
	FLOAT                Enum = 0x1406
	UNSIGNED_BYTE        Enum = 0x1401
	UNSIGNED_INT         Enum = 0x1405
	RGBA                 Enum = 0x1908
	TRIANGLES            Enum = 0x4

	VERTEX_SHADER   Enum = 0x8b31
	FRAGMENT_SHADER Enum = 0x8b30
	COMPILE_STATUS  Enum = 0x8b81
	LINK_STATUS     Enum = 0x8b82
	VALIDATE_STATUS Enum = 0x8b83
	INFO_LOG_LENGTH Enum = 0x8b84

	VENDOR                   Enum = 0x1f00
	RENDERER                 Enum = 0x1f01
	VERSION                  Enum = 0x1f02
	SHADING_LANGUAGE_VERSION Enum = 0x8b8c
)

// Functions is the set of graphics calls the sandbox issues. All calls must
// come from the thread that owns the current context.
type Functions interface {
	GetError() Enum
	GetString(name Enum) string

	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Viewport(x, y, width, height int32)
	ReadPixels(x, y, width, height int32, format, ty Enum, data []byte)

	CreateBuffer() Buffer
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []byte, usage Enum)
	DeleteBuffer(b Buffer)

	CreateVertexArray() VertexArray
	BindVertexArray(va VertexArray)
	DeleteVertexArray(va VertexArray)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, ty Enum, normalized bool, stride, offset int32)

	CreateShader(ty Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int32
	GetShaderInfoLog(s Shader, length int32) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	LinkProgram(p Program)
	ValidateProgram(p Program)
	GetProgrami(p Program, pname Enum) int32
	GetProgramInfoLog(p Program, length int32) string
	UseProgram(p Program)
	DeleteProgram(p Program)

	GetUniformLocation(p Program, name string) Uniform
	Uniform4f(u Uniform, v0, v1, v2, v3 float32)

	DrawArrays(mode Enum, first, count int32)
	DrawElements(mode Enum, count int32, ty Enum, offset int32)
}

// ErrorString names a value returned by GetError.
func ErrorString(e Enum) string {
	switch e {
	case NO_ERROR:
		return "GL_NO_ERROR"
	case INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case STACK_OVERFLOW:
		return "GL_STACK_OVERFLOW"
	case STACK_UNDERFLOW:
		return "GL_STACK_UNDERFLOW"
	case OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return "GL_UNKNOWN_ERROR"
}
