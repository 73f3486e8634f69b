package graphics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Shader is a linked GL program
type Shader struct {
	ID uint32
}

// shaderStage pairs a GL stage with the file extension it is stored under
type shaderStage struct {
	kind uint32
	ext  string
}

var programStages = []shaderStage{
	{gl.VERTEX_SHADER, ".vert"},
	{gl.FRAGMENT_SHADER, ".frag"},
}

// LoadShader builds the program stored as dir/name.vert and dir/name.frag.
func LoadShader(dir, name string) (*Shader, error) {
	sources, err := readStages(dir, name)
	if err != nil {
		return nil, err
	}

	stages := make([]uint32, 0, len(programStages))
	defer func() {
		for _, s := range stages {
			gl.DeleteShader(s)
		}
	}()
	for i, st := range programStages {
		id, err := compileStage(st.kind, sources[i])
		if err != nil {
			return nil, fmt.Errorf("%s%s: %w", name, st.ext, err)
		}
		stages = append(stages, id)
	}

	program := gl.CreateProgram()
	for _, s := range stages {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	if msg, ok := infoLog(program, gl.LINK_STATUS, gl.GetProgramiv, gl.GetProgramInfoLog); !ok {
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("%s: link: %s", name, msg)
	}
	return &Shader{ID: program}, nil
}

// readStages loads the source of every stage in programStages order.
func readStages(dir, name string) ([]string, error) {
	sources := make([]string, len(programStages))
	for i, st := range programStages {
		b, err := os.ReadFile(filepath.Join(dir, name+st.ext))
		if err != nil {
			return nil, fmt.Errorf("read shader: %w", err)
		}
		sources[i] = string(b)
	}
	return sources, nil
}

func compileStage(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	if msg, ok := infoLog(shader, gl.COMPILE_STATUS, gl.GetShaderiv, gl.GetShaderInfoLog); !ok {
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", msg)
	}
	return shader, nil
}

// infoLog checks status on a shader or program object and returns its log when the check failed.
func infoLog(id, status uint32,
	getiv func(uint32, uint32, *int32),
	getLog func(uint32, int32, *int32, *uint8)) (string, bool) {
	var ok int32
	getiv(id, status, &ok)
	if ok != gl.FALSE {
		return "", true
	}
	var n int32
	getiv(id, gl.INFO_LOG_LENGTH, &n)
	buf := strings.Repeat("\x00", int(n+1))
	getLog(id, n, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00\n"), false
}

// Use activates the program
func (s *Shader) Use() {
	gl.UseProgram(s.ID)
}

// SetInt sets an integer uniform
func (s *Shader) SetInt(name string, value int32) {
	gl.Uniform1i(gl.GetUniformLocation(s.ID, gl.Str(name+"\x00")), value)
}

// Delete releases the program
func (s *Shader) Delete() {
	if s.ID != 0 {
		gl.DeleteProgram(s.ID)
		s.ID = 0
	}
}
