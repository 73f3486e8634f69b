package app

import (
	"fmt"

	"lumitracer/internal/config"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// SetupWindow opens a window with a current 4.1 core context. The swap
// interval follows config.GetVSync, the frame limiter paces everything else.
func SetupWindow(width, height int, title string) (*glfw.Window, error) {
	for hint, value := range map[glfw.Hint]int{
		glfw.ContextVersionMajor:     4,
		glfw.ContextVersionMinor:     1,
		glfw.OpenGLForwardCompatible: glfw.True,
		glfw.OpenGLProfile:           glfw.OpenGLCoreProfile,
	} {
		glfw.WindowHint(hint, value)
	}

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("init gl: %w", err)
	}

	glfw.SwapInterval(swapInterval(config.GetVSync()))
	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	return window, nil
}

func swapInterval(vsync bool) int {
	if vsync {
		return 1
	}
	return 0
}
