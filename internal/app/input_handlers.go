package app

import (
	"lumitracer/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func SetupInputHandlers(app *App) {
	window := app.window
	im := app.inputManager

	// Mouse position callback
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		im.HandleCursorEvent(xpos, ypos)
	})

	// Mouse button callback
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleMouseButtonEvent(button, action)
	})

	// Handle keyboard actions
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})

	// Losing focus mid-drag would leave the cursor captured
	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused {
			im.SetCursorMode(input.CursorNormal)
		}
	})

	// NOTE: the framebuffer size is polled every tick, resizing needs no callback.
	window.SetRefreshCallback(func(w *glfw.Window) {
		app.RefreshRender()
	})
}
