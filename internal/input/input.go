package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Action represents a logical viewer action, not a physical key
type Action int

// Action constants using iota
const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveDown
	ActionMoveUp
	ActionLook
	ActionResetAccumulation
	ActionToggleAccumulation
	ActionToggleSky
	ActionMoreBounces
	ActionFewerBounces
	ActionToggleOverlay
	ActionSnapshot
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

// CursorMode mirrors the two cursor states the viewer needs
type CursorMode int

const (
	CursorNormal CursorMode = iota
	CursorLocked
)

// InputManager manages keyboard and mouse input state and maps physical keys/buttons to logical actions
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	// Mouse button to action mapping
	mouseButtonToActions map[glfw.MouseButton][]Action

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Just pressed flags (reset each frame)
	justPressed [ActionCount]bool

	cursor     mgl32.Vec2
	cursorMode CursorMode
	window     *glfw.Window
}

// NewInputManager creates a new InputManager with default key bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	im.BindKey(glfw.KeyW, ActionMoveForward)
	im.BindKey(glfw.KeyS, ActionMoveBackward)
	im.BindKey(glfw.KeyA, ActionMoveLeft)
	im.BindKey(glfw.KeyD, ActionMoveRight)
	im.BindKey(glfw.KeyQ, ActionMoveDown)
	im.BindKey(glfw.KeyE, ActionMoveUp)
	im.BindKey(glfw.KeyR, ActionResetAccumulation)
	im.BindKey(glfw.KeyT, ActionToggleAccumulation)
	im.BindKey(glfw.KeyB, ActionToggleSky)
	im.BindKey(glfw.KeyRightBracket, ActionMoreBounces)
	im.BindKey(glfw.KeyLeftBracket, ActionFewerBounces)
	im.BindKey(glfw.KeyF3, ActionToggleOverlay)
	im.BindKey(glfw.KeyP, ActionSnapshot)
	im.BindKey(glfw.KeyEscape, ActionQuit)

	im.BindMouseButton(glfw.MouseButtonRight, ActionLook)

	return im
}

// AttachWindow lets SetCursorMode drive the real cursor
func (im *InputManager) AttachWindow(window *glfw.Window) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.window = window
}

// BindKey binds a physical key to a logical action
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// BindMouseButton binds a mouse button to a logical action
func (im *InputManager) BindMouseButton(button glfw.MouseButton, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.mouseButtonToActions[button] = append(im.mouseButtonToActions[button], action)
}

// HandleKeyEvent processes a key event and updates internal state
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	actions, exists := im.keyToActions[key]
	if !exists {
		return
	}
	im.apply(actions, action == glfw.Press || action == glfw.Repeat)
}

// HandleMouseButtonEvent processes a mouse button event and updates internal state
func (im *InputManager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	actions, exists := im.mouseButtonToActions[button]
	if !exists {
		return
	}
	im.apply(actions, action == glfw.Press)
}

// apply expects im.mu to be held
func (im *InputManager) apply(actions []Action, isPressed bool) {
	for _, act := range actions {
		if isPressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		im.currentState[act] = isPressed
	}
}

// HandleCursorEvent records the latest cursor position in window coordinates
func (im *InputManager) HandleCursorEvent(xpos, ypos float64) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.cursor = mgl32.Vec2{float32(xpos), float32(ypos)}
}

// PostUpdate must be called at the end of each frame to clear edge flags
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	for i := range ActionCount {
		im.justPressed[i] = false
	}
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}

// CursorPosition returns the last reported cursor position
func (im *InputManager) CursorPosition() mgl32.Vec2 {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.cursor
}

// CursorMode returns the mode last requested through SetCursorMode
func (im *InputManager) CursorMode() CursorMode {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.cursorMode
}

// SetCursorMode hides and captures the cursor while looking around.
// Repeated calls with the same mode do not touch the window.
func (im *InputManager) SetCursorMode(mode CursorMode) {
	im.mu.Lock()
	if im.cursorMode == mode {
		im.mu.Unlock()
		return
	}
	im.cursorMode = mode
	window := im.window
	im.mu.Unlock()

	if window == nil {
		return
	}
	switch mode {
	case CursorLocked:
		window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	default:
		window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}
