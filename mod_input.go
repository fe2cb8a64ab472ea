package fluidsim

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// The key set is exactly §6's keyboard control table: Escape quits, Space
// pauses, Right single-steps while paused, and R/C/H/P request a reset or
// toggle one of the three overlay panels.
const (
	KeyEscape int = iota
	KeySpace
	KeyRight
	KeyR
	KeyC
	KeyH
	KeyP
	MouseButtonLeft
	MouseButtonRight
)

type InputModule struct{}

// Input is the per-frame snapshot of keyboard/mouse state the UI panel
// and frame driver collaborators read from (§4.9: "window size changes,
// mouse position ... and button state, keyboard toggles").
type Input struct {
	Pressed [MouseButtonRight + 1]bool

	JustPressed  [MouseButtonRight + 1]bool
	JustReleased [MouseButtonRight + 1]bool

	MouseX, MouseY float64

	WindowWidth, WindowHeight int
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func inputSystem(s *WindowState, input *Input) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		action := s.windowGlfw.GetKey(glfwKey)

		input.JustPressed[key] = false
		input.JustReleased[key] = false

		if glfw.Press == action {
			if !input.Pressed[key] {
				input.JustPressed[key] = true
			}
			input.Pressed[key] = true
		} else if glfw.Release == action {
			if input.Pressed[key] {
				input.JustReleased[key] = true
			}
			input.Pressed[key] = false
		}
	}

	mx, my := s.windowGlfw.GetCursorPos()
	input.MouseX = mx
	input.MouseY = my

	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()

	for btn, glfwBtn := range mouseButtonToGlfw {
		action := s.windowGlfw.GetMouseButton(glfwBtn)
		input.JustPressed[btn] = false
		input.JustReleased[btn] = false

		if glfw.Press == action {
			if !input.Pressed[btn] {
				input.JustPressed[btn] = true
			}
			input.Pressed[btn] = true
		} else if glfw.Release == action {
			if input.Pressed[btn] {
				input.JustReleased[btn] = true
			}
			input.Pressed[btn] = false
		}
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyEscape: glfw.KeyEscape,
	KeySpace:  glfw.KeySpace,
	KeyRight:  glfw.KeyRight,
	KeyR:      glfw.KeyR,
	KeyC:      glfw.KeyC,
	KeyH:      glfw.KeyH,
	KeyP:      glfw.KeyP,
}

var mouseButtonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:  glfw.MouseButtonLeft,
	MouseButtonRight: glfw.MouseButtonRight,
}
