package fluidsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUiToggleSystemSpaceTogglesPause(t *testing.T) {
	panel := NewUiPanel(DefaultSettings(), DefaultInitialConditions())
	input := &Input{}

	input.JustPressed[KeySpace] = true
	uiToggleSystem(input, panel)
	assert.True(t, panel.Paused)

	input.JustPressed[KeySpace] = true
	uiToggleSystem(input, panel)
	assert.False(t, panel.Paused)
}

func TestUiToggleSystemSingleStepOnlyWhilePaused(t *testing.T) {
	panel := NewUiPanel(DefaultSettings(), DefaultInitialConditions())
	input := &Input{}

	input.JustPressed[KeyRight] = true
	uiToggleSystem(input, panel)
	assert.False(t, panel.SingleStep, "Right should not single-step while running")

	panel.Paused = true
	uiToggleSystem(input, panel)
	assert.True(t, panel.SingleStep, "Right should single-step while paused")
}

func TestUiToggleSystemRequestsReset(t *testing.T) {
	panel := NewUiPanel(DefaultSettings(), DefaultInitialConditions())
	input := &Input{}

	input.JustPressed[KeyR] = true
	uiToggleSystem(input, panel)
	assert.True(t, panel.Reset)
}

func TestUiToggleSystemOverlayToggles(t *testing.T) {
	panel := NewUiPanel(DefaultSettings(), DefaultInitialConditions())
	input := &Input{}

	assert.True(t, panel.ShowSettings)
	input.JustPressed[KeyC] = true
	uiToggleSystem(input, panel)
	assert.False(t, panel.ShowSettings)

	assert.False(t, panel.ShowHelp)
	input.JustPressed[KeyH] = true
	uiToggleSystem(input, panel)
	assert.True(t, panel.ShowHelp)

	assert.False(t, panel.ShowPerformance)
	input.JustPressed[KeyP] = true
	uiToggleSystem(input, panel)
	assert.True(t, panel.ShowPerformance)
}

func TestBuildFrameInputClearsResetAfterOneUse(t *testing.T) {
	panel := NewUiPanel(DefaultSettings(), DefaultInitialConditions())
	panel.Reset = true
	input := &Input{WindowWidth: 1280, WindowHeight: 720}

	frame := panel.BuildFrameInput(input, 0.016)
	assert.NotNil(t, frame.Reset)
	assert.False(t, panel.Reset, "Reset must be cleared once folded into a FrameInput")

	frame2 := panel.BuildFrameInput(input, 0.016)
	assert.Nil(t, frame2.Reset)
}

func TestBuildFrameInputConvertsMouseToWorldSpace(t *testing.T) {
	panel := NewUiPanel(DefaultSettings(), DefaultInitialConditions())
	input := &Input{WindowWidth: 1280, WindowHeight: 720, MouseX: 640, MouseY: 360}

	frame := panel.BuildFrameInput(input, 0.016)
	assert.InDelta(t, 0, frame.Mouse.Position.X(), 1e-4, "window centre should map to world origin")
	assert.InDelta(t, 0, frame.Mouse.Position.Y(), 1e-4, "window centre should map to world origin")
}

func TestBuildFrameInputCarriesPauseAndSingleStep(t *testing.T) {
	panel := NewUiPanel(DefaultSettings(), DefaultInitialConditions())
	panel.Paused = true
	panel.SingleStep = true
	input := &Input{}

	frame := panel.BuildFrameInput(input, 0.016)
	assert.True(t, frame.Paused)
	assert.True(t, frame.SingleStep)
}
