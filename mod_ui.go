package fluidsim

import "github.com/go-gl/mathgl/mgl32"

// UiPanel is the §4.9 "from UI panel" collaborator contract: a
// Settings-shaped editable value and the reset grid shape, plus the two
// flags the core reacts to. The core consumes Settings/InitialConditions,
// clears Reset once it has honoured it, and only ever reads
// Retessellate outward — nothing downstream of this module writes it.
//
// The out-of-scope vertex/tessellation stage would flip Retessellate
// when InitialConditions changes shape enough to need new disc geometry;
// this module only carries the flag, it never decides when to set it.
type UiPanel struct {
	Settings          Settings
	InitialConditions InitialConditions
	Reset             bool
	Retessellate      bool

	ShowSettings    bool
	ShowHelp        bool
	ShowPerformance bool

	Paused     bool
	SingleStep bool
}

func NewUiPanel(settings Settings, ic InitialConditions) *UiPanel {
	return &UiPanel{
		Settings:          settings,
		InitialConditions: ic,
		ShowSettings:      true,
	}
}

// UiModule installs a UiPanel resource seeded from InitialSettings /
// InitialInitialConditions (defaulted when left zero-valued) and the
// keyboard-toggle system that drives it from §6's key table.
type UiModule struct {
	InitialSettings          Settings
	InitialInitialConditions InitialConditions
}

func (m UiModule) Install(app *App, cmd *Commands) {
	settings := m.InitialSettings
	if settings.SmoothingRadius == 0 {
		settings = DefaultSettings()
	}
	ic := m.InitialInitialConditions
	if ic.ParticlesX == 0 || ic.ParticlesY == 0 {
		ic = DefaultInitialConditions()
	}

	cmd.AddResources(NewUiPanel(settings, ic))
	app.UseSystem(System(uiToggleSystem).InStage(PreUpdate).RunAlways())
}

// uiToggleSystem applies §6's keyboard table to the panel: Space toggles
// pause, Right requests one substep while paused, R requests a reset on
// the next frame, and C/H/P toggle the three overlay panels. Escape is
// left to the host event loop, since exiting isn't a panel concern.
func uiToggleSystem(input *Input, panel *UiPanel) {
	if input.JustPressed[KeySpace] {
		panel.Paused = !panel.Paused
	}

	panel.SingleStep = panel.Paused && input.JustPressed[KeyRight]

	if input.JustPressed[KeyR] {
		panel.Reset = true
	}
	if input.JustPressed[KeyC] {
		panel.ShowSettings = !panel.ShowSettings
	}
	if input.JustPressed[KeyH] {
		panel.ShowHelp = !panel.ShowHelp
	}
	if input.JustPressed[KeyP] {
		panel.ShowPerformance = !panel.ShowPerformance
	}
}

// BuildFrameInput turns this frame's panel/input state into the
// FrameInput the frame driver consumes, converting window-pixel mouse
// coordinates into simulation world-space (§4.9's "pre-mapped to window
// pixels" contract is satisfied by the host; this does the pixel→world
// half) and clearing Reset once it has been folded in, since the core
// consumes it exactly once per honoured request.
func (p *UiPanel) BuildFrameInput(input *Input, realDtime float32) FrameInput {
	windowSize := mgl32.Vec2{float32(input.WindowWidth), float32(input.WindowHeight)}
	world := Reposition(mgl32.Vec2{float32(input.MouseX), float32(input.MouseY)}, windowSize)

	left := input.Pressed[MouseButtonLeft]
	right := input.Pressed[MouseButtonRight]
	mouse := NewMouseState(world, left, right)

	var resetIC *InitialConditions
	if p.Reset {
		ic := p.InitialConditions
		resetIC = &ic
		p.Reset = false
	}

	return FrameInput{
		RealDtime:  realDtime,
		Mouse:      mouse,
		Reset:      resetIC,
		Paused:     p.Paused,
		SingleStep: p.SingleStep,
	}
}
