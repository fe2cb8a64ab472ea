package fluidsim

import "reflect"

var typeOfWindowState = reflect.TypeOf((*WindowState)(nil)).Elem()

// SimModule owns device/buffer/pipeline/sorter/driver setup and the
// per-frame system that drives the whole pipeline: it reads Time and
// UiPanel, builds a FrameInput, submits one frame, and kicks off the
// async profiler readback (§4.7 glued to the App/Module scheduler).
type SimModule struct {
	Config SimulationConfig
}

func NewSimModule(config SimulationConfig) SimModule {
	return SimModule{Config: config}
}

// Install requires a WindowState resource to already exist (from
// PlatformWindowModule), since device creation needs the window's
// surface.
func (m SimModule) Install(app *App, cmd *Commands) {
	windowState, ok := app.resources[typeOfWindowState]
	if !ok {
		panic("SimModule requires PlatformWindowModule to be installed first")
	}

	gpu := createGpuState(windowState.(*WindowState))
	bs := NewBufferSet(gpu, m.Config.Settings, MouseState{})
	pipelines := NewPipelines(gpu, bs)
	sorter := NewGpuSorter(gpu, bs)
	driver := NewFrameDriver(gpu, bs, pipelines, m.Config.Settings, m.Config.Graphics, sorter.Sort)
	profiler := NewProfiler(gpu)

	cmd.AddResources(gpu, bs, pipelines, sorter, driver, profiler)
	app.UseSystem(System(simStepSystem).InStage(Update).RunAlways())
}

// simStepSystem runs exactly once per scheduler tick: it folds this
// frame's UiPanel/Input state into a FrameInput, submits it, and starts
// the async timestamp readback that feeds UiPanel.ShowPerformance.
func simStepSystem(driver *FrameDriver, profiler *Profiler, panel *UiPanel, input *Input, t *Time) {
	in := panel.BuildFrameInput(input, float32(t.Dt))
	readback := driver.Submit(in)

	if panel.ShowPerformance {
		profiler.Profile(readback, nil, nil)
	}
}
