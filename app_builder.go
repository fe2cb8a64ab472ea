package fluidsim

import "reflect"

// AppBuilder accumulates modules and state-machine bounds before
// producing a built App. The builder is where host code (cmd/fluidsim)
// declares which modules it wants; Build() is the single point where
// those modules get to install their resources and systems.
type AppBuilder struct {
	stateful     bool
	initialState State
	finalState   State
	modules      []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{
		modules: make([]Module, 0),
	}
}

func (b *AppBuilder) UseStates(initialState, finalState State) *AppBuilder {
	b.stateful = true
	b.initialState = initialState
	b.finalState = finalState
	return b
}

func (b *AppBuilder) UseModule(module Module) *AppBuilder {
	b.modules = append(b.modules, module)
	return b
}

func (b *AppBuilder) UseModules(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

func (b *AppBuilder) Build() *App {
	app := &App{
		resources:        make(map[reflect.Type]any),
		stateful:         b.stateful,
		initialState:     b.initialState,
		finalState:       b.finalState,
		systems:          make(map[string]map[State]map[statePhase][]systemFn),
		systemsStateless: make(map[string][]systemFn),
		modules:          b.modules,
	}

	app.stages = []Stage{Prelude, PreUpdate, Update, PostUpdate, PreRender, Render, PostRender, Finale}
	for _, stage := range app.stages {
		app.initStatefulStage(stage)
	}

	commands := &Commands{app: app}
	for _, module := range app.modules {
		module.Install(app, commands)
	}

	return app
}
