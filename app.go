package fluidsim

import (
	"fmt"
	"reflect"
	"runtime"
	"time"
)

type systemFn any

// App owns the resource registry and the per-stage, per-state system
// lists. Unlike the engine it grew out of, there are no entities or
// components here: the simulation's state is a handful of singleton
// resources (Settings, the particle buffers, the host window), which
// matches the fixed-capacity structure-of-arrays model the pipeline
// operates on.
type App struct {
	stateful            bool
	stateMachineStarted bool
	stateTransitioning  bool
	initialState        State
	finalState          State
	nextState           State
	state               State
	stages              []Stage
	systems             map[string]map[State]map[statePhase][]systemFn
	systemsStateless    map[string][]systemFn
	resources           map[reflect.Type]any
	modules             []Module
}

const STATELESS_STATE State = 0

// Module installs resources and systems into an App. The windowed host
// harness, the input poller, the frame clock, and the simulation driver
// are each their own module, wired together by cmd/fluidsim.
type Module interface {
	Install(app *App, commands *Commands)
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

func (app *App) Run() {
	if app.stateful {
		app.runStateful()
	} else {
		app.runStateless()
	}
}

func (app *App) runStateful() {
	app.executeChangeState(app.initialState)

	for {
		app.callSystems(app.state, execute)

		if app.stateTransitioning {
			app.stateTransitioning = false
			app.executeChangeState(app.nextState)
		}

		if app.state == app.finalState {
			break
		}
	}

	app.callSystems(app.state, exit)
}

// runStateless drives every stateless system, in stage order, forever.
// This is the mode cmd/fluidsim uses: the simulation has no notion of
// menu/playing/paused app-level states, only a pause flag on UiPanel (see
// mod_ui.go) that systems read directly.
func (app *App) runStateless() {
	for {
		for _, stage := range app.stages {
			for _, system := range app.systemsStateless[stage.Name] {
				app.callSystem(system)
			}
		}
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	if !app.stateMachineStarted {
		app.stateMachineStarted = true
		app.state = newState
		app.callSystems(app.state, enter)
	} else {
		app.callSystems(app.state, exit)
		app.state = newState
		app.callSystems(app.state, enter)
	}
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}
		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) callSystems(state State, schedule statePhase) {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name][state][schedule] {
			app.callSystem(system)
		}
	}
}

func (app *App) callSystem(system systemFn) {
	start := time.Now()
	app.callSystemInternal(system)
	app.Logger().Debugf(
		"system %s: %dms",
		runtime.FuncForPC(reflect.ValueOf(system).Pointer()).Name(),
		time.Since(start).Milliseconds(),
	)
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystemInternal(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			resourceVal := reflect.ValueOf(resource)
			args[i] = reflect.NewAt(underlyingType, resourceVal.UnsafePointer())
		} else {
			msg := fmt.Sprintf("unable to resolve system dependency\nsystem: %s\nsystem type: %s\ndependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			panic(msg)
		}
	}
	systemValue.Call(args)
}
