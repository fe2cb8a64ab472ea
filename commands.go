package fluidsim

// Commands is the write side of the resource registry, handed to every
// system and every Module.Install call. There is no entity/component
// API here: the simulation's mutable state lives in a small number of
// singleton resources (Settings, Time, the particle buffer set), and
// those are mutated directly through their pointers once resolved.
type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}
