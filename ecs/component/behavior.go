package component

// Behavior runs a tengo script from prefabs/scripts every tick.
type Behavior struct {
	Script string
	// Params are exposed to the script as state entries on first run.
	Params map[string]any
}

var BehaviorComponent = NewComponent[Behavior]()
