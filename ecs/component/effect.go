package component

// Effect is a particle effect that can be attached to a body.
type Effect struct {
	Name      string
	BirthRate float64
	// SceneSpace makes emitted particles stay where they were born instead of
	// following the host body.
	SceneSpace bool

	host Body
}

// AttachTo hosts the effect on body.
func (e *Effect) AttachTo(body Body, sceneSpace bool) bool {
	if e == nil || body == nil || !body.Valid() {
		return false
	}
	e.SceneSpace = sceneSpace
	e.host = body
	body.AttachEffect(e)
	return true
}

// Stop zeroes the birth rate and detaches the effect. Safe to call repeatedly.
func (e *Effect) Stop() {
	if e == nil {
		return
	}
	e.BirthRate = 0
	if e.host == nil {
		return
	}
	if e.host.Valid() {
		e.host.DetachEffect(e)
	}
	e.host = nil
}

func (e *Effect) Attached() bool {
	return e != nil && e.host != nil
}
