package component

type Health struct {
	Current int
	Max     int
	// Destroyed only ever goes from false to true.
	Destroyed bool
}

func NewHealth(max int) *Health {
	return &Health{Current: max, Max: max}
}

// ReduceHealth subtracts amount. Health may go negative.
func (h *Health) ReduceHealth(amount int) {
	if h == nil {
		return
	}
	h.Current -= amount
}

// Tick destroys the sprite once health is spent and reports whether it did so
// on this call. Without a sprite nothing happens and the next tick retries.
func (h *Health) Tick(sprite *Sprite, particle *Particle) bool {
	if h == nil || h.Destroyed || h.Current > 0 || sprite == nil {
		return false
	}
	sprite.Destroy(particle)
	h.Destroyed = true
	return true
}

var HealthComponent = NewComponent[Health]()
