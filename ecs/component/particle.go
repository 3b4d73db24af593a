package component

type Particle struct {
	Effect     *Effect
	HasEmitter bool
}

func NewParticle(name string, birthRate float64) *Particle {
	return &Particle{Effect: &Effect{Name: name, BirthRate: birthRate}}
}

// Tick attaches the effect in scene space the first time a sprite is seen.
func (p *Particle) Tick(sprite *Sprite, _ float64) {
	if p == nil || p.HasEmitter || !sprite.valid() {
		return
	}
	p.Effect.AttachTo(sprite.Body, true)
	p.HasEmitter = true
}

func (p *Particle) StopEmitting() {
	if p == nil {
		return
	}
	p.Effect.Stop()
}

var ParticleComponent = NewComponent[Particle]()
