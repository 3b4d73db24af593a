package component

import "github.com/milk9111/cocoablast/common"

// Emitter fires projectiles on a fixed period.
type Emitter struct {
	ProjectileSize     float64
	ProjectileVelocity float64
	ProjectilePeriod   float64

	TimeUntilNextShot float64
	FireRequested     bool
}

func (e *Emitter) Tick(dt float64) {
	if e == nil {
		return
	}
	if e.TimeUntilNextShot <= 0 {
		e.FireRequested = true
		e.TimeUntilNextShot = e.ProjectilePeriod
		return
	}
	e.TimeUntilNextShot -= dt
}

// SpawnPosition is the top edge of the sprite, or the origin without one.
func (e *Emitter) SpawnPosition(sprite *Sprite) common.Vec2 {
	if sprite == nil {
		return common.Vec2{}
	}
	p := sprite.Position()
	return common.Vec2{X: p.X, Y: p.Y + sprite.Size().Height/2}
}

var EmitterComponent = NewComponent[Emitter]()
