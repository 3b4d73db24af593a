package component

import "github.com/milk9111/cocoablast/common"

type MovementIntent struct {
	Target common.Vec2
}

// Tick snaps the sprite to Target. Movement is not integrated over dt.
func (m *MovementIntent) Tick(sprite *Sprite, _ float64) {
	if m == nil || sprite == nil {
		return
	}
	sprite.Reposition(m.Target)
}

var MovementIntentComponent = NewComponent[MovementIntent]()
