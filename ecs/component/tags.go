package component

type ShipTag struct{}

var ShipTagComponent = NewComponent[ShipTag]()

type AsteroidTag struct{}

var AsteroidTagComponent = NewComponent[AsteroidTag]()

type ProjectileTag struct{}

var ProjectileTagComponent = NewComponent[ProjectileTag]()

// Prefab records which prefab an entity was built from.
type Prefab struct {
	Name string
}

var PrefabComponent = NewComponent[Prefab]()
