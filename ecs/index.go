package ecs

import "github.com/milk9111/cocoablast/ecs/component"

// BodyIndex resolves backend bodies to their owning entities.
type BodyIndex struct {
	owners map[component.Body]Entity
}

func NewBodyIndex() *BodyIndex {
	return &BodyIndex{owners: make(map[component.Body]Entity)}
}

func (i *BodyIndex) Register(body component.Body, e Entity) {
	if i == nil || body == nil {
		return
	}
	if i.owners == nil {
		i.owners = make(map[component.Body]Entity)
	}
	i.owners[body] = e
}

// Lookup returns the entity owning body. Bodies that were never registered or
// whose entity has been forgotten resolve to false.
func (i *BodyIndex) Lookup(body component.Body) (Entity, bool) {
	if i == nil || body == nil {
		return 0, false
	}
	e, ok := i.owners[body]
	return e, ok
}

// Forget drops every body mapped to e.
func (i *BodyIndex) Forget(e Entity) {
	if i == nil {
		return
	}
	for body, owner := range i.owners {
		if owner == e {
			delete(i.owners, body)
		}
	}
}

func (i *BodyIndex) Len() int {
	if i == nil {
		return 0
	}
	return len(i.owners)
}

func (i *BodyIndex) Clear() {
	if i == nil {
		return
	}
	clear(i.owners)
}
