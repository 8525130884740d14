// Package state holds StateResources (component I): the single shared
// mutable arena for a match — locations, token instances, players, board,
// turn/round counters. All cross-references are by id, never by pointer
// (§9 "Cyclic and shared references"); the cascade engine (package
// cascade) owns the transition-group queue and the primitive mutators that
// need to enqueue further groups, since those two concerns are
// inseparable per §4.7/§4.9.
package state

import (
	"fmt"
	"math/rand"

	"cascadeengine/internal/domain"
)

// Resources is the authoritative store for one match.
type Resources struct {
	Locations      map[domain.LocationId]domain.Location
	TokenInstances map[domain.TokenInstanceId]*domain.TokenInstance
	Round          int
	Player1        domain.Player
	Player2        domain.Player
	CurrentTurn    domain.PlayerId
	Board          *domain.Board
	Registry       *domain.Registry

	Rng *rand.Rand

	instanceSeq    uint64
	equipmentSeq   domain.LocationId
}

// New constructs an empty Resources ready for start_game to populate.
func New(registry *domain.Registry, rng *rand.Rand, startingPlayer domain.PlayerId) *Resources {
	return &Resources{
		Locations:      map[domain.LocationId]domain.Location{},
		TokenInstances: map[domain.TokenInstanceId]*domain.TokenInstance{},
		Player1:        domain.Player{ID: domain.Player1},
		Player2:        domain.Player{ID: domain.Player2},
		CurrentTurn:    startingPlayer,
		Board:          domain.NewBoard(),
		Registry:       registry,
		Rng:            rng,
		equipmentSeq:   domain.EquipmentBase,
	}
}

// GetPlayer returns the mutable Player record for id.
func (r *Resources) GetPlayer(id domain.PlayerId) *domain.Player {
	if id == domain.Player1 {
		return &r.Player1
	}
	return &r.Player2
}

// GetLocation looks up a container by id.
func (r *Resources) GetLocation(id domain.LocationId) (domain.Location, error) {
	loc, ok := r.Locations[id]
	if !ok {
		return nil, fmt.Errorf("state: unknown location %d", id)
	}
	return loc, nil
}

// GetToken looks up a token instance by id.
func (r *Resources) GetToken(id domain.TokenInstanceId) (*domain.TokenInstance, error) {
	t, ok := r.TokenInstances[id]
	if !ok {
		return nil, fmt.Errorf("state: unknown token instance %d", id)
	}
	return t, nil
}

// NextInstanceID draws a fresh 64-bit instance id uniformly at random,
// re-drawing on collision (§4.1).
func (r *Resources) NextInstanceID() domain.TokenInstanceId {
	for {
		id := domain.TokenInstanceId(r.Rng.Uint64())
		if id == 0 {
			continue
		}
		if _, exists := r.TokenInstances[id]; !exists {
			return id
		}
	}
}

// NextEquipmentSlotID draws a fresh id from the disjoint equipment range.
func (r *Resources) NextEquipmentSlotID() domain.LocationId {
	r.equipmentSeq++
	return r.equipmentSeq
}

// InsertLocation registers a freshly constructed container.
func (r *Resources) InsertLocation(loc domain.Location) {
	r.Locations[loc.LocationID()] = loc
}

// InPlay returns the ids of every token currently in a hero, landscape,
// field, or equipment slot on either side, in Go map iteration order: the
// order is not defined and may differ between calls.
func (r *Resources) InPlay() []domain.TokenInstanceId {
	var out []domain.TokenInstanceId
	for id, tok := range r.TokenInstances {
		tag, err := domain.IdentifyLocation(tok.Location)
		if err != nil {
			continue
		}
		switch tag.Kind {
		case domain.KindHero, domain.KindLandscape, domain.KindField, domain.KindEquipment:
			out = append(out, id)
		}
	}
	return out
}

// EquipmentOwner returns the TokenInstanceId whose EquipmentSlots contains
// the given location id, if any.
func (r *Resources) EquipmentOwner(slot domain.LocationId) (domain.TokenInstanceId, bool) {
	for id, tok := range r.TokenInstances {
		for _, s := range tok.EquipmentSlots {
			if s == slot {
				return id, true
			}
		}
	}
	return 0, false
}

// HeroOf returns the instance id currently sitting in p's hero slot.
func (r *Resources) HeroOf(p domain.PlayerId) (domain.TokenInstanceId, bool) {
	_, _, hero, _, _ := domain.WellKnownLocations(p)
	loc, err := r.GetLocation(hero)
	if err != nil {
		return 0, false
	}
	return loc.First()
}
