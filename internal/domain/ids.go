// Package domain holds the canonical game state types for a single match:
// identifiers, board topology, location containers, token templates and
// instances, and the keyed game context threaded through the cascade.
package domain

import "fmt"

// LocationId is an opaque handle identifying a location (deck, hand, hero
// slot, field slot, equipment slot, ...). Values below 1000 are per-player
// fixtures; 1000-1999 are Player1 field slots; 2000-2999 are Player2 field
// slots; equipment slots are allocated from a disjoint range above those.
type LocationId uint64

// TokenInstanceId is an opaque, match-unique handle for a TokenInstance.
type TokenInstanceId uint64

// PromptInstanceId is an opaque handle for one entry of a pending prompt.
type PromptInstanceId uint64

// PlayerId identifies one of the two seats in a match.
type PlayerId int

const (
	Player1 PlayerId = iota
	Player2
)

// Opponent returns the other seat.
func (p PlayerId) Opponent() PlayerId {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p PlayerId) String() string {
	if p == Player1 {
		return "player1"
	}
	return "player2"
}

const (
	p1Deck      LocationId = 1
	p1Hand      LocationId = 2
	p1Hero      LocationId = 3
	p1Landscape LocationId = 4
	p1Graveyard LocationId = 5

	p2Deck      LocationId = 101
	p2Hand      LocationId = 102
	p2Hero      LocationId = 103
	p2Landscape LocationId = 104
	p2Graveyard LocationId = 105

	// Player1FieldBase and Player2FieldBase anchor the per-player field slot
	// ranges; slot i of player p sits at base+i.
	Player1FieldBase LocationId = 1000
	Player2FieldBase LocationId = 2000

	// EquipmentBase anchors the disjoint range used for equipment slot ids.
	// Slots are allocated sequentially by StateResources, never reused.
	EquipmentBase LocationId = 1_000_000
)

// WellKnownLocations returns the five fixed per-player location ids for the
// given player: deck, hand, hero, landscape, graveyard (in that order).
func WellKnownLocations(p PlayerId) (deck, hand, hero, landscape, graveyard LocationId) {
	if p == Player1 {
		return p1Deck, p1Hand, p1Hero, p1Landscape, p1Graveyard
	}
	return p2Deck, p2Hand, p2Hero, p2Landscape, p2Graveyard
}

// FieldBase returns the base id for a player's field slot range.
func FieldBase(p PlayerId) LocationId {
	if p == Player1 {
		return Player1FieldBase
	}
	return Player2FieldBase
}

// FieldSlotId returns the location id of the i-th field slot belonging to p.
func FieldSlotId(p PlayerId, i int) LocationId {
	return FieldBase(p) + LocationId(i)
}

// LocationKind enumerates the category a location id falls into.
type LocationKind int

const (
	KindDeck LocationKind = iota
	KindHand
	KindHero
	KindLandscape
	KindGraveyard
	KindField
	KindEquipment
)

func (k LocationKind) String() string {
	switch k {
	case KindDeck:
		return "deck"
	case KindHand:
		return "hand"
	case KindHero:
		return "hero"
	case KindLandscape:
		return "landscape"
	case KindGraveyard:
		return "graveyard"
	case KindField:
		return "field"
	case KindEquipment:
		return "equipment"
	default:
		return "unknown"
	}
}

// LocationTag fully classifies a location id: which player (if any) owns it
// and what kind of container it is. Equipment slots have no fixed owner tag
// here; ownership is tracked dynamically by StateResources since equipment
// slots attach to whichever unit last claimed them.
type LocationTag struct {
	Player PlayerId
	Kind   LocationKind
	// HasPlayer is false for equipment slots, whose owner depends on which
	// unit currently holds the slot rather than the id range alone.
	HasPlayer bool
}

// IsField reports whether the tag identifies a field slot (for either side).
func (t LocationTag) IsField() bool { return t.Kind == KindField }

// IsFieldOf reports whether the tag identifies a field slot owned by p.
func (t LocationTag) IsFieldOf(p PlayerId) bool {
	return t.Kind == KindField && t.HasPlayer && t.Player == p
}

// IdentifyLocation classifies a location id per the fixed ranges in §4.1.
func IdentifyLocation(id LocationId) (LocationTag, error) {
	switch id {
	case p1Deck:
		return LocationTag{Player: Player1, Kind: KindDeck, HasPlayer: true}, nil
	case p1Hand:
		return LocationTag{Player: Player1, Kind: KindHand, HasPlayer: true}, nil
	case p1Hero:
		return LocationTag{Player: Player1, Kind: KindHero, HasPlayer: true}, nil
	case p1Landscape:
		return LocationTag{Player: Player1, Kind: KindLandscape, HasPlayer: true}, nil
	case p1Graveyard:
		return LocationTag{Player: Player1, Kind: KindGraveyard, HasPlayer: true}, nil
	case p2Deck:
		return LocationTag{Player: Player2, Kind: KindDeck, HasPlayer: true}, nil
	case p2Hand:
		return LocationTag{Player: Player2, Kind: KindHand, HasPlayer: true}, nil
	case p2Hero:
		return LocationTag{Player: Player2, Kind: KindHero, HasPlayer: true}, nil
	case p2Landscape:
		return LocationTag{Player: Player2, Kind: KindLandscape, HasPlayer: true}, nil
	case p2Graveyard:
		return LocationTag{Player: Player2, Kind: KindGraveyard, HasPlayer: true}, nil
	}

	switch {
	case id >= Player1FieldBase && id < Player1FieldBase+1000:
		return LocationTag{Player: Player1, Kind: KindField, HasPlayer: true}, nil
	case id >= Player2FieldBase && id < Player2FieldBase+1000:
		return LocationTag{Player: Player2, Kind: KindField, HasPlayer: true}, nil
	case id >= EquipmentBase:
		return LocationTag{Kind: KindEquipment, HasPlayer: false}, nil
	}

	return LocationTag{}, fmt.Errorf("identify_location: unknown location id %d", id)
}
