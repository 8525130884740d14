package domain

// SlotPosition is a spatial coordinate for a field slot, defined by the
// landscape token occupying that side's landscape slot.
type SlotPosition struct {
	X, Y, Z int
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// IsAdjacentTo holds iff the Manhattan distance between the two positions
// equals exactly 1.
func (p SlotPosition) IsAdjacentTo(o SlotPosition) bool {
	return abs(p.X-o.X)+abs(p.Y-o.Y)+abs(p.Z-o.Z) == 1
}

// BoardSide holds one player's field topology: the ordered field slot ids
// and the spatial position each one occupies, as defined by that player's
// landscape token at prepare time.
type BoardSide struct {
	Owner     PlayerId
	Hero      LocationId
	Landscape LocationId
	Graveyard LocationId
	Field     []LocationId
	Positions map[LocationId]SlotPosition
}

// Board holds both players' sides.
type Board struct {
	P1 BoardSide
	P2 BoardSide
}

// NewBoard constructs a Board with well-known hero/landscape/graveyard ids
// populated; field slots are filled in by PrepareLandscape once each side's
// landscape token is known.
func NewBoard() *Board {
	_, _, p1Hero, p1Land, p1Grave := WellKnownLocations(Player1)
	_, _, p2Hero, p2Land, p2Grave := WellKnownLocations(Player2)
	return &Board{
		P1: BoardSide{Owner: Player1, Hero: p1Hero, Landscape: p1Land, Graveyard: p1Grave, Positions: map[LocationId]SlotPosition{}},
		P2: BoardSide{Owner: Player2, Hero: p2Hero, Landscape: p2Land, Graveyard: p2Grave, Positions: map[LocationId]SlotPosition{}},
	}
}

// Side returns the BoardSide belonging to p.
func (b *Board) Side(p PlayerId) *BoardSide {
	if p == Player1 {
		return &b.P1
	}
	return &b.P2
}

// PrepareLandscape allocates one field slot per position declared by the
// landscape template and records its spatial coordinates.
func (b *Board) PrepareLandscape(p PlayerId, positions []SlotPosition) {
	side := b.Side(p)
	side.Field = make([]LocationId, 0, len(positions))
	side.Positions = make(map[LocationId]SlotPosition, len(positions))
	base := FieldBase(p)
	for i, pos := range positions {
		id := base + LocationId(i)
		side.Field = append(side.Field, id)
		side.Positions[id] = pos
	}
}

// PositionOf looks up the spatial coordinate of a field slot on the side
// that owns it; the second return is false if the slot isn't a known field
// slot of either side.
func (b *Board) PositionOf(id LocationId) (SlotPosition, bool) {
	if pos, ok := b.P1.Positions[id]; ok {
		return pos, true
	}
	if pos, ok := b.P2.Positions[id]; ok {
		return pos, true
	}
	return SlotPosition{}, false
}
