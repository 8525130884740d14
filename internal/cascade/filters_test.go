package cascade

import (
	"math/rand"
	"testing"

	"cascadeengine/internal/domain"
	"cascadeengine/internal/state"
)

func newFiltersTestResources(t *testing.T) *state.Resources {
	t.Helper()
	reg := domain.NewRegistry([]*domain.TokenData{
		{ID: "goblin", Types: []string{"beast"}, Category: domain.Category{Kind: domain.CategoryUnit, Health: 3, Attack: 2}},
	})
	res := state.New(reg, rand.New(rand.NewSource(1)), domain.Player1)
	res.Board.PrepareLandscape(domain.Player1, []domain.SlotPosition{{0, 0, 0}, {1, 0, 0}})
	res.Board.PrepareLandscape(domain.Player2, []domain.SlotPosition{{0, 0, 0}, {5, 5, 5}})

	p1Slots := res.Board.Side(domain.Player1).Field
	p2Slots := res.Board.Side(domain.Player2).Field
	for _, s := range append(append([]domain.LocationId{}, p1Slots...), p2Slots...) {
		res.InsertLocation(domain.NewSlot(s))
	}

	place := func(id domain.TokenInstanceId, owner domain.PlayerId, loc domain.LocationId) {
		tok, err := res.Registry.Instantiate("goblin", id, loc, owner)
		if err != nil {
			t.Fatalf("Instantiate: %v", err)
		}
		res.TokenInstances[id] = tok
		l, _ := res.GetLocation(loc)
		l.Add(id)
	}
	place(1, domain.Player1, p1Slots[0])
	place(2, domain.Player1, p1Slots[1])
	place(3, domain.Player2, p2Slots[0])
	place(4, domain.Player2, p2Slots[1])
	return res
}

func ownerCtx(p domain.PlayerId) *domain.Context {
	ctx := domain.NewContext()
	ctx.Set(domain.KeyOwner, domain.PlayerValue(p))
	return ctx
}

func TestApplyFilterOwnedBy(t *testing.T) {
	res := newFiltersTestResources(t)
	ctx := ownerCtx(domain.Player1)
	f := domain.TokenFilter{OwnedBy: &domain.PlayerTarget{Kind: domain.PlayerOwner}}

	got, err := applyFilter(f, []domain.TokenInstanceId{1, 2, 3, 4}, ctx, res)
	if err != nil {
		t.Fatalf("applyFilter: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("applyFilter(OwnedBy owner) = %v, want [1 2]", got)
	}
}

func TestApplyFilterContainsTypes(t *testing.T) {
	res := newFiltersTestResources(t)
	ctx := ownerCtx(domain.Player1)
	f := domain.TokenFilter{ContainsTypes: []string{"flying"}}
	got, err := applyFilter(f, []domain.TokenInstanceId{1, 2}, ctx, res)
	if err != nil {
		t.Fatalf("applyFilter: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("applyFilter(ContainsTypes flying) = %v, want empty (no goblin flies)", got)
	}
}

func TestAnyAdjacentUsesOwnSidePositions(t *testing.T) {
	res := newFiltersTestResources(t)
	// Player1's slots sit at (0,0,0) and (1,0,0): adjacent.
	if !anyAdjacent(res, []domain.TokenInstanceId{1}, []domain.TokenInstanceId{2}) {
		t.Fatal("tokens 1 and 2 sit on adjacent Player1 slots")
	}
	// Player2's slots sit at (0,0,0) and (5,5,5): not adjacent.
	if anyAdjacent(res, []domain.TokenInstanceId{3}, []domain.TokenInstanceId{4}) {
		t.Fatal("tokens 3 and 4 sit on distant Player2 slots and should not be adjacent")
	}
}

func TestEvalPredicateCount(t *testing.T) {
	res := newFiltersTestResources(t)
	ctx := ownerCtx(domain.Player1)
	p := domain.CountPredicate{
		Filter:    domain.TokenFilter{OwnedBy: &domain.PlayerTarget{Kind: domain.PlayerOwner}},
		Condition: domain.CmpEQ,
		Count:     2,
	}
	ok, err := evalPredicate(p, ctx, res)
	if err != nil {
		t.Fatalf("evalPredicate: %v", err)
	}
	if !ok {
		t.Fatal("expected exactly 2 Player1 tokens in play")
	}
}

func TestEvalPredicateAdjacentTo(t *testing.T) {
	res := newFiltersTestResources(t)
	ctx := ownerCtx(domain.Player1)
	p := domain.AdjacentToPredicate{
		Source: domain.UnitTarget{Kind: domain.TargetContext, ContextKey: domain.KeyTriggerThis},
		Target: domain.UnitTarget{Kind: domain.TargetAll},
	}
	ctx.Set(domain.KeyTriggerThis, domain.TokenValue(1))
	ok, err := evalPredicate(p, ctx, res)
	if err != nil {
		t.Fatalf("evalPredicate: %v", err)
	}
	if !ok {
		t.Fatal("token 1 should be adjacent to token 2 on Player1's field")
	}
}

func TestCompareInt(t *testing.T) {
	cases := []struct {
		a  int
		op domain.CompareOp
		b  int
		ok bool
	}{
		{1, domain.CmpLT, 2, true},
		{2, domain.CmpLT, 2, false},
		{2, domain.CmpLE, 2, true},
		{2, domain.CmpEQ, 2, true},
		{2, domain.CmpNE, 3, true},
		{3, domain.CmpGE, 3, true},
		{4, domain.CmpGT, 3, true},
	}
	for _, c := range cases {
		if got := compareInt(c.a, c.op, c.b); got != c.ok {
			t.Errorf("compareInt(%d, %v, %d) = %v, want %v", c.a, c.op, c.b, got, c.ok)
		}
	}
}
