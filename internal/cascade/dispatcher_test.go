package cascade

import (
	"math/rand"
	"testing"

	"cascadeengine/internal/domain"
	"cascadeengine/internal/state"
)

func TestBehaviorMatchesActivatorOwned(t *testing.T) {
	e := &Engine{}
	b := domain.Behavior{Triggers: []domain.Trigger{
		{When: domain.TriggerWhen{Activator: domain.ActivatorOwned, Name: domain.HasBeenMoved}},
	}}
	ok, err := e.behaviorMatches(b, true, false, domain.HasBeenMoved, domain.NewContext())
	if err != nil || !ok {
		t.Fatalf("ActivatorOwned should match an owned token: %v, %v", ok, err)
	}
	ok, err = e.behaviorMatches(b, false, false, domain.HasBeenMoved, domain.NewContext())
	if err != nil || ok {
		t.Fatalf("ActivatorOwned should not match an opponent's token: %v, %v", ok, err)
	}
}

func TestBehaviorMatchesActivatorThisRequiresIsThis(t *testing.T) {
	e := &Engine{}
	b := domain.Behavior{Triggers: []domain.Trigger{
		{When: domain.TriggerWhen{Activator: domain.ActivatorThis, Name: domain.HasBeenAttacked}},
	}}
	if ok, _ := e.behaviorMatches(b, true, false, domain.HasBeenAttacked, domain.NewContext()); ok {
		t.Fatal("ActivatorThis should require isThis, not just isOwned")
	}
	if ok, _ := e.behaviorMatches(b, false, true, domain.HasBeenAttacked, domain.NewContext()); !ok {
		t.Fatal("ActivatorThis should match when isThis is true regardless of ownership")
	}
}

func TestBehaviorMatchesWrongStateNeverMatches(t *testing.T) {
	e := &Engine{}
	b := domain.Behavior{Triggers: []domain.Trigger{
		{When: domain.TriggerWhen{Activator: domain.ActivatorEither, Name: domain.HasBeenMoved}},
	}}
	if ok, _ := e.behaviorMatches(b, true, true, domain.HasBeenAttacked, domain.NewContext()); ok {
		t.Fatal("a trigger named for a different state must never match")
	}
}

func TestDispatchOrderPutsEquipmentBeforeUnit(t *testing.T) {
	reg := domain.NewRegistry([]*domain.TokenData{
		{ID: "goblin", Category: domain.Category{Kind: domain.CategoryUnit}},
		{ID: "amulet", Category: domain.Category{Kind: domain.CategoryItem}},
	})
	res := state.New(reg, rand.New(rand.NewSource(1)), domain.Player1)
	_, hand, hero, landscape, graveyard := domain.WellKnownLocations(domain.Player1)
	res.InsertLocation(domain.NewCollection(hand))
	res.InsertLocation(domain.NewSlot(hero))
	res.InsertLocation(domain.NewSlot(landscape))
	res.InsertLocation(domain.NewCollection(graveyard))
	res.Board.PrepareLandscape(domain.Player1, []domain.SlotPosition{{0, 0, 0}})
	fieldSlot := res.Board.Side(domain.Player1).Field[0]
	res.InsertLocation(domain.NewSlot(fieldSlot))

	unit, err := res.Registry.Instantiate("goblin", 1, fieldSlot, domain.Player1)
	if err != nil {
		t.Fatalf("Instantiate(goblin): %v", err)
	}
	res.TokenInstances[1] = unit
	loc, _ := res.GetLocation(fieldSlot)
	loc.Add(1)

	equipSlot := res.NextEquipmentSlotID()
	res.InsertLocation(domain.NewSlot(equipSlot))
	unit.EquipmentSlots = []domain.LocationId{equipSlot}
	item, err := res.Registry.Instantiate("amulet", 2, equipSlot, domain.Player1)
	if err != nil {
		t.Fatalf("Instantiate(amulet): %v", err)
	}
	res.TokenInstances[2] = item
	itemLoc, _ := res.GetLocation(equipSlot)
	itemLoc.Add(2)

	e := NewEngine(res, nil)
	order := e.dispatchOrder()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("dispatchOrder() = %v, want [2 1] (equipment before its unit)", order)
	}
}

func TestPrepareContextForStateBindsTriggerThis(t *testing.T) {
	reg := domain.NewRegistry([]*domain.TokenData{{ID: "goblin", Category: domain.Category{Kind: domain.CategoryUnit}}})
	res := state.New(reg, rand.New(rand.NewSource(1)), domain.Player1)
	res.InsertLocation(domain.NewCollection(1))
	tok, _ := res.Registry.Instantiate("goblin", 1, 1, domain.Player2)
	res.TokenInstances[1] = tok

	e := NewEngine(res, nil)
	ctx := domain.NewContext()
	ctx.Set(domain.KeyAttacker, domain.TokenValue(1))

	binding, err := e.prepareContextForState(domain.WillAttack, ctx)
	if err != nil {
		t.Fatalf("prepareContextForState: %v", err)
	}
	if binding.owner != domain.Player2 || !binding.hasThisToken || binding.thisToken != 1 {
		t.Fatalf("binding = %+v, want owner=Player2 thisToken=1", binding)
	}
	owner, _ := ctx.Player(domain.KeyOwner)
	this, _ := ctx.Token(domain.KeyTriggerThis)
	if owner != domain.Player2 || this != 1 {
		t.Fatalf("context not updated: owner=%v trigger_this=%v", owner, this)
	}
}
