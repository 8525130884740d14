package state

import (
	"math/rand"
	"testing"

	"cascadeengine/internal/domain"
)

func newTestResources() *Resources {
	reg := domain.NewRegistry([]*domain.TokenData{
		{ID: "hero", Category: domain.Category{Kind: domain.CategoryHero, Health: 20}},
		{ID: "goblin", Category: domain.Category{Kind: domain.CategoryUnit, Health: 3, Attack: 2}},
	})
	return New(reg, rand.New(rand.NewSource(1)), domain.Player1)
}

func TestResourcesGetPlayer(t *testing.T) {
	res := newTestResources()
	p1 := res.GetPlayer(domain.Player1)
	p1.Thaum = 5
	if res.Player1.Thaum != 5 {
		t.Fatal("GetPlayer should return a pointer into the live Player record")
	}
	if res.GetPlayer(domain.Player2) != &res.Player2 {
		t.Fatal("GetPlayer(Player2) should return &res.Player2")
	}
}

func TestResourcesGetLocationUnknown(t *testing.T) {
	res := newTestResources()
	if _, err := res.GetLocation(999); err == nil {
		t.Fatal("expected an error for an unregistered location")
	}
}

func TestResourcesNextInstanceIDNeverZeroOrDuplicate(t *testing.T) {
	res := newTestResources()
	seen := map[domain.TokenInstanceId]bool{}
	for i := 0; i < 50; i++ {
		id := res.NextInstanceID()
		if id == 0 {
			t.Fatal("NextInstanceID must never return 0")
		}
		if seen[id] {
			t.Fatalf("NextInstanceID produced a duplicate: %d", id)
		}
		seen[id] = true
		res.TokenInstances[id] = &domain.TokenInstance{InstanceID: id}
	}
}

func TestResourcesNextEquipmentSlotIDIsMonotonic(t *testing.T) {
	res := newTestResources()
	a := res.NextEquipmentSlotID()
	b := res.NextEquipmentSlotID()
	if b <= a {
		t.Fatalf("equipment slot ids should be strictly increasing: %d then %d", a, b)
	}
	if a <= domain.EquipmentBase {
		t.Fatalf("first equipment slot id %d should be above EquipmentBase", a)
	}
}

func TestResourcesInPlayFiltersByLocationKind(t *testing.T) {
	res := newTestResources()
	deck, hand, hero, _, _ := domain.WellKnownLocations(domain.Player1)
	res.InsertLocation(domain.NewCollection(deck))
	res.InsertLocation(domain.NewCollection(hand))
	res.InsertLocation(domain.NewSlot(hero))

	inDeck := &domain.TokenInstance{InstanceID: 1, Location: deck}
	inHero := &domain.TokenInstance{InstanceID: 2, Location: hero}
	res.TokenInstances[1] = inDeck
	res.TokenInstances[2] = inHero

	inPlay := res.InPlay()
	if len(inPlay) != 1 || inPlay[0] != 2 {
		t.Fatalf("InPlay() = %v, want only the hero-slot token", inPlay)
	}
}

func TestResourcesEquipmentOwner(t *testing.T) {
	res := newTestResources()
	slot := res.NextEquipmentSlotID()
	unit := &domain.TokenInstance{InstanceID: 1, EquipmentSlots: []domain.LocationId{slot}}
	res.TokenInstances[1] = unit

	owner, ok := res.EquipmentOwner(slot)
	if !ok || owner != 1 {
		t.Fatalf("EquipmentOwner(%d) = %v, %v, want 1, true", slot, owner, ok)
	}
	if _, ok := res.EquipmentOwner(slot + 1); ok {
		t.Fatal("EquipmentOwner should report false for an unclaimed slot")
	}
}

func TestResourcesHeroOf(t *testing.T) {
	res := newTestResources()
	_, _, hero, _, _ := domain.WellKnownLocations(domain.Player1)
	res.InsertLocation(domain.NewSlot(hero))
	if _, ok := res.HeroOf(domain.Player1); ok {
		t.Fatal("HeroOf should report false before the hero slot is occupied")
	}

	loc, _ := res.GetLocation(hero)
	loc.Add(7)
	id, ok := res.HeroOf(domain.Player1)
	if !ok || id != 7 {
		t.Fatalf("HeroOf(Player1) = %v, %v, want 7, true", id, ok)
	}
}
