package domain

import "testing"

func TestRegistryInstantiateCopiesTemplateStats(t *testing.T) {
	tmpl := &TokenData{
		ID:    "goblin",
		Cost:  2,
		Types: []string{"beast"},
		Category: Category{
			Kind: CategoryUnit, Health: 3, Defense: 1, Attack: 2,
		},
		Behaviors: []Behavior{{Name: "rally", Actions: []Action{}}},
	}
	reg := NewRegistry([]*TokenData{tmpl})

	inst, err := reg.Instantiate("goblin", 42, 1000, Player1)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if inst.CurrentStats != (Stats{Health: 3, Defense: 1, Attack: 2}) {
		t.Fatalf("CurrentStats = %+v, want template stats", inst.CurrentStats)
	}
	if !inst.Hidden {
		t.Fatal("a freshly instantiated token should start Hidden")
	}
	if len(inst.Behaviors) != 1 || &inst.Behaviors[0] == &tmpl.Behaviors[0] {
		t.Fatal("Behaviors should be an independent deep copy of the template's")
	}
}

func TestRegistryInstantiateUnknownTemplate(t *testing.T) {
	reg := NewRegistry(nil)
	if _, err := reg.Instantiate("does_not_exist", 1, 1, Player1); err == nil {
		t.Fatal("expected an error instantiating an unknown template id")
	}
}

func TestTokenInstanceHasType(t *testing.T) {
	tmpl := &TokenData{ID: "goblin", Types: []string{"beast"}}
	inst := &TokenInstance{Template: tmpl, ExtraTypes: []string{"cursed"}}
	if !inst.HasType("beast") {
		t.Fatal("HasType should see template types")
	}
	if !inst.HasType("cursed") {
		t.Fatal("HasType should see instance-level ExtraTypes")
	}
	if inst.HasType("flying") {
		t.Fatal("HasType should not match an absent tag")
	}
}

func TestCloneBehaviorsIsIndependent(t *testing.T) {
	src := []Behavior{{Name: "rally", Triggers: []Trigger{{}}, Actions: []Action{}}}
	clone := CloneBehaviors(src)
	clone[0].Name = "mutated"
	if src[0].Name != "rally" {
		t.Fatal("CloneBehaviors should not let mutation of the clone reach the source")
	}
}
