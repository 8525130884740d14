package registry

import (
	"testing"

	"gopkg.in/yaml.v3"

	"cascadeengine/internal/domain"
)

func decodeYAMLNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if len(doc.Content) != 1 {
		t.Fatalf("expected a single document node, got %d", len(doc.Content))
	}
	return doc.Content[0]
}

func TestDecodePlayerTargetVariants(t *testing.T) {
	cases := map[string]domain.PlayerTargetKind{
		"owner":    domain.PlayerOwner,
		"opponent": domain.PlayerOpponent,
		"either":   domain.PlayerEither,
		"random":   domain.PlayerRandom,
	}
	for s, want := range cases {
		got, err := decodePlayerTarget(decodeYAMLNode(t, s))
		if err != nil {
			t.Fatalf("decodePlayerTarget(%q): %v", s, err)
		}
		if got.Kind != want {
			t.Errorf("decodePlayerTarget(%q) = %v, want %v", s, got.Kind, want)
		}
	}
	if _, err := decodePlayerTarget(decodeYAMLNode(t, "bogus")); err == nil {
		t.Fatal("decodePlayerTarget should error on an unknown string")
	}
}

func TestDecodeLocationTargetVariants(t *testing.T) {
	cases := map[string]domain.LocationTargetKind{
		"own_deck":           domain.LocOwnDeck,
		"own_hand":           domain.LocOwnHand,
		"own_hero":           domain.LocOwnHero,
		"own_landscape":      domain.LocOwnLandscape,
		"own_graveyard":      domain.LocOwnGraveyard,
		"opponent_graveyard": domain.LocOpponentGraveyard,
	}
	for s, want := range cases {
		got, err := decodeLocationTarget(decodeYAMLNode(t, s))
		if err != nil {
			t.Fatalf("decodeLocationTarget(%q): %v", s, err)
		}
		if got.Kind != want {
			t.Errorf("decodeLocationTarget(%q) = %v, want %v", s, got.Kind, want)
		}
	}
}

func TestDecodeEntityFindAppliesFilter(t *testing.T) {
	node := decodeYAMLNode(t, "find:\n  owned_by: opponent\n")
	ut, err := decodeUnitTarget(node)
	if err != nil {
		t.Fatalf("decodeUnitTarget(find): %v", err)
	}
	if ut.Kind != domain.TargetFind || ut.Filter.OwnedBy == nil || ut.Filter.OwnedBy.Kind != domain.PlayerOpponent {
		t.Fatalf("decodeUnitTarget(find) = %+v, want Find with OwnedBy=opponent", ut)
	}
}

func TestDecodeEntityContextCarriesKey(t *testing.T) {
	node := decodeYAMLNode(t, "context: defender\n")
	tt, err := decodeTokenTarget(node)
	if err != nil {
		t.Fatalf("decodeTokenTarget(context): %v", err)
	}
	if tt.Kind != domain.TargetContext || tt.ContextKey != "defender" {
		t.Fatalf("decodeTokenTarget(context) = %+v, want Context key=defender", tt)
	}
}

func TestDecodeEntityUnknownVariantErrors(t *testing.T) {
	node := decodeYAMLNode(t, "nonsense: {}\n")
	if _, err := decodeUnitTarget(node); err == nil {
		t.Fatal("decodeUnitTarget should reject an unknown variant key")
	}
}

func TestDecodeFilterCombinesOwnedByAndAdjacentTo(t *testing.T) {
	node := decodeYAMLNode(t, `
owned_by: owner
adjacent_to:
  this: {}
contains_types: [beast, flying]
id_is: [goblin]
`)
	f, err := decodeFilter(node)
	if err != nil {
		t.Fatalf("decodeFilter: %v", err)
	}
	if f.OwnedBy == nil || f.OwnedBy.Kind != domain.PlayerOwner {
		t.Fatalf("filter.OwnedBy = %+v, want owner", f.OwnedBy)
	}
	if f.AdjacentTo == nil || f.AdjacentTo.Kind != domain.TargetThis {
		t.Fatalf("filter.AdjacentTo = %+v, want this", f.AdjacentTo)
	}
	if len(f.ContainsTypes) != 2 || len(f.IDIs) != 1 {
		t.Fatalf("filter = %+v, want 2 contains_types and 1 id_is entry", f)
	}
}

func TestDecodeCompareOpVariants(t *testing.T) {
	cases := map[string]domain.CompareOp{
		"lt": domain.CmpLT, "le": domain.CmpLE, "eq": domain.CmpEQ,
		"ne": domain.CmpNE, "ge": domain.CmpGE, "gt": domain.CmpGT,
	}
	for s, want := range cases {
		got, err := decodeCompareOp(s)
		if err != nil || got != want {
			t.Errorf("decodeCompareOp(%q) = %v, %v, want %v", s, got, err, want)
		}
	}
	if _, err := decodeCompareOp("bogus"); err == nil {
		t.Fatal("decodeCompareOp should error on an unknown operator")
	}
}

func TestDecodePredicateCount(t *testing.T) {
	node := decodeYAMLNode(t, `
count:
  filter:
    owned_by: owner
  condition: ge
  count: 2
`)
	p, err := decodePredicate(node)
	if err != nil {
		t.Fatalf("decodePredicate(count): %v", err)
	}
	cp, ok := p.(domain.CountPredicate)
	if !ok {
		t.Fatalf("decodePredicate(count) = %T, want domain.CountPredicate", p)
	}
	if cp.Condition != domain.CmpGE || cp.Count != 2 {
		t.Fatalf("CountPredicate = %+v, want Condition=ge Count=2", cp)
	}
}

func TestDecodePredicateAdjacentTo(t *testing.T) {
	node := decodeYAMLNode(t, `
adjacent_to:
  source:
    this: {}
  target:
    all: {}
`)
	p, err := decodePredicate(node)
	if err != nil {
		t.Fatalf("decodePredicate(adjacent_to): %v", err)
	}
	ap, ok := p.(domain.AdjacentToPredicate)
	if !ok {
		t.Fatalf("decodePredicate(adjacent_to) = %T, want domain.AdjacentToPredicate", p)
	}
	if ap.Source.Kind != domain.TargetThis || ap.Target.Kind != domain.TargetAll {
		t.Fatalf("AdjacentToPredicate = %+v, want Source=this Target=all", ap)
	}
}

func TestDecodeActionDamageUnit(t *testing.T) {
	node := decodeYAMLNode(t, `
damage_unit:
  target:
    context: defender
  amount: 3
`)
	a, err := decodeAction(node)
	if err != nil {
		t.Fatalf("decodeAction(damage_unit): %v", err)
	}
	da, ok := a.(domain.DamageUnitAction)
	if !ok {
		t.Fatalf("decodeAction(damage_unit) = %T, want domain.DamageUnitAction", a)
	}
	if da.Target.Kind != domain.TargetContext || da.Target.ContextKey != "defender" || da.Amount != 3 {
		t.Fatalf("DamageUnitAction = %+v, want Context(defender) Amount=3", da)
	}
}

func TestDecodeActionModifyAttackHealthDefense(t *testing.T) {
	src := `
modify_attack:
  target:
    this: {}
  amount: -1
`
	a, err := decodeAction(decodeYAMLNode(t, src))
	if err != nil {
		t.Fatalf("decodeAction(modify_attack): %v", err)
	}
	ma, ok := a.(domain.ModifyAttackAction)
	if !ok || ma.Amount != -1 || ma.Target.Kind != domain.TargetThis {
		t.Fatalf("decodeAction(modify_attack) = %+v, %v", a, ok)
	}
}

func TestDecodeActionCancelHasNoFields(t *testing.T) {
	a, err := decodeAction(decodeYAMLNode(t, "cancel: {}\n"))
	if err != nil {
		t.Fatalf("decodeAction(cancel): %v", err)
	}
	if _, ok := a.(domain.CancelAction); !ok {
		t.Fatalf("decodeAction(cancel) = %T, want domain.CancelAction", a)
	}
}

func TestDecodeActionCreateTokenAndSummon(t *testing.T) {
	create, err := decodeAction(decodeYAMLNode(t, "create_token:\n  location: own_landscape\n  token: goblin\n"))
	if err != nil {
		t.Fatalf("decodeAction(create_token): %v", err)
	}
	ct, ok := create.(domain.CreateTokenAction)
	if !ok || ct.Token != "goblin" || ct.Location.Kind != domain.LocOwnLandscape {
		t.Fatalf("CreateTokenAction = %+v, %v", create, ok)
	}

	summon, err := decodeAction(decodeYAMLNode(t, "summon:\n  target: own_landscape\n  token: goblin\n"))
	if err != nil {
		t.Fatalf("decodeAction(summon): %v", err)
	}
	sa, ok := summon.(domain.SummonAction)
	if !ok || sa.Token != "goblin" || sa.Target.Kind != domain.LocOwnLandscape {
		t.Fatalf("SummonAction = %+v, %v", summon, ok)
	}
}

func TestDecodeActionAddRemoveBehavior(t *testing.T) {
	add, err := decodeAction(decodeYAMLNode(t, "add_behavior:\n  target:\n    this: {}\n  behavior: enrage\n"))
	if err != nil {
		t.Fatalf("decodeAction(add_behavior): %v", err)
	}
	ab, ok := add.(domain.AddBehaviorAction)
	if !ok || ab.Behavior != "enrage" {
		t.Fatalf("AddBehaviorAction = %+v, %v", add, ok)
	}

	remove, err := decodeAction(decodeYAMLNode(t, "remove_behavior:\n  target:\n    this: {}\n  behavior: enrage\n"))
	if err != nil {
		t.Fatalf("decodeAction(remove_behavior): %v", err)
	}
	if _, ok := remove.(domain.RemoveBehaviorAction); !ok {
		t.Fatalf("decodeAction(remove_behavior) = %T, want domain.RemoveBehaviorAction", remove)
	}
}

func TestDecodeActionSetAndModifyCounter(t *testing.T) {
	set, err := decodeAction(decodeYAMLNode(t, "set_counter:\n  target:\n    this: {}\n  counter: charges\n  value: 3\n"))
	if err != nil {
		t.Fatalf("decodeAction(set_counter): %v", err)
	}
	sc, ok := set.(domain.SetCounterAction)
	if !ok || sc.Counter != "charges" || sc.Value != 3 {
		t.Fatalf("SetCounterAction = %+v, %v", set, ok)
	}

	mod, err := decodeAction(decodeYAMLNode(t, "modify_counter:\n  target:\n    this: {}\n  counter: charges\n  amount: -1\n"))
	if err != nil {
		t.Fatalf("decodeAction(modify_counter): %v", err)
	}
	mc, ok := mod.(domain.ModifyCounterAction)
	if !ok || mc.Counter != "charges" || mc.Amount != -1 {
		t.Fatalf("ModifyCounterAction = %+v, %v", mod, ok)
	}
}

func TestDecodeActionUnknownVariantErrors(t *testing.T) {
	if _, err := decodeAction(decodeYAMLNode(t, "not_a_real_action: {}\n")); err == nil {
		t.Fatal("decodeAction should reject an unknown action variant")
	}
}

func TestSingleKeyRejectsMultipleKeys(t *testing.T) {
	node := decodeYAMLNode(t, "a: 1\nb: 2\n")
	if _, _, err := singleKey(node); err == nil {
		t.Fatal("singleKey should reject a map with more than one entry")
	}
}
