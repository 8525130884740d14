package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"cascadeengine/internal/domain"
)

// This file decodes the declarative target/filter/predicate/action trees
// (domain.declarative.go) from their YAML encoding inside a behavior's
// `actions` and `and` blocks. Each shape is authored as a single-key map
// whose key names the variant, e.g. `find: {owned_by: opponent}` or
// `modify_attack: {target: {this: {}}, amount: -1}`.

func singleKey(node *yaml.Node) (string, *yaml.Node, error) {
	var wrapper map[string]yaml.Node
	if err := node.Decode(&wrapper); err != nil {
		return "", nil, err
	}
	if len(wrapper) != 1 {
		return "", nil, fmt.Errorf("expected exactly one variant key, got %d", len(wrapper))
	}
	for k, v := range wrapper {
		val := v
		return k, &val, nil
	}
	panic("unreachable")
}

func decodePlayerTarget(node *yaml.Node) (domain.PlayerTarget, error) {
	var s string
	if err := node.Decode(&s); err != nil {
		return domain.PlayerTarget{}, fmt.Errorf("player target: %w", err)
	}
	switch s {
	case "owner":
		return domain.PlayerTarget{Kind: domain.PlayerOwner}, nil
	case "opponent":
		return domain.PlayerTarget{Kind: domain.PlayerOpponent}, nil
	case "either":
		return domain.PlayerTarget{Kind: domain.PlayerEither}, nil
	case "random":
		return domain.PlayerTarget{Kind: domain.PlayerRandom}, nil
	default:
		return domain.PlayerTarget{}, fmt.Errorf("unknown player target %q", s)
	}
}

func decodeLocationTarget(node *yaml.Node) (domain.LocationTarget, error) {
	var s string
	if err := node.Decode(&s); err != nil {
		return domain.LocationTarget{}, fmt.Errorf("location target: %w", err)
	}
	switch s {
	case "own_deck":
		return domain.LocationTarget{Kind: domain.LocOwnDeck}, nil
	case "own_hand":
		return domain.LocationTarget{Kind: domain.LocOwnHand}, nil
	case "own_hero":
		return domain.LocationTarget{Kind: domain.LocOwnHero}, nil
	case "own_landscape":
		return domain.LocationTarget{Kind: domain.LocOwnLandscape}, nil
	case "own_graveyard":
		return domain.LocationTarget{Kind: domain.LocOwnGraveyard}, nil
	case "opponent_graveyard":
		return domain.LocationTarget{Kind: domain.LocOpponentGraveyard}, nil
	default:
		return domain.LocationTarget{}, fmt.Errorf("unknown location target %q", s)
	}
}

// decodeEntity decodes the shared This/Find/EquippingUnit/All/Context shape
// used by both UnitTarget and TokenTarget.
func decodeEntity(node *yaml.Node) (domain.EntityTargetKind, domain.TokenFilter, string, error) {
	key, body, err := singleKey(node)
	if err != nil {
		return 0, domain.TokenFilter{}, "", fmt.Errorf("entity target: %w", err)
	}
	switch key {
	case "this":
		return domain.TargetThis, domain.TokenFilter{}, "", nil
	case "equipping_unit":
		return domain.TargetEquippingUnit, domain.TokenFilter{}, "", nil
	case "all":
		return domain.TargetAll, domain.TokenFilter{}, "", nil
	case "context":
		var ck string
		if err := body.Decode(&ck); err != nil {
			return 0, domain.TokenFilter{}, "", fmt.Errorf("context target: %w", err)
		}
		return domain.TargetContext, domain.TokenFilter{}, ck, nil
	case "find":
		filter, err := decodeFilter(body)
		if err != nil {
			return 0, domain.TokenFilter{}, "", err
		}
		return domain.TargetFind, filter, "", nil
	default:
		return 0, domain.TokenFilter{}, "", fmt.Errorf("unknown entity target variant %q", key)
	}
}

func decodeUnitTarget(node *yaml.Node) (domain.UnitTarget, error) {
	kind, filter, ck, err := decodeEntity(node)
	if err != nil {
		return domain.UnitTarget{}, err
	}
	return domain.UnitTarget{Kind: kind, Filter: filter, ContextKey: ck}, nil
}

func decodeTokenTarget(node *yaml.Node) (domain.TokenTarget, error) {
	kind, filter, ck, err := decodeEntity(node)
	if err != nil {
		return domain.TokenTarget{}, err
	}
	return domain.TokenTarget{Kind: kind, Filter: filter, ContextKey: ck}, nil
}

type filterFile struct {
	OwnedBy       *yaml.Node `yaml:"owned_by"`
	AdjacentTo    *yaml.Node `yaml:"adjacent_to"`
	ContainsTypes []string   `yaml:"contains_types"`
	IDIs          []string   `yaml:"id_is"`
}

func decodeFilter(node *yaml.Node) (domain.TokenFilter, error) {
	var ff filterFile
	if err := node.Decode(&ff); err != nil {
		return domain.TokenFilter{}, fmt.Errorf("filter: %w", err)
	}
	out := domain.TokenFilter{ContainsTypes: ff.ContainsTypes, IDIs: ff.IDIs}
	if ff.OwnedBy != nil {
		pt, err := decodePlayerTarget(ff.OwnedBy)
		if err != nil {
			return domain.TokenFilter{}, err
		}
		out.OwnedBy = &pt
	}
	if ff.AdjacentTo != nil {
		ut, err := decodeUnitTarget(ff.AdjacentTo)
		if err != nil {
			return domain.TokenFilter{}, err
		}
		out.AdjacentTo = &ut
	}
	return out, nil
}

func decodeCompareOp(s string) (domain.CompareOp, error) {
	switch s {
	case "lt":
		return domain.CmpLT, nil
	case "le":
		return domain.CmpLE, nil
	case "eq":
		return domain.CmpEQ, nil
	case "ne":
		return domain.CmpNE, nil
	case "ge":
		return domain.CmpGE, nil
	case "gt":
		return domain.CmpGT, nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", s)
	}
}

func decodePredicate(node *yaml.Node) (domain.Predicate, error) {
	key, body, err := singleKey(node)
	if err != nil {
		return nil, fmt.Errorf("predicate: %w", err)
	}
	switch key {
	case "type_contains":
		var f struct {
			Target *yaml.Node `yaml:"target"`
			Types  []string   `yaml:"types"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, fmt.Errorf("type_contains: %w", err)
		}
		target, err := decodeTokenTarget(f.Target)
		if err != nil {
			return nil, err
		}
		return domain.TypeContainsPredicate{Target: target, Types: f.Types}, nil

	case "count":
		var f struct {
			Filter    *yaml.Node `yaml:"filter"`
			Condition string     `yaml:"condition"`
			Count     int        `yaml:"count"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
		filter, err := decodeFilter(f.Filter)
		if err != nil {
			return nil, err
		}
		op, err := decodeCompareOp(f.Condition)
		if err != nil {
			return nil, err
		}
		return domain.CountPredicate{Filter: filter, Condition: op, Count: f.Count}, nil

	case "adjacent_to":
		var f struct {
			Source *yaml.Node `yaml:"source"`
			Target *yaml.Node `yaml:"target"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, fmt.Errorf("adjacent_to: %w", err)
		}
		src, err := decodeUnitTarget(f.Source)
		if err != nil {
			return nil, err
		}
		dst, err := decodeUnitTarget(f.Target)
		if err != nil {
			return nil, err
		}
		return domain.AdjacentToPredicate{Source: src, Target: dst}, nil

	default:
		return nil, fmt.Errorf("unknown predicate variant %q", key)
	}
}

func decodeAction(node *yaml.Node) (domain.Action, error) {
	key, body, err := singleKey(node)
	if err != nil {
		return nil, fmt.Errorf("action: %w", err)
	}
	switch key {
	case "draw_token":
		var f struct {
			Target *yaml.Node `yaml:"target"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		pt, err := decodePlayerTarget(f.Target)
		if err != nil {
			return nil, err
		}
		return domain.DrawTokenAction{Target: pt}, nil

	case "destroy":
		t, err := decodeTargetField(body)
		if err != nil {
			return nil, err
		}
		return domain.DestroyAction{Target: t}, nil

	case "replace":
		var f struct {
			Target      *yaml.Node `yaml:"target"`
			Replacement string     `yaml:"replacement"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		t, err := decodeTokenTarget(f.Target)
		if err != nil {
			return nil, err
		}
		return domain.ReplaceAction{Target: t, Replacement: f.Replacement}, nil

	case "summon":
		var f struct {
			Target *yaml.Node `yaml:"target"`
			Token  string     `yaml:"token"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		lt, err := decodeLocationTarget(f.Target)
		if err != nil {
			return nil, err
		}
		return domain.SummonAction{Target: lt, Token: f.Token}, nil

	case "modify_attack", "modify_health", "modify_defense":
		ut, amount, err := decodeUnitAmount(body)
		if err != nil {
			return nil, err
		}
		switch key {
		case "modify_attack":
			return domain.ModifyAttackAction{Target: ut, Amount: amount}, nil
		case "modify_health":
			return domain.ModifyHealthAction{Target: ut, Amount: amount}, nil
		default:
			return domain.ModifyDefenseAction{Target: ut, Amount: amount}, nil
		}

	case "modify_cost":
		var f struct {
			Target *yaml.Node `yaml:"target"`
			Amount int        `yaml:"amount"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		t, err := decodeTokenTarget(f.Target)
		if err != nil {
			return nil, err
		}
		return domain.ModifyCostAction{Target: t, Amount: f.Amount}, nil

	case "add_types":
		var f struct {
			Target *yaml.Node `yaml:"target"`
			Types  []string   `yaml:"types"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		t, err := decodeTokenTarget(f.Target)
		if err != nil {
			return nil, err
		}
		return domain.AddTypesAction{Target: t, Types: f.Types}, nil

	case "damage_unit":
		ut, amount, err := decodeUnitAmount(body)
		if err != nil {
			return nil, err
		}
		return domain.DamageUnitAction{Target: ut, Amount: amount}, nil

	case "damage_hero":
		var f struct {
			Target *yaml.Node `yaml:"target"`
			Amount int        `yaml:"amount"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		pt, err := decodePlayerTarget(f.Target)
		if err != nil {
			return nil, err
		}
		return domain.DamageHeroAction{Target: pt, Amount: f.Amount}, nil

	case "redirect_target":
		var f struct {
			NewTarget *yaml.Node `yaml:"new_target"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		ut, err := decodeUnitTarget(f.NewTarget)
		if err != nil {
			return nil, err
		}
		return domain.RedirectTargetAction{NewTarget: ut}, nil

	case "cancel":
		return domain.CancelAction{}, nil

	case "select_unit":
		var f struct {
			ContextKey string     `yaml:"context_key"`
			Filter     *yaml.Node `yaml:"filter"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		filter, err := decodeFilter(f.Filter)
		if err != nil {
			return nil, err
		}
		return domain.SelectUnitAction{ContextKey: f.ContextKey, Filter: filter}, nil

	case "save_context":
		var f struct {
			ContextKey  string `yaml:"context_key"`
			PersonalKey string `yaml:"personal_key"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		return domain.SaveContextAction{ContextKey: f.ContextKey, PersonalKey: f.PersonalKey}, nil

	case "add_behavior", "remove_behavior":
		var f struct {
			Target   *yaml.Node `yaml:"target"`
			Behavior string     `yaml:"behavior"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		t, err := decodeTokenTarget(f.Target)
		if err != nil {
			return nil, err
		}
		if key == "add_behavior" {
			return domain.AddBehaviorAction{Target: t, Behavior: f.Behavior}, nil
		}
		return domain.RemoveBehaviorAction{Target: t, Behavior: f.Behavior}, nil

	case "set_counter":
		var f struct {
			Target  *yaml.Node `yaml:"target"`
			Counter string     `yaml:"counter"`
			Value   int        `yaml:"value"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		t, err := decodeTokenTarget(f.Target)
		if err != nil {
			return nil, err
		}
		return domain.SetCounterAction{Target: t, Counter: f.Counter, Value: f.Value}, nil

	case "modify_counter":
		var f struct {
			Target  *yaml.Node `yaml:"target"`
			Counter string     `yaml:"counter"`
			Amount  int        `yaml:"amount"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		t, err := decodeTokenTarget(f.Target)
		if err != nil {
			return nil, err
		}
		return domain.ModifyCounterAction{Target: t, Counter: f.Counter, Amount: f.Amount}, nil

	case "create_token":
		var f struct {
			Location *yaml.Node `yaml:"location"`
			Token    string     `yaml:"token"`
		}
		if err := body.Decode(&f); err != nil {
			return nil, err
		}
		lt, err := decodeLocationTarget(f.Location)
		if err != nil {
			return nil, err
		}
		return domain.CreateTokenAction{Location: lt, Token: f.Token}, nil

	default:
		return nil, fmt.Errorf("unknown action variant %q", key)
	}
}

func decodeTargetField(body *yaml.Node) (domain.TokenTarget, error) {
	var f struct {
		Target *yaml.Node `yaml:"target"`
	}
	if err := body.Decode(&f); err != nil {
		return domain.TokenTarget{}, err
	}
	return decodeTokenTarget(f.Target)
}

func decodeUnitAmount(body *yaml.Node) (domain.UnitTarget, int, error) {
	var f struct {
		Target *yaml.Node `yaml:"target"`
		Amount int        `yaml:"amount"`
	}
	if err := body.Decode(&f); err != nil {
		return domain.UnitTarget{}, 0, err
	}
	ut, err := decodeUnitTarget(f.Target)
	if err != nil {
		return domain.UnitTarget{}, 0, err
	}
	return ut, f.Amount, nil
}
