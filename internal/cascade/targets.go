package cascade

import (
	"fmt"

	"cascadeengine/internal/domain"
	"cascadeengine/internal/state"
)

// resolvePlayers resolves a PlayerTarget relative to ctx.owner (§4.5).
func resolvePlayers(t domain.PlayerTarget, ctx *domain.Context, res *state.Resources) ([]domain.PlayerId, error) {
	owner, err := ctx.Player(domain.KeyOwner)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case domain.PlayerOwner:
		return []domain.PlayerId{owner}, nil
	case domain.PlayerOpponent:
		return []domain.PlayerId{owner.Opponent()}, nil
	case domain.PlayerEither:
		return []domain.PlayerId{owner, owner.Opponent()}, nil
	case domain.PlayerRandom:
		if res.Rng.Intn(2) == 0 {
			return []domain.PlayerId{owner}, nil
		}
		return []domain.PlayerId{owner.Opponent()}, nil
	default:
		return nil, fmt.Errorf("cascade: unknown PlayerTarget kind %d", t.Kind)
	}
}

// resolveEntities is the shared resolver behind UnitTarget and TokenTarget:
// both share the same five variants, differing only in whether the Find and
// All results are additionally restricted to Unit-category tokens. This,
// EquippingUnit and Context return the resolved id without that restriction.
func resolveEntities(kind domain.EntityTargetKind, filter domain.TokenFilter, contextKey string, unitsOnly bool, ctx *domain.Context, res *state.Resources) ([]domain.TokenInstanceId, error) {
	switch kind {
	case domain.TargetThis:
		id, err := ctx.Token(domain.KeyActionThis)
		if err != nil {
			return nil, err
		}
		return []domain.TokenInstanceId{id}, nil

	case domain.TargetFind:
		all := res.InPlay()
		filtered, err := applyFilter(filter, all, ctx, res)
		if err != nil {
			return nil, err
		}
		if unitsOnly {
			filtered = onlyUnits(filtered, res)
		}
		return filtered, nil

	case domain.TargetEquippingUnit:
		this, err := ctx.Token(domain.KeyActionThis)
		if err != nil {
			return nil, err
		}
		item, err := res.GetToken(this)
		if err != nil {
			return nil, err
		}
		unit, ok := res.EquipmentOwner(item.Location)
		if !ok {
			return nil, fmt.Errorf("cascade: target EquippingUnit: token %d is not in an equipment slot", this)
		}
		return []domain.TokenInstanceId{unit}, nil

	case domain.TargetAll:
		all := res.InPlay()
		if unitsOnly {
			all = onlyUnits(all, res)
		}
		return all, nil

	case domain.TargetContext:
		id, err := ctx.Token(contextKey)
		if err != nil {
			return nil, err
		}
		return []domain.TokenInstanceId{id}, nil

	default:
		return nil, fmt.Errorf("cascade: unknown entity target kind %d", kind)
	}
}

func onlyUnits(ids []domain.TokenInstanceId, res *state.Resources) []domain.TokenInstanceId {
	out := ids[:0:0]
	for _, id := range ids {
		tok, err := res.GetToken(id)
		if err != nil {
			continue
		}
		if tok.Template.Category.Kind == domain.CategoryUnit {
			out = append(out, id)
		}
	}
	return out
}

func resolveUnitTarget(t domain.UnitTarget, ctx *domain.Context, res *state.Resources) ([]domain.TokenInstanceId, error) {
	return resolveEntities(t.Kind, t.Filter, t.ContextKey, true, ctx, res)
}

func resolveTokenTarget(t domain.TokenTarget, ctx *domain.Context, res *state.Resources) ([]domain.TokenInstanceId, error) {
	return resolveEntities(t.Kind, t.Filter, t.ContextKey, false, ctx, res)
}

// resolveLocationTarget resolves one of the six fixed well-known locations
// relative to ctx.owner.
func resolveLocationTarget(t domain.LocationTarget, ctx *domain.Context) (domain.LocationId, error) {
	owner, err := ctx.Player(domain.KeyOwner)
	if err != nil {
		return 0, err
	}
	deck, hand, hero, landscape, graveyard := domain.WellKnownLocations(owner)
	_, _, _, _, oppGraveyard := domain.WellKnownLocations(owner.Opponent())
	switch t.Kind {
	case domain.LocOwnDeck:
		return deck, nil
	case domain.LocOwnHand:
		return hand, nil
	case domain.LocOwnHero:
		return hero, nil
	case domain.LocOwnLandscape:
		return landscape, nil
	case domain.LocOwnGraveyard:
		return graveyard, nil
	case domain.LocOpponentGraveyard:
		return oppGraveyard, nil
	default:
		return 0, fmt.Errorf("cascade: unknown LocationTarget kind %d", t.Kind)
	}
}
