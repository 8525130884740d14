package cascade

import (
	"fmt"

	"cascadeengine/internal/domain"
	"cascadeengine/internal/state"
)

// applyFilter retains, in input order, every id in ids for which every
// present predicate on f passes (§4.5).
func applyFilter(f domain.TokenFilter, ids []domain.TokenInstanceId, ctx *domain.Context, res *state.Resources) ([]domain.TokenInstanceId, error) {
	out := ids[:0:0]
	for _, id := range ids {
		ok, err := tokenMatchesFilter(f, id, ctx, res)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func tokenMatchesFilter(f domain.TokenFilter, id domain.TokenInstanceId, ctx *domain.Context, res *state.Resources) (bool, error) {
	tok, err := res.GetToken(id)
	if err != nil {
		return false, err
	}

	if f.OwnedBy != nil {
		players, err := resolvePlayers(*f.OwnedBy, ctx, res)
		if err != nil {
			return false, err
		}
		if !containsPlayer(players, tok.Owner) {
			return false, nil
		}
	}

	if f.AdjacentTo != nil {
		others, err := resolveUnitTarget(*f.AdjacentTo, ctx, res)
		if err != nil {
			return false, err
		}
		if !anyAdjacent(res, []domain.TokenInstanceId{id}, others) {
			return false, nil
		}
	}

	for _, want := range f.ContainsTypes {
		if !tok.HasType(want) {
			return false, nil
		}
	}

	if len(f.IDIs) > 0 && !containsString(f.IDIs, tok.Template.ID) {
		return false, nil
	}

	return true, nil
}

func containsPlayer(ps []domain.PlayerId, p domain.PlayerId) bool {
	for _, v := range ps {
		if v == p {
			return true
		}
	}
	return false
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// fieldPosition returns the spatial coordinate of a token currently sitting
// in a field slot; ok is false for tokens elsewhere (hero, hand, deck, ...).
func fieldPosition(res *state.Resources, id domain.TokenInstanceId) (domain.SlotPosition, bool) {
	tok, err := res.GetToken(id)
	if err != nil {
		return domain.SlotPosition{}, false
	}
	return res.Board.PositionOf(tok.Location)
}

// anyAdjacent holds iff some a in source is field-adjacent to some b in
// target. Positions are looked up per the token's own side, via
// Board.PositionOf, which fixes the documented AdjacentTo bug (the original
// evaluated every side's tokens against player one's position list only).
func anyAdjacent(res *state.Resources, source, target []domain.TokenInstanceId) bool {
	for _, a := range source {
		pa, ok := fieldPosition(res, a)
		if !ok {
			continue
		}
		for _, b := range target {
			if a == b {
				continue
			}
			pb, ok := fieldPosition(res, b)
			if !ok {
				continue
			}
			if pa.IsAdjacentTo(pb) {
				return true
			}
		}
	}
	return false
}

// evalPredicate interprets one TriggerAnd predicate (§4.5).
func evalPredicate(p domain.Predicate, ctx *domain.Context, res *state.Resources) (bool, error) {
	switch v := p.(type) {
	case domain.TypeContainsPredicate:
		targets, err := resolveTokenTarget(v.Target, ctx, res)
		if err != nil {
			return false, err
		}
		for _, id := range targets {
			tok, err := res.GetToken(id)
			if err != nil {
				return false, err
			}
			for _, ty := range v.Types {
				if !tok.HasType(ty) {
					return false, nil
				}
			}
		}
		return true, nil

	case domain.CountPredicate:
		all := res.InPlay()
		filtered, err := applyFilter(v.Filter, all, ctx, res)
		if err != nil {
			return false, err
		}
		return compareInt(len(filtered), v.Condition, v.Count), nil

	case domain.AdjacentToPredicate:
		source, err := resolveUnitTarget(v.Source, ctx, res)
		if err != nil {
			return false, err
		}
		target, err := resolveUnitTarget(v.Target, ctx, res)
		if err != nil {
			return false, err
		}
		return anyAdjacent(res, source, target), nil

	default:
		return false, fmt.Errorf("cascade: unknown predicate type %T", p)
	}
}

func compareInt(a int, op domain.CompareOp, b int) bool {
	switch op {
	case domain.CmpLT:
		return a < b
	case domain.CmpLE:
		return a <= b
	case domain.CmpEQ:
		return a == b
	case domain.CmpNE:
		return a != b
	case domain.CmpGE:
		return a >= b
	case domain.CmpGT:
		return a > b
	default:
		return false
	}
}
