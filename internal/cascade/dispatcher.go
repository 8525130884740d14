package cascade

import (
	"strings"

	"cascadeengine/internal/domain"
	"cascadeengine/internal/prompt"
	"cascadeengine/internal/wire"
)

func isHasPhase(st domain.TriggerState) bool {
	return strings.HasPrefix(string(st), "has_")
}

// stateBinding is what prepareContextForState resolves for a given state:
// the owning player for context.owner, and, where applicable, the token
// bound as trigger_this.
type stateBinding struct {
	owner       domain.PlayerId
	thisToken   domain.TokenInstanceId
	hasThisToken bool
}

func (e *Engine) prepareContextForState(st domain.TriggerState, ctx *domain.Context) (stateBinding, error) {
	key, ok := thisKeyForState[st]
	if !ok {
		owner, err := ctx.Player(domain.KeyOwner)
		return stateBinding{owner: owner}, err
	}

	if key == domain.KeyPlayer {
		p, err := ctx.Player(domain.KeyPlayer)
		if err != nil {
			return stateBinding{}, err
		}
		ctx.Set(domain.KeyOwner, domain.PlayerValue(p))
		return stateBinding{owner: p}, nil
	}

	tokID, err := ctx.Token(key)
	if err != nil {
		return stateBinding{}, err
	}
	tok, err := e.Res.GetToken(tokID)
	if err != nil {
		return stateBinding{}, err
	}
	ctx.Set(domain.KeyOwner, domain.PlayerValue(tok.Owner))
	ctx.Set(domain.KeyTriggerThis, domain.TokenValue(tokID))
	return stateBinding{owner: tok.Owner, thisToken: tokID, hasThisToken: true}, nil
}

// dispatchOrder flattens the in-play snapshot into equipment-then-self entries
// (§4.7/§4.8, §8 "Equipment fires first"). Tokens are visited in the order
// Resources.InPlay returns them, which is Go map iteration order and is not
// stable between calls; only equipment-before-its-unit is guaranteed.
func (e *Engine) dispatchOrder() []domain.TokenInstanceId {
	inPlay := e.Res.InPlay()
	inPlaySet := make(map[domain.TokenInstanceId]bool, len(inPlay))
	for _, id := range inPlay {
		inPlaySet[id] = true
	}
	var out []domain.TokenInstanceId
	for _, id := range inPlay {
		tok, err := e.Res.GetToken(id)
		if err != nil {
			continue
		}
		// An equipped item is emitted just ahead of its in-play unit below.
		if owner, ok := e.Res.EquipmentOwner(tok.Location); ok && inPlaySet[owner] {
			continue
		}
		for _, slot := range tok.EquipmentSlots {
			loc, err := e.Res.GetLocation(slot)
			if err != nil {
				continue
			}
			if item, ok := loc.First(); ok {
				out = append(out, item)
			}
		}
		out = append(out, id)
	}
	return out
}

// dispatchState binds trigger_this/context.owner for st, dispatches every
// in-play token's matching behaviors against the pre-mutation snapshot, and
// only then — via the continuation passed to dispatchEntry — runs the
// state's has-phase mutation (§4.7: "After dispatch completes, the state's
// has-phase side effect runs"). This ordering matters for self-triggers: a
// token destroyed by HasBeenDestroyed's own mutation must still be in play
// while HasBeenDestroyed is dispatched, or its own death-rattle behavior
// could never match.
//
// HasBeenDrawn is the one state whose trigger_this key (the drawn token)
// doesn't exist until something produces it; bindDrawnToken peeks the
// deck head to bind it without yet moving it, leaving the actual move to
// applyStateEffect after dispatch.
func (e *Engine) dispatchState(st domain.TriggerState, ctx *domain.Context, k contFn) (*prompt.Callback, error) {
	if e.ended {
		return nil, nil
	}
	if st == domain.HasBeenDrawn {
		ended, err := e.bindDrawnToken(ctx)
		if err != nil {
			return nil, err
		}
		if ended || e.ended {
			return nil, nil
		}
	}
	binding, err := e.prepareContextForState(st, ctx)
	if err != nil {
		return nil, err
	}
	entries := e.dispatchOrder()

	after := k
	if isHasPhase(st) {
		after = func() (*prompt.Callback, error) {
			if err := e.applyStateEffect(st, ctx); err != nil {
				return nil, err
			}
			if e.ended {
				return nil, nil
			}
			return k()
		}
	}
	return e.dispatchEntry(entries, 0, binding, st, ctx, after)
}

// bindDrawnToken peeks the drawing player's deck head and binds it as
// trigger_this for HasBeenDrawn, without removing it from the deck — the
// move into hand happens in applyStateEffect, after dispatch. Reports
// whether the draw ended the match (empty deck).
func (e *Engine) bindDrawnToken(ctx *domain.Context) (bool, error) {
	player, err := ctx.Player(domain.KeyPlayer)
	if err != nil {
		return false, err
	}
	deck, _, _, _, _ := domain.WellKnownLocations(player)
	deckLoc, err := e.Res.GetLocation(deck)
	if err != nil {
		return false, err
	}
	head, ok := deckLoc.First()
	if !ok {
		e.emit(wire.EndGame{Winner: player.Opponent()})
		e.ended = true
		e.groups = nil
		return true, nil
	}
	ctx.Set(domain.KeyDrawnToken, domain.TokenValue(head))
	return false, nil
}

func (e *Engine) dispatchEntry(entries []domain.TokenInstanceId, idx int, binding stateBinding, st domain.TriggerState, ctx *domain.Context, k contFn) (*prompt.Callback, error) {
	if e.ended {
		return nil, nil
	}
	if idx >= len(entries) {
		return k()
	}
	tokenID := entries[idx]
	next := func() (*prompt.Callback, error) {
		return e.dispatchEntry(entries, idx+1, binding, st, ctx, k)
	}
	tok, err := e.Res.GetToken(tokenID)
	if err != nil {
		return next()
	}
	isOwned := tok.Owner == binding.owner
	isThis := binding.hasThisToken && binding.thisToken == tokenID
	return e.dispatchBehavior(tok.Behaviors, 0, tokenID, isOwned, isThis, st, ctx, next)
}

func (e *Engine) dispatchBehavior(behaviors []domain.Behavior, bi int, tokenID domain.TokenInstanceId, isOwned, isThis bool, st domain.TriggerState, ctx *domain.Context, k contFn) (*prompt.Callback, error) {
	if e.ended {
		return nil, nil
	}
	if bi >= len(behaviors) {
		return k()
	}
	b := behaviors[bi]
	next := func() (*prompt.Callback, error) {
		return e.dispatchBehavior(behaviors, bi+1, tokenID, isOwned, isThis, st, ctx, k)
	}
	matched, err := e.behaviorMatches(b, isOwned, isThis, st, ctx)
	if err != nil {
		return nil, err
	}
	if !matched {
		return next()
	}
	ctx.Set(domain.KeyActionThis, domain.TokenValue(tokenID))
	return e.runActionsCPS(b.Actions, len(b.Actions)-1, ctx, next)
}

func (e *Engine) behaviorMatches(b domain.Behavior, isOwned, isThis bool, st domain.TriggerState, ctx *domain.Context) (bool, error) {
	for _, trig := range b.Triggers {
		if trig.When.Name != st {
			continue
		}
		var activatorOK bool
		switch trig.When.Activator {
		case domain.ActivatorOwned:
			activatorOK = isOwned
		case domain.ActivatorOpponent:
			activatorOK = !isOwned
		case domain.ActivatorThis:
			activatorOK = isThis
		case domain.ActivatorEither:
			activatorOK = true
		}
		if !activatorOK {
			continue
		}
		if trig.And == nil {
			return true, nil
		}
		ok, err := evalPredicate(trig.And, ctx, e.Res)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
