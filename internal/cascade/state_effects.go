package cascade

import (
	"cascadeengine/internal/domain"
	"cascadeengine/internal/wire"
)

// applyStateEffect runs the mutation associated with a Has-phase, after
// dispatchState has already dispatched that state's behaviors against the
// pre-mutation snapshot (§4.7). This lets a token still in play during its
// own HasBeenDestroyed/HasBeenMoved dispatch fire a this-activated behavior
// on itself before the mutation removes it. Will-phases and CheckCancel
// never reach here.
func (e *Engine) applyStateEffect(st domain.TriggerState, ctx *domain.Context) error {
	switch st {
	case domain.HasBeenCreated, domain.HasBeenSummoned, domain.HasAttacked, domain.HasDefeated,
		domain.HasBeenDefeated, domain.HasEquipped:
		// Purely observational; the mutation already happened (creation) or
		// happens at a sibling state in the same family.
		return nil

	case domain.HasBeenMoved:
		tokID, err := ctx.Token(domain.KeyTokenToMove)
		if err != nil {
			return err
		}
		to, err := ctx.Location(domain.KeyToLocation)
		if err != nil {
			return err
		}
		return e.MoveToken(tokID, to, "")

	case domain.HasBeenAttacked:
		return e.resolveAttackDamage(ctx)

	case domain.HasBeenEffectDamaged:
		defID, err := ctx.Token(domain.KeyDefender)
		if err != nil {
			return err
		}
		amount, err := ctx.Int(domain.KeyEffectDamage)
		if err != nil {
			return err
		}
		tok, err := e.Res.GetToken(defID)
		if err != nil {
			return err
		}
		processDamage(tok, amount)
		e.emit(wire.UpdateData{Token: tok})
		return e.maybeDefeat(tok, ctx)

	case domain.HasBeenDestroyed:
		tokID, err := ctx.Token(domain.KeyTokenToDestroy)
		if err != nil {
			return err
		}
		return e.DestroyToken(tokID)

	case domain.HasDrawnToken:
		return nil

	case domain.HasBeenDrawn:
		return e.resolveDraw(ctx)

	case domain.HasBeenEquipped:
		return e.resolveEquip(ctx)

	default:
		return nil
	}
}

// resolveAttackDamage applies the attacker's attack to the defender and, if
// the defender survives with positive attack and this isn't itself a
// counter-attack, enqueues the counter (§4.7 ordering rule 1: counters push
// to the back).
func (e *Engine) resolveAttackDamage(ctx *domain.Context) error {
	attackerID, err := ctx.Token(domain.KeyAttacker)
	if err != nil {
		return err
	}
	defenderID, err := ctx.Token(domain.KeyDefender)
	if err != nil {
		return err
	}
	attacker, err := e.Res.GetToken(attackerID)
	if err != nil {
		return err
	}
	defender, err := e.Res.GetToken(defenderID)
	if err != nil {
		return err
	}

	processDamage(defender, attacker.CurrentStats.Attack)
	e.emit(wire.Animate{Token: attackerID, Location: attacker.Location, Duration: 0.4, Preset: wire.AnimAttack})
	e.emit(wire.Animate{Token: defenderID, Location: defender.Location, Duration: 0.3, Preset: wire.AnimTakeDamage})
	e.emit(wire.UpdateData{Token: defender})

	if err := e.maybeDefeat(defender, ctx); err != nil {
		return err
	}
	if e.ended || defender.CurrentStats.Health == 0 {
		return nil
	}

	isCounter := ctx.BoolOr(domain.KeyIsCounterAttack, false)
	if !isCounter && defender.CurrentStats.Attack > 0 {
		e.EnqueueAttack(defenderID, attackerID, defender.Owner, true)
	}
	return nil
}

// maybeDefeat enqueues a Defeat transition when a token's health has reached
// zero (a Hero's defeat ends the match via DestroyToken's own hero check).
func (e *Engine) maybeDefeat(tok *domain.TokenInstance, ctx *domain.Context) error {
	if tok.CurrentStats.Health > 0 {
		return nil
	}
	owner, _ := ctx.Player(domain.KeyOwner)
	attacker := tok.InstanceID
	if a, err := ctx.Token(domain.KeyAttacker); err == nil {
		attacker = a
	}
	e.EnqueueDefeat(attacker, tok.InstanceID, owner)
	return nil
}

// resolveDraw moves the token bound by bindDrawnToken (dispatchState's
// HasBeenDrawn pre-step) from the owner's deck into their hand. The
// empty-deck match-ending check already ran in bindDrawnToken, before
// dispatch, since there's no token to bind trigger_this to in that case.
func (e *Engine) resolveDraw(ctx *domain.Context) error {
	player, err := ctx.Player(domain.KeyPlayer)
	if err != nil {
		return err
	}
	tokID, err := ctx.Token(domain.KeyDrawnToken)
	if err != nil {
		return err
	}
	_, hand, _, _, _ := domain.WellKnownLocations(player)
	return e.MoveToken(tokID, hand, "")
}

// resolveEquip attaches the equipping item to its target unit's slot.
func (e *Engine) resolveEquip(ctx *domain.Context) error {
	item, err := ctx.Token(domain.KeyEquippingItem)
	if err != nil {
		return err
	}
	slot, err := ctx.Location(domain.KeyToLocation)
	if err != nil {
		return err
	}
	return e.MoveToken(item, slot, "")
}
