package cascade

import (
	"cascadeengine/internal/domain"
	"cascadeengine/internal/prompt"
)

// frontRow filters ids down to whichever field-slot occupants sit at the
// minimum Z coordinate on their side — the row closest to the opponent, and
// the only one allowed to initiate or receive a direct attack.
func (e *Engine) frontRow(ids []domain.TokenInstanceId) []domain.TokenInstanceId {
	minZ := map[domain.PlayerId]int{}
	seen := map[domain.PlayerId]bool{}
	pos := map[domain.TokenInstanceId]domain.SlotPosition{}
	for _, id := range ids {
		p, ok := fieldPosition(e.Res, id)
		if !ok {
			continue
		}
		pos[id] = p
		tok, err := e.Res.GetToken(id)
		if err != nil {
			continue
		}
		if !seen[tok.Owner] || p.Z < minZ[tok.Owner] {
			minZ[tok.Owner] = p.Z
			seen[tok.Owner] = true
		}
	}
	var out []domain.TokenInstanceId
	for _, id := range ids {
		p, ok := pos[id]
		if !ok {
			continue
		}
		tok, err := e.Res.GetToken(id)
		if err != nil {
			continue
		}
		if p.Z == minZ[tok.Owner] {
			out = append(out, id)
		}
	}
	return out
}

// attackersFor returns the units p may initiate an attack with: front-row
// field units if any are present, else the hero (mirrors the original
// engine's fallback when a side's landscape carries no exposed units).
func (e *Engine) attackersFor(p domain.PlayerId) []domain.TokenInstanceId {
	var units []domain.TokenInstanceId
	for _, id := range e.Res.Board.Side(p).Field {
		loc, err := e.Res.GetLocation(id)
		if err != nil {
			continue
		}
		if occ, ok := loc.First(); ok {
			units = append(units, occ)
		}
	}
	front := e.frontRow(units)
	if len(front) > 0 {
		return front
	}
	if hero, ok := e.Res.HeroOf(p); ok {
		return []domain.TokenInstanceId{hero}
	}
	return nil
}

// ShowSelectableTokens offers the current turn player a cancelable choice of
// attacker, then (once chosen) a choice of defender, finally enqueueing the
// attack. Returns nil if the player has no legal attacker.
func (e *Engine) ShowSelectableTokens() *prompt.Callback {
	attacker := e.Res.CurrentTurn
	candidates := e.attackersFor(attacker)
	if len(candidates) == 0 {
		return nil
	}

	cb := prompt.New(true, nil)
	cb.Closure = func(inst prompt.Instance, _ *domain.Context) (prompt.Result, error) {
		next := e.showAttackableTokens(inst.Profile.Token)
		if next == nil {
			return prompt.Result{Kind: prompt.End}, nil
		}
		return prompt.Result{Kind: prompt.End, Next: next}, nil
	}
	for _, id := range candidates {
		cb.Add(prompt.Profile{Type: prompt.SelectToken, Token: id, Owner: attacker})
	}
	return cb
}

// showAttackableTokens offers valid defenders for attackerID: the
// opponent's front row, or their hero if the field is empty.
func (e *Engine) showAttackableTokens(attackerID domain.TokenInstanceId) *prompt.Callback {
	attacker, err := e.Res.GetToken(attackerID)
	if err != nil {
		return nil
	}
	defenders := e.attackersFor(attacker.Owner.Opponent())
	if len(defenders) == 0 {
		return nil
	}

	cb := prompt.New(true, nil)
	cb.Closure = func(inst prompt.Instance, _ *domain.Context) (prompt.Result, error) {
		e.EnqueueAttack(attackerID, inst.Profile.Token, attacker.Owner, false)
		return prompt.Result{Kind: prompt.End}, nil
	}
	for _, id := range defenders {
		cb.Add(prompt.Profile{Type: prompt.AttackToken, Token: id, Owner: attacker.Owner.Opponent()})
	}
	return cb
}
