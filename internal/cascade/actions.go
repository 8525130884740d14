package cascade

import (
	"fmt"

	"cascadeengine/internal/domain"
	"cascadeengine/internal/prompt"
	"cascadeengine/internal/wire"
)

func tokenUpdateFrame(tok *domain.TokenInstance) wire.Instruction {
	return wire.UpdateData{Token: tok}
}

// runActionsCPS executes a behavior's actions in reverse authored order
// (§4.8), walking the index down from i to 0. SelectUnitAction is the only
// verb that can suspend the cascade; everything else runs synchronously.
func (e *Engine) runActionsCPS(actions []domain.Action, i int, ctx *domain.Context, k contFn) (*prompt.Callback, error) {
	if e.ended {
		return nil, nil
	}
	if i < 0 {
		return k()
	}
	a := actions[i]

	if sel, ok := a.(domain.SelectUnitAction); ok {
		return e.raiseSelectPrompt(sel, ctx, func() (*prompt.Callback, error) {
			return e.runActionsCPS(actions, i-1, ctx, k)
		})
	}

	result, err := e.runSimpleAction(a, ctx)
	if err != nil {
		return nil, err
	}
	if result == actionCancel {
		ctx.Set(domain.KeyCancel, domain.BoolValue(true))
		return k()
	}
	return e.runActionsCPS(actions, i-1, ctx, k)
}

// raiseSelectPrompt offers the filtered candidate set as a SelectToken
// prompt; on response it stashes the chosen id under ContextKey and resumes
// the rest of the behavior's actions.
func (e *Engine) raiseSelectPrompt(sel domain.SelectUnitAction, ctx *domain.Context, resumeAfter contFn) (*prompt.Callback, error) {
	candidates, err := applyFilter(sel.Filter, e.Res.InPlay(), ctx, e.Res)
	if err != nil {
		return nil, err
	}
	owner, err := ctx.Player(domain.KeyOwner)
	if err != nil {
		return nil, err
	}

	cb := prompt.New(false, func(inst prompt.Instance, _ *domain.Context) (prompt.Result, error) {
		ctx.Set(sel.ContextKey, domain.TokenValue(inst.Profile.Token))
		e.resume = resumeAfter
		return prompt.Result{Kind: prompt.End}, nil
	})
	for _, id := range candidates {
		cb.Add(prompt.Profile{Type: prompt.SelectToken, Token: id, Owner: owner})
	}
	return cb, nil
}

// runSimpleAction interprets every Action verb except SelectUnit (§4.6).
func (e *Engine) runSimpleAction(a domain.Action, ctx *domain.Context) (actionResult, error) {
	switch v := a.(type) {
	case domain.DrawTokenAction:
		players, err := resolvePlayers(v.Target, ctx, e.Res)
		if err != nil {
			return actionOk, err
		}
		for _, p := range players {
			e.EnqueueDraw(p)
		}
		return actionOk, nil

	case domain.DestroyAction:
		targets, err := resolveTokenTarget(v.Target, ctx, e.Res)
		if err != nil {
			return actionOk, err
		}
		for _, id := range targets {
			tok, err := e.Res.GetToken(id)
			if err != nil {
				continue
			}
			e.EnqueueDestroy(id, tok.Owner)
		}
		return actionOk, nil

	case domain.ReplaceAction:
		targets, err := resolveTokenTarget(v.Target, ctx, e.Res)
		if err != nil {
			return actionOk, err
		}
		for _, id := range targets {
			tok, err := e.Res.GetToken(id)
			if err != nil {
				continue
			}
			if _, err := e.CreateToken(v.Replacement, tok.Location, tok.Owner); err != nil {
				return actionOk, err
			}
			e.EnqueueDestroy(id, tok.Owner)
		}
		return actionOk, nil

	case domain.SummonAction:
		loc, err := resolveLocationTarget(v.Target, ctx)
		if err != nil {
			return actionOk, err
		}
		owner, err := ctx.Player(domain.KeyOwner)
		if err != nil {
			return actionOk, err
		}
		_, err = e.CreateToken(v.Token, loc, owner)
		return actionOk, err

	case domain.ModifyAttackAction:
		return actionOk, e.modifyUnits(v.Target, ctx, func(s *domain.Stats) { s.Attack += v.Amount })

	case domain.ModifyHealthAction:
		return actionOk, e.modifyUnits(v.Target, ctx, func(s *domain.Stats) { s.Health += v.Amount })

	case domain.ModifyDefenseAction:
		return actionOk, e.modifyUnits(v.Target, ctx, func(s *domain.Stats) { s.Defense += v.Amount })

	case domain.ModifyCostAction:
		targets, err := resolveTokenTarget(v.Target, ctx, e.Res)
		if err != nil {
			return actionOk, err
		}
		for _, id := range targets {
			tok, err := e.Res.GetToken(id)
			if err != nil {
				continue
			}
			tok.Cost += v.Amount
			if tok.Cost < 0 {
				tok.Cost = 0
			}
			e.emit(tokenUpdateFrame(tok))
		}
		return actionOk, nil

	case domain.AddTypesAction:
		targets, err := resolveTokenTarget(v.Target, ctx, e.Res)
		if err != nil {
			return actionOk, err
		}
		for _, id := range targets {
			tok, err := e.Res.GetToken(id)
			if err != nil {
				continue
			}
			for _, t := range v.Types {
				if !tok.HasType(t) {
					tok.ExtraTypes = append(tok.ExtraTypes, t)
				}
			}
			e.emit(tokenUpdateFrame(tok))
		}
		return actionOk, nil

	case domain.DamageUnitAction:
		targets, err := resolveUnitTarget(v.Target, ctx, e.Res)
		if err != nil {
			return actionOk, err
		}
		for _, id := range targets {
			tok, err := e.Res.GetToken(id)
			if err != nil {
				continue
			}
			e.EnqueueEffectDamage(id, v.Amount, tok.Owner)
		}
		return actionOk, nil

	case domain.DamageHeroAction:
		players, err := resolvePlayers(v.Target, ctx, e.Res)
		if err != nil {
			return actionOk, err
		}
		for _, p := range players {
			hero, ok := e.Res.HeroOf(p)
			if !ok {
				continue
			}
			e.EnqueueEffectDamage(hero, v.Amount, p)
		}
		return actionOk, nil

	case domain.RedirectTargetAction:
		targets, err := resolveUnitTarget(v.NewTarget, ctx, e.Res)
		if err != nil {
			return actionOk, err
		}
		if len(targets) == 0 {
			return actionOk, fmt.Errorf("cascade: redirect_target resolved no unit")
		}
		ctx.Set(domain.KeyDefender, domain.TokenValue(targets[0]))
		return actionOk, nil

	case domain.CancelAction:
		return actionCancel, nil

	case domain.SaveContextAction:
		val, err := ctx.Get(v.ContextKey)
		if err != nil {
			return actionOk, err
		}
		this, err := ctx.Token(domain.KeyActionThis)
		if err != nil {
			return actionOk, err
		}
		tok, err := e.Res.GetToken(this)
		if err != nil {
			return actionOk, err
		}
		tok.Persistent[v.PersonalKey] = val
		return actionOk, nil

	case domain.AddBehaviorAction:
		return actionOk, e.mutateBehaviors(v.Target, ctx, func(tok *domain.TokenInstance) {
			for _, b := range tok.Template.Behaviors {
				if b.Name == v.Behavior {
					for _, existing := range tok.Behaviors {
						if existing.Name == v.Behavior {
							return
						}
					}
					tok.Behaviors = append(tok.Behaviors, domain.CloneBehaviors([]domain.Behavior{b})...)
					return
				}
			}
		})

	case domain.RemoveBehaviorAction:
		return actionOk, e.mutateBehaviors(v.Target, ctx, func(tok *domain.TokenInstance) {
			out := tok.Behaviors[:0]
			for _, b := range tok.Behaviors {
				if b.Name != v.Behavior {
					out = append(out, b)
				}
			}
			tok.Behaviors = out
		})

	case domain.SetCounterAction:
		return actionOk, e.mutateBehaviors(v.Target, ctx, func(tok *domain.TokenInstance) {
			tok.Counters[v.Counter] = v.Value
		})

	case domain.ModifyCounterAction:
		return actionOk, e.mutateBehaviors(v.Target, ctx, func(tok *domain.TokenInstance) {
			tok.Counters[v.Counter] += v.Amount
		})

	case domain.CreateTokenAction:
		loc, err := resolveLocationTarget(v.Location, ctx)
		if err != nil {
			return actionOk, err
		}
		owner, err := ctx.Player(domain.KeyOwner)
		if err != nil {
			return actionOk, err
		}
		_, err = e.CreateToken(v.Token, loc, owner)
		return actionOk, err

	default:
		return actionOk, fmt.Errorf("cascade: unknown action type %T", a)
	}
}

func (e *Engine) modifyUnits(t domain.UnitTarget, ctx *domain.Context, f func(*domain.Stats)) error {
	targets, err := resolveUnitTarget(t, ctx, e.Res)
	if err != nil {
		return err
	}
	for _, id := range targets {
		tok, err := e.Res.GetToken(id)
		if err != nil {
			continue
		}
		f(&tok.CurrentStats)
		e.emit(tokenUpdateFrame(tok))
	}
	return nil
}

// mutateBehaviors resolves a TokenTarget and applies f to each resolved
// instance; shared by the behavior-list and counter actions.
func (e *Engine) mutateBehaviors(t domain.TokenTarget, ctx *domain.Context, f func(*domain.TokenInstance)) error {
	targets, err := resolveTokenTarget(t, ctx, e.Res)
	if err != nil {
		return err
	}
	for _, id := range targets {
		tok, err := e.Res.GetToken(id)
		if err != nil {
			continue
		}
		f(tok)
	}
	return nil
}
