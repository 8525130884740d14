package cascade

import (
	"cascadeengine/internal/domain"
	"cascadeengine/internal/prompt"
	"cascadeengine/internal/state"
	"cascadeengine/internal/wire"
)

// TransitionGroup is one in-order state queue sharing a context,
// implementing a single semantic action (move, attack, draw, ...) per §4.7.
type TransitionGroup struct {
	States  []domain.TriggerState
	Context *domain.Context
}

func newGroup(family phaseFamily, ctx *domain.Context) *TransitionGroup {
	states := append([]domain.TriggerState(nil), phaseStates[family]...)
	return &TransitionGroup{States: states, Context: ctx}
}

// contFn is a continuation: "what to do once the current step completes
// without raising a prompt". Threading it explicitly through the dispatch
// machinery lets a behavior action suspend mid-cascade (a SelectUnit prompt)
// and resume exactly where it left off on the next Process call, without a
// goroutine per match.
type contFn func() (*prompt.Callback, error)

// Engine owns one match's transition-group queue together with the
// StateResources it mutates and the Sink it emits outbound frames to.
type Engine struct {
	Res  *state.Resources
	Sink wire.Sink

	groups []*TransitionGroup
	resume contFn
	ended  bool
}

// NewEngine constructs an Engine over an already-populated Resources.
func NewEngine(res *state.Resources, sink wire.Sink) *Engine {
	return &Engine{Res: res, Sink: sink}
}

func (e *Engine) emit(i wire.Instruction) {
	if e.Sink != nil {
		e.Sink.Emit(i)
	}
}

// pushFront enqueues a group ahead of everything currently queued (§4.7
// ordering rule 1: pre-phase-spawned groups resolve before the group that
// scheduled them).
func (e *Engine) pushFront(g *TransitionGroup) {
	e.groups = append([]*TransitionGroup{g}, e.groups...)
}

// pushBack enqueues a group after everything currently queued (counter-
// attacks).
func (e *Engine) pushBack(g *TransitionGroup) {
	e.groups = append(e.groups, g)
}

// Process advances the cascade until the queue drains or a state raises a
// prompt. A non-nil callback means the cascade is paused; the caller (the
// match loop) must offer it to the player and feed the eventual response
// back through the callback's own Closure, then call Process again.
func (e *Engine) Process() (*prompt.Callback, error) {
	if e.resume != nil {
		r := e.resume
		e.resume = nil
		return r()
	}
	return e.runQueue()
}

func (e *Engine) runQueue() (*prompt.Callback, error) {
	if e.ended || len(e.groups) == 0 {
		return nil, nil
	}
	g := e.groups[0]
	e.groups = e.groups[1:]
	return e.runGroupStates(g, e.runQueue)
}

func (e *Engine) runGroupStates(g *TransitionGroup, k contFn) (*prompt.Callback, error) {
	if e.ended {
		return nil, nil
	}
	if len(g.States) == 0 {
		return k()
	}
	st := g.States[0]
	g.States = g.States[1:]

	if st == domain.CheckCancel {
		if g.Context.BoolOr(domain.KeyCancel, false) {
			return k()
		}
		return e.runGroupStates(g, k)
	}

	return e.dispatchState(st, g.Context, func() (*prompt.Callback, error) {
		return e.runGroupStates(g, k)
	})
}

// --- Primitive mutators (§4.9) ---

// MoveToken relocates a token between containers. Moving into any field-
// identified location clears Hidden and emits Reveal (§8 "No stealth
// reveal"). Animation, if non-empty, is emitted before the MoveToken frame.
func (e *Engine) MoveToken(id domain.TokenInstanceId, to domain.LocationId, anim wire.AnimationPreset) error {
	tok, err := e.Res.GetToken(id)
	if err != nil {
		return state.WrapError(state.KindInconsistentReference, "move_token: unknown token", err)
	}
	from := tok.Location
	if fromLoc, err := e.Res.GetLocation(from); err == nil {
		fromLoc.Remove(id)
	}
	toLoc, err := e.Res.GetLocation(to)
	if err != nil {
		return state.WrapError(state.KindInconsistentReference, "move_token: unknown destination", err)
	}
	if err := toLoc.Add(id); err != nil {
		return state.WrapError(state.KindInvalidAction, "move_token: destination occupied", err)
	}
	tok.Location = to

	if wasHidden := tok.Hidden; wasHidden {
		if tag, err := domain.IdentifyLocation(to); err == nil && (tag.IsField() || tag.Kind == domain.KindHero || tag.Kind == domain.KindLandscape || tag.Kind == domain.KindEquipment) {
			tok.Hidden = false
			e.emit(wire.Reveal{Token: id})
		}
	}

	if anim != "" {
		e.emit(wire.Animate{Token: id, Location: to, Duration: 0.3, Preset: anim})
	}
	e.emit(wire.MoveToken{Token: id, To: to, Animation: anim})
	return nil
}

// CreateToken instantiates templateID into location, emits CreateToken and
// UpdateBehaviors, and enqueues its Creation group so HasBeenCreated
// observers fire.
func (e *Engine) CreateToken(templateID string, location domain.LocationId, owner domain.PlayerId) (domain.TokenInstanceId, error) {
	id := e.Res.NextInstanceID()
	inst, err := e.Res.Registry.Instantiate(templateID, id, location, owner)
	if err != nil {
		return 0, state.WrapError(state.KindInvalidAction, "create_token: unknown template", err)
	}
	loc, err := e.Res.GetLocation(location)
	if err != nil {
		return 0, state.WrapError(state.KindInconsistentReference, "create_token: unknown location", err)
	}
	if err := loc.Add(id); err != nil {
		return 0, state.WrapError(state.KindInvalidAction, "create_token: destination occupied", err)
	}
	e.Res.TokenInstances[id] = inst

	e.emit(wire.CreateToken{Token: inst, Instance: id, Player: owner, Location: location})
	e.emit(wire.UpdateBehaviors{Token: inst})

	ctx := domain.NewContext()
	ctx.Set(domain.KeyOwner, domain.PlayerValue(owner))
	ctx.Set(domain.KeyCreatingToken, domain.TokenValue(id))
	e.pushBack(newGroup(familyCreation, ctx))
	return id, nil
}

// DestroyToken moves id straight to its owner's graveyard with EaseInOut, or
// ends the match if id is a Hero (§4.9). The move is made directly: no
// Move-phase group is enqueued, so WillBeMoved/HasBeenMoved do not fire for it.
func (e *Engine) DestroyToken(id domain.TokenInstanceId) error {
	tok, err := e.Res.GetToken(id)
	if err != nil {
		return state.WrapError(state.KindInconsistentReference, "destroy_token: unknown token", err)
	}
	if tok.Template.Category.Kind == domain.CategoryHero {
		e.emit(wire.EndGame{Winner: tok.Owner.Opponent()})
		e.ended = true
		e.groups = nil
		return nil
	}
	_, _, _, _, graveyard := domain.WellKnownLocations(tok.Owner)
	return e.MoveToken(id, graveyard, wire.AnimEaseInOut)
}

// ClearLocation empties a container and emits ClearLocation.
func (e *Engine) ClearLocation(id domain.LocationId) error {
	loc, err := e.Res.GetLocation(id)
	if err != nil {
		return state.WrapError(state.KindInconsistentReference, "clear_location: unknown location", err)
	}
	loc.Clear()
	e.emit(wire.ClearLocation{Location: id})
	return nil
}

// AddEquipmentSlot allocates a fresh equipment slot for unit and emits
// AddEquipmentSlot.
func (e *Engine) AddEquipmentSlot(unit domain.TokenInstanceId) (domain.LocationId, error) {
	tok, err := e.Res.GetToken(unit)
	if err != nil {
		return 0, state.WrapError(state.KindInconsistentReference, "add_equipment_slot: unknown unit", err)
	}
	slot := e.Res.NextEquipmentSlotID()
	e.Res.InsertLocation(domain.NewSlot(slot))
	tok.EquipmentSlots = append(tok.EquipmentSlots, slot)
	e.emit(wire.AddEquipmentSlot{Unit: unit, Slot: slot})
	return slot, nil
}

// processDamage applies §4.6's damage formula: defense absorbs first,
// overflow spills into health, both clamp at zero.
func processDamage(tok *domain.TokenInstance, amount int) {
	tok.CurrentStats.Defense -= amount
	if tok.CurrentStats.Defense < 0 {
		spill := -tok.CurrentStats.Defense
		tok.CurrentStats.Defense = 0
		tok.CurrentStats.Health -= spill
		if tok.CurrentStats.Health < 0 {
			tok.CurrentStats.Health = 0
		}
	}
}

// StartTurn flips current turn, pays thaum, and resets on-field defense for
// the new turn's owner (§4.9). Thaum formula resolved in SPEC_FULL.md:
// ceil(round/2) + 10.
func (e *Engine) StartTurn(p domain.PlayerId) error {
	e.Res.CurrentTurn = p
	e.Res.Round++
	e.emit(wire.SetTurn{Player: p})

	thaum := (e.Res.Round+1)/2 + 10
	e.Res.GetPlayer(p).Thaum = thaum
	e.emit(wire.SetThaum{Player: p, Amount: thaum})

	for _, id := range e.Res.InPlay() {
		tok, err := e.Res.GetToken(id)
		if err != nil || tok.Owner != p {
			continue
		}
		if tok.Template.Category.Kind != domain.CategoryUnit && tok.Template.Category.Kind != domain.CategoryHero {
			continue
		}
		if tok.CurrentStats.Defense == tok.BaseStats.Defense {
			continue
		}
		e.emit(wire.Animate{Token: id, Location: tok.Location, Duration: 0.2, Preset: wire.AnimRaise})
		tok.CurrentStats.Defense = tok.BaseStats.Defense
		e.emit(wire.UpdateData{Token: tok})
		e.emit(wire.Animate{Token: id, Location: tok.Location, Duration: 0.2, Preset: wire.AnimEaseInOut})
	}

	e.EnqueueDraw(p)
	return nil
}

// CanSummon validates a move_token-triggered summon (§4.9); on rejection it
// snaps the token back to its current location.
func (e *Engine) CanSummon(tokenID domain.TokenInstanceId, target domain.LocationId) error {
	tok, err := e.Res.GetToken(tokenID)
	if err != nil {
		return state.WrapError(state.KindInconsistentReference, "can_summon: unknown token", err)
	}
	tag, err := domain.IdentifyLocation(target)
	reject := func(msg string) error {
		e.emit(wire.MoveToken{Token: tokenID, To: tok.Location})
		return state.NewError(state.KindInvalidAction, msg)
	}
	if err != nil || !tag.IsFieldOf(tok.Owner) {
		return reject("can_summon: target is not the token owner's field slot")
	}
	_, hand, _, _, _ := domain.WellKnownLocations(tok.Owner)
	if tok.Location != hand {
		return reject("can_summon: token is not in owner's hand")
	}
	if e.Res.CurrentTurn != tok.Owner {
		return reject("can_summon: not token owner's turn")
	}
	if tok.Cost > e.Res.GetPlayer(tok.Owner).Thaum {
		return reject("can_summon: insufficient thaum")
	}
	return nil
}

// CanEquip validates a move_token-triggered equip (§4.9).
func (e *Engine) CanEquip(itemID domain.TokenInstanceId, targetSlot domain.LocationId) error {
	item, err := e.Res.GetToken(itemID)
	if err != nil {
		return state.WrapError(state.KindInconsistentReference, "can_equip: unknown item", err)
	}
	reject := func(msg string) error {
		e.emit(wire.MoveToken{Token: itemID, To: item.Location})
		return state.NewError(state.KindInvalidAction, msg)
	}
	loc, err := e.Res.GetLocation(targetSlot)
	if err != nil {
		return reject("can_equip: unknown equipment slot")
	}
	slot, ok := loc.(*domain.Slot)
	if !ok || slot.Occupied() {
		return reject("can_equip: slot is not an empty equipment slot")
	}
	if _, ok := e.Res.EquipmentOwner(targetSlot); !ok {
		return reject("can_equip: slot does not belong to an in-play unit")
	}
	if e.Res.CurrentTurn != item.Owner {
		return reject("can_equip: not item owner's turn")
	}
	if item.Cost > e.Res.GetPlayer(item.Owner).Thaum {
		return reject("can_equip: insufficient thaum")
	}
	return nil
}

// --- Enqueue helpers, one per phase family ---

func baseCtx(owner domain.PlayerId) *domain.Context {
	ctx := domain.NewContext()
	ctx.Set(domain.KeyOwner, domain.PlayerValue(owner))
	return ctx
}

func (e *Engine) EnqueueMove(token domain.TokenInstanceId, to domain.LocationId, owner domain.PlayerId) {
	ctx := baseCtx(owner)
	ctx.Set(domain.KeyTokenToMove, domain.TokenValue(token))
	ctx.Set(domain.KeyToLocation, domain.LocationValue(to))
	e.pushFront(newGroup(familyMove, ctx))
}

func (e *Engine) EnqueueSummon(token domain.TokenInstanceId, to domain.LocationId, owner domain.PlayerId) {
	ctx := baseCtx(owner)
	ctx.Set(domain.KeyTokenToMove, domain.TokenValue(token))
	ctx.Set(domain.KeyToLocation, domain.LocationValue(to))
	e.pushFront(newGroup(familySummon, ctx))
}

func (e *Engine) EnqueueAttack(attacker, defender domain.TokenInstanceId, owner domain.PlayerId, counter bool) {
	ctx := baseCtx(owner)
	ctx.Set(domain.KeyAttacker, domain.TokenValue(attacker))
	ctx.Set(domain.KeyDefender, domain.TokenValue(defender))
	ctx.Set(domain.KeyIsCounterAttack, domain.BoolValue(counter))
	g := newGroup(familyAttack, ctx)
	if counter {
		e.pushBack(g)
	} else {
		e.pushFront(g)
	}
}

func (e *Engine) EnqueueEffectDamage(defender domain.TokenInstanceId, amount int, owner domain.PlayerId) {
	ctx := baseCtx(owner)
	ctx.Set(domain.KeyDefender, domain.TokenValue(defender))
	ctx.Set(domain.KeyEffectDamage, domain.IntValue(amount))
	e.pushFront(newGroup(familyEffectDamage, ctx))
}

func (e *Engine) EnqueueDefeat(attacker, defender domain.TokenInstanceId, owner domain.PlayerId) {
	ctx := baseCtx(owner)
	ctx.Set(domain.KeyAttacker, domain.TokenValue(attacker))
	ctx.Set(domain.KeyDefender, domain.TokenValue(defender))
	ctx.Set(domain.KeyTokenToDestroy, domain.TokenValue(defender))
	e.pushFront(newGroup(familyDefeat, ctx))
}

func (e *Engine) EnqueueDestroy(token domain.TokenInstanceId, owner domain.PlayerId) {
	ctx := baseCtx(owner)
	ctx.Set(domain.KeyTokenToDestroy, domain.TokenValue(token))
	e.pushFront(newGroup(familyDestroy, ctx))
}

func (e *Engine) EnqueueDraw(player domain.PlayerId) {
	ctx := baseCtx(player)
	ctx.Set(domain.KeyPlayer, domain.PlayerValue(player))
	e.pushBack(newGroup(familyDraw, ctx))
}

func (e *Engine) EnqueueEquip(item, unit domain.TokenInstanceId, slot domain.LocationId, owner domain.PlayerId) {
	ctx := baseCtx(owner)
	ctx.Set(domain.KeyEquipTarget, domain.TokenValue(unit))
	ctx.Set(domain.KeyEquippingItem, domain.TokenValue(item))
	ctx.Set(domain.KeyToLocation, domain.LocationValue(slot))
	e.pushFront(newGroup(familyEquip, ctx))
}
