package match

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"cascadeengine/internal/cascade"
	"cascadeengine/internal/domain"
	"cascadeengine/internal/prompt"
	"cascadeengine/internal/state"
	"cascadeengine/internal/wire"
)

// Match owns one engine/resources pair and drives it from a Communicator
// (component K).
type Match struct {
	comm    Communicator
	log     *zap.Logger
	engine  *cascade.Engine
	res     *state.Resources
	pending *prompt.Callback
}

// New constructs a Match ready to receive a start_game frame.
func New(comm Communicator, registry *domain.Registry, rng *rand.Rand, log *zap.Logger) *Match {
	res := state.New(registry, rng, domain.Player1)
	eng := cascade.NewEngine(res, SinkFor(comm))
	return &Match{comm: comm, log: log, engine: eng, res: res}
}

// Run reads and dispatches inbound frames until the Communicator errors out
// (connection closed). The end of a match (end_game sent) does not by itself
// stop the loop; it returns only when Read fails.
func (m *Match) Run() error {
	for {
		line, err := m.comm.Read()
		if err != nil {
			return err
		}
		if err := m.handleFrame(line); err != nil {
			m.log.Warn("inbound frame error", zap.Error(err), zap.String("frame", line))
			m.comm.Send(wire.Error{Message: err.Error()})
		}
	}
}

func (m *Match) handleFrame(line string) error {
	f, err := wire.ParseFrame(line)
	if err != nil {
		return state.WrapError(state.KindProtocol, "malformed frame", err)
	}

	if m.pending != nil {
		if f.Command == "callback" {
			return m.handleCallback(f.Body)
		}
		if m.pending.Cancelable {
			m.cancelPrompt()
		} else {
			return state.NewError(state.KindProtocol, "prompt is not cancelable")
		}
	}

	if err := m.dispatch(f); err != nil {
		return err
	}
	return m.drain()
}

func (m *Match) dispatch(f wire.Frame) error {
	switch f.Command {
	case "start_game":
		return m.startGame(f.Body)
	case "move_token":
		return m.moveToken(f.Body)
	case "pass_turn":
		return m.passTurn()
	default:
		return state.NewError(state.KindProtocol, "unknown command "+f.Command)
	}
}

func (m *Match) handleCallback(body string) error {
	id, err := wire.GetUint64Tag("callback_id", body)
	if err != nil {
		return state.WrapError(state.KindProtocol, "callback_id missing or not numeric", err)
	}

	inst, ok := m.pending.Instances[domain.PromptInstanceId(id)]
	if !ok {
		return state.NewError(state.KindInconsistentReference, "unknown prompt instance")
	}
	if valStr, err := wire.GetTag("value", body); err == nil {
		inst.Profile.Value = valStr == "true"
	}

	result, err := m.pending.Closure(inst, m.pending.Context)
	if err != nil {
		return err
	}
	switch result.Kind {
	case prompt.Keep:
		return nil
	case prompt.End:
		for pid := range m.pending.Instances {
			m.comm.Send(wire.RemovePrompt{PromptID: pid})
		}
		m.pending = nil
		if result.Next != nil {
			m.offerPrompt(result.Next)
			return nil
		}
		return m.drain()
	default:
		return nil
	}
}

func (m *Match) cancelPrompt() {
	for pid := range m.pending.Instances {
		m.comm.Send(wire.RemovePrompt{PromptID: pid})
	}
	m.pending = nil
}

func (m *Match) offerPrompt(cb *prompt.Callback) {
	if cb == nil || cb.Empty() {
		return
	}
	for pid, inst := range cb.Instances {
		m.comm.Send(wire.AddPrompt{
			PromptID: pid,
			Owner:    inst.Profile.Owner,
			Kind:     promptKindName(inst.Profile.Type),
			Token:    inst.Profile.Token,
			Slot:     inst.Profile.Slot,
		})
	}
	m.pending = cb
}

func promptKindName(k prompt.Kind) string {
	switch k {
	case prompt.SelectToken:
		return "select_token"
	case prompt.AttackToken:
		return "attack_token"
	case prompt.SelectFieldSlot:
		return "select_field_slot"
	default:
		return "unknown"
	}
}

// drain runs Process to completion or the next prompt, then — if the
// cascade is fully quiescent — offers the current player an attack choice,
// per §4.11's pseudocode.
func (m *Match) drain() error {
	for {
		cb, err := m.engine.Process()
		if err != nil {
			return err
		}
		if cb != nil {
			m.offerPrompt(cb)
			return nil
		}
		next := m.engine.ShowSelectableTokens()
		if next == nil {
			return nil
		}
		m.offerPrompt(next)
		return nil
	}
}

// Snapshot builds the admin/debug protobuf view of this match's current
// state, for the debug listener's snapshot endpoint.
func (m *Match) Snapshot() wire.DebugSnapshot {
	instances := make([]*domain.TokenInstance, 0, len(m.res.TokenInstances))
	for _, tok := range m.res.TokenInstances {
		instances = append(instances, tok)
	}
	return wire.SnapshotFromResources(m.res.Round, m.res.CurrentTurn, instances)
}

func (m *Match) passTurn() error {
	return m.engine.StartTurn(m.res.CurrentTurn.Opponent())
}

func (m *Match) moveToken(body string) error {
	tokenID, err := wire.GetUint64Tag("token", body)
	if err != nil {
		return state.WrapError(state.KindProtocol, "move_token missing token tag", err)
	}
	locID, err := wire.GetUint64Tag("location", body)
	if err != nil {
		return state.WrapError(state.KindProtocol, "move_token missing location tag", err)
	}
	tid := domain.TokenInstanceId(tokenID)
	lid := domain.LocationId(locID)

	tok, err := m.res.GetToken(tid)
	if err != nil {
		return state.WrapError(state.KindInconsistentReference, "move_token: unknown token", err)
	}

	switch tok.Template.Category.Kind {
	case domain.CategoryUnit:
		if err := m.engine.CanSummon(tid, lid); err != nil {
			return err
		}
		m.engine.EnqueueSummon(tid, lid, tok.Owner)
	case domain.CategoryItem:
		if err := m.engine.CanEquip(tid, lid); err != nil {
			return err
		}
		unit, ok := m.res.EquipmentOwner(lid)
		if !ok {
			return state.NewError(state.KindInvalidAction, "move_token: target slot has no owning unit")
		}
		m.engine.EnqueueEquip(tid, unit, lid, tok.Owner)
	}
	return nil
}

// startGame implements §4.11's opening sequence and §8 scenario 1.
func (m *Match) startGame(body string) error {
	deck1Raw, err := wire.GetTag("deck1", body)
	if err != nil {
		return state.WrapError(state.KindProtocol, "start_game missing deck1", err)
	}
	deck2Raw, err := wire.GetTag("deck2", body)
	if err != nil {
		return state.WrapError(state.KindProtocol, "start_game missing deck2", err)
	}

	if err := m.setupLocations(domain.Player1); err != nil {
		return err
	}
	if err := m.setupLocations(domain.Player2); err != nil {
		return err
	}

	if err := m.populateDeck(domain.Player1, wire.SplitCSV(deck1Raw)); err != nil {
		return err
	}
	if err := m.populateDeck(domain.Player2, wire.SplitCSV(deck2Raw)); err != nil {
		return err
	}

	if err := m.prepareSet(domain.Player1); err != nil {
		return err
	}
	if err := m.prepareSet(domain.Player2); err != nil {
		return err
	}

	if err := m.drawOpeningHand(domain.Player1); err != nil {
		return err
	}
	if err := m.drawOpeningHand(domain.Player2); err != nil {
		return err
	}

	m.res.Player1.Thaum = 0
	m.res.Player2.Thaum = 0
	m.comm.Send(wire.SetThaum{Player: domain.Player1, Amount: 0})
	m.comm.Send(wire.SetThaum{Player: domain.Player2, Amount: 0})

	first := domain.Player1
	if m.res.Rng.Intn(2) == 1 {
		first = domain.Player2
	}
	m.res.CurrentTurn = first
	m.comm.Send(wire.SetTurn{Player: first})

	return m.drain()
}

func (m *Match) setupLocations(p domain.PlayerId) error {
	deck, hand, hero, landscape, graveyard := domain.WellKnownLocations(p)
	m.res.InsertLocation(domain.NewCollection(deck))
	m.res.InsertLocation(domain.NewCollection(hand))
	m.res.InsertLocation(domain.NewSlot(hero))
	m.res.InsertLocation(domain.NewSlot(landscape))
	m.res.InsertLocation(domain.NewCollection(graveyard))
	for _, id := range []domain.LocationId{deck, hand, hero, landscape, graveyard} {
		if err := m.engine.ClearLocation(id); err != nil {
			return err
		}
	}
	return nil
}

func (m *Match) populateDeck(p domain.PlayerId, templateIDs []string) error {
	deck, _, _, _, _ := domain.WellKnownLocations(p)
	for _, id := range templateIDs {
		if _, err := m.engine.CreateToken(id, deck, p); err != nil {
			return err
		}
	}
	return nil
}

// prepareSet moves the unique Hero and Landscape out of the deck into their
// slots, derives the field topology from the landscape's declared
// positions, and shuffles the remainder.
func (m *Match) prepareSet(p domain.PlayerId) error {
	deck, _, hero, landscape, _ := domain.WellKnownLocations(p)
	deckLoc, err := m.res.GetLocation(deck)
	if err != nil {
		return err
	}

	var heroID, landscapeID domain.TokenInstanceId
	var landscapeTok *domain.TokenInstance
	for _, id := range deckLoc.All() {
		tok, err := m.res.GetToken(id)
		if err != nil {
			continue
		}
		switch tok.Template.Category.Kind {
		case domain.CategoryHero:
			heroID = id
		case domain.CategoryLandscape:
			landscapeID = id
			landscapeTok = tok
		}
	}
	if heroID == 0 || landscapeID == 0 {
		return fmt.Errorf("start_game: deck for %s is missing a hero or landscape", p)
	}

	if err := m.engine.MoveToken(heroID, hero, ""); err != nil {
		return err
	}
	if err := m.engine.MoveToken(landscapeID, landscape, ""); err != nil {
		return err
	}

	m.res.Board.PrepareLandscape(p, landscapeTok.Template.Category.Slots)
	for _, slot := range m.res.Board.Side(p).Field {
		m.res.InsertLocation(domain.NewSlot(slot))
		pos := m.res.Board.Side(p).Positions[slot]
		m.comm.Send(wire.AddSlot{Location: slot, X: pos.X, Y: pos.Y, Z: pos.Z})
	}

	deckLoc.Shuffle(m.res.Rng)
	return nil
}

func (m *Match) drawOpeningHand(p domain.PlayerId) error {
	deck, hand, _, _, _ := domain.WellKnownLocations(p)
	deckLoc, err := m.res.GetLocation(deck)
	if err != nil {
		return err
	}
	for i := 0; i < 5; i++ {
		head, ok := deckLoc.First()
		if !ok {
			return fmt.Errorf("start_game: deck for %s has fewer than 5 tokens", p)
		}
		if err := m.engine.MoveToken(head, hand, ""); err != nil {
			return err
		}
	}
	return nil
}
