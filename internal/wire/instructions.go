// Package wire implements the outbound instruction encoder (component L)
// and inbound frame decoder for the text wire protocol of §6:
// `command|//arg1/!//arg2/!...//argN/!`, each command prefixing its arity.
package wire

import "cascadeengine/internal/domain"

// AnimationPreset enumerates the client-side animation presets §6 names.
type AnimationPreset string

const (
	AnimSelectForAttack AnimationPreset = "SelectForAttack"
	AnimRaise           AnimationPreset = "Raise"
	AnimEaseInOut       AnimationPreset = "EaseInOut"
	AnimAttack          AnimationPreset = "Attack"
	AnimTakeDamage      AnimationPreset = "TakeDamage"
)

// Instruction is the closed sum of outbound server->client commands.
type Instruction interface{ isInstruction() }

type AddSlot struct {
	Location domain.LocationId
	X, Y, Z  int
}

func (AddSlot) isInstruction() {}

type SetThaum struct {
	Player domain.PlayerId
	Amount int
}

func (SetThaum) isInstruction() {}

type MoveToken struct {
	Token     domain.TokenInstanceId
	To        domain.LocationId
	Animation AnimationPreset // empty means none
}

func (MoveToken) isInstruction() {}

type CreateToken struct {
	Token    *domain.TokenInstance
	Instance domain.TokenInstanceId
	Player   domain.PlayerId
	Location domain.LocationId
}

func (CreateToken) isInstruction() {}

type SetTurn struct {
	Player domain.PlayerId
}

func (SetTurn) isInstruction() {}

type ClearLocation struct {
	Location domain.LocationId
}

func (ClearLocation) isInstruction() {}

type AddPrompt struct {
	PromptID domain.PromptInstanceId
	Owner    domain.PlayerId
	Kind     string
	Token    domain.TokenInstanceId
	Slot     domain.LocationId
}

func (AddPrompt) isInstruction() {}

type RemovePrompt struct {
	PromptID domain.PromptInstanceId
}

func (RemovePrompt) isInstruction() {}

type UpdateData struct {
	Token *domain.TokenInstance
}

func (UpdateData) isInstruction() {}

type UpdateBehaviors struct {
	Token *domain.TokenInstance
}

func (UpdateBehaviors) isInstruction() {}

type AddEquipmentSlot struct {
	Unit domain.TokenInstanceId
	Slot domain.LocationId
}

func (AddEquipmentSlot) isInstruction() {}

type Animate struct {
	Token    domain.TokenInstanceId
	Location domain.LocationId
	Duration float64
	Preset   AnimationPreset
}

func (Animate) isInstruction() {}

type Reveal struct {
	Token domain.TokenInstanceId
}

func (Reveal) isInstruction() {}

type EndGame struct {
	Winner domain.PlayerId
}

func (EndGame) isInstruction() {}

type Info struct{ Message string }

func (Info) isInstruction() {}

type Warn struct{ Message string }

func (Warn) isInstruction() {}

type Error struct{ Message string }

func (Error) isInstruction() {}

// Sink receives outbound instructions as the cascade produces them.
type Sink interface {
	Emit(Instruction)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Instruction)

func (f SinkFunc) Emit(i Instruction) { f(i) }
