// Package prompt implements the prompt/callback machinery (component J):
// pausing the cascade to await a player choice, then resuming it with the
// chosen value.
package prompt

import "cascadeengine/internal/domain"

// Kind enumerates the three prompt shapes a PromptProfile can carry.
type Kind int

const (
	SelectToken Kind = iota
	AttackToken
	SelectFieldSlot
)

// Profile describes one offered choice.
type Profile struct {
	Type  Kind
	Token domain.TokenInstanceId // meaningful for SelectToken/AttackToken
	Slot  domain.LocationId      // meaningful for SelectFieldSlot
	Owner domain.PlayerId
	Value bool
}

// Instance is one live offered choice, keyed by its PromptInstanceId.
type Instance struct {
	ID      domain.PromptInstanceId
	Profile Profile
}

// ResultKind discriminates a CallbackFunc's outcome.
type ResultKind int

const (
	Keep ResultKind = iota
	End
)

// Result is returned by a CallbackFunc after it processes one callback
// frame.
type Result struct {
	Kind ResultKind
	Next *Callback // only meaningful when Kind == End; nil means "just resume"
}

// CallbackFunc processes one selected instance's value and decides the
// prompt's fate. It closes over whatever cascade/state machinery it needs
// to resume execution; this package never imports that machinery, so the
// dependency only runs one way.
type CallbackFunc func(inst Instance, context *domain.Context) (Result, error)

// Callback is a first-class record of a pending prompt: the set of
// offered instances, whether any non-callback inbound command cancels it,
// the closure that interprets a response, and the context the paused
// cascade state was holding when it raised the prompt.
type Callback struct {
	Cancelable bool
	Instances  map[domain.PromptInstanceId]Instance
	Closure    CallbackFunc
	Context    *domain.Context

	nextID domain.PromptInstanceId
}

// New constructs an empty, cancelable-or-not Callback.
func New(cancelable bool, closure CallbackFunc) *Callback {
	return &Callback{
		Cancelable: cancelable,
		Instances:  map[domain.PromptInstanceId]Instance{},
		Closure:    closure,
	}
}

// Add registers one offered instance and returns its freshly assigned id.
func (c *Callback) Add(profile Profile) domain.PromptInstanceId {
	c.nextID++
	id := c.nextID
	c.Instances[id] = Instance{ID: id, Profile: profile}
	return id
}

// Empty reports whether the callback has no offered instances (the caller
// should skip emitting it).
func (c *Callback) Empty() bool { return len(c.Instances) == 0 }
