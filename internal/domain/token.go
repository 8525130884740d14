package domain

import "fmt"

// CategoryKind discriminates the closed set of token categories.
type CategoryKind int

const (
	CategoryHero CategoryKind = iota
	CategoryLandscape
	CategoryUnit
	CategoryItem
	CategoryCommand
)

func (k CategoryKind) String() string {
	switch k {
	case CategoryHero:
		return "hero"
	case CategoryLandscape:
		return "landscape"
	case CategoryUnit:
		return "unit"
	case CategoryItem:
		return "item"
	case CategoryCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Category is a tagged sum over the five token categories of §3. Only the
// fields relevant to Kind are meaningful.
type Category struct {
	Kind CategoryKind

	// Hero, Unit
	Health  int
	Defense int

	// Unit
	Attack int

	// Landscape
	Slots []SlotPosition
}

// Stats bundles the three mutable numeric attributes tracked per instance.
type Stats struct {
	Health  int
	Defense int
	Attack  int
}

// ActivatorKind is the activator clause of a Trigger.when.
type ActivatorKind int

const (
	ActivatorOwned ActivatorKind = iota
	ActivatorOpponent
	ActivatorThis
	ActivatorEither
)

// TriggerWhen names the state a trigger fires on and who must be the "this"
// token for it to match.
type TriggerWhen struct {
	Activator ActivatorKind
	Name      TriggerState
}

// Trigger is one (when, and) pair inside a Behavior.
type Trigger struct {
	When TriggerWhen
	And  Predicate // optional; nil means "always true"
}

// Behavior is an ordered list of triggers guarding an ordered list of
// actions. A behavior fires its actions (in reverse authored order, §4.8)
// the first time any one of its triggers matches for a given state.
type Behavior struct {
	Name        string
	Description string
	Triggers    []Trigger
	Actions     []Action
}

// TokenData is the immutable template shared by every instance created from
// it during a match.
type TokenData struct {
	ID          string
	Name        string
	Description string
	Cost        int
	Types       []string
	Category    Category
	Behaviors   []Behavior
}

// TokenInstance is the mutable, per-match state of one token in play.
type TokenInstance struct {
	InstanceID TokenInstanceId
	Template   *TokenData
	Owner      PlayerId
	Location   LocationId

	Behaviors []Behavior // starts as a deep copy of Template.Behaviors

	Cost int

	BaseStats    Stats
	CurrentStats Stats

	EquipmentSlots []LocationId

	Hidden bool

	// Counters holds named scalar counters set by SetCounter/ModifyCounter.
	Counters map[string]int

	// Persistent holds per-instance values stashed by SaveContext, keyed by
	// the behavior-authored personal_key.
	Persistent map[string]ContextValue

	// ExtraTypes holds type tags added by AddTypesAction. Kept separate from
	// Template.Types since the template is shared across every instance of
	// the same card.
	ExtraTypes []string
}

// CloneBehaviors deep-copies a behavior list so each instance owns its own,
// independently mutable copy (AddBehavior/RemoveBehavior never affect the
// template or other instances).
func CloneBehaviors(src []Behavior) []Behavior {
	out := make([]Behavior, len(src))
	for i, b := range src {
		nb := b
		nb.Triggers = append([]Trigger(nil), b.Triggers...)
		nb.Actions = append([]Action(nil), b.Actions...)
		out[i] = nb
	}
	return out
}

// HasType reports whether the instance's template, or its instance-level
// ExtraTypes, carries the given type tag (duplicates are preserved but don't
// change membership).
func (t *TokenInstance) HasType(tag string) bool {
	for _, ty := range t.Template.Types {
		if ty == tag {
			return true
		}
	}
	for _, ty := range t.ExtraTypes {
		if ty == tag {
			return true
		}
	}
	return false
}

// Registry is the read-only-after-construction store of TokenData templates
// for a match, and the factory for per-match TokenInstances (component C).
type Registry struct {
	templates map[string]*TokenData
}

// NewRegistry builds a Registry from a set of templates keyed by id. The
// slice is defensively copied; templates themselves are shared, immutable
// references.
func NewRegistry(templates []*TokenData) *Registry {
	m := make(map[string]*TokenData, len(templates))
	for _, t := range templates {
		m[t.ID] = t
	}
	return &Registry{templates: m}
}

// GetTemplate returns the shared template for client-side inspection.
func (r *Registry) GetTemplate(id string) (*TokenData, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// Instantiate deep-clones the behavior list, copies template stats into
// base/current stats, records ownership and location, and marks the
// instance hidden, per §4.3.
func (r *Registry) Instantiate(templateID string, newInstanceID TokenInstanceId, location LocationId, owner PlayerId) (*TokenInstance, error) {
	tmpl, ok := r.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("instantiate: unknown template id %q", templateID)
	}

	stats := Stats{
		Health:  tmpl.Category.Health,
		Defense: tmpl.Category.Defense,
		Attack:  tmpl.Category.Attack,
	}

	return &TokenInstance{
		InstanceID:   newInstanceID,
		Template:     tmpl,
		Owner:        owner,
		Location:     location,
		Behaviors:    CloneBehaviors(tmpl.Behaviors),
		Cost:         tmpl.Cost,
		BaseStats:    stats,
		CurrentStats: stats,
		Hidden:       true,
		Counters:     map[string]int{},
		Persistent:   map[string]ContextValue{},
	}, nil
}
