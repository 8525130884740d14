package domain

// TriggerState names one state in the fixed alphabet fired during a
// transition group (§4.7), normalized to the newest revision per spec.
type TriggerState string

const (
	HasBeenCreated TriggerState = "has_been_created"

	WillBeMoved  TriggerState = "will_be_moved"
	CheckCancel  TriggerState = "check_cancel"
	HasBeenMoved TriggerState = "has_been_moved"

	WillBeSummoned  TriggerState = "will_be_summoned"
	HasBeenSummoned TriggerState = "has_been_summoned"

	WillAttack       TriggerState = "will_attack"
	WillBeAttacked   TriggerState = "will_be_attacked"
	HasAttacked      TriggerState = "has_attacked"
	HasBeenAttacked  TriggerState = "has_been_attacked"

	WillBeEffectDamaged TriggerState = "will_be_effect_damaged"
	HasBeenEffectDamaged TriggerState = "has_been_effect_damaged"

	WillDefeat        TriggerState = "will_defeat"
	WillBeDefeated    TriggerState = "will_be_defeated"
	WillBeDestroyed   TriggerState = "will_be_destroyed"
	HasDefeated       TriggerState = "has_defeated"
	HasBeenDefeated   TriggerState = "has_been_defeated"
	HasBeenDestroyed  TriggerState = "has_been_destroyed"

	WillDrawToken  TriggerState = "will_draw_token"
	HasDrawnToken  TriggerState = "has_drawn_token"
	HasBeenDrawn   TriggerState = "has_been_drawn"

	WillBeEquipped TriggerState = "will_be_equipped"
	WillEquip      TriggerState = "will_equip"
	HasBeenEquipped TriggerState = "has_been_equipped"
	HasEquipped    TriggerState = "has_equipped"
)
