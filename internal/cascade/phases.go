// Package cascade owns the transition-group queue, the declarative
// target/filter/action interpreters, and the per-state trigger dispatcher
// (components E, F, G, H). It sits above domain and state, and below match.
package cascade

import "cascadeengine/internal/domain"

// phaseFamily names one of the nine ordered state sequences of §4.7.
type phaseFamily int

const (
	familyCreation phaseFamily = iota
	familyMove
	familySummon
	familyAttack
	familyEffectDamage
	familyDefeat
	familyDestroy
	familyDraw
	familyEquip
)

var phaseStates = map[phaseFamily][]domain.TriggerState{
	familyCreation: {domain.HasBeenCreated},
	familyMove:     {domain.WillBeMoved, domain.CheckCancel, domain.HasBeenMoved},
	familySummon:   {domain.WillBeMoved, domain.WillBeSummoned, domain.HasBeenMoved, domain.HasBeenSummoned},
	familyAttack: {
		domain.WillAttack, domain.WillBeAttacked, domain.CheckCancel,
		domain.HasAttacked, domain.HasBeenAttacked,
	},
	familyEffectDamage: {domain.WillBeEffectDamaged, domain.HasBeenEffectDamaged},
	familyDefeat: {
		domain.WillDefeat, domain.WillBeDefeated, domain.WillBeDestroyed, domain.CheckCancel,
		domain.HasDefeated, domain.HasBeenDefeated, domain.HasBeenDestroyed,
	},
	familyDestroy: {domain.WillBeDestroyed, domain.CheckCancel, domain.HasBeenDestroyed},
	familyDraw:    {domain.WillDrawToken, domain.CheckCancel, domain.HasDrawnToken, domain.HasBeenDrawn},
	familyEquip: {
		domain.WillBeEquipped, domain.WillEquip, domain.CheckCancel,
		domain.HasBeenEquipped, domain.HasEquipped,
	},
}

// thisKeyForState resolves the Glossary's what_is_this table: which context
// key names the "trigger_this" token for a given state. A state not listed
// here (CheckCancel) never dispatches and has no "this".
var thisKeyForState = map[domain.TriggerState]string{
	domain.HasBeenCreated: domain.KeyCreatingToken,

	domain.WillBeMoved:  domain.KeyTokenToMove,
	domain.HasBeenMoved: domain.KeyTokenToMove,

	domain.WillBeSummoned:  domain.KeyTokenToMove,
	domain.HasBeenSummoned: domain.KeyTokenToMove,

	domain.WillAttack:      domain.KeyAttacker,
	domain.WillBeAttacked:  domain.KeyDefender,
	domain.HasAttacked:     domain.KeyAttacker,
	domain.HasBeenAttacked: domain.KeyDefender,

	domain.WillBeEffectDamaged:  domain.KeyDefender,
	domain.HasBeenEffectDamaged: domain.KeyDefender,

	domain.WillDefeat:       domain.KeyAttacker,
	domain.WillBeDefeated:   domain.KeyDefender,
	domain.WillBeDestroyed:  domain.KeyTokenToDestroy,
	domain.HasDefeated:      domain.KeyAttacker,
	domain.HasBeenDefeated:  domain.KeyDefender,
	domain.HasBeenDestroyed: domain.KeyTokenToDestroy,

	domain.WillDrawToken: domain.KeyPlayer,
	domain.HasDrawnToken: domain.KeyPlayer,
	domain.HasBeenDrawn:  domain.KeyDrawnToken,

	domain.WillBeEquipped:  domain.KeyEquipTarget,
	domain.WillEquip:       domain.KeyEquippingItem,
	domain.HasBeenEquipped: domain.KeyEquipTarget,
	domain.HasEquipped:     domain.KeyEquippingItem,
}
