package cascade

import (
	"testing"

	"cascadeengine/internal/domain"
)

// TestThisKeyForStateCoversEveryDispatchedState guards against a state being
// added to a phase family's list without a matching "this" binding, which
// would make prepareContextForState silently skip setting trigger_this.
func TestThisKeyForStateCoversEveryDispatchedState(t *testing.T) {
	for family, states := range phaseStates {
		for _, st := range states {
			if st == domain.CheckCancel {
				continue
			}
			if _, ok := thisKeyForState[st]; !ok {
				t.Errorf("family %v: state %v has no thisKeyForState entry", family, st)
			}
		}
	}
}

func TestPhaseFamiliesStartAndEndAsExpected(t *testing.T) {
	if phaseStates[familyAttack][0] != domain.WillAttack {
		t.Fatal("attack family should open on WillAttack")
	}
	last := phaseStates[familyAttack][len(phaseStates[familyAttack])-1]
	if last != domain.HasBeenAttacked {
		t.Fatalf("attack family should end on HasBeenAttacked, got %v", last)
	}

	if phaseStates[familyDraw][len(phaseStates[familyDraw])-1] != domain.HasBeenDrawn {
		t.Fatal("draw family should end on HasBeenDrawn")
	}
}

func TestCancelableFamiliesCarryCheckCancel(t *testing.T) {
	cancelable := []phaseFamily{familyMove, familyAttack, familyDefeat, familyDestroy, familyDraw, familyEquip}
	for _, fam := range cancelable {
		found := false
		for _, st := range phaseStates[fam] {
			if st == domain.CheckCancel {
				found = true
			}
		}
		if !found {
			t.Errorf("family %v should include CheckCancel", fam)
		}
	}
	if containsState(phaseStates[familyCreation], domain.CheckCancel) {
		t.Error("creation has no preceding Will-phase and should not carry CheckCancel")
	}
}

func containsState(states []domain.TriggerState, want domain.TriggerState) bool {
	for _, s := range states {
		if s == want {
			return true
		}
	}
	return false
}
