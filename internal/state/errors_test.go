package state

import (
	"errors"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := WrapError(KindProtocol, "malformed frame", cause)
	if !errors.Is(err, cause) {
		t.Fatal("WrapError should make the cause reachable via errors.Is")
	}
}

func TestNewErrorHasNoCause(t *testing.T) {
	err := NewError(KindInvalidAction, "cannot summon here")
	if err.Unwrap() != nil {
		t.Fatal("NewError should leave Err nil")
	}
	if err.Error() != "invalid_action: cannot summon here" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		KindProtocol:              "protocol",
		KindInvalidAction:         "invalid_action",
		KindInconsistentReference: "inconsistent_reference",
		KindGameEnding:            "game_ending",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Errorf("%v.String() = %q, want %q", k, k.String(), want)
		}
	}
}
