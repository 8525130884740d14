package wire

import (
	"strings"
	"testing"

	"cascadeengine/internal/domain"
)

func TestFrameArityPrefix(t *testing.T) {
	got := frame("set_turn", "0")
	want := "set_turn|//1/!//0/!"
	if got != want {
		t.Fatalf("frame() = %q, want %q", got, want)
	}
}

func TestEncodeSetThaum(t *testing.T) {
	got := Encode(SetThaum{Player: domain.Player2, Amount: 12})
	if !strings.HasPrefix(got, "set_thaum|") {
		t.Fatalf("Encode(SetThaum) = %q, want set_thaum| prefix", got)
	}
	if !strings.Contains(got, "//1/!") || !strings.Contains(got, "//12/!") {
		t.Fatalf("Encode(SetThaum) = %q, missing expected fields", got)
	}
}

func TestEncodeMoveTokenNoAnimation(t *testing.T) {
	got := Encode(MoveToken{Token: 5, To: 1000})
	want := "move_token|//3/!//5/!//1000/!//" + "" + "/!"
	if got != want {
		t.Fatalf("Encode(MoveToken) = %q, want %q", got, want)
	}
}

func TestEncodeTokenDataUnitCarriesStats(t *testing.T) {
	tmpl := &domain.TokenData{
		ID:          "goblin",
		Name:        "Goblin",
		Description: "A small raider.",
		Cost:        2,
		Types:       []string{"beast", "melee"},
		Category:    domain.Category{Kind: domain.CategoryUnit, Health: 3, Defense: 1, Attack: 2},
	}
	inst := &domain.TokenInstance{
		Template:     tmpl,
		Cost:         2,
		CurrentStats: domain.Stats{Health: 3, Defense: 1, Attack: 2},
	}
	got := EncodeTokenData(inst)
	want := "goblin;;2;;Goblin (2);;A small raider.;;2;;3;;1;;2;;beast, melee;;"
	if got != want {
		t.Fatalf("EncodeTokenData() = %q, want %q", got, want)
	}
}

func TestEncodeTokenDataItemHasZeroStats(t *testing.T) {
	tmpl := &domain.TokenData{
		ID:       "amulet",
		Name:     "Amulet",
		Category: domain.Category{Kind: domain.CategoryItem},
	}
	inst := &domain.TokenInstance{Template: tmpl, Cost: 1, CurrentStats: domain.Stats{Health: 99}}
	got := EncodeTokenData(inst)
	if !strings.Contains(got, ";;0;;0;;0;;") {
		t.Fatalf("EncodeTokenData(item) = %q, want zeroed stat fields", got)
	}
}

func TestEncodeUnknownInstructionFallsBackToError(t *testing.T) {
	got := Encode(nil)
	if !strings.HasPrefix(got, "error|") {
		t.Fatalf("Encode(nil) = %q, want error| prefix", got)
	}
}
