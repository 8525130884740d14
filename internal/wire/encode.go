package wire

import (
	"fmt"
	"strconv"
	"strings"

	"cascadeengine/internal/domain"
)

func tag(value string) string {
	return "//" + value + "/!"
}

func frame(command string, fields ...string) string {
	var sb strings.Builder
	sb.WriteString(command)
	sb.WriteString("|")
	sb.WriteString(tag(strconv.Itoa(len(fields))))
	for _, f := range fields {
		sb.WriteString(tag(f))
	}
	return sb.String()
}

func locStr(id domain.LocationId) string    { return strconv.FormatUint(uint64(id), 10) }
func tokStr(id domain.TokenInstanceId) string { return strconv.FormatUint(uint64(id), 10) }
func promptStr(id domain.PromptInstanceId) string {
	return strconv.FormatUint(uint64(id), 10)
}
func playerStr(p domain.PlayerId) string {
	if p == domain.Player1 {
		return "0"
	}
	return "1"
}

// categoryCode returns the wire category_code for a template's category
// (§6): 0 Hero, 1 Landscape, 2 Unit, 3 Item, 4 Command.
func categoryCode(k domain.CategoryKind) int {
	switch k {
	case domain.CategoryHero:
		return 0
	case domain.CategoryLandscape:
		return 1
	case domain.CategoryUnit:
		return 2
	case domain.CategoryItem:
		return 3
	case domain.CategoryCommand:
		return 4
	default:
		return -1
	}
}

// EncodeTokenData renders a TokenInstance's template + live stats using the
// §6 wire layout:
// id;;category_code;;"name (cost)";;description;;cost;;health;;defense;;attack;;types_csv;;
func EncodeTokenData(t *domain.TokenInstance) string {
	tmpl := t.Template
	health, defense, attack := 0, 0, 0
	switch tmpl.Category.Kind {
	case domain.CategoryHero, domain.CategoryUnit:
		health = t.CurrentStats.Health
		defense = t.CurrentStats.Defense
		attack = t.CurrentStats.Attack
	}
	types := strings.Join(tmpl.Types, ", ")
	displayName := fmt.Sprintf("%s (%d)", tmpl.Name, t.Cost)
	return fmt.Sprintf("%s;;%d;;%s;;%s;;%d;;%d;;%d;;%d;;%s;;",
		tmpl.ID, categoryCode(tmpl.Category.Kind), displayName, tmpl.Description,
		t.Cost, health, defense, attack, types)
}

// Encode renders one outbound Instruction to its wire frame.
func Encode(i Instruction) string {
	switch v := i.(type) {
	case AddSlot:
		return frame("add_slot", locStr(v.Location), strconv.Itoa(v.X), strconv.Itoa(v.Y), strconv.Itoa(v.Z))
	case SetThaum:
		return frame("set_thaum", playerStr(v.Player), strconv.Itoa(v.Amount))
	case MoveToken:
		anim := string(v.Animation)
		return frame("move_token", tokStr(v.Token), locStr(v.To), anim)
	case CreateToken:
		return frame("create_token", EncodeTokenData(v.Token), tokStr(v.Instance), playerStr(v.Player), locStr(v.Location))
	case SetTurn:
		return frame("set_turn", playerStr(v.Player))
	case ClearLocation:
		return frame("clear_location", locStr(v.Location))
	case AddPrompt:
		return frame("add_prompt", promptStr(v.PromptID), playerStr(v.Owner), v.Kind, tokStr(v.Token), locStr(v.Slot))
	case RemovePrompt:
		return frame("remove_prompt", promptStr(v.PromptID))
	case UpdateData:
		return frame("update_data", EncodeTokenData(v.Token))
	case UpdateBehaviors:
		return frame("update_behaviors", EncodeTokenData(v.Token))
	case AddEquipmentSlot:
		return frame("add_equipment_slot", tokStr(v.Unit), locStr(v.Slot))
	case Animate:
		return frame("animate", tokStr(v.Token), locStr(v.Location), strconv.FormatFloat(v.Duration, 'f', -1, 64), string(v.Preset))
	case Reveal:
		return frame("reveal", tokStr(v.Token))
	case EndGame:
		return frame("end_game", playerStr(v.Winner))
	case Info:
		return frame("info", v.Message)
	case Warn:
		return frame("warn", v.Message)
	case Error:
		return frame("error", v.Message)
	default:
		return frame("error", "unknown instruction")
	}
}
