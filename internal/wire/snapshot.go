package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"cascadeengine/internal/domain"
)

// DebugSnapshot is the admin/debug alternate encoding of a Resources dump —
// a binary protobuf payload served over a separate diagnostics endpoint,
// never over the text-frame match connection. Field numbers are part of the
// wire contract and must not be renumbered.
type DebugSnapshot struct {
	Round       int
	CurrentTurn domain.PlayerId
	Tokens      []DebugToken
}

// DebugToken mirrors the fields of a TokenInstance worth inspecting from an
// admin console.
type DebugToken struct {
	InstanceID domain.TokenInstanceId
	TemplateID string
	Owner      domain.PlayerId
	Location   domain.LocationId
	Health     int
	Defense    int
	Attack     int
}

const (
	snapFieldRound       = 1
	snapFieldCurrentTurn = 2
	snapFieldTokens      = 3

	tokFieldInstanceID = 1
	tokFieldTemplateID = 2
	tokFieldOwner      = 3
	tokFieldLocation   = 4
	tokFieldHealth     = 5
	tokFieldDefense    = 6
	tokFieldAttack     = 7
)

func encodeDebugToken(t DebugToken) []byte {
	var b []byte
	b = protowire.AppendTag(b, tokFieldInstanceID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(t.InstanceID))
	b = protowire.AppendTag(b, tokFieldTemplateID, protowire.BytesType)
	b = protowire.AppendString(b, t.TemplateID)
	b = protowire.AppendTag(b, tokFieldOwner, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(playerOrdinal(t.Owner)))
	b = protowire.AppendTag(b, tokFieldLocation, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(t.Location))
	b = protowire.AppendTag(b, tokFieldHealth, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(t.Health)))
	b = protowire.AppendTag(b, tokFieldDefense, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(t.Defense)))
	b = protowire.AppendTag(b, tokFieldAttack, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(t.Attack)))
	return b
}

func playerOrdinal(p domain.PlayerId) int {
	if p == domain.Player1 {
		return 0
	}
	return 1
}

// EncodeDebugSnapshot serializes s as a protobuf message by hand-appending
// field tags with protowire, the low-level encoder underneath generated
// protobuf code — there is no .proto schema to run protoc against here, so
// this skips codegen and targets the wire format directly.
func EncodeDebugSnapshot(s DebugSnapshot) []byte {
	var b []byte
	b = protowire.AppendTag(b, snapFieldRound, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(s.Round)))
	b = protowire.AppendTag(b, snapFieldCurrentTurn, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(playerOrdinal(s.CurrentTurn)))
	for _, t := range s.Tokens {
		b = protowire.AppendTag(b, snapFieldTokens, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeDebugToken(t))
	}
	return b
}

// DecodeDebugSnapshot parses the format EncodeDebugSnapshot produces. Used
// by admin-tooling tests to round-trip a snapshot.
func DecodeDebugSnapshot(data []byte) (DebugSnapshot, error) {
	var s DebugSnapshot
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return s, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case snapFieldRound:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return s, protowire.ParseError(n)
			}
			s.Round = int(int64(v))
			data = data[n:]
		case snapFieldCurrentTurn:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return s, protowire.ParseError(n)
			}
			s.CurrentTurn = playerFromOrdinal(int(v))
			data = data[n:]
		case snapFieldTokens:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return s, protowire.ParseError(n)
			}
			tok, err := decodeDebugToken(v)
			if err != nil {
				return s, err
			}
			s.Tokens = append(s.Tokens, tok)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return s, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return s, nil
}

func playerFromOrdinal(v int) domain.PlayerId {
	if v == 0 {
		return domain.Player1
	}
	return domain.Player2
}

func decodeDebugToken(data []byte) (DebugToken, error) {
	var t DebugToken
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return t, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case tokFieldInstanceID:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return t, protowire.ParseError(n)
			}
			t.InstanceID = domain.TokenInstanceId(v)
			data = data[n:]
		case tokFieldTemplateID:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return t, protowire.ParseError(n)
			}
			t.TemplateID = v
			data = data[n:]
		case tokFieldOwner:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return t, protowire.ParseError(n)
			}
			t.Owner = playerFromOrdinal(int(v))
			data = data[n:]
		case tokFieldLocation:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return t, protowire.ParseError(n)
			}
			t.Location = domain.LocationId(v)
			data = data[n:]
		case tokFieldHealth:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return t, protowire.ParseError(n)
			}
			t.Health = int(int64(v))
			data = data[n:]
		case tokFieldDefense:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return t, protowire.ParseError(n)
			}
			t.Defense = int(int64(v))
			data = data[n:]
		case tokFieldAttack:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return t, protowire.ParseError(n)
			}
			t.Attack = int(int64(v))
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return t, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return t, nil
}

// EncodeDebugSnapshots concatenates a length-prefixed EncodeDebugSnapshot
// for each snapshot, the standard framing for a stream of protobuf messages
// with no outer envelope message of their own.
func EncodeDebugSnapshots(snaps []DebugSnapshot) []byte {
	var b []byte
	for _, s := range snaps {
		msg := EncodeDebugSnapshot(s)
		b = protowire.AppendVarint(b, uint64(len(msg)))
		b = append(b, msg...)
	}
	return b
}

// SnapshotFromResources builds a DebugSnapshot from live match state.
func SnapshotFromResources(round int, turn domain.PlayerId, instances []*domain.TokenInstance) DebugSnapshot {
	snap := DebugSnapshot{Round: round, CurrentTurn: turn}
	for _, t := range instances {
		snap.Tokens = append(snap.Tokens, DebugToken{
			InstanceID: t.InstanceID,
			TemplateID: t.Template.ID,
			Owner:      t.Owner,
			Location:   t.Location,
			Health:     t.CurrentStats.Health,
			Defense:    t.CurrentStats.Defense,
			Attack:     t.CurrentStats.Attack,
		})
	}
	return snap
}
