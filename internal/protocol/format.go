package protocol

import (
	"strconv"
	"strings"

	"simple_cross/internal/domain"
)

// Format renders one effect as a result line.
func Format(e domain.Effect) string {
	var sb strings.Builder
	id := strconv.FormatUint(uint64(e.ID), 10)
	switch e.Kind {
	case domain.EffectFill:
		sb.WriteString("F ")
		sb.WriteString(id)
		sb.WriteByte(' ')
		sb.WriteString(e.Symbol)
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatUint(uint64(e.Qty), 10))
		sb.WriteByte(' ')
		sb.WriteString(e.Price.String())
	case domain.EffectCancelAck:
		sb.WriteString("X ")
		sb.WriteString(id)
	case domain.EffectBookEntry:
		sb.WriteString("P ")
		sb.WriteString(id)
		sb.WriteByte(' ')
		sb.WriteString(e.Symbol)
		sb.WriteByte(' ')
		sb.WriteString(e.Side.String())
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatUint(uint64(e.Qty), 10))
		sb.WriteByte(' ')
		sb.WriteString(e.Price.String())
	default:
		sb.WriteString("E ")
		sb.WriteString(id)
		sb.WriteByte(' ')
		sb.WriteString(e.Reason.String())
	}
	return sb.String()
}

// FormatAll renders a result log in order.
func FormatAll(effects []domain.Effect) []string {
	out := make([]string, len(effects))
	for i, e := range effects {
		out[i] = Format(e)
	}
	return out
}
