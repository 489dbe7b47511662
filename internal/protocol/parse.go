// Package protocol converts between the line-oriented text format and the
// structured commands and effects the engine works with.
//
// Input:  O <id> <symbol> <side> <qty> <price> | X <id> | P
// Output: F <id> <symbol> <qty> <price> | X <id> | P <id> <symbol> <side> <qty> <price> | E <id> <message>
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"simple_cross/internal/domain"
)

const (
	ActionPlace  = "O"
	ActionCancel = "X"
	ActionPrint  = "P"
)

var (
	errEmptyLine   = errors.New("empty line")
	errMissingID   = errors.New("missing order id")
	errTooManyArgs = errors.New("too many fields")
)

// Parse tokenizes one command line.
//
// Only structural problems are reported here, as MalformedCommand: an empty
// line, a missing or unreadable id, or surplus fields. An unknown action
// letter still parses (as CommandUnknown) so that validation can report it.
// Missing trailing fields of a place command are left empty for the same
// reason.
func Parse(line string) (domain.Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return domain.Command{}, domain.RejectWith(0, domain.ReasonMalformedCommand, errEmptyLine)
	}

	cmd := domain.Command{Action: fields[0]}
	maxFields := 0
	switch fields[0] {
	case ActionPlace:
		cmd.Kind, maxFields = domain.CommandPlace, 6
	case ActionCancel:
		cmd.Kind, maxFields = domain.CommandCancel, 2
	case ActionPrint:
		cmd.Kind, maxFields = domain.CommandPrint, 1
	default:
		cmd.Kind = domain.CommandUnknown
		if len(fields) > 1 {
			cmd.ID, _ = parseID(fields[1])
		}
		return cmd, nil
	}

	if cmd.Kind != domain.CommandPrint {
		if len(fields) < 2 {
			return cmd, domain.RejectWith(0, domain.ReasonMalformedCommand, errMissingID)
		}
		id, err := parseID(fields[1])
		if err != nil {
			return cmd, domain.RejectWith(0, domain.ReasonMalformedCommand, err)
		}
		cmd.ID = id
	}

	if len(fields) > maxFields {
		return cmd, domain.RejectWith(cmd.ID, domain.ReasonMalformedCommand, errTooManyArgs)
	}

	if cmd.Kind == domain.CommandPlace {
		rest := fields[2:]
		for i, dst := range []*string{&cmd.Symbol, &cmd.Side, &cmd.Qty, &cmd.Price} {
			if i < len(rest) {
				*dst = rest[i]
			}
		}
	}
	return cmd, nil
}

// parseID reads a positive 32-bit order id.
func parseID(token string) (domain.OrderID, error) {
	v, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("order id %q: %w", token, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("order id must be positive")
	}
	return domain.OrderID(v), nil
}
