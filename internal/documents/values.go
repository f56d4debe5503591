package documents

import (
	"fmt"
	"strings"
)

// ValueInputOption tells the Sheets API how written values are interpreted.
type ValueInputOption string

const (
	// ValueInputRaw stores values as given.
	ValueInputRaw ValueInputOption = "RAW"
	// ValueInputUserEntered parses values as if typed into the UI, so
	// "=SUM(A1:A2)" becomes a formula and "1/2/2024" a date.
	ValueInputUserEntered ValueInputOption = "USER_ENTERED"

	// DefaultValueInputOption is used when no option is given.
	DefaultValueInputOption = ValueInputRaw
)

// ParseValueInputOption parses s case-insensitively. An empty string gives
// DefaultValueInputOption.
func ParseValueInputOption(s string) (ValueInputOption, error) {
	opt := ValueInputOption(strings.ToUpper(strings.TrimSpace(s)))
	if opt == "" {
		return DefaultValueInputOption, nil
	}
	if err := opt.Validate(); err != nil {
		return "", err
	}
	return opt, nil
}

// Validate returns ErrInvalidValueInputOption for unknown options. The
// empty option is valid and means DefaultValueInputOption.
func (o ValueInputOption) Validate() error {
	switch o {
	case "", ValueInputRaw, ValueInputUserEntered:
		return nil
	default:
		return fmt.Errorf("%w: %q (want RAW or USER_ENTERED)", ErrInvalidValueInputOption, string(o))
	}
}

func (o ValueInputOption) orDefault() ValueInputOption {
	if o == "" {
		return DefaultValueInputOption
	}
	return o
}

// ValueRange is a grid of cell values for an A1 range.
type ValueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// normalizeValues returns an empty grid for a missing one.
func normalizeValues(values [][]any) [][]any {
	if values == nil {
		return [][]any{}
	}
	return values
}
