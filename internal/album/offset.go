package album

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Offset is a position or length within a side in whole milliseconds.
// Documents spell it M:SS.mmm (H:MM:SS.mmm past an hour); bare integers are
// read as milliseconds.
type Offset int64

// Milliseconds returns the offset as an int64.
func (o Offset) Milliseconds() int64 {
	return int64(o)
}

func (o Offset) String() string {
	ms := int64(o)
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	hours := ms / 3_600_000
	minutes := (ms / 60_000) % 60
	seconds := (ms / 1000) % 60
	millis := ms % 1000
	if hours > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d.%03d", sign, hours, minutes, seconds, millis)
	}
	return fmt.Sprintf("%s%d:%02d.%03d", sign, minutes, seconds, millis)
}

// ParseOffset parses M:SS.mmm, H:MM:SS.mmm, S.mmm or a bare integer count
// of milliseconds. Fractions shorter than three digits are scaled, so
// "1:02.5" is 62500ms.
func ParseOffset(value string) (Offset, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty offset")
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return Offset(ms), nil
	}

	negative := strings.HasPrefix(value, "-")
	body := strings.TrimPrefix(value, "-")

	clock := body
	var millis int64
	if dot := strings.IndexByte(body, '.'); dot >= 0 {
		clock = body[:dot]
		frac := body[dot+1:]
		if frac == "" || len(frac) > 3 || !allDigits(frac) {
			return 0, fmt.Errorf("invalid offset %q: fraction must be 1-3 digits", value)
		}
		n, _ := strconv.ParseInt(frac, 10, 64)
		for i := len(frac); i < 3; i++ {
			n *= 10
		}
		millis = n
	}

	parts := strings.Split(clock, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid offset %q: too many fields", value)
	}
	var total int64
	for i, part := range parts {
		if part == "" || !allDigits(part) {
			return 0, fmt.Errorf("invalid offset %q", value)
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid offset %q: %w", value, err)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid offset %q: field %q must be below 60", value, part)
		}
		total = total*60 + n
	}
	total = total*1000 + millis
	if negative {
		total = -total
	}
	return Offset(total), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MarshalYAML writes the offset in clock form.
func (o Offset) MarshalYAML() (any, error) {
	return o.String(), nil
}

// UnmarshalYAML accepts clock strings, integer milliseconds and plain
// seconds such as 62.5.
func (o *Offset) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: offset must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!int":
		ms, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid offset %q: %w", node.Line, node.Value, err)
		}
		*o = Offset(ms)
		return nil
	case "!!str", "!!float":
		parsed, err := ParseOffset(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*o = parsed
		return nil
	default:
		return fmt.Errorf("line %d: offset %q must be M:SS.mmm, S.mmm or integer milliseconds", node.Line, node.Value)
	}
}
