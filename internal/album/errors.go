package album

import (
	"fmt"
	"strings"

	"platter/internal/services"
)

// ConfigError reports a malformed or inconsistent album document.
type ConfigError struct {
	Path   string
	Side   int
	Track  int
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("album config")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	if e.Side > 0 {
		fmt.Fprintf(&b, "side %d: ", e.Side)
	}
	if e.Track > 0 {
		fmt.Fprintf(&b, "track %d: ", e.Track)
	}
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the cause and the validation marker for errors.Is checks.
func (e *ConfigError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Err != nil {
		return []error{e.Err, services.ErrValidation}
	}
	return []error{services.ErrValidation}
}

func configErr(side, track int, format string, args ...any) *ConfigError {
	return &ConfigError{Side: side, Track: track, Reason: fmt.Sprintf(format, args...)}
}
