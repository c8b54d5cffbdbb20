package analysis

import (
	"fmt"
	"strings"
)

// SchemaError reports a tabular source that lacks required columns or holds
// unusable cells.
type SchemaError struct {
	Source  string
	Missing []string
	Detail  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error")
	if e.Source != "" {
		b.WriteString(" in " + e.Source)
	}
	if len(e.Missing) > 0 {
		b.WriteString(": missing columns " + strings.Join(e.Missing, ", "))
	}
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	return b.String()
}

// LookupMissError is raised for an answer key without a weight row when the
// catalog miss policy is MissFail.
type LookupMissError struct {
	Question int
	Key      string
}

func (e *LookupMissError) Error() string {
	return fmt.Sprintf("no weight row for question %d answer %q", e.Question, e.Key)
}

// MissingSourceError means neither an explicit nor a default weight file exists
type MissingSourceError struct {
	Tried []string
}

func (e *MissingSourceError) Error() string {
	if len(e.Tried) == 0 {
		return "no weight table available"
	}
	return "no weight table available (tried " + strings.Join(e.Tried, ", ") + ")"
}

// InputError is a malformed request value such as an out-of-range question
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
