package console

import "strings"

// Kind is how an operator line is treated
type Kind int

const (
	KindEmpty Kind = iota
	KindQuery
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindQuery:
		return "query"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Classify trims line and reports whether it exits the console, expects a
// reply (ends with '?') or is a plain command.
func Classify(line string) Kind {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return KindEmpty
	case strings.HasSuffix(line, "?"):
		return KindQuery
	default:
		return KindCommand
	}
}
