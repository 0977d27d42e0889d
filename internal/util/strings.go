package util

import (
	"fmt"
	"strings"
	"unicode"
)

// EscapeString makes s safe to print on a single diagnostic line.
func EscapeString(s string) string {
	sb := strings.Builder{}
	for _, r := range s {
		switch {
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '"':
			sb.WriteString(`\"`)
		case unicode.IsPrint(r) && r < unicode.MaxASCII:
			sb.WriteRune(r)
		default:
			sb.WriteString(fmt.Sprintf("\\x%02X", r))
		}
	}
	return sb.String()
}
