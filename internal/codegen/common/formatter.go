package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/iley/cgpipe/internal/pass"
	"github.com/iley/cgpipe/internal/util"
)

// FormatArguments prints the pipeline on one line, the way it would be passed to an optimizer.
func FormatArguments(out io.Writer, list *pass.List) {
	names := list.Names()
	for i := range names {
		names[i] = "-" + names[i]
	}
	fmt.Fprintf(out, "Pass Arguments: %s\n", strings.Join(names, " "))
}

// FormatStructure prints one pass per line together with its description.
func FormatStructure(out io.Writer, registry *pass.Registry, unitName string, list *pass.List) {
	fmt.Fprintf(out, "Pipeline for %s (%d passes):\n", util.EscapeString(unitName), list.Len())
	for i, p := range list.Passes() {
		description := ""
		if info, ok := registry.Info(p.ID()); ok {
			description = info.Description
		}
		line := fmt.Sprintf("%4d  %-28s %s", i, p.Name(), description)
		if b, ok := p.(interface{ Banner() string }); ok && b.Banner() != "" {
			line += fmt.Sprintf(" [%s]", util.EscapeString(b.Banner()))
		}
		fmt.Fprintf(out, "%s\n", strings.TrimRight(line, " "))
	}
}

// FormatTrace prints the passes that actually ran over u.
func FormatTrace(out io.Writer, u *Unit) {
	fmt.Fprintf(out, "Ran %d passes over %s\n", len(u.Passes()), util.EscapeString(u.Name()))
}
