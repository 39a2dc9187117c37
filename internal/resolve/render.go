package resolve

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteTable writes a human-readable table of the configuration to w.
func WriteTable(w io.Writer, c *Config) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "FEATURE\tTIER\tSTATE\tVALUE\n")
	for _, name := range c.names {
		value := c.values[name]
		if c.adopting[name] {
			if value == "" {
				value = "(adoption)"
			} else {
				value += " (adoption)"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, c.tiers[name], c.states[name], value)
	}
	return tw.Flush()
}

// WriteDiagnostics writes one line per diagnostic to w.
func WriteDiagnostics(w io.Writer, c *Config) {
	for _, d := range c.diagnostics {
		fmt.Fprintln(w, d.String())
	}
}
