// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/parity-check/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens long lines to fit inside a box.
func truncate(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		return string(runes[:boxWidth-7]) + "..."
	}
	return line
}

// PrintSuite outputs the targets a run will inspect.
func (p *Printer) PrintSuite(suite *types.Suite) {
	if suite == nil {
		return
	}

	var sb strings.Builder
	name := suite.Name
	if name == "" {
		name = "(unnamed)"
	}
	vp := suite.Viewport.OrDefault()
	sb.WriteString(fmt.Sprintf("Suite:    %s\n", name))
	sb.WriteString(fmt.Sprintf("Viewport: %dx%d\n", vp.Width, vp.Height))
	sb.WriteString(fmt.Sprintf("Targets:  %d\n", len(suite.Targets)))

	count := min(len(suite.Targets), maxItemsToShow)
	for i := 0; i < count; i++ {
		t := suite.Targets[i]
		sb.WriteString(fmt.Sprintf("  • %s → %s", t.Label, t.Selector))
		if len(t.Properties) > 0 {
			sb.WriteString(fmt.Sprintf(" (%d props)", len(t.Properties)))
		}
		sb.WriteString("\n")
	}
	if len(suite.Targets) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(suite.Targets)-maxItemsToShow))
	}

	p.printBox("PARITY SUITE", sb.String())
}

// PrintSnapshot outputs a summary of a captured snapshot.
func (p *Printer) PrintSnapshot(role string, snap *types.Snapshot) {
	if snap == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:      %s\n", snap.URL))
	sb.WriteString(fmt.Sprintf("Engine:   %s\n", snap.Engine))
	sb.WriteString(fmt.Sprintf("Found:    %d/%d\n", snap.FoundCount(), len(snap.Elements)))

	var missing []string
	for label, elem := range snap.Elements {
		if !elem.Found {
			missing = append(missing, label)
		}
	}
	sort.Strings(missing)
	if len(missing) > 0 {
		sb.WriteString("Missing:\n")
		count := min(len(missing), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", missing[i]))
		}
		if len(missing) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(missing)-maxItemsToShow))
		}
	}

	p.printBox(strings.ToUpper(role)+" SNAPSHOT", sb.String())
}

// PrintComparison outputs mismatch counts by kind.
func (p *Printer) PrintComparison(c *types.Comparison) {
	if c == nil {
		return
	}

	counts := map[string]int{}
	for _, m := range c.Mismatches {
		counts[m.Kind]++
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compared:   %d labels\n", len(c.Compared)))
	sb.WriteString(fmt.Sprintf("Skipped:    %d labels\n", len(c.Skipped)))
	sb.WriteString(fmt.Sprintf("Structural: %d\n", counts[types.MismatchStructural]))
	sb.WriteString(fmt.Sprintf("Text:       %d\n", counts[types.MismatchText]))
	sb.WriteString(fmt.Sprintf("Property:   %d\n", counts[types.MismatchProperty]))

	p.printBox("COMPARISON", sb.String())
}
