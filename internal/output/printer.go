// Package output provides formatted terminal output for osgc.
// This centralizes all printing and formatting logic away from command modules.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/osgameclones/osgc/internal/export"
	"github.com/osgameclones/osgc/internal/issues"
	"github.com/osgameclones/osgc/internal/site"
)

// Format represents different output formats
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

var (
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	locStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Printer handles formatted output to the terminal
type Printer struct {
	writer io.Writer
	format Format
	quiet  bool
	color  bool
}

// NewPrinterWithWriter creates a new printer with a custom writer; styling is
// off until SetColor enables it.
func NewPrinterWithWriter(writer io.Writer, format Format, quiet bool) *Printer {
	return &Printer{
		writer: writer,
		format: format,
		quiet:  quiet,
	}
}

// SetColor enables or disables styled output
func (p *Printer) SetColor(enabled bool) {
	p.color = enabled
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Success prints a success message
func (p *Printer) Success(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "✓ %s\n", message)
	}
}

// Error prints an error message
func (p *Printer) Error(message string) {
	fmt.Fprintf(p.writer, "✗ %s\n", message)
}

// Warning prints a warning message
func (p *Printer) Warning(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "⚠ %s\n", message)
	}
}

// Info prints an informational message
func (p *Printer) Info(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "ℹ %s\n", message)
	}
}

// PrintError prints a batched validation report for *issues.Error values
// and a single error line for anything else.
func (p *Printer) PrintError(err error) {
	var issueErr *issues.Error
	if errors.As(err, &issueErr) {
		p.PrintIssues(issueErr)
		return
	}
	p.Error(err.Error())
}

// PrintIssues prints every offending record with its problem, then a count
func (p *Printer) PrintIssues(e *issues.Error) {
	if p.format == FormatJSON {
		_ = p.printJSON(e.Issues)
		return
	}

	fmt.Fprintf(p.writer, "\n")
	for _, issue := range e.Issues {
		fmt.Fprintf(p.writer, "  %s", p.style(nameStyle, issue.Name))
		if loc := issue.Location(); loc != "" {
			fmt.Fprintf(p.writer, " %s", p.style(locStyle, loc))
		}
		fmt.Fprintf(p.writer, "\n    %s\n", issue.Message)
	}

	noun := "errors"
	if len(e.Issues) == 1 {
		noun = "error"
	}
	summary := fmt.Sprintf("%d %s %s", len(e.Issues), e.Stage, noun)
	fmt.Fprintf(p.writer, "\n  %s\n\n", p.style(summaryStyle, summary))
}

// PrintManifest prints the summary of a finished build
func (p *Printer) PrintManifest(m *export.Manifest) error {
	switch p.format {
	case FormatTable:
		return p.printManifestTable(m)
	case FormatJSON:
		return p.printJSON(m)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintStats prints dataset statistics
func (p *Printer) PrintStats(s *site.Stats) error {
	switch p.format {
	case FormatTable:
		return p.printStatsTable(s)
	case FormatJSON:
		return p.printJSON(s)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// printManifestTable prints a build manifest in table format
func (p *Printer) printManifestTable(m *export.Manifest) error {
	if p.quiet {
		return nil
	}
	fmt.Fprintf(p.writer, "Build: %s\n", m.BuildID)
	fmt.Fprintf(p.writer, "Games: %d\n", m.Games)
	fmt.Fprintf(p.writer, "Clones: %d\n", m.Clones)
	fmt.Fprintf(p.writer, "Recently updated: %d\n", m.RecentlyUpdated)
	if m.LastUpdated != "" {
		fmt.Fprintf(p.writer, "Last updated: %s\n", m.LastUpdated)
	}
	return nil
}

// printStatsTable prints statistics in table format
func (p *Printer) printStatsTable(s *site.Stats) error {
	fmt.Fprintf(p.writer, "Games: %d\n", s.Games)
	fmt.Fprintf(p.writer, "Clones: %d\n", s.Clones)

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "\nTYPE\tCLONES\n")
	fmt.Fprintf(w, "----\t------\n")
	for _, c := range s.ByType {
		fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Count)
	}

	fmt.Fprintf(w, "\nSTATUS\tCLONES\n")
	fmt.Fprintf(w, "------\t------\n")
	for _, c := range s.ByStatus {
		fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Count)
	}

	fmt.Fprintf(w, "\nFACET\tVALUES\n")
	fmt.Fprintf(w, "-----\t------\n")
	for _, c := range s.Facets {
		fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Count)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(p.writer, "\nFrameworks:\n")
	if len(s.Frameworks) == 0 {
		fmt.Fprintf(p.writer, "  No frameworks found\n")
		return nil
	}

	w = tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  FRAMEWORK\tCLONES\tLANGUAGES\n")
	fmt.Fprintf(w, "  ---------\t------\t---------\n")
	for _, f := range s.Frameworks {
		langs := ""
		for i, l := range f.Langs {
			if i > 0 {
				langs += ", "
			}
			langs += fmt.Sprintf("%s (%d)", l.Name, l.Count)
		}
		fmt.Fprintf(w, "  %s\t%d\t%s\n", f.Name, f.Count.Count, langs)
	}

	return w.Flush()
}

// printJSON prints any object as JSON
func (p *Printer) printJSON(obj interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(obj)
}
