// Package report renders smell alerts for people and programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/smell"
)

// Formats accepted by Write.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// Report is the outcome of one evaluation.
type Report struct {
	ID          uuid.UUID        `json:"id"`
	Module      string           `json:"module"`
	Ecosystem   module.Ecosystem `json:"ecosystem"`
	Version     string           `json:"version,omitempty"`
	Repository  string           `json:"repository"`
	GeneratedAt time.Time        `json:"generated_at"`
	Alerts      []smell.Alert    `json:"alerts"`
}

// New builds a report for mod. repo is the inspected repository URL.
func New(mod *module.Module, repo string, alerts []smell.Alert) *Report {
	if alerts == nil {
		alerts = []smell.Alert{}
	}
	return &Report{
		ID:          uuid.New(),
		Module:      mod.Name,
		Ecosystem:   mod.Ecosystem,
		Version:     mod.Version(),
		Repository:  repo,
		GeneratedAt: time.Now().UTC(),
		Alerts:      alerts,
	}
}

// Counts returns the number of alerts per severity.
func (r *Report) Counts() map[smell.Severity]int {
	counts := make(map[smell.Severity]int, len(smell.Severities))
	for _, a := range r.Alerts {
		counts[a.Severity]++
	}
	return counts
}

// Write renders the report in the named format.
func (r *Report) Write(w io.Writer, format string, detail bool) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatHuman, "":
		return r.WriteText(w, detail)
	default:
		return derrors.New(derrors.ErrCodeInvalidFormat, "unknown format %q (expected %s or %s)", format, FormatHuman, FormatJSON)
	}
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

var severityStyles = map[smell.Severity]lipgloss.Style{
	smell.Red:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("167")),
	smell.Orange: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
	smell.Yellow: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
	smell.Green:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("35")),
}

var styleExplanation = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// WriteText writes alerts grouped by severity, most severe first. With
// detail each alert is followed by its explanation.
func (r *Report) WriteText(w io.Writer, detail bool) error {
	if len(r.Alerts) == 0 {
		_, err := fmt.Fprintln(w, "Congrats, no smells discovered")
		return err
	}

	groups := smell.BySeverity(r.Alerts)
	var b strings.Builder
	b.WriteString("\n")
	for _, sev := range smell.Severities {
		alerts := groups[sev]
		if len(alerts) == 0 {
			continue
		}
		b.WriteString(severityStyles[sev].Render(fmt.Sprintf("[%s] alerts:", strings.ToUpper(string(sev)))))
		b.WriteString("\n")
		for _, a := range alerts {
			b.WriteString("  " + a.Message + "\n")
			if detail && a.Explanation != "" {
				b.WriteString("    " + styleExplanation.Render("> "+a.Explanation) + "\n")
			}
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
