package smell

import (
	"strings"

	derrors "github.com/binford2k/denmark/pkg/errors"
)

// Severity ranks how worrying an alert is. Red is the highest concern.
type Severity string

const (
	Red    Severity = "red"
	Orange Severity = "orange"
	Yellow Severity = "yellow"
	Green  Severity = "green"
)

// Severities lists every severity, most severe first.
var Severities = []Severity{Red, Orange, Yellow, Green}

// Rank orders severities: 0 for red up to 3 for green, -1 when unknown.
func (s Severity) Rank() int {
	for i, sev := range Severities {
		if s == sev {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool { return s.Rank() >= 0 }

// ParseSeverity parses a case-insensitive severity name.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if !sev.Valid() {
		return "", derrors.New(derrors.ErrCodeInvalidInput, "unknown severity %q", s)
	}
	return sev, nil
}

// Alert is one smell reported by a plugin.
type Alert struct {
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Explanation string   `json:"explanation"`
}

// Validate checks that the alert is reportable.
func (a Alert) Validate() error {
	if !a.Severity.Valid() {
		return derrors.New(derrors.ErrCodeInternal, "alert has unknown severity %q", a.Severity)
	}
	if strings.TrimSpace(a.Message) == "" {
		return derrors.New(derrors.ErrCodeInternal, "%s alert has an empty message", a.Severity)
	}
	return nil
}

// BySeverity groups alerts by severity, keeping emission order in each group.
func BySeverity(alerts []Alert) map[Severity][]Alert {
	out := make(map[Severity][]Alert)
	for _, a := range alerts {
		out[a.Severity] = append(out[a.Severity], a)
	}
	return out
}

// AtLeast keeps the alerts at threshold or more severe, in order. An empty
// threshold keeps everything.
func AtLeast(alerts []Alert, threshold Severity) []Alert {
	if threshold == "" {
		return alerts
	}
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Severity.Rank() <= threshold.Rank() {
			out = append(out, a)
		}
	}
	return out
}
