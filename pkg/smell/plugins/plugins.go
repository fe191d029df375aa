package plugins

import (
	"time"

	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/smell"
)

// ancientDays is the age past which an issue or pull request counts as
// ancient: three years.
const ancientDays = 1095

// All returns the built-in smell tests in execution order.
func All() []smell.Plugin {
	return []smell.Plugin{
		&Issues{},
		&PullRequests{},
		&Metadata{},
		&Timeline{},
	}
}

// clock is embedded by plugins that depend on the current date.
type clock struct {
	// Now overrides the current time; nil means time.Now.
	Now func() time.Time
}

func (c clock) today() time.Time {
	if c.Now == nil {
		return date(time.Now())
	}
	return date(c.Now())
}

// date truncates t to its UTC calendar day.
func date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of calendar days from b to a.
func daysBetween(a, b time.Time) int {
	return int(date(a).Sub(date(b)).Hours() / 24)
}

// registryName is how alerts refer to the registry a module came from.
func registryName(e module.Ecosystem) string {
	switch e {
	case module.Python:
		return "PyPI"
	case module.Ruby:
		return "RubyGems"
	default:
		return "Forge"
	}
}
