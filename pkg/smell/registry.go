package smell

import (
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// Options selects which plugins run.
//
// When Enable is non-empty every plugin not named there is disabled. Disable
// is always applied on top. Names match case-insensitively and "-" is
// interchangeable with "_". Unknown names are ignored.
type Options struct {
	Enable  []string
	Disable []string

	Logger *log.Logger // nil means log.Default()
}

// Registry is the ordered set of enabled plugins.
type Registry struct {
	plugins []Plugin
}

// NewRegistry filters all by opts, preserving its order.
func NewRegistry(all []Plugin, opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	known := make(map[string]bool, len(all))
	for _, p := range all {
		known[NormalizeName(p.Name())] = true
	}

	disabled := make(map[string]bool)
	for _, name := range opts.Disable {
		name = NormalizeName(name)
		if !known[name] {
			logger.Debug("ignoring unknown plugin", "name", name)
			continue
		}
		disabled[name] = true
	}

	if len(opts.Enable) > 0 {
		enabled := make(map[string]bool, len(opts.Enable))
		for _, name := range opts.Enable {
			name = NormalizeName(name)
			if !known[name] {
				logger.Debug("ignoring unknown plugin", "name", name)
			}
			enabled[name] = true
		}
		for name := range known {
			if !enabled[name] {
				disabled[name] = true
			}
		}
	}

	r := &Registry{}
	for _, p := range all {
		if !disabled[NormalizeName(p.Name())] {
			r.plugins = append(r.plugins, p)
		}
	}
	return r
}

// NormalizeName canonicalizes a plugin name for matching.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// Plugins returns the enabled plugins in execution order.
func (r *Registry) Plugins() []Plugin {
	return slices.Clone(r.plugins)
}

// Len returns the number of enabled plugins.
func (r *Registry) Len() int { return len(r.plugins) }

// Find returns the enabled plugin with the given name.
func (r *Registry) Find(name string) (Plugin, bool) {
	name = NormalizeName(name)
	for _, p := range r.plugins {
		if NormalizeName(p.Name()) == name {
			return p, true
		}
	}
	return nil, false
}

// List describes the enabled plugins in execution order.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, Info{Name: p.Name(), Description: strings.TrimSpace(p.Description())})
	}
	return out
}

// Catalogue renders List as a plain-text block.
func (r *Registry) Catalogue() string {
	var b strings.Builder
	b.WriteString("                    Available smell test plugins\n")
	b.WriteString("                 ===============================\n\n")
	for _, info := range r.List() {
		b.WriteString(info.Name)
		b.WriteString("\n--------\n")
		b.WriteString(info.Description)
		b.WriteString("\n\n")
	}
	return b.String()
}
