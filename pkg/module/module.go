package module

import (
	"time"
)

// Ecosystem identifies a package registry family.
type Ecosystem string

// Supported ecosystems.
const (
	Puppet Ecosystem = "puppet"
	Python Ecosystem = "python"
	Ruby   Ecosystem = "ruby"
)

// Module is a published package resolved from its registry.
//
// Releases are ordered newest first and may be empty. HomepageURL is the
// source-control URL used to construct a repository provider.
type Module struct {
	Name        string    `json:"name"`
	Ecosystem   Ecosystem `json:"ecosystem"`
	HomepageURL string    `json:"homepage_url"`
	IssuesURL   string    `json:"issues_url,omitempty"`
	Deprecated  bool      `json:"deprecated,omitempty"`
	Releases    []Release `json:"releases"`
}

// Release is one published version of a module.
type Release struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Changelog *string   `json:"changelog,omitempty"` // nil when the registry carries none
}

// Latest returns the newest release.
func (m *Module) Latest() (Release, bool) {
	if m == nil || len(m.Releases) == 0 {
		return Release{}, false
	}
	return m.Releases[0], true
}

// Previous returns the release published just before the latest one.
func (m *Module) Previous() (Release, bool) {
	if m == nil || len(m.Releases) < 2 {
		return Release{}, false
	}
	return m.Releases[1], true
}

// Version returns the latest version string, or "" when nothing was released.
func (m *Module) Version() string {
	r, _ := m.Latest()
	return r.Version
}
