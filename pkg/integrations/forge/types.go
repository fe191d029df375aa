package forge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Time decodes the timestamp formats the Forge API emits.
type Time struct{ time.Time }

var timeLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	time.RFC3339,
	"2006-01-02 15:04:05 MST",
	"2006-01-02",
}

// UnmarshalJSON accepts null, the Forge's "2006-01-02 15:04:05 -0700" form
// and RFC 3339.
func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("forge: unrecognized time %q", s)
}

// MarshalJSON writes RFC 3339 so that memoized values round-trip.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

type moduleResponse struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	HomepageURL string `json:"homepage_url"`
	IssuesURL   string `json:"issues_url"`
	Deprecated  *Time  `json:"deprecated_at"`
	Owner       struct {
		Username string `json:"username"`
	} `json:"owner"`
	CurrentRelease struct {
		Version  string `json:"version"`
		Metadata struct {
			Source      string `json:"source"`
			ProjectPage string `json:"project_page"`
			IssuesURL   string `json:"issues_url"`
		} `json:"metadata"`
	} `json:"current_release"`
}

type releasesResponse struct {
	Results []releaseResponse `json:"results"`
}

type releaseResponse struct {
	Version   string  `json:"version"`
	CreatedAt Time    `json:"created_at"`
	UpdatedAt Time    `json:"updated_at"`
	Changelog *string `json:"changelog"`
}
