package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/binford2k/denmark/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		cfg        Config
		wantFlavor Flavor
		wantSlug   string
		wantCode   derrors.Code
	}{
		{name: "github https", url: "https://github.com/puppetlabs/puppetlabs-stdlib", wantFlavor: FlavorGitHub, wantSlug: "puppetlabs/puppetlabs-stdlib"},
		{name: "github deep link", url: "https://github.com/binford2k/denmark/tree/main/lib", wantFlavor: FlavorGitHub, wantSlug: "binford2k/denmark"},
		{name: "github ssh", url: "git@github.com:binford2k/denmark.git", wantFlavor: FlavorGitHub, wantSlug: "binford2k/denmark"},
		{name: "github www", url: "http://www.github.com/binford2k/denmark/", wantFlavor: FlavorGitHub, wantSlug: "binford2k/denmark"},
		{name: "gitlab", url: "https://gitlab.com/group/project", wantFlavor: FlavorGitLab, wantSlug: "group/project"},
		{name: "gitlab subgroup ui link", url: "https://gitlab.com/group/sub/project/-/tree/main", wantFlavor: FlavorGitLab, wantSlug: "group/sub/project"},
		{
			name:       "self-hosted gitlab",
			url:        "https://git.example.org/ops/module",
			cfg:        Config{GitLabEndpoint: "https://git.example.org/api/v4"},
			wantFlavor: FlavorGitLab,
			wantSlug:   "ops/module",
		},
		{name: "bitbucket", url: "https://bitbucket.org/owner/repo", wantCode: derrors.ErrCodeUnsupportedProvider},
		{name: "forge page", url: "https://forge.puppet.com/modules/puppetlabs/stdlib", wantCode: derrors.ErrCodeUnsupportedProvider},
		{name: "empty", url: "", wantCode: derrors.ErrCodeUnsupportedProvider},
		{name: "github without repo", url: "https://github.com/puppetlabs", wantCode: derrors.ErrCodeUnsupportedProvider},
		{name: "gitlab without project", url: "https://gitlab.com/group", wantCode: derrors.ErrCodeUnsupportedProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.url, tt.cfg)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, derrors.Is(err, tt.wantCode), "got %v", err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlavor, p.Flavor())
			assert.Equal(t, tt.wantSlug, p.Slug())
		})
	}
}

func TestAsSignables(t *testing.T) {
	tags := []Tag{{Name: "v1", SHA: "a", Author: "jane"}, {Name: "v0", SHA: "b"}}
	items := AsSignables(tags)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].CommitSHA())
	assert.Equal(t, "jane", items[0].CommitAuthor())
	assert.Nil(t, items[1].CommitVerification())
}

func TestCalendarDay(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"afternoon", time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"midnight", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"offset rolls over", time.Date(2024, 2, 1, 22, 30, 0, 0, est), time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calendarDay(tt.in))
		})
	}
}
