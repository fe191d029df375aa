package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binford2k/denmark/pkg/cache"
	derrors "github.com/binford2k/denmark/pkg/errors"
)

func fakeGitLab(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var requests []string
	const project = "/projects/group%2Fproject"
	routes := map[string]string{
		project + "/issues": `[{"iid": 1, "user_notes_count": 0, "created_at": "2024-03-01T00:00:00Z", "author": {"username": "u"}}]`,
		project + "/merge_requests": `[{"iid": 7, "user_notes_count": 2, "created_at": "2024-03-01T00:00:00Z"},
			{"iid": 8, "user_notes_count": 0, "created_at": "2020-03-01T00:00:00Z"}]`,
		project + "/repository/tags": `[{"name": "v2.0.0", "commit": {"id": "bbb", "author_name": "Alice", "committed_date": "2024-02-01T12:00:00Z"}},
			{"name": "v1.0.0", "commit": {"id": "aaa", "author_name": "Bob", "committed_date": "2023-01-01T00:00:00Z"}}]`,
		project + "/repository/commits":               `[{"id": "ccc", "author_name": "Alice", "committed_date": "2024-03-01T00:00:00Z"}]`,
		project + "/repository/commits/aaa":           `{"id": "aaa", "author_name": "Bob", "committed_date": "2023-01-01T00:00:00Z"}`,
		project + "/repository/commits/aaa/signature": `{"signature_type": "PGP", "verification_status": "verified"}`,
		project + "/repository/commits/ccc/signature": `{"signature_type": "PGP", "verification_status": "unverified"}`,
		project: `{"id": 1, "default_branch": "main"}`,
		project + "/repository/files/metadata.json/raw": `{"version":"1.0.0"}`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.EscapedPath()+"?"+r.URL.RawQuery)
		body, ok := routes[r.URL.EscapedPath()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func newTestGitLab(t *testing.T, serverURL string) Provider {
	t.Helper()
	p, err := New("https://gitlab.com/group/project.git", Config{GitLabEndpoint: serverURL, Cache: cache.NewMemoryCache()})
	require.NoError(t, err)
	return p
}

func TestGitLab_IssuesAndMergeRequests(t *testing.T) {
	server, _ := fakeGitLab(t)
	p := newTestGitLab(t, server.URL)
	ctx := context.Background()

	assert.Equal(t, FlavorGitLab, p.Flavor())

	issues, err := p.Issues(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "u", issues[0].Author)

	mrs, err := p.MergeRequests(ctx)
	require.NoError(t, err)
	require.Len(t, mrs, 2)
	assert.Equal(t, 7, mrs[0].Number)
	assert.Equal(t, 2, mrs[0].Comments)
}

func TestGitLab_SinceTagUsesEmbeddedDate(t *testing.T) {
	server, requests := fakeGitLab(t)
	p := newTestGitLab(t, server.URL)
	ctx := context.Background()

	commits, err := p.CommitsSinceTag(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, commits, 1)
	assert.Contains(t, *requests, "/projects/group%2Fproject/repository/commits?per_page=100&since=2024-02-01T00%3A00%3A00Z")

	_, err = p.IssuesSinceTag(ctx, nil)
	require.NoError(t, err)
	assert.Contains(t, *requests,
		"/projects/group%2Fproject/issues?per_page=100&scope=all&state=opened&updated_after=2024-02-01T00%3A00%3A00Z")

	for _, r := range *requests {
		assert.NotContains(t, r, "/repository/commits/bbb", "embedded tag date should avoid a commit lookup")
	}
}

func TestGitLab_Committers(t *testing.T) {
	server, _ := fakeGitLab(t)
	p := newTestGitLab(t, server.URL)
	ctx := context.Background()

	tags, err := p.Tags(ctx)
	require.NoError(t, err)

	got, err := p.Committers(ctx, AsSignables(tags))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, got)
}

func TestGitLab_Verified(t *testing.T) {
	server, _ := fakeGitLab(t)
	p := newTestGitLab(t, server.URL)
	ctx := context.Background()

	tests := []struct {
		name string
		item Signable
		want bool
	}{
		{"nil item", nil, false},
		{"verified signature", Tag{SHA: "aaa"}, true},
		{"unverified signature", Commit{SHA: "ccc"}, false},
		{"unsigned commit (404)", Tag{SHA: "bbb"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Verified(ctx, tt.item)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGitLab_FileContent(t *testing.T) {
	server, _ := fakeGitLab(t)
	p := newTestGitLab(t, server.URL)
	ctx := context.Background()

	body, ok, err := p.FileContent(ctx, "metadata.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"version":"1.0.0"}`, body)

	_, ok, err = p.FileContent(ctx, "CHANGELOG")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGitLab_CommitDate(t *testing.T) {
	server, _ := fakeGitLab(t)
	p := newTestGitLab(t, server.URL)

	date, err := p.CommitDate(context.Background(), "aaa")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), date)
}

func TestGitLab_CommitsToFile(t *testing.T) {
	server, requests := fakeGitLab(t)
	p := newTestGitLab(t, server.URL)

	commits, err := p.CommitsToFile(context.Background(), "metadata.json")
	require.NoError(t, err)
	assert.Len(t, commits, 1)
	assert.Contains(t, *requests, "/projects/group%2Fproject/repository/commits?path=metadata.json&per_page=100")
}

func TestGitLab_CommitsToFile_RejectsTraversal(t *testing.T) {
	server, _ := fakeGitLab(t)
	p := newTestGitLab(t, server.URL)

	_, err := p.CommitsToFile(context.Background(), "../secrets")
	require.Error(t, err)
	assert.Equal(t, derrors.ErrCodeInvalidPath, derrors.GetCode(err))
}
