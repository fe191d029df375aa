package smell

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/observability"
	"github.com/binford2k/denmark/pkg/repository"
)

type fakePlugin struct {
	name   string
	alerts []Alert
	err    error
	delay  time.Duration

	mu    sync.Mutex
	calls []string
}

func (p *fakePlugin) Name() string        { return p.name }
func (p *fakePlugin) Description() string { return "  checks " + p.name + "\n" }

func (p *fakePlugin) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

func (p *fakePlugin) Setup(context.Context) error {
	p.record("setup")
	return nil
}

func (p *fakePlugin) Run(ctx context.Context, _ *module.Module, _ repository.Provider) ([]Alert, error) {
	p.record("run")
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.alerts, p.err
}

func (p *fakePlugin) Cleanup(context.Context) error {
	p.record("cleanup")
	return nil
}

func fakeSet() []Plugin {
	return []Plugin{
		&fakePlugin{name: "issues"},
		&fakePlugin{name: "pull_requests"},
		&fakePlugin{name: "metadata"},
		&fakePlugin{name: "timeline"},
	}
}

func names(ps []Plugin) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name()
	}
	return out
}

func TestPercentOf(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	tests := []struct {
		name  string
		items []int
		want  int
	}{
		{"empty", nil, 0},
		{"none", []int{1, 3, 5}, 0},
		{"all", []int{2, 4}, 100},
		{"half", []int{1, 2, 3, 4}, 50},
		{"truncates", []int{2, 1, 3}, 33},
		{"two thirds", []int{2, 4, 3}, 66},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentOf(tt.items, even)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, 0, Red.Rank())
	assert.Equal(t, 3, Green.Rank())
	assert.Equal(t, -1, Severity("purple").Rank())

	sev, err := ParseSeverity(" ORANGE ")
	require.NoError(t, err)
	assert.Equal(t, Orange, sev)

	_, err = ParseSeverity("purple")
	assert.True(t, derrors.Is(err, derrors.ErrCodeInvalidInput))
}

func TestAlert_Validate(t *testing.T) {
	assert.NoError(t, Alert{Severity: Yellow, Message: "m"}.Validate())
	assert.Error(t, Alert{Severity: "blue", Message: "m"}.Validate())
	assert.Error(t, Alert{Severity: Red, Message: "  "}.Validate())
}

func TestBySeverity(t *testing.T) {
	groups := BySeverity([]Alert{
		{Severity: Yellow, Message: "a"},
		{Severity: Red, Message: "b"},
		{Severity: Yellow, Message: "c"},
	})
	assert.Len(t, groups[Red], 1)
	require.Len(t, groups[Yellow], 2)
	assert.Equal(t, "a", groups[Yellow][0].Message)
	assert.Equal(t, "c", groups[Yellow][1].Message)
}

func TestAtLeast(t *testing.T) {
	alerts := []Alert{
		{Severity: Green, Message: "g"},
		{Severity: Red, Message: "r"},
		{Severity: Yellow, Message: "y"},
		{Severity: Orange, Message: "o"},
	}
	messages := func(as []Alert) []string {
		var out []string
		for _, a := range as {
			out = append(out, a.Message)
		}
		return out
	}
	assert.Equal(t, []string{"g", "r", "y", "o"}, messages(AtLeast(alerts, "")))
	assert.Equal(t, []string{"r", "y", "o"}, messages(AtLeast(alerts, Yellow)))
	assert.Equal(t, []string{"r", "o"}, messages(AtLeast(alerts, Orange)))
	assert.Equal(t, []string{"r"}, messages(AtLeast(alerts, Red)))
	assert.Empty(t, AtLeast(nil, Red))
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"all by default", Options{}, []string{"issues", "pull_requests", "metadata", "timeline"}},
		{"enable one", Options{Enable: []string{"issues"}}, []string{"issues"}},
		{"enable keeps registry order", Options{Enable: []string{"timeline", "Issues"}}, []string{"issues", "timeline"}},
		{"disable", Options{Disable: []string{"metadata"}}, []string{"issues", "pull_requests", "timeline"}},
		{"dash matches underscore", Options{Disable: []string{"pull-requests"}}, []string{"issues", "metadata", "timeline"}},
		{"enable and disable", Options{Enable: []string{"issues", "timeline"}, Disable: []string{"timeline"}}, []string{"issues"}},
		{"unknown disable is a no-op", Options{Disable: []string{"nope"}}, []string{"issues", "pull_requests", "metadata", "timeline"}},
		{"unknown enable disables the rest", Options{Enable: []string{"nope"}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(fakeSet(), tt.opts)
			assert.Equal(t, tt.want, names(reg.Plugins()))
			assert.Equal(t, len(tt.want), reg.Len())
		})
	}
}

func TestRegistry_ListAndCatalogue(t *testing.T) {
	reg := NewRegistry(fakeSet(), Options{Enable: []string{"issues", "metadata"}})

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, Info{Name: "issues", Description: "checks issues"}, list[0])
	assert.Equal(t, "metadata", list[1].Name)

	cat := reg.Catalogue()
	assert.Contains(t, cat, "Available smell test plugins")
	assert.Contains(t, cat, "issues\n--------\nchecks issues\n\n")
	assert.NotContains(t, cat, "timeline")

	p, ok := reg.Find("ISSUES")
	require.True(t, ok)
	assert.Equal(t, "issues", p.Name())
	_, ok = reg.Find("timeline")
	assert.False(t, ok)
}

func TestEngine_Run(t *testing.T) {
	a := &fakePlugin{name: "a", alerts: []Alert{{Severity: Red, Message: "a1"}, {Severity: Green, Message: "a2"}}}
	b := &fakePlugin{name: "b"}
	c := &fakePlugin{name: "c", alerts: []Alert{{Severity: Yellow, Message: "c1"}}}

	for _, parallel := range []bool{false, true} {
		reg := NewRegistry([]Plugin{a, b, c}, Options{})
		alerts, err := NewEngine(reg, WithParallel(parallel)).Run(context.Background(), &module.Module{}, nil)
		require.NoError(t, err)

		var msgs []string
		for _, al := range alerts {
			msgs = append(msgs, al.Message)
		}
		assert.Equal(t, []string{"a1", "a2", "c1"}, msgs, "parallel=%v", parallel)
	}

	assert.Equal(t, []string{"setup", "run", "cleanup", "setup", "run", "cleanup"}, b.calls)
}

func TestEngine_ParallelKeepsOrder(t *testing.T) {
	slow := &fakePlugin{name: "slow", delay: 30 * time.Millisecond, alerts: []Alert{{Severity: Orange, Message: "slow"}}}
	fast := &fakePlugin{name: "fast", alerts: []Alert{{Severity: Orange, Message: "fast"}}}

	reg := NewRegistry([]Plugin{slow, fast}, Options{})
	alerts, err := NewEngine(reg, WithParallel(true)).Run(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "slow", alerts[0].Message)
	assert.Equal(t, "fast", alerts[1].Message)
}

func TestEngine_FailFast(t *testing.T) {
	boom := derrors.Wrap(derrors.ErrCodeExternalService, errors.New("timeout"), "list tags")
	for _, parallel := range []bool{false, true} {
		first := &fakePlugin{name: "first", alerts: []Alert{{Severity: Red, Message: "x"}}}
		failing := &fakePlugin{name: "failing", err: boom}
		after := &fakePlugin{name: "after"}

		reg := NewRegistry([]Plugin{first, failing, after}, Options{})
		alerts, err := NewEngine(reg, WithParallel(parallel)).Run(context.Background(), nil, nil)
		require.Error(t, err)
		assert.Nil(t, alerts)
		assert.True(t, derrors.Is(err, derrors.ErrCodeExternalService))
		assert.Contains(t, err.Error(), "plugin failing")
		assert.Equal(t, []string{"setup", "run", "cleanup"}, failing.calls)
		if !parallel {
			assert.Empty(t, after.calls)
		}
	}
}

func TestEngine_RejectsInvalidAlerts(t *testing.T) {
	bad := &fakePlugin{name: "bad", alerts: []Alert{{Severity: "blue", Message: "x"}}}
	_, err := NewEngine(NewRegistry([]Plugin{bad}, Options{})).Run(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, derrors.Is(err, derrors.ErrCodeInternal))
}

type countingHooks struct {
	observability.NoopPluginHooks
	starts, completes, alerts atomic.Int32
}

func (h *countingHooks) OnPluginStart(context.Context, string) { h.starts.Add(1) }
func (h *countingHooks) OnPluginComplete(context.Context, string, int, time.Duration, error) {
	h.completes.Add(1)
}
func (h *countingHooks) OnAlert(context.Context, string, string) { h.alerts.Add(1) }

func TestEngine_Hooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetPluginHooks(hooks)
	defer observability.Reset()

	p := &fakePlugin{name: "p", alerts: []Alert{{Severity: Red, Message: "1"}, {Severity: Red, Message: "2"}}}
	_, err := NewEngine(NewRegistry([]Plugin{p, &fakePlugin{name: "q"}}, Options{})).Run(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(2), hooks.starts.Load())
	assert.Equal(t, int32(2), hooks.completes.Load())
	assert.Equal(t, int32(2), hooks.alerts.Load())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "pull_requests", NormalizeName(" Pull-Requests "))
	assert.False(t, strings.Contains(NormalizeName("a-b-c"), "-"))
}
