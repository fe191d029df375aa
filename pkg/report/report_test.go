package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/smell"
)

func testReport(alerts []smell.Alert) *Report {
	mod := &module.Module{
		Name:      "puppetlabs-stdlib",
		Ecosystem: module.Puppet,
		Releases:  []module.Release{{Version: "9.6.0"}},
	}
	return New(mod, "https://github.com/puppetlabs/puppetlabs-stdlib", alerts)
}

var sample = []smell.Alert{
	{Severity: smell.Green, Message: "green one", Explanation: "why green"},
	{Severity: smell.Red, Message: "red one", Explanation: "why red"},
	{Severity: smell.Yellow, Message: "yellow one", Explanation: "why yellow"},
	{Severity: smell.Red, Message: "red two", Explanation: "why red two"},
}

func TestNew(t *testing.T) {
	r := testReport(nil)
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, "9.6.0", r.Version)
	assert.NotNil(t, r.Alerts)
	assert.NotEqual(t, testReport(nil).ID, r.ID)
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testReport(nil).WriteText(&buf, true))
	assert.Equal(t, "Congrats, no smells discovered\n", buf.String())
}

func TestWriteText_Grouped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testReport(sample).WriteText(&buf, false))
	out := buf.String()

	red := strings.Index(out, "[RED] alerts:")
	yellow := strings.Index(out, "[YELLOW] alerts:")
	green := strings.Index(out, "[GREEN] alerts:")
	require.True(t, red >= 0 && yellow > red && green > yellow, out)
	assert.NotContains(t, out, "[ORANGE]")
	assert.Less(t, strings.Index(out, "red one"), strings.Index(out, "red two"))
	assert.NotContains(t, out, "why red")
}

func TestWriteText_Detail(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testReport(sample).WriteText(&buf, true))
	assert.Contains(t, buf.String(), "> why red two")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testReport(sample).Write(&buf, "JSON", false))

	var got struct {
		ID        string        `json:"id"`
		Module    string        `json:"module"`
		Ecosystem string        `json:"ecosystem"`
		Alerts    []smell.Alert `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "puppetlabs-stdlib", got.Module)
	assert.Equal(t, "puppet", got.Ecosystem)
	assert.Equal(t, sample, got.Alerts)
	_, err := uuid.Parse(got.ID)
	assert.NoError(t, err)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := testReport(nil).Write(&bytes.Buffer{}, "yaml", false)
	assert.True(t, derrors.Is(err, derrors.ErrCodeInvalidFormat))
}

func TestCounts(t *testing.T) {
	counts := testReport(sample).Counts()
	assert.Equal(t, 2, counts[smell.Red])
	assert.Equal(t, 0, counts[smell.Orange])
}
