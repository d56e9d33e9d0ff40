package bersim

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewLoggerPlain(t *testing.T) {
	var buf bytes.Buffer

	var logger = NewLogger(&buf, false, 0)
	logger.Info("Sweep starting", "scheme", "BPSK")
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), "msg=\"Sweep starting\"")
	assert.Contains(t, buf.String(), "scheme=BPSK")
	assert.NotContains(t, buf.String(), "hidden")
}

func Test_NewLoggerDebug(t *testing.T) {
	var buf bytes.Buffer

	NewLogger(&buf, true, 0).Debug("Step complete", "step", 3)

	assert.Contains(t, buf.String(), "step=3")
}

func Test_BuildSetting(t *testing.T) {
	var bi = &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}}}

	assert.Equal(t, "abc123", buildSetting(bi, "vcs.revision", "UNKNOWN"))
	assert.Equal(t, "UNKNOWN", buildSetting(bi, "vcs.time", "UNKNOWN"))
	assert.Equal(t, "UNKNOWN", buildSetting(nil, "vcs.time", "UNKNOWN"))
}

func Test_VersionLine(t *testing.T) {
	var bi = &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
	}}

	assert.Equal(t, "bersim - Version !UNKNOWN! (revision abc123-DIRTY, built at 2024-05-01T10:00:00Z)", versionLine(bi))
	assert.Equal(t, "bersim - Version !UNKNOWN! (revision UNKNOWN-UNKNOWNDIRTY, built at UNKNOWN)", versionLine(nil))
}

func Test_PrintVersion(t *testing.T) {
	var buf bytes.Buffer

	printVersion(&buf, false)

	assert.Contains(t, buf.String(), "bersim - Version !UNKNOWN!")
}
