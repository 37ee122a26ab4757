package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := Out, Err
	Out, Err = &out, &errOut
	t.Cleanup(func() { Out, Err = prevOut, prevErr; SetTheme("classic") })
	return &out, &errOut
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
	assert.Equal(t, "█████ 100%", ProgressBar(3, 3, 5))
}

func TestStatusLines(t *testing.T) {
	out, errOut := capture(t)
	SetTheme("mono")
	OK("saved")
	Fail("boom")
	assert.Equal(t, "ok saved\n", out.String())
	assert.Equal(t, "error: boom\n", errOut.String())
}

func TestPanelFramesEveryLine(t *testing.T) {
	out, _ := capture(t)
	SetTheme("mono")
	Panel([]string{"first", "second line"})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[1], "first")
	assert.Contains(t, lines[2], "second line")
	assert.True(t, strings.HasPrefix(lines[0], "+"))
}

func TestSetThemeFallsBack(t *testing.T) {
	capture(t)
	SetTheme("does-not-exist")
	assert.Equal(t, "☐", Current().BoxUnchecked)
	SetTheme("NEON")
	assert.Equal(t, "◻", Current().BoxUnchecked)
}
