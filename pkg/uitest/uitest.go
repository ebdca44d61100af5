package uitest

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds every wait in this package.
const DefaultTimeout = 3 * time.Second

// NewTestModel starts m in a test program with the given terminal size.
func NewTestModel(tb testing.TB, m tea.Model, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(tb, m, teatest.WithInitialTermSize(size.Width, size.Height))
}

// PlainText strips ANSI sequences from s.
func PlainText(s string) string {
	return ansi.Strip(s)
}

// WaitForText waits until the plain text read from r contains text, and
// returns everything read so far.
func WaitForText(tb testing.TB, r io.Reader, text string) string {
	tb.Helper()

	var captured []byte

	teatest.WaitFor(tb, r, func(b []byte) bool {
		if bytes.Contains([]byte(PlainText(string(b))), []byte(text)) {
			captured = bytes.Clone(b)

			return true
		}

		return false
	}, teatest.WithDuration(DefaultTimeout), teatest.WithCheckInterval(10*time.Millisecond))

	return PlainText(string(captured))
}

// FinalModel quits the program and returns its final model.
//
//nolint:ireturn // Callers assert the concrete model.
func FinalModel(tb testing.TB, tm *teatest.TestModel) tea.Model {
	tb.Helper()

	if err := tm.Quit(); err != nil {
		tb.Fatal(err)
	}

	return tm.FinalModel(tb, teatest.WithFinalTimeout(DefaultTimeout))
}
