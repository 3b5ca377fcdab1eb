package cli

import (
	"testing"

	"github.com/agbru/fanbatch/internal/ui"
)

// noColor switches to the colorless theme for the duration of the test.
func noColor(t *testing.T) {
	t.Helper()
	saved := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(saved) })
}
