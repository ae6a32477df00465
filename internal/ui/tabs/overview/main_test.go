package overview

import (
	"os"
	"testing"

	"golang.org/x/text/language"

	"github.com/j-veylop/claude-usage-tui/internal/format"
)

func TestMain(m *testing.M) {
	format.SetLocale(language.English)
	os.Exit(m.Run())
}
