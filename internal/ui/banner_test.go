package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravitrone/picker/internal/ui/components"
)

func TestSplitLinesSplitsOnNewlines(t *testing.T) {
	lines := splitLines("a\nb\nc")
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestRenderBannerIncludesSubtitleAndNoOSC(t *testing.T) {
	out := RenderBanner()
	assert.NotContains(t, out, "\x1b]")

	clean := components.SanitizeText(out)
	assert.Contains(t, clean, "Product Selection for Opportunities")
	assert.Contains(t, clean, "Command-Line Interface")
	assert.True(t, strings.Contains(clean, "─"))
}

func TestRenderCompactBanner(t *testing.T) {
	clean := components.SanitizeText(RenderCompactBanner())
	assert.Contains(t, clean, "PICKER")
	assert.NotContains(t, clean, "\n")
}
