package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestBoxWidthBounds(t *testing.T) {
	assert.Equal(t, 40, boxWidth(10))
	assert.Equal(t, 96, boxWidth(200))
	assert.Equal(t, 70, boxWidth(100))
}

func TestBoxNarrowTerminalClampsWidth(t *testing.T) {
	out := TitledBox("Products", "line", 20)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 20)
	}
}

func TestBoxRenderedWidthStaysInsideTerminal(t *testing.T) {
	for _, width := range []int{12, 30, 41, 57, 100, 200} {
		for _, out := range []string{Box("x", width), ErrorBox("Error", "boom", width)} {
			for _, line := range strings.Split(out, "\n") {
				assert.LessOrEqual(t, lipgloss.Width(line), width, "width %d", width)
			}
		}
	}
}

func TestTitledBoxIncludesTitle(t *testing.T) {
	out := TitledBox("My Title", "Content", 80)
	assert.True(t, strings.Contains(out, "My Title"))
}

func TestTitledBoxEmptyTitleFallsBack(t *testing.T) {
	out := TitledBox("", "Content", 80)
	assert.True(t, strings.Contains(out, "Content"))
}

func TestErrorBoxIncludesMessage(t *testing.T) {
	out := ErrorBox("Error", "Something broke", 80)
	assert.True(t, strings.Contains(out, "Something broke"))
}

func TestEmptyStateBoxListsTips(t *testing.T) {
	out := SanitizeText(EmptyStateBox("Products", "No products match.", []string{"Press ← to change the country"}, 80))
	assert.Contains(t, out, "No products match.")
	assert.Contains(t, out, "· Press ← to change the country")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", truncateRunes("hello", 0))
	assert.Equal(t, "he", truncateRunes("hello", 2))
	assert.Equal(t, "你", truncateRunes("你好", 1))
}

func TestClampTextWidthEllipsis(t *testing.T) {
	assert.Equal(t, "short", ClampTextWidthEllipsis("short", 10))
	assert.Equal(t, "Aurora 5…", ClampTextWidthEllipsis("Aurora 50kW Diesel", 9))
	assert.Equal(t, "…", ClampTextWidthEllipsis("Aurora", 1))
}

// TestTableClampsLongValues ensures table rows stay within the box width.
func TestTableClampsLongValues(t *testing.T) {
	rows := []TableRow{
		{
			Label: strings.Repeat("Label", 8),
			Value: strings.Repeat("value", 40),
		},
	}
	out := Table("Table", rows, 60)
	maxWidth := lipgloss.Width(strings.Split(Box("x", 60), "\n")[0])
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), maxWidth)
	}
}

func TestTableValueColor(t *testing.T) {
	out := Table("", []TableRow{{Label: "Stage", Value: "Prospecting", ValueColor: "#4f7d6a"}}, 60)
	assert.Contains(t, SanitizeText(out), "Prospecting")
}

func TestParagraphKeepsTextAndDropsControls(t *testing.T) {
	out := Paragraph("Prime-rated\x1b[2J diesel set", 30)
	assert.NotContains(t, out, "\x1b[2J")
	assert.Contains(t, SanitizeText(out), "Prime-rated")
	assert.Equal(t, "", Paragraph("   ", 30))
}

func TestIndentPreservesLineCountAndAddsPadding(t *testing.T) {
	out := Indent("a\nb\nc", 2)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "  "))
	}
}

func TestMaxIntReturnsLarger(t *testing.T) {
	assert.Equal(t, 2, maxInt(1, 2))
	assert.Equal(t, 2, maxInt(2, 1))
}
