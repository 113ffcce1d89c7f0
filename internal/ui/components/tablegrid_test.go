package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productColumns() []TableColumn {
	return []TableColumn{
		{Header: "", Width: 3, Align: lipgloss.Left},
		{Header: "Name", Width: 20, Align: lipgloss.Left},
		{Header: "Price USD", Width: 10, Align: lipgloss.Right},
	}
}

func TestTableGridWidthAndRows(t *testing.T) {
	rows := [][]string{
		{CheckMark(true), "Aurora 50kW", "18500$"},
		{CheckMark(false), "Rotor", ""},
	}
	out := TableGridWithActiveRow(productColumns(), rows, 50, 1)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 50, lipgloss.Width(line))
	}

	clean := SanitizeText(out)
	assert.Contains(t, clean, "Name")
	assert.Contains(t, clean, "[x]")
	assert.Contains(t, clean, "[ ]")
	assert.Contains(t, clean, "18500$")
}

func TestTableGridRightAlignsPrice(t *testing.T) {
	out := SanitizeText(TableGrid(productColumns(), [][]string{{"[ ]", "Bolt", "12$"}}, 40))
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasSuffix(strings.TrimRight(lines[2], " "), "12$"))
}

func TestTableGridZeroWidth(t *testing.T) {
	assert.Equal(t, "", TableGrid(productColumns(), nil, 0))
}

func TestCheckMark(t *testing.T) {
	assert.Equal(t, "[x]", CheckMark(true))
	assert.Equal(t, "[ ]", CheckMark(false))
}
