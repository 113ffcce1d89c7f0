package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmDialogIncludesTitleMessageAndHints(t *testing.T) {
	out := ConfirmDialog("Clear Selection", "Unselect 3 products?")
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Clear Selection")
	assert.Contains(t, clean, "Unselect 3 products?")
	assert.Contains(t, clean, "y: confirm | n: cancel")
}

func TestInputDialogIncludesTitleFieldAndHints(t *testing.T) {
	out := InputDialog("Opportunity Name", "> Q3 refit")
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Opportunity Name")
	assert.Contains(t, clean, "> Q3 refit")
	assert.Contains(t, clean, "enter: submit | esc: cancel")
}

func TestConfirmPreviewDialogRendersSummary(t *testing.T) {
	out := ConfirmPreviewDialog("Create Opportunity", []TableRow{
		{Label: "Name", Value: "Q3 refit"},
		{Label: "Products", Value: "4"},
	}, 80)
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Create Opportunity")
	assert.Contains(t, clean, "Q3 refit")
	assert.Contains(t, clean, "y: confirm | n: cancel")
}
