package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/picker/internal/api"
	"github.com/gravitrone/picker/internal/bus"
	"github.com/gravitrone/picker/internal/config"
	"github.com/gravitrone/picker/internal/ui/components"
)

// --- Tab Constants ---

const (
	tabProducts = 0
	tabDetails  = 1
	tabCount    = 2
)

var tabNames = []string{"Products", "Details"}

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}

type appToast struct {
	level string
	text  string
}

// --- App Model ---

// App is the root TUI model: the product list and the detail view, wired
// together through one bus.
type App struct {
	client      *api.Client
	config      *config.Config
	bus         *bus.Bus
	subs        []*bus.Subscription
	tab         int
	width       int
	height      int
	err         string
	lastErrCode string
	lastErrMsg  string
	helpOpen    bool
	quitConfirm bool
	toast       *appToast

	products ProductsModel
	details  DetailModel
}

// NewApp creates the root application model.
func NewApp(client *api.Client, cfg *config.Config) App {
	b := bus.New()
	accountID, pageSize, vimKeys := "", config.DefaultPageSize, false
	if cfg != nil {
		accountID, vimKeys = cfg.AccountID, cfg.VimKeys
		if cfg.PageSize > 0 {
			pageSize = cfg.PageSize
		}
	}
	subs := []*bus.Subscription{
		bus.SubscribeSelectionChanged(b, func(ev bus.SelectionChangedEvent) {
			log.Printf("selection: +%d -%d total=%d", len(ev.Added), len(ev.Removed), ev.Total)
		}),
	}
	return App{
		client:   client,
		config:   cfg,
		bus:      b,
		subs:     subs,
		tab:      tabProducts,
		products: NewProductsModel(client, b, accountID, pageSize, vimKeys),
		details:  NewDetailModel(client, b),
	}
}

// Close detaches every bus subscription the app registered.
func (a App) Close() {
	for _, sub := range a.subs {
		sub.Cancel()
	}
	a.details.close()
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.products.Init(), a.details.Init())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.products.width = msg.Width
		a.products.height = msg.Height
		a.details.width = msg.Width
		a.details.height = msg.Height
		return a, nil

	case errMsg:
		a.err = msg.err.Error()
		a.lastErrCode, a.lastErrMsg = parseErrorCodeAndMessage(a.err)
		return a, nil
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case showDetailsMsg:
		return a.switchTab(tabDetails)

	// Async results go to their owner whatever tab is showing.
	case pageLoadedMsg, countriesLoadedMsg:
		var cmd tea.Cmd
		a.products, cmd = a.products.Update(msg)
		return a, cmd
	case submitDoneMsg:
		var cmd tea.Cmd
		a.products, cmd = a.products.Update(msg)
		if msg.err != nil || msg.opp == nil {
			return a, cmd
		}
		toast := a.setToast("success", fmt.Sprintf("%d product(s) submitted.", len(msg.opp.ProductIDs)))
		app, tabCmd := a.switchTab(tabDetails)
		return app, tea.Batch(cmd, toast, tabCmd)
	case productRequestedMsg, productLoadedMsg, opportunityCreatedMsg, opportunityLoadedMsg:
		var cmd tea.Cmd
		a.details, cmd = a.details.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a, tea.Quit
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if a.err != "" {
			a.err = ""
			a.lastErrCode = ""
			a.lastErrMsg = ""
		}

		// Dialogs on the products tab own every key.
		if a.tab == tabProducts && a.products.capturesKeys() {
			var cmd tea.Cmd
			a.products, cmd = a.products.Update(msg)
			return a, cmd
		}

		// Global keys
		if isKey(msg, "?") {
			a.helpOpen = true
			return a, nil
		}
		if isQuit(msg) {
			if a.hasUnsaved() {
				a.quitConfirm = true
				return a, nil
			}
			return a, tea.Quit
		}
		if idx, ok := tabIndexForKey(msg.String()); ok {
			return a.switchTab(idx)
		}
		if isKey(msg, "tab") {
			return a.switchTab((a.tab + 1) % tabCount)
		}
		if a.tab == tabDetails && isBack(msg) {
			return a.switchTab(tabProducts)
		}
	}

	// Delegate to active tab
	var cmd tea.Cmd
	switch a.tab {
	case tabProducts:
		a.products, cmd = a.products.Update(msg)
	case tabDetails:
		a.details, cmd = a.details.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)

	var content string
	switch a.tab {
	case tabProducts:
		content = a.products.View()
	case tabDetails:
		content = a.details.View()
	}
	content = centerBlockUniform(content, a.width)

	if a.quitConfirm {
		content = centerBlockUniform(a.renderQuitConfirm(), a.width)
	} else if a.helpOpen {
		content = centerBlockUniform(a.renderHelp(), a.width)
	}

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		title := "Error"
		if a.lastErrCode != "" {
			title = "Error · " + a.lastErrCode
		}
		message := a.err
		if a.lastErrMsg != "" {
			message = a.lastErrMsg
		}
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox(title, message, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n\n%s%s", banner, tabs, content, hints, feedback)
}

func (a *App) switchTab(newTab int) (App, tea.Cmd) {
	a.tab = newTab
	return *a, nil
}

func (a App) renderTabs() string {
	segments := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if i == a.tab {
			segments = append(segments, TabActiveStyle.Render(name))
		} else {
			segments = append(segments, TabInactiveStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) statusHints() []string {
	if a.quitConfirm {
		return []string{
			components.Hint("y", "Confirm"),
			components.Hint("n", "Cancel"),
		}
	}
	if a.helpOpen {
		return []string{
			components.Hint("esc", "Back"),
		}
	}
	hints := a.statusHintsForTab()
	if count := a.products.session.SelectedCount(); count > 0 {
		hints = append([]string{components.Summary(fmt.Sprintf("%d selected", count))}, hints...)
	}
	return hints
}

func (a App) statusHintsForTab() []string {
	base := []string{
		components.Hint("1/2", "Tabs"),
		components.Hint("?", "Help"),
		components.Hint("q", "Quit"),
	}

	switch a.tab {
	case tabProducts:
		p := a.products
		if p.naming {
			return []string{
				components.Hint("enter", "Continue"),
				components.Hint("esc", "Cancel"),
			}
		}
		if p.confirming || p.clearing {
			return []string{
				components.Hint("y", "Confirm"),
				components.Hint("n", "Cancel"),
			}
		}
		move := "↑/↓"
		if p.vimKeys {
			move = "j/k"
		}
		return append(base,
			components.Hint(move, "Scroll"),
			components.Hint("space", "Select"),
			components.Hint("a", "Select Page"),
			components.Hint("c", "Clear"),
			components.Hint("enter", "Details"),
			components.Hint("n/p", "Page"),
			components.Hint("f", "Filter"),
			components.Hint("←/→", "Cycle"),
			components.Hint("s", "Submit"),
		)
	case tabDetails:
		return append(base,
			components.Hint("esc", "Back"),
		)
	}
	return base
}

func (a App) renderHelp() string {
	hints := a.statusHintsForTab()
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"))
	lines = append(lines, "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	body := strings.Join(lines, "\n")
	return components.Indent(components.TitledBox("Help", body, a.width), 1)
}

func (a App) renderQuitConfirm() string {
	body := "Selected products have not been submitted. Quit anyway?"
	if a.products.submitting {
		body = "An opportunity is still being created. Quit anyway?"
	}
	return components.Indent(components.ConfirmDialog("Quit", body), 1)
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

// hasUnsaved reports a selection or submission that quitting would lose.
func (a App) hasUnsaved() bool {
	return a.products.submitting || a.products.session.SelectedCount() > 0
}

func parseErrorCodeAndMessage(errText string) (string, string) {
	text := strings.TrimSpace(errText)
	if text == "" {
		return "", ""
	}
	parts := strings.SplitN(text, ":", 2)
	if len(parts) != 2 {
		return "", text
	}
	code := strings.TrimSpace(parts[0])
	if code == "" || strings.HasPrefix(strings.ToUpper(code), "HTTP ") {
		return "", text
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return "", text
		}
	}
	return code, strings.TrimSpace(parts[1])
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
