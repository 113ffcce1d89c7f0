package ui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/picker/internal/api"
	"github.com/gravitrone/picker/internal/bus"
	"github.com/gravitrone/picker/internal/picker"
	"github.com/gravitrone/picker/internal/ui/components"
)

// --- Messages ---

type pageLoadedMsg struct {
	req  picker.PageRequest
	page *api.ProductPage
	err  error
}

type countriesLoadedMsg struct {
	values []string
	err    error
}

type submitDoneMsg struct {
	opp *api.Opportunity
	err error
}

// showDetailsMsg asks the app to bring the details tab forward.
type showDetailsMsg struct{}

const (
	filterCountry = 0
	filterType    = 1
)

// --- Products Model ---

// ProductsModel is the paged product table with the global selection.
type ProductsModel struct {
	client  *api.Client
	session *picker.Session

	list  *components.List
	pager paginator.Model

	countries   []string
	countryIdx  int
	typeIdx     int
	filterFocus int

	loading     bool
	err         string
	naming      bool
	nameInput   textinput.Model
	pendingName string
	confirming  bool
	clearing    bool
	submitting  bool
	vimKeys     bool

	width  int
	height int
}

// NewProductsModel builds the products tab on top of a picker session.
func NewProductsModel(client *api.Client, b *bus.Bus, accountID string, pageSize int, vimKeys bool) ProductsModel {
	session := picker.NewSession(client, b, accountID, pageSize)

	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.ArabicFormat = "page %d of %d"
	pager.PerPage = session.PageSize()
	pager.SetTotalPages(0)

	ti := textinput.New()
	ti.Placeholder = "Opportunity name"
	ti.CharLimit = 120
	ti.Prompt = "> "
	ti.Width = 40

	return ProductsModel{
		client:    client,
		session:   session,
		list:      components.NewList(session.PageSize()),
		pager:     pager,
		countries: []string{api.FilterAll},
		nameInput: ti,
		vimKeys:   vimKeys,
	}
}

func (m ProductsModel) Init() tea.Cmd {
	return tea.Batch(m.loadCountries, m.fetch(m.session.Refilter(m.currentFilter())))
}

func (m ProductsModel) Update(msg tea.Msg) (ProductsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		if !m.session.IsLatest(msg.req) {
			log.Printf("products: dropping stale page %d (seq %d)", msg.req.Page, msg.req.Seq)
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			// The bar goes back to the filter the rows were loaded with.
			m.syncFilterIndices()
			return m, nil
		}
		prevPage, prevFilter := m.session.Page(), m.session.Filter()
		if _, ok := m.session.ApplyPage(msg.req, msg.page); !ok {
			return m, nil
		}
		m.err = ""
		m.syncRows(prevPage != msg.req.Page || prevFilter != msg.req.Filter)
		return m, nil

	case countriesLoadedMsg:
		if msg.err != nil {
			log.Printf("products: load countries: %v", msg.err)
			return m, nil
		}
		m.countries = append([]string{api.FilterAll}, msg.values...)
		if m.countryIdx >= len(m.countries) {
			m.countryIdx = 0
		}
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		m.session.CompleteSubmission(msg.opp, msg.err)
		if msg.err != nil {
			return m, func() tea.Msg { return errMsg{msg.err} }
		}
		m.pendingName = ""
		return m, nil

	case tea.KeyMsg:
		if m.naming {
			return m.handleNameInput(msg)
		}
		if m.confirming {
			switch {
			case isKey(msg, "y"):
				m.confirming = false
				return m.submit()
			case isKey(msg, "n"), isBack(msg):
				m.confirming = false
			}
			return m, nil
		}
		if m.clearing {
			switch {
			case isKey(msg, "y"):
				m.clearing = false
				m.session.ClearSelection()
			case isKey(msg, "n"), isBack(msg):
				m.clearing = false
			}
			return m, nil
		}

		switch {
		case vimDown(msg, m.vimKeys):
			m.list.Down()
		case vimUp(msg, m.vimKeys):
			m.list.Up()
		case isKey(msg, "home", "g"):
			m.list.Top()
		case isKey(msg, "end", "G"):
			m.list.Bottom()
		case isSpace(msg):
			if id, ok := m.list.Current(); ok {
				m.session.Toggle(id)
			}
		case isKey(msg, "a"):
			m.session.SelectAllVisible()
		case isEnter(msg):
			if id, ok := m.list.Current(); ok {
				m.session.ViewDetail(id)
				return m, func() tea.Msg { return showDetailsMsg{} }
			}
		case isNextPage(msg):
			if req, ok := m.session.NextPage(); ok {
				m.loading = true
				return m, m.fetch(req)
			}
		case isPrevPage(msg):
			if req, ok := m.session.PrevPage(); ok {
				m.loading = true
				return m, m.fetch(req)
			}
		case isKey(msg, "r"):
			m.loading = true
			return m, m.fetch(m.session.Reload())
		case isKey(msg, "f"):
			m.filterFocus = (m.filterFocus + 1) % 2
		case isLeft(msg):
			return m.cycleFilter(-1)
		case isRight(msg):
			return m.cycleFilter(1)
		case isKey(msg, "s"):
			if m.submitting {
				return m, nil
			}
			m.naming = true
			m.nameInput.SetValue(m.pendingName)
			focus := m.nameInput.Focus()
			return m, tea.Batch(focus, textinput.Blink)
		case isKey(msg, "c"):
			if m.session.SelectedCount() > 0 {
				m.clearing = true
			}
		}
	}
	return m, nil
}

func (m ProductsModel) View() string {
	if m.naming {
		return components.Indent(components.InputDialog("Name the Opportunity", m.nameInput.View()), 1)
	}
	if m.confirming {
		return components.Indent(components.ConfirmPreviewDialog("Create Opportunity", m.submitSummaryRows(), m.width), 1)
	}
	if m.clearing {
		body := fmt.Sprintf("Drop all %d selected products?", m.session.SelectedCount())
		return components.Indent(components.ConfirmDialog("Clear Selection", body), 1)
	}

	records := m.session.Records()
	if m.loading && len(records) == 0 && m.err == "" {
		return "  " + MutedStyle.Render("Loading products...")
	}

	var sections []string
	sections = append(sections, m.renderFilters())
	if m.err != "" {
		sections = append(sections, ErrorStyle.Render(components.SanitizeOneLine(m.err)))
	}

	if len(records) == 0 {
		sections = append(sections,
			MutedStyle.Render("No products match these filters."),
			MutedStyle.Render("· Press ←/→ to change the "+m.focusedFilterName()),
			MutedStyle.Render("· Press f to switch filters"),
		)
		return components.Indent(components.TitledBox("Products", strings.Join(sections, "\n\n"), m.width), 1)
	}

	sections = append(sections, m.renderTable(records))

	footer := []string{m.pager.View(), fmt.Sprintf("%d products", m.session.TotalRecords())}
	if count := m.session.SelectedCount(); count > 0 {
		footer = append(footer, fmt.Sprintf("selected: %d", count))
	}
	if m.loading {
		footer = append(footer, "loading...")
	}
	if m.submitting {
		footer = append(footer, "creating opportunity...")
	}
	sections = append(sections, MutedStyle.Render(strings.Join(footer, " · ")))

	return components.Indent(components.TitledBox("Products", strings.Join(sections, "\n\n"), m.width), 1)
}

// --- Helpers ---

// capturesKeys reports an open dialog that must see every key, digits and q included.
func (m ProductsModel) capturesKeys() bool {
	return m.naming || m.confirming || m.clearing
}

func (m ProductsModel) fetch(req picker.PageRequest) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		page, err := session.Run(req)
		return pageLoadedMsg{req: req, page: page, err: err}
	}
}

func (m ProductsModel) loadCountries() tea.Msg {
	if m.client == nil {
		return countriesLoadedMsg{}
	}
	items, err := m.client.ListCountries()
	if err != nil {
		return countriesLoadedMsg{err: err}
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		if v := strings.TrimSpace(item.Value); v != "" {
			values = append(values, v)
		}
	}
	return countriesLoadedMsg{values: values}
}

func (m ProductsModel) currentFilter() api.ProductFilter {
	return api.ProductFilter{
		Country: m.countries[m.countryIdx],
		Type:    api.RecordTypes[m.typeIdx],
	}
}

func (m ProductsModel) cycleFilter(step int) (ProductsModel, tea.Cmd) {
	if m.filterFocus == filterCountry {
		m.countryIdx = wrapIndex(m.countryIdx+step, len(m.countries))
	} else {
		m.typeIdx = wrapIndex(m.typeIdx+step, len(api.RecordTypes))
	}
	m.loading = true
	return m, m.fetch(m.session.Refilter(m.currentFilter()))
}

// syncFilterIndices points the filter bar at the filter of the visible page.
func (m *ProductsModel) syncFilterIndices() {
	applied := m.session.Filter().Normalized()
	m.countryIdx = filterIndex(m.countries, applied.Country)
	m.typeIdx = filterIndex(api.RecordTypes, applied.Type)
}

func filterIndex(options []string, value string) int {
	for i, option := range options {
		if option == value || (value == "" && option == api.FilterAll) {
			return i
		}
	}
	return 0
}

func (m ProductsModel) focusedFilterName() string {
	if m.filterFocus == filterCountry {
		return "country"
	}
	return "type"
}

func (m *ProductsModel) syncRows(reset bool) {
	records := m.session.Records()
	ids := make([]string, len(records))
	for i, p := range records {
		ids[i] = p.ID
	}
	if reset {
		m.list.SetItems(ids)
	} else {
		m.list.ReplaceItems(ids)
	}
	m.pager.PerPage = m.session.PageSize()
	m.pager.SetTotalPages(m.session.TotalRecords())
	if m.pager.TotalPages < 1 {
		m.pager.TotalPages = 1
	}
	m.pager.Page = m.session.Page() - 1
	if m.pager.Page < 0 {
		m.pager.Page = 0
	}
}

func (m ProductsModel) handleNameInput(msg tea.KeyMsg) (ProductsModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.naming = false
		m.pendingName = m.nameInput.Value()
		m.nameInput.Blur()
		return m, nil
	case isEnter(msg):
		name := strings.TrimSpace(m.nameInput.Value())
		m.naming = false
		m.nameInput.Blur()
		m.pendingName = name
		if name == "" {
			return m, func() tea.Msg { return errMsg{&picker.ValidationError{Reason: picker.ErrEmptyName}} }
		}
		if m.session.SelectedCount() == 0 {
			return m, func() tea.Msg { return errMsg{&picker.ValidationError{Reason: picker.ErrEmptySelection}} }
		}
		m.confirming = true
		return m, nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m ProductsModel) submit() (ProductsModel, tea.Cmd) {
	input, err := m.session.PrepareSubmission(m.pendingName)
	if err != nil {
		return m, func() tea.Msg { return errMsg{err} }
	}
	m.submitting = true
	session := m.session
	return m, func() tea.Msg {
		opp, err := session.CreateOpportunity(input)
		return submitDoneMsg{opp: opp, err: err}
	}
}

func (m ProductsModel) submitSummaryRows() []components.TableRow {
	products := m.session.SelectedProducts()
	total := 0.0
	priced := 0
	for _, p := range products {
		if p.Price != nil {
			total += *p.Price
			priced++
		}
	}
	amount := strconv.FormatFloat(total, 'f', -1, 64) + "$"
	if priced < len(products) {
		amount += fmt.Sprintf(" (%d unpriced)", len(products)-priced)
	}
	return []components.TableRow{
		{Label: "Name", Value: m.pendingName},
		{Label: "Account", Value: m.session.AccountID()},
		{Label: "Products", Value: strconv.Itoa(len(products))},
		{Label: "Amount", Value: amount, ValueColor: string(ColorPrimary)},
	}
}

func (m ProductsModel) renderFilters() string {
	country := m.countries[m.countryIdx]
	kind := api.RecordTypes[m.typeIdx]
	render := func(label, value string, focused bool) string {
		text := label + ": " + value
		if focused {
			return FilterActiveStyle.Render("◂ " + text + " ▸")
		}
		return FilterInactiveStyle.Render(text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		render("Country", country, m.filterFocus == filterCountry),
		"  ",
		render("Type", kind, m.filterFocus == filterType),
	)
}

func (m ProductsModel) renderTable(records []api.Product) string {
	tableWidth := components.BoxContentWidth(m.width)
	if tableWidth <= 0 {
		tableWidth = 80
	}

	sepWidth := 1
	if b := lipgloss.RoundedBorder().Left; b != "" {
		sepWidth = lipgloss.Width(b)
	}

	// 5 columns -> 4 separators.
	availableCols := tableWidth - (4 * sepWidth)
	if availableCols < 40 {
		availableCols = 40
	}

	checkWidth := 3
	countryWidth := 17
	typeWidth := 10
	priceWidth := 10
	nameWidth := availableCols - (checkWidth + countryWidth + typeWidth + priceWidth)
	if nameWidth < 12 {
		nameWidth = 12
	}

	cols := []components.TableColumn{
		{Header: "", Width: checkWidth, Align: lipgloss.Left},
		{Header: "Name", Width: nameWidth, Align: lipgloss.Left},
		{Header: "Country of Origin", Width: countryWidth, Align: lipgloss.Left},
		{Header: "Type", Width: typeWidth, Align: lipgloss.Left},
		{Header: "Price USD", Width: priceWidth, Align: lipgloss.Right},
	}

	byID := make(map[string]api.Product, len(records))
	for _, p := range records {
		byID[p.ID] = p
	}

	visible := m.list.Visible()
	rows := make([][]string, 0, len(visible))
	activeRow := -1
	for i, id := range visible {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if m.list.IsSelected(m.list.RelToAbs(i)) {
			activeRow = len(rows)
		}
		rows = append(rows, []string{
			components.CheckMark(m.session.IsSelected(p.ID)),
			components.ClampTextWidthEllipsis(p.Name, nameWidth),
			components.ClampTextWidthEllipsis(p.Country, countryWidth),
			p.RecordType,
			p.PriceLabel(),
		})
	}
	return components.TableGridWithActiveRow(cols, rows, tableWidth, activeRow)
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
