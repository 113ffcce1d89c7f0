package ui

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/picker/internal/api"
	"github.com/gravitrone/picker/internal/bus"
	"github.com/gravitrone/picker/internal/picker"
	"github.com/gravitrone/picker/internal/ui/components"
)

// --- Messages ---

type productRequestedMsg struct{ id string }
type productLoadedMsg struct {
	id      string
	product *api.Product
	err     error
}
type opportunityCreatedMsg struct{ event bus.OpportunityCreatedEvent }
type opportunityLoadedMsg struct {
	opp *api.Opportunity
	err error
}

const detailEventBuffer = 16

// --- Detail Model ---

// DetailModel shows the product announced on the selection channel and the
// last opportunity created from the list.
type DetailModel struct {
	client *api.Client

	// bus handlers run on the publisher's goroutine; events carries their
	// payloads into the tea loop.
	events chan tea.Msg
	done   chan struct{}
	once   *sync.Once
	subs   []*bus.Subscription

	productID string
	product   *api.Product
	loading   bool
	err       string

	opp    *api.Opportunity
	oppErr string

	width  int
	height int
}

// NewDetailModel subscribes the detail widget to b.
func NewDetailModel(client *api.Client, b *bus.Bus) DetailModel {
	events := make(chan tea.Msg, detailEventBuffer)
	m := DetailModel{
		client: client,
		events: events,
		done:   make(chan struct{}),
		once:   &sync.Once{},
	}
	m.subs = []*bus.Subscription{
		bus.SubscribeSelection(b, func(ev bus.SelectionEvent) {
			forward(events, productRequestedMsg{id: ev.ProductID})
		}),
		bus.SubscribeOpportunityCreated(b, func(ev bus.OpportunityCreatedEvent) {
			forward(events, opportunityCreatedMsg{event: ev})
		}),
	}
	return m
}

func forward(events chan tea.Msg, msg tea.Msg) {
	select {
	case events <- msg:
	default:
		log.Printf("detail: event buffer full, dropping %T", msg)
	}
}

func (m DetailModel) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productRequestedMsg:
		m.productID = msg.id
		m.loading = true
		m.err = ""
		return m, tea.Batch(m.fetchProduct(msg.id), m.waitForEvent())

	case productLoadedMsg:
		if msg.id != m.productID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.product = msg.product
		return m, nil

	case opportunityCreatedMsg:
		m.oppErr = ""
		return m, tea.Batch(m.loadOpportunity(msg.event.OpportunityID), m.waitForEvent())

	case opportunityLoadedMsg:
		if msg.err != nil {
			m.oppErr = msg.err.Error()
			return m, nil
		}
		m.opp = msg.opp
		return m, nil
	}
	return m, nil
}

func (m DetailModel) View() string {
	var sections []string

	switch {
	case m.productID == "" && m.opp == nil && m.oppErr == "":
		return components.Indent(components.EmptyStateBox(
			"Details",
			"No product selected.",
			[]string{"Press enter on a product row to see it here", "Switch tabs with 1/2 or tab"},
			m.width,
		), 1)
	case m.loading:
		sections = append(sections, "  "+MutedStyle.Render("Loading product..."))
	case m.err != "":
		sections = append(sections, components.Indent(components.ErrorBox("Product", m.err, m.width), 1))
	case m.product != nil:
		sections = append(sections, m.renderProduct(*m.product))
	}

	if m.oppErr != "" {
		sections = append(sections, components.Indent(components.ErrorBox("Opportunity", m.oppErr, m.width), 1))
	} else if m.opp != nil {
		sections = append(sections, m.renderOpportunity(*m.opp))
	}
	return strings.Join(sections, "\n\n")
}

// close cancels the bus subscriptions and stops the event wait.
func (m DetailModel) close() {
	for _, sub := range m.subs {
		sub.Cancel()
	}
	if m.once != nil {
		m.once.Do(func() { close(m.done) })
	}
}

// --- Helpers ---

func (m DetailModel) waitForEvent() tea.Cmd {
	events, done := m.events, m.done
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-done:
			return nil
		}
	}
}

func (m DetailModel) fetchProduct(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		p, err := picker.FetchDetail(client, id)
		return productLoadedMsg{id: id, product: p, err: err}
	}
}

func (m DetailModel) loadOpportunity(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		opp, err := client.GetOpportunity(id)
		return opportunityLoadedMsg{opp: opp, err: err}
	}
}

func (m DetailModel) renderProduct(p api.Product) string {
	status := "active"
	statusColor := string(ColorSuccess)
	if !p.Active {
		status = "inactive"
		statusColor = string(ColorWarning)
	}
	price := p.PriceLabel()
	if price == "" {
		price = "-"
	}
	rows := []components.TableRow{
		{Label: "ID", Value: p.ID},
		{Label: "Name", Value: p.Name},
		{Label: "Country of Origin", Value: p.Country},
		{Label: "Price USD", Value: price, ValueColor: string(ColorPrimary)},
		{Label: "Status", Value: status, ValueColor: statusColor},
	}
	if p.ProductCode != "" {
		rows = append(rows, components.TableRow{Label: "Code", Value: p.ProductCode})
	}

	body := TypeBadgeStyle.Render(components.SanitizeOneLine(p.RecordType))
	if desc := components.Paragraph(p.Description, components.BoxContentWidth(m.width)); desc != "" {
		body += "\n\n" + desc
	}
	return components.Indent(components.Table("Product", rows, m.width), 1) + "\n" +
		components.Indent(components.Box(body, m.width), 1)
}

func (m DetailModel) renderOpportunity(opp api.Opportunity) string {
	rows := []components.TableRow{
		{Label: "ID", Value: opp.ID},
		{Label: "Name", Value: opp.Name},
		{Label: "Account", Value: opp.AccountID},
		{Label: "Products", Value: fmt.Sprintf("%d", len(opp.ProductIDs))},
		{Label: "Amount", Value: strconv.FormatFloat(opp.Amount, 'f', -1, 64) + "$", ValueColor: string(ColorPrimary)},
	}
	if opp.Stage != "" {
		rows = append(rows, components.TableRow{Label: "Stage", Value: opp.Stage, ValueColor: string(ColorSecondary)})
	}
	if !opp.CreatedAt.IsZero() {
		rows = append(rows, components.TableRow{Label: "Created", Value: opp.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	return components.Indent(components.Table("Opportunity Created", rows, m.width), 1)
}
