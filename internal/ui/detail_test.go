package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/picker/internal/api"
	"github.com/gravitrone/picker/internal/bus"
	"github.com/gravitrone/picker/internal/ui/components"
)

// nextEvent pulls one bridged bus event; the buffer must already hold it.
func nextEvent(t *testing.T, m DetailModel) tea.Msg {
	t.Helper()
	select {
	case msg := <-m.events:
		return msg
	default:
		t.Fatal("no bus event buffered")
		return nil
	}
}

func TestDetailModelEmptyState(t *testing.T) {
	_, client := testCatalog(t)
	m := NewDetailModel(client, bus.New())
	t.Cleanup(m.close)

	assert.Contains(t, components.SanitizeText(m.View()), "No product selected.")
}

func TestDetailModelShowsSelectedProduct(t *testing.T) {
	_, client := testCatalog(t)
	b := bus.New()
	m := NewDetailModel(client, b)
	m.width = 120
	t.Cleanup(m.close)

	bus.PublishSelection(b, "prd-001")
	msg := nextEvent(t, m)
	req, ok := msg.(productRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, "prd-001", req.id)

	m, _ = m.Update(req)
	assert.True(t, m.loading)
	assert.Contains(t, components.SanitizeText(m.View()), "Loading product...")

	m, _ = m.Update(m.fetchProduct("prd-001")())
	assert.False(t, m.loading)
	require.NotNil(t, m.product)

	view := components.SanitizeText(m.View())
	assert.Contains(t, view, "Aurora 50kW Diesel Generator")
	assert.Contains(t, view, "18500$")
	assert.Contains(t, view, "Germany")
	assert.Contains(t, view, "Generator")
	assert.Contains(t, view, "Prime-rated diesel set")
}

func TestDetailModelDropsSupersededLoad(t *testing.T) {
	_, client := testCatalog(t)
	m := NewDetailModel(client, bus.New())
	t.Cleanup(m.close)

	m, _ = m.Update(productRequestedMsg{id: "prd-001"})
	slow := m.fetchProduct("prd-001")
	m, _ = m.Update(productRequestedMsg{id: "prd-002"})

	m, _ = m.Update(slow())
	assert.Nil(t, m.product)
	assert.True(t, m.loading)

	m, _ = m.Update(m.fetchProduct("prd-002")())
	require.NotNil(t, m.product)
	assert.Equal(t, "prd-002", m.product.ID)
}

func TestDetailModelShowsFetchError(t *testing.T) {
	_, client := testCatalog(t)
	m := NewDetailModel(client, bus.New())
	t.Cleanup(m.close)

	m, _ = m.Update(productRequestedMsg{id: "prd-404"})
	m, _ = m.Update(m.fetchProduct("prd-404")())

	assert.False(t, m.loading)
	assert.Nil(t, m.product)
	view := components.SanitizeText(m.View())
	assert.Contains(t, view, "fetch detail")
	assert.Contains(t, view, "NOT_FOUND")
}

func TestDetailModelIgnoresBlankSelection(t *testing.T) {
	_, client := testCatalog(t)
	b := bus.New()
	m := NewDetailModel(client, b)
	t.Cleanup(m.close)

	bus.PublishSelection(b, "   ")
	b.Publish(bus.SelectionChannel, "prd-001")
	assert.Empty(t, m.events)
}

func TestDetailModelShowsCreatedOpportunity(t *testing.T) {
	_, client := testCatalog(t)
	opp, err := client.CreateOpportunity(api.CreateOpportunityInput{
		ProductIDs: []string{"prd-009"},
		AccountID:  "acc-1",
		Name:       "Regulators",
	})
	require.NoError(t, err)

	b := bus.New()
	m := NewDetailModel(client, b)
	m.width = 120
	t.Cleanup(m.close)

	b.Publish(bus.OpportunityCreatedChannel, bus.OpportunityCreatedEvent{OpportunityID: opp.ID, Name: opp.Name, ProductCount: 1})
	created, ok := nextEvent(t, m).(opportunityCreatedMsg)
	require.True(t, ok)

	m, _ = m.Update(created)
	m, _ = m.Update(m.loadOpportunity(created.event.OpportunityID)())
	require.NotNil(t, m.opp)

	view := components.SanitizeText(m.View())
	assert.Contains(t, view, "Opportunity Created")
	assert.Contains(t, view, "Regulators")
	assert.Contains(t, view, "310$")
	assert.Contains(t, view, "Prospecting")
}

func TestDetailModelCloseDetachesFromBus(t *testing.T) {
	_, client := testCatalog(t)
	b := bus.New()
	m := NewDetailModel(client, b)
	assert.Equal(t, 1, b.Subscribers(bus.SelectionChannel))
	assert.Equal(t, 1, b.Subscribers(bus.OpportunityCreatedChannel))

	m.close()
	m.close()
	assert.Equal(t, 0, b.Subscribers(bus.SelectionChannel))
	assert.Equal(t, 0, b.Subscribers(bus.OpportunityCreatedChannel))
	assert.Nil(t, m.waitForEvent()())

	bus.PublishSelection(b, "prd-001")
	assert.Empty(t, m.events)
}

func TestDetailModelWaitReturnsBufferedEvent(t *testing.T) {
	_, client := testCatalog(t)
	b := bus.New()
	m := NewDetailModel(client, b)
	t.Cleanup(m.close)

	bus.PublishSelection(b, "prd-003")
	msg := m.waitForEvent()()
	assert.Equal(t, productRequestedMsg{id: "prd-003"}, msg)
}

func TestForwardDropsWhenBufferFull(t *testing.T) {
	events := make(chan tea.Msg, 1)
	forward(events, productRequestedMsg{id: "a"})
	forward(events, productRequestedMsg{id: "b"})
	assert.Len(t, events, 1)
	assert.Equal(t, productRequestedMsg{id: "a"}, <-events)
}
