// Package picker holds the list widget's state machine: the current page and
// filter, the global product selection, and opportunity submission.
//
// Session methods that touch widget state are meant to run on the UI loop.
// Run and CreateOpportunity only talk to the service and may run in a tea.Cmd.
package picker

import (
	"strings"
	"sync"

	"github.com/gravitrone/picker/internal/api"
	"github.com/gravitrone/picker/internal/bus"
	"github.com/gravitrone/picker/internal/selection"
)

// DefaultPageSize is used when a session is built without one.
const DefaultPageSize = 10

// ProductFetcher loads one filtered page of products.
type ProductFetcher interface {
	QueryProducts(filter api.ProductFilter, page, pageSize int) (*api.ProductPage, error)
}

// DetailFetcher loads a single product.
type DetailFetcher interface {
	GetProduct(id string) (*api.Product, error)
}

// OpportunityCreator creates an opportunity from a list of product ids.
type OpportunityCreator interface {
	CreateOpportunity(input api.CreateOpportunityInput) (*api.Opportunity, error)
}

// Service is everything the list widget needs from the backend.
// *api.Client satisfies it.
type Service interface {
	ProductFetcher
	OpportunityCreator
}

// PageRequest is one issued page fetch. Seq grows with every request so late
// responses can be told apart from the latest one.
type PageRequest struct {
	Seq      uint64
	Filter   api.ProductFilter
	Page     int
	PageSize int
}

// Session is the headless core of the product list widget.
type Session struct {
	mu        sync.Mutex
	svc       Service
	bus       *bus.Bus
	sel       *selection.Reconciler[api.Product]
	accountID string
	pageSize  int

	seq          uint64
	filter       api.ProductFilter
	page         int
	totalPages   int
	totalRecords int
	records      []api.Product
	known        map[string]api.Product

	// ids staged for the in-flight submission; reset on success and failure
	queue []string
}

// NewSession builds a session for accountID. b must not be nil.
func NewSession(svc Service, b *bus.Bus, accountID string, pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{
		svc:       svc,
		bus:       b,
		sel:       selection.NewReconciler(func(p api.Product) string { return p.ID }),
		accountID: accountID,
		pageSize:  pageSize,
		page:      1,
		known:     map[string]api.Product{},
	}
}

// --- Paging ---

// BeginFetch issues a new page request and makes it the latest one.
func (s *Session) BeginFetch(filter api.ProductFilter, page int) PageRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.seq++
	return PageRequest{Seq: s.seq, Filter: filter.Normalized(), Page: page, PageSize: s.pageSize}
}

// Run performs the request against the service.
func (s *Session) Run(req PageRequest) (*api.ProductPage, error) {
	page, err := s.svc.QueryProducts(req.Filter, req.Page, req.PageSize)
	if err != nil {
		return nil, &FetchError{Op: "page", Err: err}
	}
	return page, nil
}

// IsLatest reports whether req is the most recently issued request.
func (s *Session) IsLatest(req PageRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return req.Seq == s.seq
}

// ApplyPage makes page the visible set and returns its selected ids.
// Responses to superseded requests are dropped and ok is false.
func (s *Session) ApplyPage(req PageRequest, page *api.ProductPage) (visibleSelected []string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Seq != s.seq || page == nil {
		return nil, false
	}

	s.filter = req.Filter
	s.page = req.Page
	s.totalPages = page.TotalPages
	s.totalRecords = page.TotalRecords
	s.records = append([]api.Product(nil), page.Records...)
	for _, p := range page.Records {
		s.known[p.ID] = p
	}
	return s.sel.SetVisiblePage(s.records), true
}

// Present makes products the visible set without a page fetch, for products
// loaded by id. Any in-flight page request is superseded.
func (s *Session) Present(products []api.Product) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.records = append([]api.Product(nil), products...)
	s.totalRecords = len(products)
	s.totalPages = 1
	s.page = 1
	for _, p := range products {
		s.known[p.ID] = p
	}
	return s.sel.SetVisiblePage(s.records)
}

// FetchPage issues, runs and applies a request in one call.
func (s *Session) FetchPage(filter api.ProductFilter, page int) ([]string, error) {
	req := s.BeginFetch(filter, page)
	result, err := s.Run(req)
	if err != nil {
		return nil, err
	}
	visible, _ := s.ApplyPage(req, result)
	return visible, nil
}

// NextPage returns a request for the following page, if there is one.
func (s *Session) NextPage() (PageRequest, bool) {
	s.mu.Lock()
	filter, page, total := s.filter, s.page, s.totalPages
	s.mu.Unlock()
	if page >= total {
		return PageRequest{}, false
	}
	return s.BeginFetch(filter, page+1), true
}

// PrevPage returns a request for the preceding page, if there is one.
func (s *Session) PrevPage() (PageRequest, bool) {
	s.mu.Lock()
	filter, page := s.filter, s.page
	s.mu.Unlock()
	if page <= 1 {
		return PageRequest{}, false
	}
	return s.BeginFetch(filter, page-1), true
}

// Refilter returns a request for the first page under filter.
func (s *Session) Refilter(filter api.ProductFilter) PageRequest {
	return s.BeginFetch(filter, 1)
}

// Reload returns a request for the current page and filter.
func (s *Session) Reload() PageRequest {
	s.mu.Lock()
	filter, page := s.filter, s.page
	s.mu.Unlock()
	return s.BeginFetch(filter, page)
}

// --- Selection ---

// Toggle flips the checked state of one visible row, the way a checkbox
// control reports it: the full set of checked visible rows after the click.
func (s *Session) Toggle(id string) []string {
	visible := s.sel.Visible()
	checked := s.sel.VisibleSelected()

	found := false
	for _, v := range visible {
		if v == id {
			found = true
			break
		}
	}
	if !found {
		return checked
	}

	nowChecked := make([]string, 0, len(checked)+1)
	wasChecked := false
	for _, c := range checked {
		if c == id {
			wasChecked = true
			continue
		}
		nowChecked = append(nowChecked, c)
	}
	if !wasChecked {
		nowChecked = append(nowChecked, id)
	}
	return s.SetChecked(nowChecked)
}

// SetChecked applies a control report of every checked visible row.
func (s *Session) SetChecked(nowChecked []string) []string {
	out := s.sel.ReconcileSelectionChange(nowChecked, s.sel.Visible())
	s.publishDiff()
	return out
}

// SelectAllVisible adds every visible product to the selection.
func (s *Session) SelectAllVisible() []string {
	s.mu.Lock()
	records := append([]api.Product(nil), s.records...)
	s.mu.Unlock()

	out := s.sel.SelectAllVisible(records)
	s.publishDiff()
	return out
}

// ClearSelection drops every selected product across all pages.
func (s *Session) ClearSelection() {
	s.sel.Clear()
	s.publishDiff()
}

// ViewDetail announces productID on the selection channel.
func (s *Session) ViewDetail(productID string) {
	if strings.TrimSpace(productID) == "" {
		return
	}
	bus.PublishSelection(s.bus, productID)
}

// SelectedProducts resolves the selection against every product seen so far.
func (s *Session) SelectedProducts() []api.Product {
	return s.sel.ResolveSelectedRecords(s.lookup)
}

func (s *Session) lookup(id string) (api.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.known[id]
	return p, ok
}

func (s *Session) publishDiff() {
	diff := s.sel.LastDiff()
	if diff.Empty() {
		return
	}
	s.bus.Publish(bus.SelectionChangedChannel, bus.SelectionChangedEvent{
		Added:   diff.Added,
		Removed: diff.Removed,
		Total:   s.sel.Len(),
	})
}

// --- Submission ---

// PrepareSubmission validates name and the selection and stages the ids.
func (s *Session) PrepareSubmission(name string) (api.CreateOpportunityInput, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.CreateOpportunityInput{}, &ValidationError{Reason: ErrEmptyName}
	}
	products := s.SelectedProducts()
	if len(products) == 0 {
		return api.CreateOpportunityInput{}, &ValidationError{Reason: ErrEmptySelection}
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	s.mu.Lock()
	s.queue = ids
	s.mu.Unlock()

	return api.CreateOpportunityInput{
		ProductIDs: append([]string(nil), ids...),
		AccountID:  s.accountID,
		Name:       name,
	}, nil
}

// CreateOpportunity sends a prepared submission to the service.
func (s *Session) CreateOpportunity(input api.CreateOpportunityInput) (*api.Opportunity, error) {
	opp, err := s.svc.CreateOpportunity(input)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	return opp, nil
}

// CompleteSubmission resets the staging queue and, on success, drops the
// submitted ids from the selection and announces the new opportunity.
// Products picked while the request was in flight stay selected.
func (s *Session) CompleteSubmission(opp *api.Opportunity, err error) {
	s.mu.Lock()
	submitted := s.queue
	s.queue = nil
	s.mu.Unlock()

	if err != nil || opp == nil {
		return
	}
	s.sel.Remove(submitted)
	s.publishDiff()
	s.bus.Publish(bus.OpportunityCreatedChannel, bus.OpportunityCreatedEvent{
		OpportunityID: opp.ID,
		Name:          opp.Name,
		ProductCount:  len(opp.ProductIDs),
	})
}

// Submit prepares, sends and completes a submission synchronously.
func (s *Session) Submit(name string) (*api.Opportunity, error) {
	input, err := s.PrepareSubmission(name)
	if err != nil {
		return nil, err
	}
	opp, err := s.CreateOpportunity(input)
	s.CompleteSubmission(opp, err)
	return opp, err
}

// --- Accessors ---

// Records returns a copy of the visible page.
func (s *Session) Records() []api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Product(nil), s.records...)
}

// Filter returns the filter of the last applied page.
func (s *Session) Filter() api.ProductFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Page returns the 1-based number of the visible page.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// TotalPages returns the page count reported with the last applied page.
func (s *Session) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

// TotalRecords returns the filtered record count.
func (s *Session) TotalRecords() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalRecords
}

// PageSize returns the number of records requested per page.
func (s *Session) PageSize() int {
	return s.pageSize
}

// AccountID returns the account new opportunities are attached to.
func (s *Session) AccountID() string {
	return s.accountID
}

// Queued returns the ids staged for an in-flight submission.
func (s *Session) Queued() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queue...)
}

// SelectedCount returns the number of selected products across all pages.
func (s *Session) SelectedCount() int {
	return s.sel.Len()
}

// SelectedIDs returns the selected ids in the order they were picked.
func (s *Session) SelectedIDs() []string {
	return s.sel.IDs()
}

// IsSelected reports whether id is in the selection.
func (s *Session) IsSelected(id string) bool {
	return s.sel.Contains(id)
}

// VisibleSelected returns the selected ids on the visible page.
func (s *Session) VisibleSelected() []string {
	return s.sel.VisibleSelected()
}

// FetchDetail loads one product for the detail widget.
func FetchDetail(f DetailFetcher, id string) (*api.Product, error) {
	p, err := f.GetProduct(id)
	if err != nil {
		return nil, &FetchError{Op: "detail", Err: err}
	}
	return p, nil
}
