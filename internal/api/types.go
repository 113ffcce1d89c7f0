package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FilterAll is the picklist value meaning "no filter".
const FilterAll = "All"

// Product record types offered by the type filter.
const (
	RecordTypeGenerator = "Generator"
	RecordTypePart      = "Part"
)

// RecordTypes lists the type filter options, "All" first.
var RecordTypes = []string{FilterAll, RecordTypeGenerator, RecordTypePart}

// --- Product ---

// Product is a catalog entry a user can attach to an opportunity.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	RecordType  string    `json:"record_type"`
	Price       *float64  `json:"price,omitempty"`
	Description string    `json:"description,omitempty"`
	ProductCode string    `json:"product_code,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PriceLabel renders the price the way the product table shows it ("1250$").
func (p Product) PriceLabel() string {
	if p.Price == nil {
		return ""
	}
	return strconv.FormatFloat(*p.Price, 'f', -1, 64) + "$"
}

// ProductFilter narrows a product query. Empty or "All" fields do not filter.
type ProductFilter struct {
	Country string `json:"country,omitempty"`
	Type    string `json:"type,omitempty"`
}

// Normalized returns the filter with "All" mapped to empty.
func (f ProductFilter) Normalized() ProductFilter {
	return ProductFilter{
		Country: normalizeFilterValue(f.Country),
		Type:    normalizeFilterValue(f.Type),
	}
}

// String renders the filter for status lines.
func (f ProductFilter) String() string {
	n := f.Normalized()
	country, kind := n.Country, n.Type
	if country == "" {
		country = FilterAll
	}
	if kind == "" {
		kind = FilterAll
	}
	return fmt.Sprintf("country=%s type=%s", country, kind)
}

func normalizeFilterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, FilterAll) {
		return ""
	}
	return v
}

// ProductPage is one page of a filtered product query.
type ProductPage struct {
	Records      []Product `json:"records"`
	TotalRecords int       `json:"total_records"`
	TotalPages   int       `json:"total_pages"`
	Page         int       `json:"page"`
	PageSize     int       `json:"page_size"`
}

// PicklistValue is one option of a picklist filter.
type PicklistValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// --- Opportunity ---

// Opportunity is the business record created from a product selection.
type Opportunity struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	AccountID  string    `json:"account_id"`
	ProductIDs []string  `json:"product_ids"`
	Amount     float64   `json:"amount"`
	Stage      string    `json:"stage,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateOpportunityInput defines the fields required to create an opportunity.
type CreateOpportunityInput struct {
	ProductIDs []string `json:"product_ids"`
	AccountID  string   `json:"account_id"`
	Name       string   `json:"name"`
}

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string
