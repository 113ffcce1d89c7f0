package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "pk_testkey")
	return srv, client
}

func jsonResponse(data any) []byte {
	b, _ := json.Marshal(map[string]any{"data": data})
	return b
}

func TestQueryProducts(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "Bearer pk_testkey", r.Header.Get("Authorization"))
		assert.Equal(t, "Germany", r.URL.Query().Get("country"))
		assert.False(t, r.URL.Query().Has("type"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("page_size"))
		w.Write(jsonResponse(map[string]any{
			"records": []map[string]any{
				{"id": "p1", "name": "Gen 1", "country": "Germany", "record_type": "Generator", "price": 1250},
				{"id": "p2", "name": "Bolt", "country": "Germany", "record_type": "Part"},
			},
			"total_records": 7,
			"total_pages":   2,
			"page":          2,
			"page_size":     5,
		}))
	})

	page, err := client.QueryProducts(ProductFilter{Country: "Germany", Type: "All"}, 2, 5)
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	assert.Equal(t, 7, page.TotalRecords)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "1250$", page.Records[0].PriceLabel())
	assert.Equal(t, "", page.Records[1].PriceLabel())
}

func TestGetProduct(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p-1", r.URL.Path)
		w.Write(jsonResponse(map[string]any{"id": "p-1", "name": "Turbine", "description": "big"}))
	})

	product, err := client.GetProduct("p-1")
	require.NoError(t, err)
	assert.Equal(t, "Turbine", product.Name)
	assert.Equal(t, "big", product.Description)
}

func TestListCountries(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/countries", r.URL.Path)
		w.Write(jsonResponse([]map[string]any{
			{"label": "Germany", "value": "Germany"},
			{"label": "Japan", "value": "Japan"},
		}))
	})

	values, err := client.ListCountries()
	require.NoError(t, err)
	assert.Equal(t, []PicklistValue{{Label: "Germany", Value: "Germany"}, {Label: "Japan", Value: "Japan"}}, values)
}

func TestCreateOpportunity(t *testing.T) {
	var captured CreateOpportunityInput
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/opportunities", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
		w.Write(jsonResponse(map[string]any{
			"id":          "opp-1",
			"name":        captured.Name,
			"account_id":  captured.AccountID,
			"product_ids": captured.ProductIDs,
		}))
	})

	opp, err := client.CreateOpportunity(CreateOpportunityInput{
		ProductIDs: []string{"p1", "p2"},
		AccountID:  "acc-1",
		Name:       "Q3 Generators",
	})
	require.NoError(t, err)
	assert.Equal(t, "opp-1", opp.ID)
	assert.Equal(t, []string{"p1", "p2"}, captured.ProductIDs)
	assert.Equal(t, "acc-1", captured.AccountID)
	assert.Equal(t, "Q3 Generators", opp.Name)
}

func TestGetOpportunity(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/opportunities/opp-9", r.URL.Path)
		w.Write(jsonResponse(map[string]any{"id": "opp-9", "name": "Deal", "amount": 42.5}))
	})

	opp, err := client.GetOpportunity("opp-9")
	require.NoError(t, err)
	assert.Equal(t, 42.5, opp.Amount)
}

func TestHealth(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.Write([]byte(`{"status":"ok"}`))
	})

	status, err := client.Health()
	require.NoError(t, err)
	assert.Equal(t, "ok", status)
}

func TestHTTPError(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		b, _ := json.Marshal(map[string]any{
			"error": map[string]any{
				"code":    "NOT_FOUND",
				"message": "product not found",
			},
		})
		w.Write(b)
	})

	_, err := client.GetProduct("nope")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND: product not found", err.Error())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.NotFound())
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestHTTPErrorDetailAndPlainBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "detail", body: `{"detail":"bad filter"}`, want: "bad filter"},
		{name: "plain", body: `upstream down`, want: "upstream down"},
		{name: "empty", body: ``, want: "HTTP 502"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tc.body))
			})
			_, err := client.ListCountries()
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestBuildQuery(t *testing.T) {
	result := buildQuery("/api/products", QueryParams{"country": "Japan", "type": "Part"})
	assert.Contains(t, result, "/api/products?")
	assert.Contains(t, result, "country=Japan")
	assert.Contains(t, result, "type=Part")
}

func TestBuildQueryEmpty(t *testing.T) {
	assert.Equal(t, "/api/products", buildQuery("/api/products", nil))
	assert.Equal(t, "/api/products", buildQuery("/api/products", QueryParams{"country": ""}))
}

func TestProductFilterNormalized(t *testing.T) {
	f := ProductFilter{Country: "all", Type: " Part "}.Normalized()
	assert.Equal(t, "", f.Country)
	assert.Equal(t, "Part", f.Type)
	assert.Equal(t, "country=All type=Part", f.String())
}

func TestNewClientCustomTimeout(t *testing.T) {
	client := NewClient("http://example.com/", "pk_testkey", 5*time.Second)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "http://example.com", client.BaseURL())
}

func TestClientConcurrentRequests(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		w.Write(jsonResponse(map[string]any{"id": "p-1", "name": "test product"}))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "pk_testkey")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := client.GetProduct(fmt.Sprintf("p-%d", idx))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(workers), count.Load())
}
