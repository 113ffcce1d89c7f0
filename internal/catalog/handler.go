package catalog

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gravitrone/picker/internal/api"
)

// DefaultPageSize applies when a request omits page_size.
const DefaultPageSize = 10

// MaxPageSize caps page_size.
const MaxPageSize = 200

type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type handler struct {
	store  *Store
	apiKey string
}

// NewHandler serves the catalog REST API. When apiKey is non-empty every
// route except /api/health requires "Authorization: Bearer <apiKey>".
func NewHandler(store *Store, apiKey string) http.Handler {
	h := &handler{store: store, apiKey: apiKey}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.health)
	mux.HandleFunc("GET /api/products", h.auth(h.listProducts))
	mux.HandleFunc("GET /api/products/countries", h.auth(h.listCountries))
	mux.HandleFunc("GET /api/products/{id}", h.auth(h.getProduct))
	mux.HandleFunc("POST /api/opportunities", h.auth(h.createOpportunity))
	mux.HandleFunc("GET /api/opportunities/{id}", h.auth(h.getOpportunity))
	return mux
}

func (h *handler) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey != "" && r.Header.Get("Authorization") != "Bearer "+h.apiKey {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing api key")
			return
		}
		next(w, r)
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PAGE", err.Error())
		return
	}
	pageSize, err := intParam(q.Get("page_size"), DefaultPageSize)
	if err != nil || pageSize < 1 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGE_SIZE", "page_size must be a positive integer")
		return
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	filter := api.ProductFilter{Country: q.Get("country"), Type: q.Get("type")}
	result, err := h.store.QueryProducts(filter, page, pageSize)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *handler) listCountries(w http.ResponseWriter, _ *http.Request) {
	values, err := h.store.Countries()
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, values)
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetProduct(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, product)
}

func (h *handler) createOpportunity(w http.ResponseWriter, r *http.Request) {
	var input api.CreateOpportunityInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		return
	}
	opp, err := h.store.CreateOpportunity(input)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusCreated, opp)
}

func (h *handler) getOpportunity(w http.ResponseWriter, r *http.Request) {
	opp, err := h.store.GetOpportunity(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, opp)
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalid):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		log.Printf("catalog: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func intParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Error: &errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("catalog: encode response: %v", err)
	}
}
