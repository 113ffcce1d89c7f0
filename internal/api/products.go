package api

import (
	"fmt"
	"net/url"
	"strconv"
)

// --- Product Methods ---

// QueryProducts fetches one page of products. page is 1-based.
func (c *Client) QueryProducts(filter ProductFilter, page, pageSize int) (*ProductPage, error) {
	f := filter.Normalized()
	params := QueryParams{
		"country":   f.Country,
		"type":      f.Type,
		"page":      strconv.Itoa(page),
		"page_size": strconv.Itoa(pageSize),
	}
	data, err := c.get(buildQuery("/api/products", params))
	if err != nil {
		return nil, err
	}
	return decodeOne[ProductPage](data)
}

func (c *Client) GetProduct(id string) (*Product, error) {
	data, err := c.get(fmt.Sprintf("/api/products/%s", url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	return decodeOne[Product](data)
}

// ListCountries returns the country picklist, without the "All" option.
func (c *Client) ListCountries() ([]PicklistValue, error) {
	data, err := c.get("/api/products/countries")
	if err != nil {
		return nil, err
	}
	return decodeList[PicklistValue](data)
}
