package api

import (
	"fmt"
	"net/url"
)

// --- Opportunity Methods ---

func (c *Client) CreateOpportunity(input CreateOpportunityInput) (*Opportunity, error) {
	data, err := c.post("/api/opportunities", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Opportunity](data)
}

func (c *Client) GetOpportunity(id string) (*Opportunity, error) {
	data, err := c.get(fmt.Sprintf("/api/opportunities/%s", url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	return decodeOne[Opportunity](data)
}
