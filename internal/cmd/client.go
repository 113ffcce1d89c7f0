package cmd

import (
	"fmt"

	"github.com/gravitrone/picker/internal/api"
	"github.com/gravitrone/picker/internal/config"
)

// loadClient reads the saved config and builds a client for it.
func loadClient() (*config.Config, *api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("not logged in: %w", err)
	}
	return cfg, api.NewClient(cfg.APIURL, cfg.APIKey), nil
}
