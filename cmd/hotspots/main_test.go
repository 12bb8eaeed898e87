package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ivlev/hotspots/internal/config"
)

func TestNewPipeline(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"defaults", func(c *config.Config) {}, false},
		{"banded yaml", func(c *config.Config) { c.Detector = "banded"; c.Format = "yaml" }, false},
		{"order", func(c *config.Config) { c.Order = "diagonal" }, true},
		{"detector", func(c *config.Config) { c.Detector = "fuzzy" }, true},
		{"format", func(c *config.Config) { c.Format = "csv" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			det, exp, err := newPipeline(cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, det)
			require.NotNil(t, exp)
		})
	}
}
