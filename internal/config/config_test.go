package config_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/asward/envision/internal/config"
)

func TestDefault_HappyPath(t *testing.T) {
	c := qt.New(t)
	cfg := config.Default()
	c.Assert(cfg.Snapshots.Limit, qt.Equals, 10)
	c.Assert(cfg.Profile.Reconfirm, qt.Equals, config.ReconfirmChanged)
	c.Assert(cfg.Color, qt.Equals, "auto")
}

func TestLoad(t *testing.T) {
	c := qt.New(t)

	c.Run("non-existent file returns defaults without error", func(c *qt.C) {
		cfg, err := config.Load("/nonexistent/config.yaml")
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Snapshots.Limit, qt.Equals, 10)
	})

	tests := []struct {
		name          string
		yaml          string
		wantLimit     int
		wantReconfirm string
		wantColor     string
	}{
		{
			name:          "full override",
			yaml:          "snapshots:\n  limit: 3\nprofile:\n  reconfirm: always\ncolor: never\n",
			wantLimit:     3,
			wantReconfirm: config.ReconfirmAlways,
			wantColor:     "never",
		},
		{
			name:          "partial keeps remaining defaults",
			yaml:          "snapshots:\n  limit: 0\n",
			wantLimit:     0,
			wantReconfirm: config.ReconfirmChanged,
			wantColor:     "auto",
		},
		{
			name:          "unknown reconfirm value ignored",
			yaml:          "profile:\n  reconfirm: sometimes\n",
			wantLimit:     10,
			wantReconfirm: config.ReconfirmChanged,
			wantColor:     "auto",
		},
		{
			name:          "negative limit ignored",
			yaml:          "snapshots:\n  limit: -2\n",
			wantLimit:     10,
			wantReconfirm: config.ReconfirmChanged,
			wantColor:     "auto",
		},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			path := filepath.Join(c.TempDir(), "config.yaml")
			c.Assert(os.WriteFile(path, []byte(tt.yaml), 0o600), qt.IsNil)

			cfg, err := config.Load(path)
			c.Assert(err, qt.IsNil)
			c.Assert(cfg.Snapshots.Limit, qt.Equals, tt.wantLimit)
			c.Assert(cfg.Profile.Reconfirm, qt.Equals, tt.wantReconfirm)
			c.Assert(cfg.Color, qt.Equals, tt.wantColor)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	c.Assert(os.WriteFile(path, []byte(":\nnot yaml"), 0o600), qt.IsNil)

	_, err := config.Load(path)
	c.Assert(err, qt.IsNotNil)
}
