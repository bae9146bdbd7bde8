package cli

import (
	"fmt"

	"github.com/lucasnoah/refinery/internal/config"
	"github.com/lucasnoah/refinery/internal/db"
	"github.com/lucasnoah/refinery/internal/pipeline"
	"github.com/spf13/cobra"
)

// loadConfig resolves the config for a command: the --config flag if given,
// the standard search locations otherwise, bare defaults if nothing exists.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	if cfg, err := config.LoadDefault(); err == nil {
		return cfg, nil
	}
	return config.Default(), nil
}

// openReportStore opens the JSON report store, at dir when set or the
// per-user default otherwise.
func openReportStore(dir string) (*pipeline.Store, error) {
	if dir != "" {
		return pipeline.NewStore(dir), nil
	}
	return pipeline.DefaultStore()
}

// openDB opens and migrates the event DB, returning it with a cleanup func.
func openDB(path string) (*db.DB, func(), error) {
	var err error
	if path == "" {
		path, err = db.DefaultDBPath()
		if err != nil {
			return nil, nil, err
		}
	}
	d, err := db.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if err := d.Migrate(); err != nil {
		d.Close()
		return nil, nil, err
	}
	return d, func() { d.Close() }, nil
}
