package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/config"
	"github.com/yourname/lifetrack/internal/healthimport"
	"github.com/yourname/lifetrack/internal/storage"
)

// newImportCmd runs a health export file through the same pipeline the HTTP
// upload endpoint uses, against the configured storage backend.
func newImportCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a health export (.xml, .json or .csv) as sleep logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger, err := internal.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}

			store, err := storage.NewStore(cfg, logger)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer store.Close()

			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			importer := healthimport.NewImporter(store, logger,
				healthimport.WithChunkBytes(cfg.ImportChunkBytes),
				healthimport.WithBatchSize(cfg.ImportBatchSize),
			)

			lastShown := -1
			result := importer.HandleFileUpload(cmd.Context(), userID, path, f, info.Size(),
				func(percent int) {
					if percent != lastShown {
						fmt.Fprintf(cmd.ErrOrStderr(), "\rimporting... %3d%%", percent)
						lastShown = percent
					}
				})
			fmt.Fprintln(cmd.ErrOrStderr())

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !result.Success {
				return fmt.Errorf("import failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "u1", "user ID to import for")
	return cmd
}
