package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/taskdeck/pkg/config"
	"github.com/harrisonrobin/taskdeck/pkg/store"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage taskdeck configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", a.configPath, data)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-db PATH",
		Short: "Set the default SQLite database file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			// reload so --db does not leak into the saved file
			cfg, err := config.LoadFrom(a.configPath)
			if err != nil {
				return err
			}
			cfg.Driver = store.DriverSQLite
			cfg.DBPath = path
			if err := config.SaveTo(a.configPath, cfg); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default database set to: %s\n", path)
			return nil
		},
	})
	return cmd
}
