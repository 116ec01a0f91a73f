package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskdeck/pkg/model"
	"github.com/harrisonrobin/taskdeck/pkg/orgmode"
	"github.com/harrisonrobin/taskdeck/pkg/taskwarrior"
)

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import tasks from other tools",
	}
	cmd.AddCommand(a.importOrgCmd())
	cmd.AddCommand(a.importTaskwarriorCmd())
	return cmd
}

func (a *app) importOrgCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "org FILE...",
		Short: "Import TODO/DONE headlines from Org-mode files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := orgmode.ParseFiles(args, tag)
			if err != nil {
				return err
			}
			return a.importRecords(cmd, records)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Only import headlines with this tag")
	return cmd
}

func (a *app) importTaskwarriorCmd() *cobra.Command {
	var filter []string

	cmd := &cobra.Command{
		Use:   "taskwarrior [FILE|-]",
		Short: "Import a Taskwarrior export",
		Long: `Import tasks from a Taskwarrior JSON export.

With FILE the export is read from that file, with "-" from stdin. Without an
argument "task export" is run directly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := taskwarrior.NewClient()

			var exported []taskwarrior.Task
			var err error
			switch {
			case len(args) == 0:
				exported, err = client.GetTasks(cmd.Context(), filter)
			case args[0] == "-":
				exported, err = client.ParseTasks(cmd.InOrStdin())
			default:
				f, openErr := os.Open(args[0])
				if openErr != nil {
					return openErr
				}
				defer f.Close()
				exported, err = client.ParseTasks(f)
			}
			if err != nil {
				return err
			}
			return a.importRecords(cmd, taskwarrior.Records(exported))
		},
	}
	cmd.Flags().StringSliceVar(&filter, "filter", nil, "Taskwarrior filter terms when running task export")
	return cmd
}

func (a *app) importRecords(cmd *cobra.Command, records []model.Imported) error {
	m, closeStore, err := a.openManager(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := m.Import(cmd.Context(), records)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d tasks.\n", n, len(records))
	return err
}
