package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskdeck/pkg/colors"
	"github.com/harrisonrobin/taskdeck/pkg/due"
	"github.com/harrisonrobin/taskdeck/pkg/model"
	"github.com/harrisonrobin/taskdeck/pkg/tasks"
)

func (a *app) listCmd() *cobra.Command {
	var overdueOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks with their status and due state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeStore, err := a.openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			now := time.Now()
			list := m.Tasks()
			if overdueOnly {
				list = due.Sweep(list, now)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(m, list, now))
			return nil
		},
	}
	cmd.Flags().BoolVar(&overdueOnly, "overdue", false, "Only show overdue tasks that are not completed")
	return cmd
}

func renderTable(m *tasks.Manager, list []*model.Task, now time.Time) string {
	palette := colors.NewPalette()
	classes := make([]due.Class, len(list))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Name", "Due Date", "Due", "Ticket Ref", "Status", "Dependencies")

	for i, task := range list {
		classes[i] = due.Classify(task.DueDate, now)
		var deps []string
		for _, d := range m.Resolve(task.Dependencies) {
			deps = append(deps, d.Name)
		}
		t.Row(
			strconv.Itoa(m.IndexOf(task.ID)),
			task.Name,
			task.DueDate,
			classes[i].String(),
			task.TicketRef,
			task.Status,
			strings.Join(deps, ", "),
		)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return base.Bold(true)
		}
		if row < 0 || row >= len(list) {
			return base
		}
		switch col {
		case 3:
			return base.Inherit(palette.Row(classes[row]))
		case 4:
			return base.Inherit(palette.Tickets.Style(list[row].TicketRef))
		case 5:
			return base.Inherit(palette.Status(list[row].Status))
		}
		return base
	})
	return t.Render()
}
