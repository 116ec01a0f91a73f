package cli

import (
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskdeck/pkg/colors"
	"github.com/harrisonrobin/taskdeck/pkg/nav"
	"github.com/harrisonrobin/taskdeck/pkg/session"
	"github.com/harrisonrobin/taskdeck/pkg/tui"
)

func (a *app) runTracker(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	m, closeStore, err := a.openManager(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	machine := nav.New(m)
	machine.SetShowComments(a.cfg.ShowComments)

	sess, err := session.Open(a.cfg.SessionFile)
	if err != nil {
		a.logger.Warn("ignoring unreadable session file", "path", a.cfg.SessionFile, "error", err)
		sess = &session.File{Path: a.cfg.SessionFile}
	} else {
		machine.SelectID(sess.State.SelectedID)
		if sess.State.ShowComments {
			machine.SetShowComments(true)
		}
	}

	runErr := tui.Run(ctx, machine, colors.NewPalette())

	sess.Update(session.State{
		SelectedID:   machine.SelectedID(),
		ShowComments: machine.ShowComments(),
	})
	if err := sess.Save(); err != nil {
		a.logger.Warn("failed to save session", "path", sess.Path, "error", err)
	}
	return runErr
}
