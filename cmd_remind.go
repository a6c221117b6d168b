package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var remindUser string

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Generate birthday and upcoming-task reminders once",
	Long: `Runs a single reminder sweep over every user, or over one user with --user.
Reminders already sent today are skipped, so the command is safe to schedule.`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().StringVar(&remindUser, "user", "", "only generate reminders for this user id")
}

func runRemind(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var created int
	if remindUser != "" {
		created, err = a.svc.GenerateReminders(ctx, remindUser)
	} else {
		created, err = a.svc.GenerateAllReminders(ctx)
	}
	if err != nil {
		return err
	}

	a.log.Info("reminder sweep finished", zap.Int("created", created))
	fmt.Fprintf(cmd.OutOrStdout(), "%d reminder(s) created\n", created)
	return nil
}
