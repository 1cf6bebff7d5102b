package main

import (
	"ctchen222/Workout-Log/internal/api/repository"
	"ctchen222/Workout-Log/internal/db"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"u"},
	Short:   "Print the registered users",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.MultiUser() {
			return errors.New("users are only available in multi-user mode")
		}

		ctx := cmd.Context()
		DB, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer DB.Close()

		users, err := repository.NewUserRepository(DB).ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found. Run init-db first.")
			return nil
		}

		faint := color.New(color.Faint)
		bold := color.New(color.Bold)
		for _, u := range users {
			fmt.Fprintf(out, "%s %s\n", faint.Sprintf("%4d", u.ID), bold.Sprint(u.Username))
		}
		return nil
	},
}
