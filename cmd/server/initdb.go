package main

import (
	"ctchen222/Workout-Log/internal/db"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the schema and seed the default users",
	Long: `Create the tables if they do not exist and, in multi-user mode, insert the
default users when the users table is empty. Existing rows are never touched,
so the command is safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		DB, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer DB.Close()

		mode := dbMode(cfg)
		if err := db.CreateSchema(ctx, DB, mode); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		green := color.New(color.FgGreen)
		green.Fprintf(out, "Schema ready in %s (%s mode)\n", cfg.DBPath, cfg.Mode)

		if mode == db.SingleUser {
			return nil
		}

		seeded, err := db.SeedUsers(ctx, DB)
		if err != nil {
			return err
		}
		if seeded {
			green.Fprintf(out, "Seeded %d default users\n", len(db.DefaultUsers))
		} else {
			fmt.Fprintln(out, color.New(color.Faint).Sprint("Users already present, nothing seeded"))
		}
		return nil
	},
}
