package main

import (
	"ctchen222/Workout-Log/internal/config"
	"ctchen222/Workout-Log/internal/db"
	"ctchen222/Workout-Log/internal/logger"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "workout-log",
	Short: "Personal workout log web application",
	Long: `Workout Log records exercise sessions (date, exercise, sets, reps, weight)
and serves them through a small web interface and a JSON API.

COMMANDS:

  serve     Start the HTTP server (default)
  init-db   Create the schema and seed the default users, then exit
  users     Print the registered users

CONFIGURATION:

  Settings come from flags, environment variables and an optional .env file.
  PORT (default 5000) and APP_MODE (multi | single) are the most common ones.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile, cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Init(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
	RunE: runServe,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	pf.String("host", "", "interface to bind (default 0.0.0.0)")
	pf.Int("port", 0, "port to listen on (default 5000)")
	pf.String("db-path", "", "SQLite database file (default database.db)")
	pf.String("mode", "", "multi or single user mode (default multi)")
	pf.String("log-level", "", "debug, info, warn or error (default info)")

	rootCmd.AddCommand(serveCmd, initDBCmd, usersCmd)
}

func dbMode(c *config.Config) db.Mode {
	if c.MultiUser() {
		return db.MultiUser
	}
	return db.SingleUser
}
