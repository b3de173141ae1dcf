/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tomoncle/kiln/app"
	"github.com/tomoncle/kiln/config"
	"github.com/tomoncle/kiln/database"
	"github.com/tomoncle/kiln/models"
	"github.com/tomoncle/kiln/utils"
	"gopkg.in/yaml.v3"
)

var logger = utils.NewLogger("MAIN")

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	utils.ConfigureLogLevel(cfg.LogLevel)
	utils.ConfigureLogFormat(cfg.LogFormat)
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	logger.WithField("database", application.Connection().String()).
		WithField("env", cfg.Env).
		Info("Starting kiln")
	return application.Run(ctx)
}

var rootCmd = &cobra.Command{
	Use:           "kiln",
	Short:         "Message store service over a pluggable SQL database",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dbCfg := cfg.Database()
		if dbCfg.URL == "" {
			return fmt.Errorf("%sDATABASE_URL is required for migrate", config.EnvPrefix)
		}
		dbCfg.MigrateOnStartup = true

		client, err := database.NewDatabaseFactory(nil, models.All()...).Connect(cmd.Context(), dbCfg)
		if err != nil {
			return err
		}
		defer client.Close()

		applied, err := database.NewMigrationManager(client.DB(), nil).GetAppliedMigrations(cmd.Context())
		if err != nil {
			return err
		}
		logger.WithField("count", len(applied)).Info("Migrations applied")
		return printMigrations(cmd.OutOrStdout(), applied)
	},
}

type appliedMigration struct {
	Version   string    `yaml:"version"`
	Name      string    `yaml:"name"`
	AppliedAt time.Time `yaml:"applied_at"`
}

// printMigrations writes the applied migrations to w as a YAML list.
func printMigrations(w io.Writer, applied []database.Migration) error {
	out := make([]appliedMigration, 0, len(applied))
	for _, m := range applied {
		out = append(out, appliedMigration{Version: m.Version, Name: m.Name, AppliedAt: m.AppliedAt.UTC()})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.WithError(err).Error("kiln failed")
		stop()
		os.Exit(1)
	}
}
