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

// Package cli implements the stratum command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tomoncle/stratum/database"
	"github.com/tomoncle/stratum/utils"
)

type globalFlags struct {
	configPath string
	envFiles   []string
	logLevel   string
}

// NewRootCmd builds the stratum command tree.
func NewRootCmd(version string) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "stratum",
		Short:   "Render and run declarative repository queries",
		Version: version,
		Long: `stratum renders query templates with positional placeholders (?1, ?2, ...)
the way generated repositories do, and runs them against a configured
SurrealDB, PostgreSQL, MySQL or SQLite database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range flags.envFiles {
				if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("failed to load %s: %w", f, err)
				}
			}
			if flags.logLevel != "" {
				utils.ConfigureLogLevel(flags.logLevel)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML database configuration file")
	pf.StringSliceVar(&flags.envFiles, "env-file", []string{".env"}, "dotenv files loaded before running")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(RenderCmd())
	rootCmd.AddCommand(PingCmd(flags))
	rootCmd.AddCommand(QueryCmd(flags))
	return rootCmd
}

// openDriver builds a driver from the config file, falling back to the
// defaults plus DB_* environment variables.
func (f *globalFlags) openDriver(ctx context.Context) (database.Driver, error) {
	cfg := &database.Config{Connection: *database.DefaultConnectionConfig()}
	if f.configPath != "" {
		loaded, err := database.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return database.NewFactory().CreateFromConfig(ctx, &cfg.Connection)
}
