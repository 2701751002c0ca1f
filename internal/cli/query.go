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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tomoncle/stratum/query"
)

// QueryCmd returns the query command.
func QueryCmd(flags *globalFlags) *cobra.Command {
	var (
		output     string
		rawStrings bool
	)

	cmd := &cobra.Command{
		Use:   "query TEMPLATE [ARG...]",
		Short: "Render a query template and print the resulting rows",
		Example: `  stratum -c db.yaml query "SELECT * FROM user WHERE age > ?1" 30
  stratum query -o yaml "SELECT * FROM person WHERE name = ?1" Ada`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			drv, err := flags.openDriver(ctx)
			if err != nil {
				return err
			}
			defer drv.Close()

			literal, err := query.Render(drv.Dialect(), args[0], parseArgs(args[1:], rawStrings)...)
			if err != nil {
				return err
			}
			rows := make([]map[string]any, 0)
			if err := drv.Query(ctx, literal, &rows); err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, rows)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format (json or yaml)")
	cmd.Flags().BoolVar(&rawStrings, "raw-strings", false, "treat every argument as a string")
	return cmd
}
