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
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tomoncle/stratum/database"
)

// PingCmd returns the ping command.
func PingCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check the configured database connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			drv, err := flags.openDriver(ctx)
			if err != nil {
				return err
			}
			defer drv.Close()

			status := database.HealthCheck(ctx, drv)
			if output != "" {
				if err := writeOutput(cmd.OutOrStdout(), output, status); err != nil {
					return err
				}
			} else if status.Healthy {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", color.GreenString("OK"), status.Driver, status.ResponseTime)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", color.RedString("FAIL"), status.Driver, status.LastError)
			}
			if !status.Healthy {
				return fmt.Errorf("%w: %s", database.ErrConnection, status.LastError)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "print the full status as json or yaml")
	return cmd
}
