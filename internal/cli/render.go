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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomoncle/stratum/query"
)

// RenderCmd returns the render command.
func RenderCmd() *cobra.Command {
	var (
		dialectName string
		rawStrings  bool
		explain     bool
	)

	cmd := &cobra.Command{
		Use:   "render TEMPLATE [ARG...]",
		Short: "Render a query template without running it",
		Long: `Render substitutes ?N placeholders with the literal form of the N-th argument.

Arguments are typed: null, true/false and numbers are written bare, anything
else is quoted for the selected dialect. Use --raw-strings to quote everything.`,
		Example: `  stratum render "SELECT * FROM user WHERE name = ?1 AND age > ?2" Ada 30
  stratum render --dialect surrealdb "SELECT * FROM user WHERE name = ?1" "O'Brien"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, ok := query.DialectByName(dialectName)
			if !ok {
				return fmt.Errorf("unknown dialect %q", dialectName)
			}
			tmpl := args[0]
			if explain {
				fmt.Fprintf(cmd.ErrOrStderr(), "placeholders: %v, arguments: %d\n",
					query.Placeholders(tmpl), len(args)-1)
			}
			out, err := query.Render(dialect, tmpl, parseArgs(args[1:], rawStrings)...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dialectName, "dialect", "d", "standard", "literal dialect (standard, mysql, surrealdb)")
	cmd.Flags().BoolVar(&rawStrings, "raw-strings", false, "treat every argument as a string")
	cmd.Flags().BoolVar(&explain, "explain", false, "print the placeholder indexes to stderr")
	return cmd
}

func parseArgs(raw []string, rawStrings bool) []any {
	args := make([]any, len(raw))
	for i, s := range raw {
		if rawStrings {
			args[i] = s
			continue
		}
		args[i] = parseArg(s)
	}
	return args
}

func parseArg(s string) any {
	switch strings.ToLower(s) {
	case "null", "nil", "none":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
