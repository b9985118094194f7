package cmd

import (
	"fmt"
	"strings"

	"db-transfer/internal/dialect"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the generated SELECT and destination columns without connecting",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := parsePlan(cmd)
		if err != nil {
			return err
		}

		from := dialect.GetDialect(planDriver("from"))
		to := dialect.GetDialect(planDriver("to"))

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, plan.SelectSQL(from, limit))
		fmt.Fprintln(out, plan.InsertSQL(to, []string{"..."}))
		fmt.Fprintf(out, "-- %d select columns, %d joins, destination columns: %s\n",
			len(plan.Projection.Columns), len(plan.Projection.Joins), strings.Join(plan.DestColumns(), ", "))
		return nil
	},
}

// planDriver works out a driver without failing: nothing is opened.
func planDriver(side string) string {
	if d := viper.GetString(side + "_driver"); d != "" {
		return d
	}
	value := viper.GetString(side)
	if value == "" {
		return "postgres"
	}
	cfg, err := ResolveDBConfig(side, value, "")
	if err != nil {
		return "postgres"
	}
	return cfg.Driver
}

func init() {
	RootCmd.AddCommand(planCmd)
}
