package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"db-transfer/internal/conn"
	"db-transfer/internal/dialect"
	"db-transfer/internal/engine"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	verbose      bool
	dryRun       bool
	showProgress bool
	limit        int

	tableArg   string
	colArgs    []string
	staticArgs []string
	updateArgs []string
)

var RootCmd = &cobra.Command{
	Use:   "db-transfer",
	Short: "Copy rows from one table into another, remapping columns on the way",
	Long: `
DB TRANSFER - one-shot table copy between databases

Reads every row of the source table (joined with related tables when a
column mapping asks for it), rewrites values according to the update rules
and inserts the result into the destination table with a single INSERT.

Values are inlined into the generated SQL as quoted literals; only single
quotes are escaped. Do not feed it untrusted data.
`,
	Example: `  db-transfer --from postgres://localhost/hr --to postgres://localhost/crm \
    -t employees:staff -c id:id -c dept.name/dept_name:dept_name \
    -s source=legacyA -u dept_name=Sales:dept_name=Retail`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTransfer,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./db-transfer.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log the generated SQL")

	flags.String("from", "", "Source connection string or @name of a configured database (env PG_FROM_DATABASE)")
	flags.String("to", "", "Destination connection string or @name of a configured database (env PG_TO_DATABASE)")
	flags.String("from-driver", "", "Source driver (postgres, mysql, sqlserver, oracle, sqlite3); detected from the DSN if empty")
	flags.String("to-driver", "", "Destination driver; detected from the DSN if empty")

	flags.StringVarP(&tableArg, "table", "t", "", "Table mapping in the format source_table:dest_table")
	flags.StringArrayVarP(&colArgs, "col", "c", nil, "Column mapping in the format source_col:dest_col (repeatable)")
	flags.StringArrayVarP(&staticArgs, "static", "s", nil, "Static data insertion in the format column_name=data_to_insert (repeatable)")
	flags.StringArrayVarP(&updateArgs, "update", "u", nil, "Update data before insertion in the format source_column=find_value:dest_column=new_value (repeatable)")
	flags.IntVar(&limit, "limit", 0, "Read at most this many source rows (0 = all)")

	RootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the SELECT and print the INSERT without writing to the destination")
	RootCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar while rows are converted")

	viper.BindPFlag("from", flags.Lookup("from"))
	viper.BindPFlag("to", flags.Lookup("to"))
	viper.BindPFlag("from_driver", flags.Lookup("from-driver"))
	viper.BindPFlag("to_driver", flags.Lookup("to-driver"))
	viper.BindEnv("from", "PG_FROM_DATABASE")
	viper.BindEnv("to", "PG_TO_DATABASE")
}

// initConfig reads in config file, .env files and ENV variables if set.
func initConfig() {
	viper.SetFs(AppFs)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-transfer")
		viper.SetConfigType("yaml")
	}

	if err := LoadDotEnv(AppFs, ".env", false); err != nil {
		log.Printf("Warning: failed to load .env: %v", err)
	}
	if err := LoadDotEnv(AppFs, ".env.local", true); err != nil {
		log.Printf("Warning: failed to load .env.local: %v", err)
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func engineLogger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

func endpointFor(cfg *DBConfig) engine.Endpoint {
	return engine.Endpoint{
		Dialect: dialect.GetDialect(cfg.Driver),
		Connect: func(ctx context.Context) (engine.Session, error) {
			s, err := conn.Open(ctx, cfg.Driver, cfg.DSN)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
}

func runTransfer(cmd *cobra.Command, args []string) error {
	plan, err := parsePlan(cmd)
	if err != nil {
		return err
	}

	from, err := ResolveDBConfig("from", viper.GetString("from"), viper.GetString("from_driver"))
	if err != nil {
		return err
	}

	// The destination is never contacted in a dry run.
	to := from
	if !dryRun || viper.GetString("to") != "" {
		to, err = ResolveDBConfig("to", viper.GetString("to"), viper.GetString("to_driver"))
		if err != nil {
			return err
		}
	}

	log.Printf("Using Dialect: %s -> %s\n", from.Driver, to.Driver)
	if dryRun {
		log.Println("[SIMULATION] Dry-Run Mode Active: No data will be written.")
	}

	tr := &engine.Transfer{
		Plan:   plan,
		Source: endpointFor(from),
		Dest:   endpointFor(to),
		Limit:  limit,
		DryRun: dryRun,
		Logger: engineLogger(),
	}

	var bar progressBar
	if showProgress {
		tr.OnFetched = bar.start
		tr.OnProgress = bar.step
	}

	start := time.Now()
	res, err := tr.Run(cmd.Context())
	bar.stop()
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), res, time.Since(start))
	return nil
}
