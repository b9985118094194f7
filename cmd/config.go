package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"db-transfer/internal/dialect"
	"db-transfer/internal/engine"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// AppFs is the filesystem config and .env files are read from.
var AppFs afero.Fs = afero.NewOsFs()

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// LookupDBConfig returns the database named in the databases list of the
// config file.
func LookupDBConfig(name string) (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var found *DBConfig
	for i := range configs {
		if configs[i].Name == name {
			if found != nil {
				return nil, fmt.Errorf("database %q is configured more than once", name)
			}
			found = &configs[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no database named %q found in config", name)
	}
	if found.DSN == "" {
		return nil, fmt.Errorf("database %q has no dsn", name)
	}
	return found, nil
}

// ResolveDBConfig turns a --from/--to value into a driver and DSN. A value
// of the form @name refers to the databases list of the config file. An
// explicit driver wins over the configured or detected one.
func ResolveDBConfig(side, value, driver string) (*DBConfig, error) {
	if value == "" {
		env := "PG_FROM_DATABASE"
		if side == "to" {
			env = "PG_TO_DATABASE"
		}
		return nil, fmt.Errorf("--%s is required (via flag, %s or config)", side, env)
	}

	cfg := &DBConfig{Name: side, DSN: value}
	if name, ok := strings.CutPrefix(value, "@"); ok {
		named, err := LookupDBConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = named
	}

	switch {
	case driver != "":
		cfg.Driver = driver
	case cfg.Driver == "":
		cfg.Driver = dialect.DetectDriver(cfg.DSN)
	}
	return cfg, nil
}

// TransferArgs collects the mapping arguments. A flag given on the command
// line replaces the matching transfer.* list of the config file.
func TransferArgs(cmd *cobra.Command) engine.Args {
	flags := cmd.Flags()
	a := engine.Args{
		Table:   viper.GetString("transfer.table"),
		Columns: viper.GetStringSlice("transfer.columns"),
		Static:  viper.GetStringSlice("transfer.static"),
		Updates: viper.GetStringSlice("transfer.updates"),
	}
	if flags.Changed("table") {
		a.Table = tableArg
	}
	if flags.Changed("col") {
		a.Columns = colArgs
	}
	if flags.Changed("static") {
		a.Static = staticArgs
	}
	if flags.Changed("update") {
		a.Updates = updateArgs
	}
	return a
}

func parsePlan(cmd *cobra.Command) (*engine.Plan, error) {
	a := TransferArgs(cmd)
	if a.Table == "" {
		return nil, fmt.Errorf("--table is required (via flag or transfer.table in config)")
	}
	return engine.ParsePlan(a)
}

// LoadDotEnv exports the variables of an env file found on fs. Variables
// already set are kept unless override is true. A missing file is not an
// error.
func LoadDotEnv(fs afero.Fs, name string, override bool) error {
	f, err := fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for k, v := range env {
		if _, set := os.LookupEnv(k); set && !override {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return nil
}
