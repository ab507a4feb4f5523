package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Sternrassler/sporthive-results/pkg/client"
	"github.com/Sternrassler/sporthive-results/pkg/pagination"
)

const envPrefix = "SPORTHIVE"

// dotenvFile is loaded into the environment before flags are resolved.
var dotenvFile = ".env"

// unprefixedEnv lists flags that may also be set by a bare variable name.
var unprefixedEnv = map[string]string{
	"event": "EVENT",
	"race":  "RACE",
}

func newRootCmd() *cobra.Command {
	opts := &Options{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "sporthive-results",
		Short:   "Collect the classification of a race from the Sporthive results API",
		Version: version,
		Args:    cobra.NoArgs,

		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, v, opts)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ConfigFile, "config", "",
		"config file (default is .sporthive-results.yml in the working or home directory)")
	f.StringVar(&opts.Event, "event", "", "event id from the results URL")
	f.StringVar(&opts.Race, "race", "", "race id from the results URL")
	f.BoolVar(&opts.Splits, "splits", false, "include split times")
	f.IntVar(&opts.BatchSize, "batch-size", pagination.DefaultBatchSize, "records requested per page")
	f.StringVar(&opts.Format, "format", "json", "output format (json or csv)")
	f.StringVar(&opts.Output, "output", "", "output file (default data/<event>_<race>.<format>)")
	f.StringVar(&opts.BaseURL, "base-url", client.DefaultBaseURL, "results API base URL")
	f.StringVar(&opts.UserAgent, "user-agent", "sporthive-results/"+version, "User-Agent header")
	f.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per request timeout")
	f.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.BoolVar(&opts.LogPretty, "log-pretty", false, "human readable logs")
	f.BoolVar(&opts.Quiet, "quiet", false, "log progress at debug level only")
	f.StringVar(&opts.RedisAddr, "redis-addr", "", "publish the collection to this Redis (host:port)")
	f.DurationVar(&opts.RedisTTL, "redis-ttl", 24*time.Hour, "expiry of the published collection")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	return cmd
}

// initConfig merges .env, environment and config file into the flags that
// were not set on the command line, then validates the result.
func initConfig(cmd *cobra.Command, v *viper.Viper, opts *Options) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenvFile, err)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".sporthive-results")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	return opts.Validate()
}

// bindFlags binds each cobra flag to its environment variable and config key
// and applies the viper value to flags not set on the command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" || f.Name == "version" {
			return
		}

		// --batch-size is read from SPORTHIVE_BATCH_SIZE
		envNames := []string{fmt.Sprintf("%s_%s", envPrefix, strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")))}
		if bare, ok := unprefixedEnv[f.Name]; ok {
			envNames = append(envNames, bare)
		}
		if err := v.BindEnv(append([]string{f.Name}, envNames...)...); err != nil {
			errs = append(errs, fmt.Errorf("bind env for %s: %w", f.Name, err))
			return
		}

		if !f.Changed && v.IsSet(f.Name) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
				errs = append(errs, fmt.Errorf("set %s from config: %w", f.Name, err))
			}
		}
	})
	return errors.Join(errs...)
}
