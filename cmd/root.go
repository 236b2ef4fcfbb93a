package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/job-ranker/internal/config"
)

const (
	app       = "job-ranker"
	envPrefix = "JOB_RANKER"
)

// Config is the CLI configuration: where the documents and postings live and how to run.
type Config struct {
	Profile      string  `mapstructure:"profile"`
	Scoring      string  `mapstructure:"scoring"`
	Rules        string  `mapstructure:"rules"`
	Jobs         string  `mapstructure:"jobs"`
	ExcludeFile  string  `mapstructure:"exclude-file"`
	Workers      int     `mapstructure:"workers"`
	MinimumScore float64 `mapstructure:"minimum-score"`
}

// Paths returns the configuration document locations.
func (c *Config) Paths() config.Paths {
	return config.Paths{Profile: c.Profile, Scoring: c.Scoring, Rules: c.Rules}
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-ranker scores job postings against your profile and explains every score",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for _, key := range []string{"profile", "scoring", "rules", "jobs", "exclude-file", "workers", "minimum-score"} {
		env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("profile", "", "profile document (required)")
	rootCmd.PersistentFlags().String("scoring", "", "scoring overrides document")
	rootCmd.PersistentFlags().String("rules", "", "advanced rules document")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("scoring", rootCmd.PersistentFlags().Lookup("scoring"))
	viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules"))

	viper.SetDefault("workers", 0)
	viper.SetDefault("minimum-score", 0)
}

func initConfig() {
	// Only commands that read documents need the config file.
	if scoreCmd.CalledAs() == "" && configShowCmd.CalledAs() == "" && configValidateCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Without an explicit --config every setting may come from flags or the environment.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	// We can't proceed if the config file parsed with error.
	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var cfg *Config
	err := viper.Unmarshal(&cfg)
	if err != nil {
		return cfg, err
	}

	if cfg == nil || strings.TrimSpace(cfg.Profile) == "" {
		return cfg, errors.New("profile document is required (set 'profile' in the config, --profile or JOB_RANKER_PROFILE)")
	}

	return cfg, nil
}
