// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the fund-matcher CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/fund-matcher/internal/config"
	"github.com/pdiddy/fund-matcher/internal/httputil"
	"github.com/pdiddy/fund-matcher/internal/logging"
	"github.com/pdiddy/fund-matcher/internal/match"
	"github.com/pdiddy/fund-matcher/internal/secrets"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// appConfig is resolved once per invocation in PersistentPreRunE.
	appConfig types.AppConfig

	// logger is built from appConfig.Log.
	logger zerolog.Logger

	// apiKey is the startup credential: config or environment first, then
	// the key file in the secrets directory.
	apiKey string
)

// rootCmd is the base command for the fund-matcher CLI.
var rootCmd = &cobra.Command{
	Use:   "fund-matcher",
	Short: "Match Korean small businesses to open policy-fund programs",
	Long: `fund-matcher asks the Gemini API which government policy funds a business
can apply for right now, given its registration number, region and industry.

serve runs the web page with the consultation request form; match runs a
single search from the command line; prompt shows the instruction that
would be sent.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		appConfig = cfg

		logger, err = logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("file", used).Msg("using config file")
		}

		apiKey, err = secrets.Resolve(cfg.SecretsDir, cfg.AI.APIKey)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./fund-matcher.yaml or ~/.config/fund-matcher/fund-matcher.yaml)")
	rootCmd.PersistentFlags().String("format", "", "response format requested from the model: markdown or json")
	rootCmd.PersistentFlags().String("model", "", "Gemini model identifier")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("ai.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	config.Setup(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("fund-matcher")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "fund-matcher"))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

// newService wires the Gemini backend, fetcher and match service from
// appConfig.
func newService() *match.Service {
	client := httputil.NewClient(appConfig.HTTP)
	backend := match.NewGeminiBackend(appConfig.AI, client, logger)
	fetcher := match.NewFetcher(backend, appConfig.AI, logger)
	return match.NewService(fetcher, appConfig.Format, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
