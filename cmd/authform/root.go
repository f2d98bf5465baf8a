package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-authform/internal/config"
)

var (
	configFile string
	envFiles   []string
)

var rootCmd = &cobra.Command{
	Use:   "authform",
	Short: "Login and registration forms with live validation",
	Long: `authform serves the sign-in and sign-up page, drives the same forms from a
terminal, and exposes the password strength scorer and field validator.

Configuration is read from .env files, an optional YAML file and AUTHFORM_
environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(configFile, envFiles...)
}
