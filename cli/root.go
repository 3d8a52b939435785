package cli

import (
	"fmt"
	"os"

	"clementus360/simpliday/config"

	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "simpliday",
	Short:         "simpliday records fitness, diet, mood and energy from plain conversation",
	Long:          "simpliday turns chat messages into structured daily records and summarizes them against your calorie needs.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv()
		cfg = config.Load()
		config.InitLogger(cfg.LogLevel)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
