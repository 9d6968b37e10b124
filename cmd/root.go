package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "promo-calculator",
	Short: "Weekly promotional pricing planner for grocery stores",
	Long: `promo-calculator scores catalog variants for a weekly markdown promotion,
computes guardrailed promo prices, and manages draft, publish, rollback and
measurement of the resulting campaigns against the store's catalog.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().Bool("demo", false, "Run against a synthetic catalog instead of a live store")

	viper.BindPFlag("demo", rootCmd.PersistentFlags().Lookup("demo"))

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(campaignsCmd)
	rootCmd.AddCommand(measureCmd)
	rootCmd.AddCommand(exportCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
