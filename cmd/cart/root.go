package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rl1809/cart-manager/internal/config"
	"github.com/rl1809/cart-manager/internal/logger"
)

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "cart",
	Short:         "Manage a stock-checked shopping cart persisted on this machine.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(viper.GetViper(), configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./cart.yaml or $HOME/cart.yaml)")
	rootCmd.PersistentFlags().String("store", "", "snapshot store backend: sqlite or redis")
	rootCmd.PersistentFlags().String("oracle", "", "catalog and stock backend: http or mysql")
	rootCmd.PersistentFlags().String("api-url", "", "base url of the product api")
	rootCmd.PersistentFlags().String("log-level", "", "log level")

	bindFlag("store.backend", "store")
	bindFlag("oracle.backend", "oracle")
	bindFlag("oracle.api_url", "api-url")
	bindFlag("log_level", "log-level")

	rootCmd.AddCommand(addCmd, removeCmd, setCmd, listCmd, serveCmd)
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func newLogger() zerolog.Logger {
	return logger.New(cfg.Env, cfg.LogLevel)
}
