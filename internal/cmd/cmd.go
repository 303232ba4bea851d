package cmd

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/clambin/battery-exporter/internal/cmd/monitor"
	"github.com/clambin/battery-exporter/internal/cmd/report"
	"github.com/clambin/battery-exporter/internal/configuration"
	"github.com/clambin/go-common/charmer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:   "battery-exporter",
		Short: "Monitors a home battery and exports its status",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			charmer.SetJSONLogger(cmd, viper.GetBool("debug"))
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	if err := charmer.SetPersistentFlags(&RootCmd, viper.GetViper(), configuration.Args); err != nil {
		panic("failed to set flags: " + err.Error())
	}

	RootCmd.AddCommand(&monitor.Cmd, &report.Cmd)
}

func initConfig() {
	if configFilename != "" {
		viper.SetConfigFile(configFilename)
	} else {
		viper.AddConfigPath("/etc/battery-exporter/")
		viper.AddConfigPath("$HOME/.battery-exporter")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	if err := configuration.SetDefaults(viper.GetViper()); err != nil {
		panic("failed to set viper defaults: " + err.Error())
	}

	viper.SetEnvPrefix("BATTERY_EXPORTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// the config file is optional, unless one was specified
		var notFound viper.ConfigFileNotFoundError
		if configFilename != "" || !errors.As(err, &notFound) {
			slog.Error("failed to read config file", "err", err)
			os.Exit(1)
		}
	}
}
