package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/structgrep/sgrep/internal/config"
)

// cfgCmd: sgrep cfg
var cfgCmd = &cobra.Command{
	Use:   "cfg",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			logger.Error("Error loading config file", zap.String("path", cfgFile), zap.Error(err))
			return
		}

		d, err := yaml.Marshal(cfg)
		if err != nil {
			logger.Error("Error marshalling config", zap.Error(err))
			return
		}
		fmt.Print(string(d))
	},
}
