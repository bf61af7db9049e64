package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/structgrep/sgrep/internal/config"
)

// initCmd: sgrep init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default sgrep configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Printf("Configuration file created/updated: %s\n", defaultedPath(cfgFile))
	},
}

func defaultedPath(path string) string {
	if path == "" {
		return ".sgrep.yaml"
	}
	return path
}

func initConfigurationFile(configurationPath string) error {
	configurationPath = defaultedPath(configurationPath)

	d, err := yaml.Marshal(config.Default())
	if err != nil {
		return err
	}

	f, err := os.Create(configurationPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
