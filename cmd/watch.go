package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/structgrep/sgrep/formatter"
	"github.com/structgrep/sgrep/internal/config"
	"github.com/structgrep/sgrep/internal/patternparser"
	"github.com/structgrep/sgrep/internal/result"
	"github.com/structgrep/sgrep/internal/source"
	"github.com/structgrep/sgrep/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <pattern> [dirs...]",
	Short: "Re-run a search every time a watched file changes",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide a pattern")
			os.Exit(1)
		}

		patternSrc, dirs, err := resolvePattern(args)
		if err != nil {
			logger.Fatal("Failed to resolve pattern", zap.Error(err))
		}
		if len(dirs) == 0 {
			dirs = []string{"."}
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			logger.Fatal("Failed to load config", zap.Error(err))
		}
		exts := make(map[string]bool, len(cfg.Extensions))
		for _, e := range cfg.Extensions {
			exts[e] = true
		}

		pattern := patternparser.Parse(patternSrc)

		w, err := watch.New(pattern, dirs, exts, func(path string, matches []result.Match, code *source.Code) {
			if len(matches) == 0 {
				fmt.Printf("%s: no matches\n", path)
				return
			}
			fmt.Println(formatter.GenerateFormattedMatches(matches, code))
		})
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}

		w.Start()
		defer w.Stop()

		fmt.Printf("watching %v for changes, ctrl-c to stop\n", dirs)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	},
}
