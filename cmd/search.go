package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/structgrep/sgrep/formatter"
	"github.com/structgrep/sgrep/internal/cache"
	"github.com/structgrep/sgrep/internal/config"
	"github.com/structgrep/sgrep/internal/patternparser"
	"github.com/structgrep/sgrep/internal/runner"
)

var (
	ignorePaths    string
	searchJSON     bool
	outPath        string
	usePatternName string
	noCache        bool
)

var searchCmd = &cobra.Command{
	Use:   "search <pattern> [paths...]",
	Short: "Search paths for a structural pattern",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide a pattern")
			os.Exit(1)
		}

		patternSrc, paths, err := resolvePattern(args)
		if err != nil {
			logger.Fatal("Failed to resolve pattern", zap.Error(err))
		}
		if len(paths) == 0 {
			paths = []string{"."}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		runSearch(ctx, logger, patternSrc, paths, searchJSON, outPath)
	},
}

func init() {
	searchCmd.Flags().StringVar(&ignorePaths, "ignore", "", "Comma-separated list of substrings; a command-line path containing one is skipped (files found inside a directory argument are not filtered)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output matches as JSON")
	searchCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using --json)")
	searchCmd.Flags().StringVar(&usePatternName, "use", "", "Use a named pattern from the config's pattern library instead of the first argument")
	searchCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the per-file result cache")
}

// resolvePattern decides whether args[0] is literal pattern source or
// (with --use) the positional args are entirely paths and the pattern
// comes from the config's named pattern library.
func resolvePattern(args []string) (pattern []byte, paths []string, err error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	if usePatternName != "" {
		p, ok := cfg.Lookup(usePatternName)
		if !ok {
			return nil, nil, fmt.Errorf("no pattern named %q in config", usePatternName)
		}
		return []byte(p), args, nil
	}

	return []byte(args[0]), args[1:], nil
}

func runSearch(ctx context.Context, logger *zap.Logger, patternSrc []byte, paths []string, isJSON bool, jsonOutput string) {
	pattern := patternparser.Parse(patternSrc)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	exts := make(map[string]bool, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		exts[e] = true
	}

	opts := runner.Options{
		Extensions:  exts,
		PatternHash: cache.PatternHash(patternSrc),
		Progress:    !isJSON,
	}

	if cfg.Cache.Enabled && !noCache {
		maxAge := time.Duration(cfg.Cache.MaxAgeS) * time.Second
		c, err := cache.Open(cfg.Cache.Dir, maxAge)
		if err != nil {
			logger.Error("Failed to open cache, continuing without it", zap.Error(err))
		} else {
			opts.Cache = c
		}
	}

	if ignorePaths != "" {
		paths = filterIgnored(paths, strings.Split(ignorePaths, ","))
	}

	results, err := runner.ProcessPaths(ctx, logger, pattern, paths, opts)
	if err != nil {
		logger.Error("Error processing paths", zap.Error(err))
		os.Exit(1)
	}

	printResults(logger, results, isJSON, jsonOutput)

	total := 0
	for _, r := range results {
		total += len(r.Matches)
	}
	if total == 0 {
		os.Exit(1)
	}
}

func filterIgnored(paths, globs []string) []string {
	var out []string
	for _, p := range paths {
		skip := false
		for _, g := range globs {
			if ok, _ := matchesGlob(strings.TrimSpace(g), p); ok {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, p)
		}
	}
	return out
}

func matchesGlob(glob, path string) (bool, error) {
	return strings.Contains(path, glob), nil
}

func printResults(logger *zap.Logger, results []runner.FileMatches, isJSON bool, jsonOutput string) {
	if !isJSON {
		for _, fm := range results {
			fmt.Println(formatter.GenerateFormattedMatches(fm.Matches, fm.Code))
		}
		return
	}

	type jsonFile struct {
		File    string        `json:"file"`
		Matches []interface{} `json:"matches"`
	}

	var out []jsonFile
	for _, fm := range results {
		matches := make([]interface{}, len(fm.Matches))
		for i, m := range fm.Matches {
			matches[i] = m
		}
		out = append(out, jsonFile{File: fm.Code.Path, Matches: matches})
	}

	d, err := json.Marshal(out)
	if err != nil {
		logger.Error("Error marshalling matches to JSON", zap.Error(err))
		return
	}

	if jsonOutput == "" {
		fmt.Println(string(d))
		return
	}

	f, err := os.Create(jsonOutput)
	if err != nil {
		logger.Error("Error creating JSON output file", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.Write(d); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
	}
}
