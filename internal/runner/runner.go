// Package runner walks file and directory paths, lexes each file
// into a Document AST, and runs a compiled pattern against it with a
// bounded worker pool, adapted from the teacher's lint.ProcessPath.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/structgrep/sgrep/internal/ast"
	"github.com/structgrep/sgrep/internal/cache"
	"github.com/structgrep/sgrep/internal/ignore"
	"github.com/structgrep/sgrep/internal/lexer"
	"github.com/structgrep/sgrep/internal/result"
	"github.com/structgrep/sgrep/internal/search"
	"github.com/structgrep/sgrep/internal/source"
	"github.com/structgrep/sgrep/scanner"
)

const maxShowRecentFiles = 25

// FileMatches pairs a file's matches with the source.Code needed to
// render them.
type FileMatches struct {
	Code    *source.Code
	Matches []result.Match
}

// Options configures a run.
type Options struct {
	Extensions  map[string]bool
	Cache       *cache.Cache
	PatternHash string
	Progress    bool
}

func (o Options) hasDesiredExtension(path string) bool {
	if len(o.Extensions) == 0 {
		return true
	}
	return o.Extensions[filepath.Ext(path)]
}

// ProcessPaths walks every entry in paths (files or directories),
// matches pattern against each eligible file, and returns the
// per-file results in an unspecified order.
func ProcessPaths(ctx context.Context, logger *zap.Logger, pattern []ast.Node, paths []string, opts Options) ([]FileMatches, error) {
	var all []FileMatches
	for _, path := range paths {
		matches, err := ProcessPath(ctx, logger, pattern, path, opts)
		if err != nil {
			if logger != nil {
				logger.Error("error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		all = append(all, matches...)
	}
	return all, nil
}

// ProcessPath matches pattern against path, which may be a single
// file or a directory walked recursively.
func ProcessPath(ctx context.Context, logger *zap.Logger, pattern []ast.Node, path string, opts Options) ([]FileMatches, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !opts.hasDesiredExtension(path) {
			return nil, nil
		}
		fm, err := ProcessFile(ctx, pattern, path, opts)
		if err != nil {
			return nil, err
		}
		if fm == nil {
			return nil, nil
		}
		return []FileMatches{*fm}, nil
	}

	exts := make([]string, 0, len(opts.Extensions))
	for e := range opts.Extensions {
		exts = append(exts, e)
	}
	scanned, err := scanner.New(path, exts...).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}
	files := make([]string, len(scanned))
	for i, f := range scanned {
		files[i] = f.Path
	}

	var recentFilesMutex sync.Mutex
	recentFiles := make([]string, maxShowRecentFiles)

	var bar *progressbar.ProgressBar
	if opts.Progress {
		for range maxShowRecentFiles + 1 {
			fmt.Println()
		}
		fmt.Printf("\033[%dA", maxShowRecentFiles+1)

		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription(path),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	updateRecentFiles := func(filename string) {
		if !opts.Progress {
			return
		}
		recentFilesMutex.Lock()
		defer recentFilesMutex.Unlock()

		for j := maxShowRecentFiles - 1; j > 0; j-- {
			recentFiles[j] = recentFiles[j-1]
		}
		recentFiles[0] = filename

		fmt.Printf("\033[%dA", maxShowRecentFiles)
		for j := range recentFiles {
			if recentFiles[j] != "" {
				fmt.Printf("\033[2K\r%s\n", recentFiles[j])
			} else {
				fmt.Printf("\033[2K\r\n")
			}
		}
	}

	resultChan := make(chan *FileMatches, len(files))
	errorChan := make(chan error, len(files))

	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			sem <- struct{}{}
			go func(fp string) {
				defer func() { <-sem }()
				updateRecentFiles(filepath.Base(fp))

				fm, err := ProcessFile(ctx, pattern, fp, opts)
				if err != nil {
					if logger != nil {
						logger.Error("error processing file", zap.String("file", fp), zap.Error(err))
					}
					errorChan <- err
					resultChan <- nil
				} else {
					resultChan <- fm
					errorChan <- nil
				}
				if bar != nil {
					bar.Add(1)
				}
			}(filePath)
		}
	}

	var out []FileMatches
	for range files {
		if err := <-errorChan; err != nil {
			continue
		}
		if fm := <-resultChan; fm != nil {
			out = append(out, *fm)
		}
	}

	if opts.Progress {
		fmt.Println()
	}
	return out, nil
}

// ProcessFile reads, lexes and searches a single file, consulting and
// populating opts.Cache when present. It returns nil (with no error)
// when the file has no matches, so callers can skip empty results.
func ProcessFile(ctx context.Context, pattern []ast.Node, path string, opts Options) (*FileMatches, error) {
	if opts.Cache != nil {
		if cached, ok := opts.Cache.Get(path, opts.PatternHash); ok {
			if len(cached) == 0 {
				return nil, nil
			}
			code, err := source.Read(path)
			if err != nil {
				return nil, fmt.Errorf("error reading %s: %w", path, err)
			}
			return &FileMatches{Code: code, Matches: cached}, nil
		}
	}

	code, err := source.Read(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	doc := lexer.Parse(code.Bytes)
	matches, err := search.Search(ctx, pattern, doc)
	if err != nil {
		return nil, fmt.Errorf("error searching %s: %w", path, err)
	}
	matches = ignore.Filter(matches, ignore.Lines(code.Lines))

	if opts.Cache != nil {
		if err := opts.Cache.Set(path, opts.PatternHash, matches); err != nil {
			return nil, fmt.Errorf("error caching %s: %w", path, err)
		}
	}

	if len(matches) == 0 {
		return nil, nil
	}
	return &FileMatches{Code: code, Matches: matches}, nil
}
