// Package walk lists the files under a directory tree that should be
// scanned.
package walk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Config for a walk.
type Config struct {
	// Root is the starting path. A regular file yields just itself.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize skips larger files (0 = no limit).
	MaxFileSize int64

	// Gitignore applies the .gitignore file at Root, if present.
	Gitignore bool

	// Exclude lists files to leave out, such as the report being written.
	Exclude []string
}

// Stats counts entries a walk left out.
type Stats struct {
	// Hidden is the number of hidden files and directories skipped. A
	// skipped directory counts once, whatever it contains.
	Hidden int
}

// Walk returns the regular files under cfg.Root in lexical order.
// Symbolic links are not followed. Unreadable subdirectories are skipped;
// only a missing or unreadable root is an error.
func Walk(ctx context.Context, cfg Config) ([]string, error) {
	files, _, err := WalkStats(ctx, cfg)
	return files, err
}

// WalkStats is Walk that also reports what was skipped.
func WalkStats(ctx context.Context, cfg Config) ([]string, Stats, error) {
	var stats Stats
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, stats, fmt.Errorf("reading root: %w", err)
	}
	if !info.IsDir() {
		return []string{cfg.Root}, stats, nil
	}

	var ignore *gitignore.GitIgnore
	if cfg.Gitignore {
		gitignorePath := filepath.Join(cfg.Root, ".gitignore")
		if _, err := os.Stat(gitignorePath); err == nil {
			ignore, err = gitignore.CompileIgnoreFile(gitignorePath)
			if err != nil {
				return nil, stats, fmt.Errorf("loading %s: %w", gitignorePath, err)
			}
		}
	}

	excluded := make(map[string]bool, len(cfg.Exclude))
	for _, p := range cfg.Exclude {
		if abs, err := filepath.Abs(p); err == nil {
			excluded[abs] = true
		}
	}

	var files []string
	err = filepath.Walk(cfg.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == cfg.Root {
				return err
			}
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == cfg.Root {
			return nil
		}

		if ignore != nil {
			relPath, err := filepath.Rel(cfg.Root, path)
			if err != nil {
				return err
			}
			if ignore.MatchesPath(relPath) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if info.IsDir() {
			if !cfg.IncludeHidden && isHidden(info.Name()) {
				stats.Hidden++
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if !cfg.IncludeHidden && isHidden(info.Name()) {
			stats.Hidden++
			return nil
		}

		if cfg.MaxFileSize > 0 && info.Size() > cfg.MaxFileSize {
			return nil
		}

		if len(excluded) > 0 {
			if abs, err := filepath.Abs(path); err == nil && excluded[abs] {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	return files, stats, nil
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
