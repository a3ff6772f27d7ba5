package albumfixer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jevonlipsey/albumfixer/fileutil"
	"github.com/jevonlipsey/albumfixer/pathformat"
	"github.com/jevonlipsey/albumfixer/tags"
)

// organizeFiles renames and moves the album's tracks to their formatted
// destinations under root, then brings companion files (covers, cue sheets,
// logs) along and trims the emptied source directories. It returns the
// album's final directory and the moves made. During a dry run the moves are
// only planned.
func organizeFiles(ctx context.Context, cfg *Config, root, dir, artist, album string, files []*tags.File) (string, []Move, error) {
	var newDir string
	var moves []Move
	for _, f := range files {
		if f.Title == "" {
			cfg.logger().WarnContext(ctx, "track has no title, skipping rename", "path", f.Path)
			continue
		}

		destRel, err := cfg.PathFormat.Execute(pathformat.Data{
			Artist: artist,
			Album:  album,
			Title:  f.Title,
			Track:  f.Track,
			Ext:    filepath.Ext(f.Path),
		})
		if err != nil {
			return "", nil, fmt.Errorf("execute path format: %w", err)
		}

		dest := filepath.Join(root, destRel)
		newDir = filepath.Dir(dest)
		if dest == f.Path {
			continue
		}

		moves = append(moves, Move{From: f.Path, To: dest})
		if cfg.DryRun {
			continue
		}
		if err := os.MkdirAll(newDir, 0o755); err != nil {
			return "", nil, fmt.Errorf("create dest dir: %w", err)
		}
		if err := fileutil.Move(f.Path, dest); err != nil {
			return "", nil, fmt.Errorf("move track: %w", err)
		}
		f.Path = dest
	}
	if newDir == "" {
		return "", nil, fmt.Errorf("%w: no titled tracks", ErrNoTracks)
	}

	if cfg.DryRun || filepath.Clean(dir) == filepath.Clean(newDir) {
		return newDir, moves, nil
	}
	if err := moveCompanions(ctx, cfg, dir, newDir); err != nil {
		return newDir, moves, err
	}
	trimEmptyDirs(root, dir)
	return newDir, moves, nil
}

func moveCompanions(ctx context.Context, cfg *Config, dir, newDir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}
	for _, entry := range entries {
		src := filepath.Join(dir, entry.Name())
		dest := filepath.Join(newDir, entry.Name())
		if entry.IsDir() {
			// scans and artwork subdirs ride along when they can
			if err := os.Rename(src, dest); err != nil {
				cfg.logger().WarnContext(ctx, "move companion dir", "path", src, "err", err)
			}
			continue
		}
		if err := fileutil.Move(src, dest); err != nil {
			return fmt.Errorf("move companion %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// trimEmptyDirs removes dir and any emptied parents, stopping at root.
func trimEmptyDirs(root, dir string) {
	root, dir = filepath.Clean(root), filepath.Clean(dir)
	for dir != root && strings.HasPrefix(dir, root+string(filepath.Separator)) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
