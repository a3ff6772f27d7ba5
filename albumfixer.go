// Package albumfixer prepares a music library for a portable player: tracks
// renamed from their tags, albums filed under Artist/Album, lyrics and cover
// art fetched to sit next to them.
package albumfixer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.senan.xyz/natcmp"

	"github.com/jevonlipsey/albumfixer/coverart"
	"github.com/jevonlipsey/albumfixer/fileutil"
	"github.com/jevonlipsey/albumfixer/hook"
	"github.com/jevonlipsey/albumfixer/lyrics"
	"github.com/jevonlipsey/albumfixer/pathformat"
	"github.com/jevonlipsey/albumfixer/tags"
)

var (
	ErrNoTracks   = errors.New("no tracks in dir")
	ErrNoIdentity = errors.New("no artist or album identity")
)

// Config wires the pipeline steps for a run. Lyrics and Cover are optional,
// a nil step is skipped.
type Config struct {
	PathFormat pathformat.Format
	Lyrics     lyrics.Source
	Cover      *coverart.Resolver
	Hooks      []hook.Hook
	DryRun     bool
	Logger     *slog.Logger
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Move is one performed, or planned during a dry run, track rename.
type Move struct {
	From, To string
}

// Result sums up what happened to one album directory.
type Result struct {
	Dir         string // the directory after organizing
	Artist      string
	Album       string
	Moves       []Move
	LyricsFiles int
	CoverSource string // "local", "musicbrainz", "itunes", or empty
}

// FindAlbumDirs walks root and returns the album directories to process:
// the deepest directories directly holding audio files, naturally sorted.
// Player system directories (.rockbox) are skipped.
func FindAlbumDirs(root string) ([]string, error) {
	audioDirs := map[string]struct{}{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".rockbox" {
			return filepath.SkipDir
		}
		if !d.IsDir() && tags.CanRead(path) {
			audioDirs[filepath.Dir(path)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk root: %w", err)
	}

	// deepest wins, a directory holding another album is not itself an album
	candidates := slices.SortedFunc(maps.Keys(audioDirs), func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	var dirs []string
	for _, dir := range candidates {
		under := func(kept string) bool {
			return strings.HasPrefix(kept, dir+string(filepath.Separator))
		}
		if !slices.ContainsFunc(dirs, under) {
			dirs = append(dirs, dir)
		}
	}

	slices.SortFunc(dirs, natcmp.Compare)
	return dirs, nil
}

// ReadAlbumDir reads the tags of every audio file directly in dir, in
// natural track order.
func ReadAlbumDir(dir string) ([]*tags.File, error) {
	paths, err := fileutil.GlobBase(dir, "*")
	if err != nil {
		return nil, fmt.Errorf("glob dir: %w", err)
	}
	slices.SortFunc(paths, natcmp.Compare)

	var files []*tags.File
	for _, path := range paths {
		if !tags.CanRead(path) {
			continue
		}
		file, err := tags.Read(path)
		if err != nil {
			return nil, fmt.Errorf("read track %s: %w", filepath.Base(path), err)
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return nil, ErrNoTracks
	}
	return files, nil
}

// Identity resolves the artist and album for an album directory: the first
// fully tagged track names it. An untagged album falls back to its
// "Artist - Album" directory name, split on the first " - ".
func Identity(dir string, files []*tags.File) (artist, album string) {
	for _, f := range files {
		if f.AnyArtist() != "" && f.Album != "" {
			return f.AnyArtist(), f.Album
		}
	}
	if a, b, ok := strings.Cut(filepath.Base(dir), " - "); ok {
		a, b = strings.TrimSpace(a), strings.TrimSpace(b)
		if a != "" && b != "" {
			return a, b
		}
	}
	return "", ""
}

// ProcessAlbum runs the pipeline for one album directory: read tags,
// organize, fetch lyrics, resolve cover art, run hooks. The returned result
// is usable for a summary line even when err != nil.
func ProcessAlbum(ctx context.Context, cfg *Config, root, dir string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := ReadAlbumDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	artist, album := Identity(dir, files)
	if artist == "" || album == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoIdentity, filepath.Base(dir))
	}

	result := &Result{Dir: dir, Artist: artist, Album: album}

	newDir, moves, err := organizeFiles(ctx, cfg, root, dir, artist, album, files)
	if err != nil {
		return result, fmt.Errorf("organize: %w", err)
	}
	result.Dir = newDir
	result.Moves = moves

	if cfg.DryRun {
		return result, nil
	}

	if cfg.Lyrics != nil {
		result.LyricsFiles = fetchLyrics(ctx, cfg, artist, files)
	}

	if cfg.Cover != nil {
		match, err := cfg.Cover.ResolveDir(ctx, newDir, artist, album)
		switch {
		case errors.Is(err, coverart.ErrCoverNotFound):
			cfg.logger().WarnContext(ctx, "no cover art found", "artist", artist, "album", album)
		case err != nil:
			return result, fmt.Errorf("resolve cover: %w", err)
		default:
			result.CoverSource = match.Source
		}
	}

	for _, h := range cfg.Hooks {
		if err := h.Run(ctx, newDir); err != nil {
			cfg.logger().WarnContext(ctx, "run album hook", "hook", h, "err", err)
		}
	}

	return result, nil
}

func fetchLyrics(ctx context.Context, cfg *Config, albumArtist string, files []*tags.File) int {
	var written int
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return written
		}
		if f.Title == "" {
			continue
		}
		base := strings.TrimSuffix(f.Path, filepath.Ext(f.Path))
		if exists(base+".lrc") || exists(base+".txt") {
			continue
		}

		// per track artist first, it can differ from the album's
		artist := cmp.Or(f.AnyArtist(), albumArtist)
		l, err := cfg.Lyrics.Search(ctx, artist, f.Title)
		if errors.Is(err, lyrics.ErrLyricsNotFound) {
			cfg.logger().InfoContext(ctx, "no lyrics found", "artist", artist, "title", f.Title)
			continue
		}
		if err != nil {
			cfg.logger().WarnContext(ctx, "search lyrics", "artist", artist, "title", f.Title, "err", err)
			continue
		}

		path := base + l.Ext()
		if err := os.WriteFile(path, []byte(l.Text()), 0o644); err != nil {
			cfg.logger().WarnContext(ctx, "write lyrics", "path", path, "err", err)
			continue
		}
		written++
	}
	return written
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
