package coverart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jevonlipsey/albumfixer/coverfind"
)

// CoverFilename is the file name portable players look for.
const CoverFilename = "folder.jpg"

// CorrectFunc supplies a corrected artist and album pair after the
// automatic search fails. Returning false skips art for the album.
type CorrectFunc func(artist, album string) (newArtist, newAlbum string, ok bool)

// Match records how a cover was resolved.
type Match struct {
	Source string // "local", "musicbrainz", "itunes"
	Artist string // the search pair that hit, empty for local art
	Album  string
	Path   string // the cover file in the album directory
}

// Resolver ensures album directories hold player-ready folder.jpg art.
type Resolver struct {
	Sources []Source
	Correct CorrectFunc // nil disables the manual correction state
	MaxSize int         // bounding box for the cover, 0 means 500
	Upgrade bool        // search even when the directory has usable art
	Logger  *slog.Logger
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Resolver) maxSize() int {
	if r.MaxSize > 0 {
		return r.MaxSize
	}
	return 500
}

// ResolveDir finds cover art for the album in dir and leaves it at
// dir/folder.jpg, converted for the player. Local art short circuits the
// remote sources unless the resolver upgrades. Nothing found anywhere,
// correction included, is [ErrCoverNotFound].
func (r *Resolver) ResolveDir(ctx context.Context, dir, artist, album string) (*Match, error) {
	if !r.Upgrade {
		match, err := r.resolveLocal(ctx, dir)
		if err != nil {
			return nil, err
		}
		if match != nil {
			return match, nil
		}
	}

	if match, err := r.resolveRemote(ctx, dir, artist, album); match != nil || err != nil {
		return match, err
	}

	if r.Correct != nil {
		newArtist, newAlbum, ok := r.Correct(artist, album)
		if ok && newAlbum != "" {
			if match, err := r.resolveRemote(ctx, dir, newArtist, newAlbum); match != nil || err != nil {
				return match, err
			}
		}
	}
	return nil, ErrCoverNotFound
}

func (r *Resolver) resolveLocal(ctx context.Context, dir string) (*Match, error) {
	src, err := coverfind.Best(dir)
	if err != nil {
		return nil, fmt.Errorf("scan for local art: %w", err)
	}
	if src == "" {
		return nil, nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("read local art: %w", err)
	}

	path := filepath.Join(dir, CoverFilename)
	if filepath.Base(src) == CoverFilename && !NeedsConvert(data, r.maxSize()) {
		r.logger().DebugContext(ctx, "local art already converted", "path", path)
		return &Match{Source: "local", Path: path}, nil
	}

	converted, err := Convert(data, r.maxSize())
	if err != nil {
		// unreadable image, treat like a miss and let the sources try
		r.logger().WarnContext(ctx, "unreadable local art", "path", src, "err", err)
		return nil, nil
	}
	if err := os.WriteFile(path, converted, 0o644); err != nil {
		return nil, fmt.Errorf("write cover: %w", err)
	}
	if filepath.Base(src) != CoverFilename {
		if err := os.Remove(src); err != nil {
			r.logger().WarnContext(ctx, "remove source art", "path", src, "err", err)
		}
	}
	r.logger().InfoContext(ctx, "converted local art", "from", filepath.Base(src))
	return &Match{Source: "local", Path: path}, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, dir, artist, album string) (*Match, error) {
	albumQueries := []string{BaseAlbumName(album)}
	if album != albumQueries[0] {
		albumQueries = append(albumQueries, album)
	}

	for _, albumQuery := range albumQueries {
		for _, src := range r.Sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			cover, err := src.Search(ctx, artist, albumQuery)
			if errors.Is(err, ErrCoverNotFound) {
				r.logger().DebugContext(ctx, "no cover", "source", src, "artist", artist, "album", albumQuery)
				continue
			}
			if err != nil {
				// provider trouble falls through like a miss
				r.logger().WarnContext(ctx, "source error", "source", src, "err", err)
				continue
			}

			converted, err := Convert(cover, r.maxSize())
			if err != nil {
				// so does an image we can't decode
				r.logger().WarnContext(ctx, "undecodable cover", "source", src, "err", err)
				continue
			}
			path := filepath.Join(dir, CoverFilename)
			if err := os.WriteFile(path, converted, 0o644); err != nil {
				return nil, fmt.Errorf("write cover: %w", err)
			}
			r.logger().InfoContext(ctx, "found cover", "source", src, "artist", artist, "album", albumQuery)
			return &Match{Source: fmt.Sprint(src), Artist: artist, Album: albumQuery, Path: path}, nil
		}
	}
	return nil, nil
}
