package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.senan.xyz/table/table"

	"github.com/jevonlipsey/albumfixer"
	"github.com/jevonlipsey/albumfixer/cmd/internal/albumfixerflag"
	"github.com/jevonlipsey/albumfixer/cmd/internal/logging"
	"github.com/jevonlipsey/albumfixer/coverart"
	"github.com/jevonlipsey/albumfixer/lyrics"
	"github.com/jevonlipsey/albumfixer/notifications"
	"github.com/jevonlipsey/albumfixer/researchlink"
)

func init() {
	flag := flag.CommandLine
	flag.Usage = func() {
		fmt.Fprintf(flag.Output(), "Usage:\n")
		fmt.Fprintf(flag.Output(), "  $ %s [<options>]\n", flag.Name())
		fmt.Fprintf(flag.Output(), "\n")
		fmt.Fprintf(flag.Output(), "Fix up albums under a root music folder for portable players. Tracks\n")
		fmt.Fprintf(flag.Output(), "are renamed to \"NN - Title\", filed under Artist/Album, and lyrics and\n")
		fmt.Fprintf(flag.Output(), "cover art are fetched for them.\n")
		fmt.Fprintf(flag.Output(), "\n")
		fmt.Fprintf(flag.Output(), "Options:\n")
		flag.PrintDefaults()
	}
}

var dmp = diffmatchpatch.New()

func main() {
	defer logging.Logging()()
	var (
		cfg        = albumfixerflag.Config()
		providers  = albumfixerflag.Clients()
		notifs     = albumfixerflag.Notifications()
		researcher = albumfixerflag.ResearchLinks()
		hooks      = albumfixerflag.Hooks()
		lyricOrder = albumfixerflag.Sources("lyrics", "Ordered lyric sources to search", []string{"lrclib"}, "lrclib", "genius")
		artOrder   = albumfixerflag.Sources("art-source", "Ordered cover art sources to search", []string{"musicbrainz", "itunes"}, "musicbrainz", "itunes")

		noInput      = flag.Bool("no-input", false, "Never prompt, fail or skip instead")
		coverSize    = flag.Int("cover-size", 500, "Max cover art dimension in pixels")
		coverUpgrade = flag.Bool("cover-upgrade", false, "Fetch new cover art even if it exists locally")
	)
	var folder string
	flag.StringVar(&folder, "f", "", "Root music folder to fix")
	flag.StringVar(&folder, "folder", "", "Root music folder to fix (same as -f)")
	var logToFile bool
	flag.BoolVar(&logToFile, "l", false, "Also write the run log to a timestamped file in the root folder")
	flag.BoolVar(&logToFile, "log", false, "Also write the run log to a timestamped file in the root folder (same as -l)")
	albumfixerflag.Parse()

	if folder == "" && !*noInput {
		err := survey.AskOne(&survey.Input{Message: "Root music folder to fix"}, &folder, survey.WithValidator(survey.Required))
		if err != nil {
			slog.Error("ask for root folder", "err", err)
			return
		}
	}
	if folder == "" {
		slog.Error("no root folder given, see -f")
		return
	}

	root, err := filepath.Abs(folder)
	if err != nil {
		slog.Error("make root folder absolute", "err", err)
		return
	}

	if logToFile {
		logName := fmt.Sprintf("%s_%s.log", albumfixer.Name, time.Now().Format("20060102_150405"))
		if err := logging.TeeFile(filepath.Join(root, logName)); err != nil {
			slog.Error("tee log to file", "err", err)
			return
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg.Lyrics = lyricSources(providers, *lyricOrder)
	cfg.Cover = &coverart.Resolver{
		Sources: artSources(providers, *artOrder),
		MaxSize: *coverSize,
		Upgrade: *coverUpgrade,
	}
	if !*noInput {
		cfg.Cover.Correct = func(artist, album string) (string, string, bool) {
			notifs.Sendf(ctx, notifications.NeedsInput, "no cover art found for %q by %q", album, artist)
			printResearchLinks(researcher, artist, album)
			return askCorrection(artist, album)
		}
	}
	cfg.Hooks = *hooks

	dirs, err := albumfixer.FindAlbumDirs(root)
	if err != nil {
		slog.Error("find album dirs", "err", err)
		return
	}
	if len(dirs) == 0 {
		slog.InfoContext(ctx, "no album dirs found", "root", root)
		return
	}

	start := time.Now()
	out := logging.Writer()

	t := table.NewStringWriter()
	fmt.Fprintf(t, "status\talbum dir\tidentity\tcover\tlyrics\tmoves\n")

	var doneN, errN int
	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}

		r, err := albumfixer.ProcessAlbum(ctx, cfg, root, dir)
		if err != nil {
			slog.ErrorContext(ctx, "processing album dir", "dir", dir, "err", err)
			errN++
			fmt.Fprintf(t, "error\t%s\t\t\t\t\n", relRoot(root, dir))
			continue
		}
		doneN++

		for _, m := range r.Moves {
			fmt.Fprintf(out, "%s\n", fmtMove(root, m))
		}

		status := "fixed"
		if cfg.DryRun {
			status = "planned"
		}
		fmt.Fprintf(t, "%s\t%s\t%s - %s\t%s\t%d\t%d\n",
			status, relRoot(root, r.Dir), r.Artist, r.Album, r.CoverSource, r.LyricsFiles, len(r.Moves))
	}

	for _, row := range strings.Split(strings.TrimRight(t.String(), "\n"), "\n") {
		fmt.Fprintln(out, row)
	}

	slog := slog.With("took", time.Since(start).Truncate(time.Millisecond), "albums", doneN, "errs", errN)
	if errN > 0 {
		notifs.Sendf(ctx, notifications.Error, "run finished with %d errors", errN)
		slog.Error("run finished with errors")
		return
	}
	notifs.Sendf(ctx, notifications.Complete, "fixed %d albums", doneN)
	slog.Info("run finished")
}

func lyricSources(p *albumfixerflag.Providers, order []string) lyrics.Source {
	var chain lyrics.ChainSource
	for _, name := range order {
		switch name {
		case "lrclib":
			chain = append(chain, &p.LRCLib)
		case "genius":
			chain = append(chain, &p.Genius)
		}
	}
	return chain
}

func artSources(p *albumfixerflag.Providers, order []string) []coverart.Source {
	var sources []coverart.Source
	for _, name := range order {
		switch name {
		case "musicbrainz":
			sources = append(sources, &coverart.MusicBrainz{MB: &p.MusicBrainz, CAA: &p.CoverArtArchive})
		case "itunes":
			sources = append(sources, &p.ITunes)
		}
	}
	return sources
}

func relRoot(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func fmtMove(root string, m albumfixer.Move) string {
	from, to := relRoot(root, m.From), relRoot(root, m.To)
	return dmp.DiffPrettyText(dmp.DiffMain(from, to, false))
}

func printResearchLinks(b *researchlink.Builder, artist, album string) {
	results, err := b.Build(researchlink.Query{Artist: artist, Album: album})
	if err != nil {
		slog.Warn("build research links", "err", err)
	}
	for _, res := range results {
		fmt.Fprintf(logging.Writer(), "%s: %s\n", res.Name, res.URL)
	}
}

func askCorrection(artist, album string) (string, string, bool) {
	var choice int
	err := survey.AskOne(&survey.Select{
		Message: fmt.Sprintf("No cover art found for %q by %q", album, artist),
		Options: []string{"search again with a corrected name", "skip cover art"},
	}, &choice)
	if err != nil || choice != 0 {
		return "", "", false
	}

	newArtist := artist
	if err := survey.AskOne(&survey.Input{Message: "Artist", Default: artist}, &newArtist); err != nil {
		return "", "", false
	}
	var newAlbum string
	err = survey.AskOne(&survey.Input{Message: "Album"}, &newAlbum, survey.WithValidator(survey.Required))
	if err != nil {
		return "", "", false
	}
	return newArtist, newAlbum, true
}
