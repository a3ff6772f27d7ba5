// Package albumfixerflag defines the flag surface of the albumfixer binary
// and the parsers behind its structured flags.
package albumfixerflag

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.senan.xyz/flagconf"

	"github.com/jevonlipsey/albumfixer"
	"github.com/jevonlipsey/albumfixer/coverart"
	"github.com/jevonlipsey/albumfixer/hook"
	"github.com/jevonlipsey/albumfixer/lyrics"
	"github.com/jevonlipsey/albumfixer/musicbrainz"
	"github.com/jevonlipsey/albumfixer/notifications"
	"github.com/jevonlipsey/albumfixer/pathformat"
	"github.com/jevonlipsey/albumfixer/researchlink"
)

func UserAgent() string {
	return fmt.Sprintf(`%s/%s ( https://github.com/jevonlipsey/albumfixer )`, albumfixer.Name, albumfixer.Version)
}

func Parse() {
	userConfig, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}

	defaultConfigPath := filepath.Join(userConfig, albumfixer.Name, "config")
	configPath := flag.String("config-path", defaultConfigPath, "Path to config file")

	printVersion := flag.Bool("version", false, "Print the version and exit")
	printConfig := flag.Bool("config", false, "Print the parsed config and exit")

	flag.Parse()
	flagconf.ReadEnvPrefix = func(_ *flag.FlagSet) string { return albumfixer.Name }
	flagconf.ParseEnv()
	flagconf.ParseConfig(*configPath)

	if *printVersion {
		fmt.Printf("%s %s\n", flag.CommandLine.Name(), albumfixer.Version)
		os.Exit(0)
	}
	if *printConfig {
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("%-16s %s\n", f.Name, f.Value)
		})
		os.Exit(0)
	}
}

func Config() *albumfixer.Config {
	var cfg albumfixer.Config

	pf := &pathFormatParser{Format: &cfg.PathFormat}
	if err := pf.Set(pathformat.DefaultFormat); err != nil {
		panic(err)
	}
	flag.Var(pf, "path-format", "Track path format relative to the root dir (see [Path format](#path-format))")

	flag.BoolVar(&cfg.DryRun, "dry-run", false, "Log planned renames and moves without modifying anything")

	return &cfg
}

// Providers holds one configured client per remote service.
type Providers struct {
	MusicBrainz     musicbrainz.MBClient
	CoverArtArchive musicbrainz.CAAClient
	ITunes          coverart.ITunes
	LRCLib          lyrics.LRCLib
	Genius          lyrics.Genius
}

func Clients() *Providers {
	var p Providers
	p.MusicBrainz.UserAgent = UserAgent()
	p.CoverArtArchive.UserAgent = UserAgent()
	p.ITunes.UserAgent = UserAgent()
	p.LRCLib.UserAgent = UserAgent()
	p.Genius.UserAgent = UserAgent()

	flag.StringVar(&p.MusicBrainz.BaseURL, "mb-base-url", `https://musicbrainz.org/ws/2/`, "MusicBrainz base URL")
	flag.DurationVar(&p.MusicBrainz.RateLimit, "mb-rate-limit", 1*time.Second, "MusicBrainz rate limit duration")

	flag.StringVar(&p.CoverArtArchive.BaseURL, "caa-base-url", `https://coverartarchive.org/`, "CoverArtArchive base URL")
	flag.DurationVar(&p.CoverArtArchive.RateLimit, "caa-rate-limit", 0, "CoverArtArchive rate limit duration")

	flag.StringVar(&p.ITunes.BaseURL, "itunes-base-url", `https://itunes.apple.com`, "iTunes search base URL")
	flag.DurationVar(&p.ITunes.RateLimit, "itunes-rate-limit", 0, "iTunes rate limit duration")

	flag.StringVar(&p.LRCLib.BaseURL, "lrclib-base-url", `https://lrclib.net`, "LRCLib base URL")
	flag.DurationVar(&p.LRCLib.RateLimit, "lrclib-rate-limit", 0, "LRCLib rate limit duration")

	flag.StringVar(&p.Genius.BaseURL, "genius-base-url", `https://genius.com`, "Genius base URL")
	flag.DurationVar(&p.Genius.RateLimit, "genius-rate-limit", 1*time.Second, "Genius rate limit duration")

	return &p
}

// Sources registers an ordered provider list flag, eg. "lrclib,genius".
func Sources(name, usage string, def []string, known ...string) *[]string {
	names := slices.Clone(def)
	flag.Var(&sourcesParser{names: &names, known: known}, name, usage)
	return &names
}

func Notifications() *notifications.Notifications {
	var n notifications.Notifications
	flag.Var(&notificationsParser{&n}, "notification-uri", "Add a shoutrrr notification URI for an event (see [Notifications](#notifications)) (stackable)")
	return &n
}

func ResearchLinks() *researchlink.Builder {
	var r researchlink.Builder
	flag.Var(&researchLinkParser{&r}, "research-link", "Define a helper URL to help find information about an unmatched album (stackable)")
	return &r
}

func Hooks() *[]hook.Hook {
	var hooks []hook.Hook
	flag.Var(&hooksParser{&hooks}, "album-hook", `Command to run after each fixed album, a "<dir>" argument is replaced with the album dir (stackable)`)
	return &hooks
}

var _ flag.Value = (*pathFormatParser)(nil)
var _ flag.Value = (*sourcesParser)(nil)
var _ flag.Value = (*notificationsParser)(nil)
var _ flag.Value = (*researchLinkParser)(nil)
var _ flag.Value = (*hooksParser)(nil)

type pathFormatParser struct {
	*pathformat.Format
	raw string
}

func (pf *pathFormatParser) Set(value string) error {
	if err := pf.Parse(value); err != nil {
		return err
	}
	pf.raw = value
	return nil
}
func (pf *pathFormatParser) String() string {
	return pf.raw
}

type sourcesParser struct {
	names *[]string
	known []string
}

func (s *sourcesParser) Set(value string) error {
	var names []string
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if !slices.Contains(s.known, name) {
			return fmt.Errorf("unknown source %q, have %v", name, s.known)
		}
		names = append(names, name)
	}
	*s.names = names
	return nil
}
func (s sourcesParser) String() string {
	if s.names == nil {
		return ""
	}
	return strings.Join(*s.names, ",")
}

type notificationsParser struct{ *notifications.Notifications }

func (n *notificationsParser) Set(value string) error {
	eventsRaw, uri, ok := strings.Cut(value, " ")
	if !ok {
		return fmt.Errorf("invalid notification uri format. expected eg \"ev1,ev2 uri\"")
	}
	var lineErrs []error
	for _, ev := range strings.Split(eventsRaw, ",") {
		ev, uri = strings.TrimSpace(ev), strings.TrimSpace(uri)
		err := n.AddURI(notifications.Event(ev), uri)
		lineErrs = append(lineErrs, err)
	}
	return errors.Join(lineErrs...)
}
func (n notificationsParser) String() string {
	if n.Notifications == nil {
		return ""
	}
	var parts []string
	n.Notifications.IterMappings(func(e notifications.Event, uri string) {
		url, _ := url.Parse(uri)
		parts = append(parts, fmt.Sprintf("%s: %s://%s/...", e, url.Scheme, url.Host))
	})
	return strings.Join(parts, ", ")
}

type researchLinkParser struct{ *researchlink.Builder }

func (r *researchLinkParser) Set(value string) error {
	name, value, _ := strings.Cut(value, " ")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	err := r.AddSource(name, value)
	return err
}
func (r researchLinkParser) String() string {
	if r.Builder == nil {
		return ""
	}
	var names []string
	for s := range r.Builder.IterSources() {
		names = append(names, s)
	}
	return strings.Join(names, ", ")
}

type hooksParser struct{ hooks *[]hook.Hook }

func (h *hooksParser) Set(value string) error {
	hk, err := hook.New(value)
	if err != nil {
		return err
	}
	*h.hooks = append(*h.hooks, hk)
	return nil
}
func (h hooksParser) String() string {
	if h.hooks == nil {
		return ""
	}
	var parts []string
	for _, hk := range *h.hooks {
		parts = append(parts, fmt.Sprint(hk))
	}
	return strings.Join(parts, ", ")
}
