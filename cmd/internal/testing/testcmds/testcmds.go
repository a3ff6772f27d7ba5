// Package testcmds holds the helper commands and canned provider responses
// the cmd testscripts run against.
package testcmds

import (
	"embed"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
)

//go:embed testdata/responses
var responses embed.FS

// RegisterTransport points every provider client at the embedded canned
// responses, served over the file protocol.
func RegisterTransport() {
	var t http.Transport
	t.RegisterProtocol("file", http.NewFileTransportFS(responses))

	os.Setenv("ALBUMFIXER_MB_BASE_URL", "file:///testdata/responses/musicbrainz/ws/2")
	os.Setenv("ALBUMFIXER_MB_RATE_LIMIT", "0")
	os.Setenv("ALBUMFIXER_CAA_BASE_URL", "file:///testdata/responses/coverartarchive")
	os.Setenv("ALBUMFIXER_CAA_RATE_LIMIT", "0")
	os.Setenv("ALBUMFIXER_ITUNES_BASE_URL", "file:///testdata/responses/itunes")
	os.Setenv("ALBUMFIXER_ITUNES_RATE_LIMIT", "0")
	os.Setenv("ALBUMFIXER_LRCLIB_BASE_URL", "file:///testdata/responses/lrclib")
	os.Setenv("ALBUMFIXER_LRCLIB_RATE_LIMIT", "0")
	os.Setenv("ALBUMFIXER_GENIUS_BASE_URL", "file:///testdata/responses/genius")
	os.Setenv("ALBUMFIXER_GENIUS_RATE_LIMIT", "0")

	http.DefaultTransport = &t
}

// Tag writes an mp3 file holding an ID3v2 header with the given tags.
func Tag() {
	artist := flag.String("artist", "", "")
	album := flag.String("album", "", "")
	title := flag.String("title", "", "")
	track := flag.Int("track", 0, "")
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		log.Fatalf("no path given")
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		log.Fatalf("make parents: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create file: %v", err)
	}
	defer f.Close()

	tag := id3v2.NewEmptyTag()
	if *artist != "" {
		tag.SetArtist(*artist)
	}
	if *album != "" {
		tag.SetAlbum(*album)
	}
	if *title != "" {
		tag.SetTitle(*title)
	}
	if *track > 0 {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(*track))
	}
	if _, err := tag.WriteTo(f); err != nil {
		log.Fatalf("write tag: %v", err)
	}
}

// Img writes a white size x size PNG, for local art fixtures.
func Img() {
	size := flag.Int("size", 600, "")
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		log.Fatalf("no path given")
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		log.Fatalf("make parents: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create file: %v", err)
	}
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, *size, *size))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("encode png: %v", err)
	}
}

func Find() {
	maxDepth := flag.Int("max-depth", -1, "")
	flag.Parse()

	paths := flag.Args()
	sort.Strings(paths)

	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			path = filepath.Clean(path)
			if *maxDepth != -1 && strings.Count(path, string(filepath.Separator)) > *maxDepth {
				return nil
			}
			fmt.Println(path)
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
	}
}

func Touch() {
	flag.Parse()

	for _, p := range flag.Args() {
		if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
			log.Fatalf("mkdirall: %v", err)
		}
		if _, err := os.Create(p); err != nil {
			log.Fatalf("err creating: %v", err)
		}
	}
}

func MIME() {
	flag.Parse()

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("error reading: %v", err)
	}

	mime := http.DetectContentType(data)
	fmt.Println(mime)
}
