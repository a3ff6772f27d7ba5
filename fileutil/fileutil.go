package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rainycape/unidecode"
)

// Move renames src to dest, replacing dest if it exists. When the two paths
// sit on different filesystems the rename is done as a copy and delete.
func Move(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dest string) (err error) {
	srcf, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open src: %w", err)
	}
	defer srcf.Close()

	destf, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create dest: %w", err)
	}
	defer func() {
		err = errors.Join(err, destf.Close())
	}()

	if _, err := io.Copy(destf, srcf); err != nil {
		return fmt.Errorf("copy contents: %w", err)
	}
	return nil
}

func GlobEscape(path string) string {
	var r strings.Builder
	for _, c := range path {
		switch c {
		case '*', '?', '[':
			r.WriteRune('[')
			r.WriteRune(c)
			r.WriteRune(']')
		default:
			r.WriteRune(c)
		}
	}
	return r.String()
}

// GlobBase globs for pattern inside dir, without dir itself being
// interpreted as a pattern.
func GlobBase(dir, pattern string) ([]string, error) {
	return filepath.Glob(filepath.Join(GlobEscape(dir), pattern))
}

var safePathReplacer = strings.NewReplacer(
	"\x00", "",
	"/", " ",
	"\\", " ",
	":", "",
	"*", "",
	"?", "",
	`"`, "",
	"<", "",
	">", "",
	"|", "",
)

// SafePath renders a tag value usable as a single path element on common
// filesystems, including the FAT variants found on portable players.
func SafePath(path string) string {
	path = unidecode.Unidecode(path)
	path = safePathReplacer.Replace(path)
	path = strings.Join(strings.Fields(path), " ")
	path = strings.TrimRight(path, ". ")
	return path
}
