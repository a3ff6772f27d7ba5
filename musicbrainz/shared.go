package musicbrainz

import (
	"net/url"
	"strconv"
)

type StatusError int

func (se StatusError) Error() string {
	return strconv.Itoa(int(se))
}

func joinPath(base string, p ...string) string {
	r, _ := url.JoinPath(base, p...)
	return r
}
