package notifications_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jevonlipsey/albumfixer/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddURI(t *testing.T) {
	t.Parallel()

	var n notifications.Notifications
	require.ErrorIs(t, n.AddURI("reticulate", "ntfy://host/topic"), notifications.ErrUnknownEvent)
	require.ErrorIs(t, n.AddURI(notifications.Complete, "://nope"), notifications.ErrInvalidURI)
	require.ErrorIs(t, n.AddURI(notifications.Complete, "no scheme at all"), notifications.ErrInvalidURI)

	require.NoError(t, n.AddURI(notifications.Complete, "ntfy://host/topic"))
	require.NoError(t, n.AddURI(notifications.Complete, "generic://example.com/hook"))
	require.NoError(t, n.AddURI(notifications.NeedsInput, "ntfy://host/other"))

	got := map[notifications.Event][]string{}
	n.IterMappings(func(event notifications.Event, uri string) {
		got[event] = append(got[event], uri)
	})
	assert.Equal(t, map[notifications.Event][]string{
		notifications.Complete:   {"ntfy://host/topic", "generic://example.com/hook"},
		notifications.NeedsInput: {"ntfy://host/other"},
	}, got)
}

func TestSend(t *testing.T) {
	t.Parallel()

	var gotBody atomic.Pointer[string]
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s := string(body)
		gotBody.Store(&s)
	}))
	defer srv.Close()

	var n notifications.Notifications
	host := strings.TrimPrefix(srv.URL, "http://")
	require.NoError(t, n.AddURI(notifications.Complete, fmt.Sprintf("generic://%s/hook?disabletls=yes", host)))

	n.Sendf(context.Background(), notifications.Complete, "fixed %d albums", 3)

	body := gotBody.Load()
	require.NotNil(t, body)
	assert.Contains(t, *body, "fixed 3 albums")
}

func TestSendNoMapping(t *testing.T) {
	t.Parallel()

	// nothing subscribed, nothing to do
	var n notifications.Notifications
	n.Send(context.Background(), notifications.Complete, "hello")
}
