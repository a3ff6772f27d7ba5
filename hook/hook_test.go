package hook_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jevonlipsey/albumfixer/hook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := hook.New("")
	require.Error(t, err)

	_, err = hook.New(`cmd "unterminated`)
	require.Error(t, err)

	h, err := hook.New(`beet import -A <dir>`)
	require.NoError(t, err)
	assert.Equal(t, `hook ("beet" "import" "-A" "<dir>")`, h.String())
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h, err := hook.New(`sh -c 'echo ran > "$1/hook.out"' hook <dir>`)
	require.NoError(t, err)
	require.NoError(t, h.Run(context.Background(), dir))

	data, err := os.ReadFile(filepath.Join(dir, "hook.out"))
	require.NoError(t, err)
	assert.Equal(t, "ran\n", string(data))
}

func TestRunFails(t *testing.T) {
	t.Parallel()

	h, err := hook.New(`sh -c 'exit 4'`)
	require.NoError(t, err)
	require.Error(t, h.Run(context.Background(), t.TempDir()))
}
