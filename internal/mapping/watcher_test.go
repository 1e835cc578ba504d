package mapping

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherReportsExternalEditsOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeDoc(t, t.TempDir(), `{"fixed": {}, "custom": {}}`)
	store, err := Open(path, nil)
	require.NoError(t, err)

	var changes atomic.Int32
	w, err := NewWatcher(store, nil, func(string) { changes.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, store.Add(";x", "χ"))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, changes.Load(), "own saves must not be reported")

	require.NoError(t, os.WriteFile(path, []byte(`{"fixed": {"ext": "1"}, "custom": {}}`), 0o644))
	assert.Eventually(t, func() bool { return changes.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)

	w.Stop()
}

func TestWatcherStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeDoc(t, t.TempDir(), `{"fixed": {}, "custom": {}}`)
	store, err := Open(path, nil)
	require.NoError(t, err)

	w, err := NewWatcher(store, nil, nil)
	require.NoError(t, err)
	w.Shutdown()
}
