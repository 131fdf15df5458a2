package barcodemap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barcodes.yaml")
	writeFile(t, path, "barcodes:\n  PANEL-9: \"123\"\n  DESK-01: ' DSK01 '\n")

	m, err := Load(path)
	require.NoError(t, err)

	b, ok := m.Expected("PANEL-9")
	assert.True(t, ok)
	assert.Equal(t, "123", b)
	b, _ = m.Expected("DESK-01")
	assert.Equal(t, "DSK01", b)
	_, ok = m.Expected("NOPE")
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"malformed":     "barcodes: [",
		"empty barcode": "barcodes:\n  PANEL-9: \"\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			writeFile(t, path, body)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestReload_KeepsTableOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barcodes.yaml")
	writeFile(t, path, "barcodes:\n  PANEL-9: \"123\"\n")
	m, err := Load(path)
	require.NoError(t, err)

	writeFile(t, path, "barcodes: [")
	require.Error(t, m.Reload())

	b, ok := m.Expected("PANEL-9")
	assert.True(t, ok)
	assert.Equal(t, "123", b)
}

func TestWatch_HotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barcodes.yaml")
	writeFile(t, path, "barcodes:\n  PANEL-9: \"123\"\n")
	m, err := Load(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx, logger.New(&config.Config{LogLevel: "error"}), ready) }()
	<-ready

	writeFile(t, path, "barcodes:\n  PANEL-9: \"456\"\n  BOLT-7: \"777\"\n")

	require.Eventually(t, func() bool {
		b, _ := m.Expected("PANEL-9")
		return b == "456" && m.Len() == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
