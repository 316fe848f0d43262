package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// local mock logger to avoid import cycle with testutil
type archiveTestLogger struct{}

func (m *archiveTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *archiveTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *archiveTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *archiveTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *archiveTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *archiveTestLogger) Close()                                                  {}

type failingCompressor struct{}

func (f *failingCompressor) Compress(_ []byte) ([]byte, error) {
	return nil, assert.AnError
}

func (f *failingCompressor) Decompress(_ []byte) ([]byte, error) {
	return nil, assert.AnError
}

func newTestArchive(t *testing.T) (ArchiverInterface, CompressorInterface, string) {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{
		Archive: structures.ArchiveConfig{
			Dir:           dir,
			FlushInterval: time.Minute,
		},
	}
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	a, err := NewArchive(conf, compressor, &archiveTestLogger{})
	require.NoError(t, err)
	return a, compressor, dir
}

func TestNewArchive_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	conf := &structures.Config{
		Archive: structures.ArchiveConfig{Dir: dir, FlushInterval: time.Minute},
	}
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)

	_, err = NewArchive(conf, compressor, &archiveTestLogger{})
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestArchive_AppendAndFlushWritesFile(t *testing.T) {
	a, compressor, dir := newTestArchive(t)

	a.Append("diary", []byte(`{"user_id":"u1"}`))
	a.Append("diary", []byte(`{"user_id":"u2"}`))
	require.NoError(t, a.Flush())

	raw, err := os.ReadFile(filepath.Join(dir, "diary.jsonl.zst"))
	require.NoError(t, err)

	decoded, err := compressor.Decompress(raw)
	require.NoError(t, err)
	assert.Equal(t, "{\"user_id\":\"u1\"}\n{\"user_id\":\"u2\"}\n", string(decoded))
}

func TestArchive_FlushPerStudy(t *testing.T) {
	a, _, dir := newTestArchive(t)

	a.Append("diary", []byte(`{"a":1}`))
	a.Append("reaction", []byte(`{"b":2}`))
	require.NoError(t, a.Flush())

	for _, name := range []string{"diary.jsonl.zst", "reaction.jsonl.zst"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestArchive_RepeatedFlushAppendsFrames(t *testing.T) {
	a, compressor, dir := newTestArchive(t)

	a.Append("diary", []byte("first"))
	require.NoError(t, a.Flush())
	a.Append("diary", []byte("second"))
	require.NoError(t, a.Flush())

	raw, err := os.ReadFile(filepath.Join(dir, "diary.jsonl.zst"))
	require.NoError(t, err)

	decoded, err := compressor.Decompress(raw)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(decoded))
}

func TestArchive_FlushWithNothingPending(t *testing.T) {
	a, _, dir := newTestArchive(t)

	require.NoError(t, a.Flush())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestArchive_CloseFlushesPending(t *testing.T) {
	a, compressor, dir := newTestArchive(t)

	a.Append("diary", []byte("last words"))
	require.NoError(t, a.Close())

	raw, err := os.ReadFile(filepath.Join(dir, "diary.jsonl.zst"))
	require.NoError(t, err)

	decoded, err := compressor.Decompress(raw)
	require.NoError(t, err)
	assert.Equal(t, "last words\n", string(decoded))
}

func TestArchive_CompressorFailureSurfaces(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{
		Archive: structures.ArchiveConfig{Dir: dir, FlushInterval: time.Minute},
	}
	a, err := NewArchive(conf, &failingCompressor{}, &archiveTestLogger{})
	require.NoError(t, err)

	a.Append("diary", []byte("doomed"))
	assert.Error(t, a.Flush())
}
