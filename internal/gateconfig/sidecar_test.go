package gateconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hallgate/hallgated/internal/fsutil"
)

func TestLoadSidecarFile_ParsesJSONKeyValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cycles_per_rot": "36", "rpm_move_thresh": "2.5"}`), 0o644))

	kv, err := LoadSidecarFile(path)
	require.NoError(t, err)
	require.Equal(t, "36", kv["cycles_per_rot"])
	require.Equal(t, "2.5", kv["rpm_move_thresh"])
}

func TestLoadSidecarFile_RejectsNonJSONExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	_, err := LoadSidecarFile(path)
	require.Error(t, err)
}

func TestLoadSidecarFileFS_ReadsFromMemoryFilesystem(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fsys.WriteFile("/overlay.json", []byte(`{"cycles_per_rot": "24"}`), 0o644))

	kv, err := LoadSidecarFileFS(fsys, "/overlay.json")
	require.NoError(t, err)
	require.Equal(t, "24", kv["cycles_per_rot"])

	_, err = LoadSidecarFileFS(fsys, "/missing.json")
	require.Error(t, err)
}

func TestProfileByName_ResolvesKnownNames(t *testing.T) {
	p, err := ProfileByName("bench")
	require.NoError(t, err)
	require.Equal(t, "bench", p.Name)

	_, err = ProfileByName("not-a-profile")
	require.Error(t, err)
}
