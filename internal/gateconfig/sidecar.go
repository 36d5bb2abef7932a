package gateconfig

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/hallgate/hallgated/internal/fsutil"
	"github.com/hallgate/hallgated/internal/security"
)

// maxSidecarFileSize bounds how large a sidecar overlay file may be,
// mirroring the teacher's tuning-file size guard (§9).
const maxSidecarFileSize = 1 * 1024 * 1024

// LoadSidecarFile reads a JSON object of string keys/values from path and
// validates it is a plausible sidecar overlay file before returning it:
// a .json extension and a bounded file size. The returned map is meant
// to be passed to Overlay.
func LoadSidecarFile(path string) (map[string]string, error) {
	clean := filepath.Clean(path)
	if err := security.ValidateExportPath(clean); err != nil {
		return nil, fmt.Errorf("gateconfig: sidecar file path rejected: %w", err)
	}
	return LoadSidecarFileFS(fsutil.OSFileSystem{}, clean)
}

// LoadSidecarFileFS is LoadSidecarFile against an injected filesystem, so
// overlay resolution can be exercised with fsutil.MemoryFileSystem in tests
// without touching disk. It skips the on-disk path confinement check, since
// a memory filesystem has no real directory to confine paths within.
func LoadSidecarFileFS(fsys fsutil.FileSystem, path string) (map[string]string, error) {
	clean := filepath.Clean(path)
	if ext := filepath.Ext(clean); ext != ".json" {
		return nil, fmt.Errorf("gateconfig: sidecar file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("gateconfig: stat sidecar file: %w", err)
	}
	if info.Size() > maxSidecarFileSize {
		return nil, fmt.Errorf("gateconfig: sidecar file too large: %d bytes (max %d)", info.Size(), maxSidecarFileSize)
	}

	data, err := fsys.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("gateconfig: read sidecar file: %w", err)
	}

	var kv map[string]string
	if err := json.Unmarshal(data, &kv); err != nil {
		return nil, fmt.Errorf("gateconfig: parse sidecar file: %w", err)
	}
	return kv, nil
}

// ProfileByName resolves a named profile ("production", "bench",
// "bench_tolerant"). An empty name resolves to "production"; any other
// name returns an error rather than falling back to a default (§7).
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "production", "":
		return Production(), nil
	case "bench":
		return Bench(), nil
	case "bench_tolerant":
		return BenchTolerant(), nil
	default:
		return Profile{}, fmt.Errorf("gateconfig: unknown profile %q", name)
	}
}
