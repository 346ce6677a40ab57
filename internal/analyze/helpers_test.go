package analyze

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func init() {
	httpSleepFunc = func(time.Duration) {}
}

// pngHeader is enough for content sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
