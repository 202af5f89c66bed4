package version

import (
	"strings"
	"testing"
)

// TestString verifies the version line starts with the version.
func TestString(t *testing.T) {
	if !strings.HasPrefix(String(), GetVersion()+" (") {
		t.Errorf("unexpected version line %q", String())
	}
}
