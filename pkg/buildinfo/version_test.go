package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: ", "commit: ", "built: "} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version == "" || info.Commit == "" || info.Date == "" {
		t.Errorf("Get() has empty fields: %+v", info)
	}
	if !strings.Contains(Template(), info.Version) {
		t.Errorf("Template() should contain version %q", info.Version)
	}
}
