package version

import (
	"strings"
	"testing"
)

func TestString_Dirty(t *testing.T) {
	oldV, oldD := Version, Dirty
	defer func() { Version, Dirty = oldV, oldD }()

	Version, Dirty = "1.2.0", "true"
	if got := String(); got != "1.2.0-dirty" {
		t.Errorf("String() = %q", got)
	}

	Dirty = "false"
	if got := String(); got != "1.2.0" {
		t.Errorf("String() = %q", got)
	}
	if Get().Dirty {
		t.Error("Get().Dirty = true for clean build")
	}
}

func TestFull(t *testing.T) {
	out := Full()
	for _, want := range []string{"posbridge ", "Commit:", "Go version:", "OS/Arch:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Full() missing %q:\n%s", want, out)
		}
	}
}
