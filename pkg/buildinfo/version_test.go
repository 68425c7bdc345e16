package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.Commit != Commit || info.Date != Date {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}

func TestTemplate(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if !strings.Contains(Template(), "version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.Contains(String(), "version: v1.2.3") {
		t.Errorf("String() = %q", String())
	}
}
