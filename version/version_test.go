package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBranch, origBuildTime, origGoVersion :=
		Version, GitCommit, GitBranch, BuildTime, GoVersion
	return func() {
		Version = origVersion
		GitCommit = origCommit
		GitBranch = origBranch
		BuildTime = origBuildTime
		GoVersion = origGoVersion
	}
}

func set(v, commit, branch, built, goVer string) {
	Version, GitCommit, GitBranch, BuildTime, GoVersion = v, commit, branch, built, goVer
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	set("dev", "", "", "", "")

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.Release {
		t.Error("dev should not be a release")
	}
	if info.BuildDate.IsZero() || info.BuildTime == "" {
		t.Error("expected a build date fallback")
	}
	if info.GoVersion == "" {
		t.Error("expected go version from build info")
	}
}

func TestGetWithLdflags(t *testing.T) {
	defer saveAndRestore()()
	set("1.0.0", "abc1234", "main", "2024-01-15T10:30:00Z", "go1.22.0")

	info := Get()
	if !info.Release {
		t.Error("1.0.0 should be a release")
	}
	if info.GitCommit != "abc1234" || info.GoVersion != "go1.22.0" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.BuildDate.Year() != 2024 {
		t.Errorf("expected build year 2024, got %d", info.BuildDate.Year())
	}
}

func TestDirtyVersionIsNotRelease(t *testing.T) {
	defer saveAndRestore()()
	set("1.0.0-dirty", "", "", "", "")
	if Get().Release {
		t.Error("dirty version should not be a release")
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"no commit", Info{Version: "dev"}, "dev"},
		{"commit", Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{"dirty", Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	defer saveAndRestore()()

	tests := []struct {
		name    string
		branch  string
		want    []string
		wantNot []string
	}{
		{"main branch hidden", "main", []string{"1.0.0", "abc1234", "built 2024-01-15"}, []string{"main"}},
		{"feature branch shown", "feature/radio", []string{"feature/radio"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set("1.0.0", "abc1234", tt.branch, "2024-01-15T10:30:00Z", "go1.22")
			fv := Full()
			for _, w := range tt.want {
				if !strings.Contains(fv, w) {
					t.Errorf("expected %q in %q", w, fv)
				}
			}
			for _, w := range tt.wantNot {
				if strings.Contains(fv, w) {
					t.Errorf("did not expect %q in %q", w, fv)
				}
			}
		})
	}
}

func TestShortCommit(t *testing.T) {
	if got := shortCommit("0123456789abcdef"); got != "0123456" {
		t.Errorf("expected 7 chars, got %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("expected unchanged, got %q", got)
	}
}

func TestFields(t *testing.T) {
	f := (&Info{Version: "1.2.3", Release: true}).Fields()
	if f["version"] != "1.2.3" || f["release"] != true {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestTemplate(t *testing.T) {
	if got := Template("recordd"); got != "recordd {{.Version}}\n" {
		t.Errorf("unexpected template %q", got)
	}
}
