package readpath

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmmx/plcache/internal/callid"
)

var testID = callid.Identity{Namespace: "mod", Name: "f"}

func TestBuildSplit(t *testing.T) {
	t.Parallel()

	cfg := Config{Root: "functions", Split: true, MaxValueLen: 50}
	got := Build(cfg, testID, callid.Args{{Name: "n", Value: 5}})
	want := filepath.Join("functions", "mod", "f", "n=5")
	if got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestBuildFlat(t *testing.T) {
	t.Parallel()

	cfg := Config{Root: "functions", Split: false, MaxValueLen: 50}
	got := Build(cfg, testID, callid.Args{{Name: "n", Value: 5}})
	want := filepath.Join("functions", "mod.f", "n=5")
	if got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestBuildIdempotent(t *testing.T) {
	t.Parallel()

	cfg := Config{Root: "functions", Split: true, MaxValueLen: 50}
	args := callid.Args{{Name: "a", Value: "x y"}, {Name: "b", Value: 2}}
	p1 := Build(cfg, testID, args)
	p2 := Build(cfg, testID, args)
	if p1 != p2 {
		t.Errorf("Build() not idempotent: %q vs %q", p1, p2)
	}
}

func TestBuildNoArgs(t *testing.T) {
	t.Parallel()

	cfg := Config{Root: "functions", Split: true}
	got := Build(cfg, testID, nil)
	if filepath.Base(got) != "no_args" {
		t.Errorf("Build() = %q, want no_args terminal segment", got)
	}
}

func TestEntryNameTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 80) + "///" + strings.Repeat("b", 40)
	got := EntryName(callid.Args{{Name: "s", Value: long}}, 10)

	// The first 10 raw characters survive; the rest of the value is gone.
	if want := "s=" + strings.Repeat("a", 10); got != want {
		t.Errorf("EntryName() = %q, want %q", got, want)
	}
}

func TestEntryNameTruncationCountsRunes(t *testing.T) {
	t.Parallel()

	// Truncation counts characters, not bytes: a multi-byte value keeps
	// whole runes and never ends on a partial encoding.
	got := EntryName(callid.Args{{Name: "s", Value: "日本語data"}, {Name: "n", Value: 12345}}, 4)
	if want := "s=%E6%97%A5%E6%9C%AC%E8%AA%9Ed_n=1234"; got != want {
		t.Errorf("EntryName() = %q, want %q", got, want)
	}
}

func TestEntryNameTruncationBeforeEncoding(t *testing.T) {
	t.Parallel()

	// Truncation applies to the raw value, so a value of N unsafe
	// characters still yields N escape sequences, not N bytes.
	got := EntryName(callid.Args{{Name: "s", Value: "/////"}}, 3)
	if want := "s=%2F%2F%2F"; got != want {
		t.Errorf("EntryName() = %q, want %q", got, want)
	}
}

func TestEntryNameSeparatorEscaped(t *testing.T) {
	t.Parallel()

	// A value containing the pair separator or '=' must not be able to
	// forge extra pairs.
	got := EntryName(callid.Args{{Name: "a", Value: "x_y=z"}, {Name: "b", Value: 1}}, 50)
	if want := "a=x%5Fy%3Dz_b=1"; got != want {
		t.Errorf("EntryName() = %q, want %q", got, want)
	}
	if strings.Count(got, "_") != 1 {
		t.Errorf("EntryName() = %q, want exactly one separator", got)
	}
}

func TestBuildEncodesPathSeparators(t *testing.T) {
	t.Parallel()

	cfg := Config{Root: "functions", Split: true, MaxValueLen: 50}
	id := callid.Identity{Namespace: "my/pkg", Name: "f"}
	got := Build(cfg, id, callid.Args{{Name: "p", Value: "../escape"}})

	// Neither the namespace nor the value may introduce path levels.
	segments := strings.Split(got, string(filepath.Separator))
	if want := 4; len(segments) != want {
		t.Errorf("Build() = %q, want %d segments", got, want)
	}
	for _, seg := range segments {
		if seg == ".." {
			t.Errorf("Build() = %q contains a dot-dot segment", got)
		}
	}
}

func TestBuildCustomEntryName(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Root:  "functions",
		Split: true,
		EntryName: func(id callid.Identity, args callid.Args) string {
			return "custom"
		},
	}
	got := Build(cfg, testID, callid.Args{{Name: "n", Value: 5}})
	if filepath.Base(got) != "custom" {
		t.Errorf("Build() = %q, want custom terminal segment", got)
	}
}
