package fingerprint

import (
	"errors"
	"testing"

	"github.com/lmmx/plcache/internal/callid"
)

var testID = callid.Identity{Namespace: "mod", Name: "f"}

func TestKeyDeterminism(t *testing.T) {
	t.Parallel()

	args := callid.Args{{Name: "n", Value: 5}}
	k1, err := Key(testID, args, nil)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	k2, err := Key(testID, args, nil)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if k1 != k2 {
		t.Errorf("Key() not deterministic: %q vs %q", k1, k2)
	}
	if len(k1) != 64 {
		t.Errorf("Key() length = %d, want 64", len(k1))
	}
}

func TestKeyArgumentSensitivity(t *testing.T) {
	t.Parallel()

	k1, err := Key(testID, callid.Args{{Name: "n", Value: 5}}, nil)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	k2, err := Key(testID, callid.Args{{Name: "n", Value: 6}}, nil)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if k1 == k2 {
		t.Error("different argument values produced the same key")
	}
}

func TestKeyIdentitySensitivity(t *testing.T) {
	t.Parallel()

	args := callid.Args{{Name: "n", Value: 5}}
	k1, err := Key(callid.Identity{Namespace: "mod", Name: "f"}, args, nil)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	k2, err := Key(callid.Identity{Namespace: "mod", Name: "g"}, args, nil)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if k1 == k2 {
		t.Error("different identities produced the same key")
	}
}

func TestKeyCustomIdent(t *testing.T) {
	t.Parallel()

	collapse := func(callid.Identity, callid.Args) (string, error) {
		return "constant", nil
	}
	k1, err := Key(testID, callid.Args{{Name: "n", Value: 5}}, collapse)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	k2, err := Key(testID, callid.Args{{Name: "n", Value: 6}}, collapse)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if k1 != k2 {
		t.Error("custom ident collapsing args should produce equal keys")
	}
}

func TestKeyCustomIdentError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Key(testID, nil, func(callid.Identity, callid.Args) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Key() error = %v, want %v", err, boom)
	}
}

func TestCanonicalForm(t *testing.T) {
	t.Parallel()

	got := Canonical(testID, callid.Args{{Name: "n", Value: 5}, {Name: "s", Value: "x"}})
	want := "v1:mod.f(n=5, s=x)"
	if got != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}
}
