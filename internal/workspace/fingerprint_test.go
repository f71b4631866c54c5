package workspace

import (
	"encoding/json"
	"strings"
	"testing"
)

func fingerprintFixture() *Manifest {
	return &Manifest{
		Workspace:   "acme",
		DefaultTask: "build",
		Tools: map[string]string{
			"go":  "/usr/local/go/bin/go",
			"tar": "/usr/bin/tar",
		},
		Artifacts: Artifacts{Dir: "artifacts", Version: "1.2.0"},
		Projects: []Project{
			{Name: "core", Path: "src/core", Category: CategoryLibrary},
			{Name: "cli", Path: "src/cli", Category: CategoryApp,
				Commands: map[string][]string{StageTest: {"./check.sh"}, StageBuild: {"make"}}},
		},
	}
}

func TestCanonicalize(t *testing.T) {
	canonical, err := Canonicalize(fingerprintFixture())
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}
	if len(canonical) == 0 {
		t.Fatal("Canonicalize() returned empty bytes")
	}
	if !json.Valid(canonical) {
		t.Error("Canonicalize() output is not valid JSON")
	}
}

func TestCanonicalize_OmitsEmptySections(t *testing.T) {
	m := &Manifest{
		Workspace:   "bare",
		DefaultTask: "build",
		Projects: []Project{
			{Name: "core", Path: "core", Category: CategoryLibrary},
		},
	}

	canonical, err := Canonicalize(m)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}

	out := string(canonical)
	for _, key := range []string{"tools", "artifacts", "publish", "skip", "commands", "packable"} {
		if strings.Contains(out, `"`+key+`"`) {
			t.Errorf("canonical output contains %q for a manifest without it: %s", key, out)
		}
	}
}

func TestFingerprint(t *testing.T) {
	fp, err := Fingerprint(fingerprintFixture())
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}

	if len(fp) != 64 { // blake3 produces 32 bytes = 64 hex chars
		t.Errorf("Fingerprint() length = %d, want 64", len(fp))
	}
	if strings.ToLower(fp) != fp {
		t.Errorf("Fingerprint() not lowercase hex: %s", fp)
	}
}

func TestFingerprintStability(t *testing.T) {
	// Maps iterate in random order, so repeated hashing exercises the
	// key sorting in Canonicalize
	first, err := Fingerprint(fingerprintFixture())
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		fp, err := Fingerprint(fingerprintFixture())
		if err != nil {
			t.Fatalf("Fingerprint() error = %v", err)
		}
		if fp != first {
			t.Fatalf("Fingerprint() not deterministic: %s != %s", fp, first)
		}
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	base, err := Fingerprint(fingerprintFixture())
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}

	changed := fingerprintFixture()
	changed.Projects[0].Skip = []string{StageCover}

	other, err := Fingerprint(changed)
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}

	if base == other {
		t.Error("Fingerprint() identical for different manifests")
	}
}
