package ux

import (
	"os"
	"path/filepath"
	"testing"
)

// clearCIEnv blanks every CI marker for the duration of the test
func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, envVar := range []string{
		"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL",
		"TRAVIS", "CIRCLECI", "BUILDKITE", "NO_COLOR",
	} {
		t.Setenv(envVar, "")
	}
}

func TestIsCI(t *testing.T) {
	clearCIEnv(t)
	if IsCI() {
		t.Error("IsCI() = true with no CI env set")
	}

	t.Setenv("GITHUB_ACTIONS", "true")
	if !IsCI() {
		t.Error("IsCI() = false with GITHUB_ACTIONS set")
	}
}

func TestIsTerminal_RegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Error("IsTerminal() = true for a regular file")
	}
}

func TestShouldColor(t *testing.T) {
	clearCIEnv(t)

	if ShouldColor(true) {
		t.Error("ShouldColor(true) = true, --no-color must win")
	}

	t.Setenv("NO_COLOR", "1")
	if ShouldColor(false) {
		t.Error("ShouldColor() = true with NO_COLOR set")
	}
	t.Setenv("NO_COLOR", "")

	t.Setenv("CI", "true")
	if ShouldColor(false) {
		t.Error("ShouldColor() = true in CI")
	}
}
