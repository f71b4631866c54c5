package ux

import "os"

// IsTerminal reports whether f is attached to a character device
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// IsCI reports whether a CI environment is detected
func IsCI() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
	}
	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// ShouldColor decides whether text output gets styled. Styling is off
// with --no-color, with NO_COLOR set, in CI, and when stdout is not a
// terminal.
func ShouldColor(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if IsCI() {
		return false
	}
	return IsTerminal(os.Stdout)
}
