package tui

import (
	"testing"
)

func TestValidateRequired(t *testing.T) {
	validate := validateRequired("project name")

	if err := validate("api"); err != nil {
		t.Errorf("validate(\"api\") = %v, want nil", err)
	}
	if err := validate(""); err == nil {
		t.Error("validate(\"\") expected error")
	}
	if err := validate("   "); err == nil {
		t.Error("validate(whitespace) expected error")
	}
}

func TestIsInteractive(t *testing.T) {
	// The result depends on how tests are run; just ensure the
	// function does not panic.
	_ = IsInteractive()
}

func TestShouldPrompt_DisabledInCI(t *testing.T) {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}

	for _, name := range ciVars {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, "true")

			if ShouldPrompt() {
				t.Errorf("ShouldPrompt() = true with %s set", name)
			}
		})
	}
}
