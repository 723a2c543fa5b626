package cli

import (
	"strings"
	"testing"
)

func TestCmdCompletion_NoArgs_ReturnsError(t *testing.T) {
	captureOutput(t)
	exitCode := cmdCompletion([]string{})
	if exitCode != 2 {
		t.Errorf("cmdCompletion([]) = %d, want 2", exitCode)
	}
}

func TestCmdCompletion_KnownShells_Succeed(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			captureOutput(t)
			exitCode := cmdCompletion([]string{shell})
			if exitCode != 0 {
				t.Errorf("cmdCompletion([%s]) = %d, want 0", shell, exitCode)
			}
		})
	}
}

func TestCmdCompletion_UnknownShell_ReturnsError(t *testing.T) {
	captureOutput(t)
	exitCode := cmdCompletion([]string{"powershell"})
	if exitCode != 2 {
		t.Errorf("cmdCompletion([powershell]) = %d, want 2", exitCode)
	}
}

func TestCmdCompletion_Help_ReturnsZero(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"-h", []string{"-h"}},
		{"--help", []string{"--help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			exitCode := cmdCompletion(tt.args)
			if exitCode != 0 {
				t.Errorf("cmdCompletion(%v) = %d, want 0", tt.args, exitCode)
			}
		})
	}
}

func TestCmdCompletion_Alias_GeneratesWithAlias(t *testing.T) {
	stdout, _ := captureOutput(t)
	exitCode := cmdCompletion([]string{"bash", "--alias=tb"})
	if exitCode != 0 {
		t.Errorf("cmdCompletion([bash, --alias=tb]) = %d, want 0", exitCode)
	}
	if !strings.Contains(stdout.String(), "complete -F _tb_completions tb") {
		t.Error("bash completion with --alias=tb should complete for 'tb'")
	}
}

func TestCmdCompletion_AliasWithoutValue_ReturnsError(t *testing.T) {
	captureOutput(t)
	exitCode := cmdCompletion([]string{"--alias", "bash"})
	if exitCode != 2 {
		t.Errorf("cmdCompletion([--alias, bash]) = %d, want 2 (--alias requires =value)", exitCode)
	}
}

func TestCmdCompletion_UnknownFlag_ReturnsError(t *testing.T) {
	captureOutput(t)
	exitCode := cmdCompletion([]string{"--unknown", "bash"})
	if exitCode != 2 {
		t.Errorf("cmdCompletion([--unknown, bash]) = %d, want 2", exitCode)
	}
}

func TestCmdCompletion_MultipleShellArgs_ReturnsError(t *testing.T) {
	captureOutput(t)
	exitCode := cmdCompletion([]string{"bash", "zsh"})
	if exitCode != 2 {
		t.Errorf("cmdCompletion([bash, zsh]) = %d, want 2 (only one shell allowed)", exitCode)
	}
}

func TestBuiltinCommands_ContainsExpected(t *testing.T) {
	commands := builtinCommands()

	expected := []string{
		"run",
		"errors",
		"grammars",
		"all",
		"parse",
		"generate",
		"languages",
		"init",
		"completion",
		"version",
		"help",
	}

	for _, cmd := range expected {
		found := false
		for _, c := range commands {
			if c == cmd {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("builtinCommands() missing expected command %q", cmd)
		}
	}
}

func TestGlobalFlags_ContainsExpected(t *testing.T) {
	flags := globalFlags()

	expected := []string{
		"--fixtures",
		"--example",
		"--log",
		"--log-graphs",
		"--quiet",
		"--verbose",
		"--no-color",
		"--help",
		"--version",
	}

	for _, flag := range expected {
		found := false
		for _, f := range flags {
			if f == flag {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("globalFlags() missing expected flag %q", flag)
		}
	}
}

func TestGenerateBashCompletion_ContainsRequiredElements(t *testing.T) {
	output := generateBashCompletion("treebank")

	requiredElements := []string{
		"# treebank bash completion",
		"_treebank_completions",
		"complete -F _treebank_completions treebank",
		"commands=",
		"flags=",
		"language_commands=",
		"completion_shells=",
		"--log-graphs",
		"treebank languages 2>/dev/null",
		"awk 'NR>2 {print $1}'",
	}

	for _, elem := range requiredElements {
		if !strings.Contains(output, elem) {
			t.Errorf("generateBashCompletion() missing required element %q", elem)
		}
	}

	// Non-portable grep -oP fails on macOS BSD grep
	if strings.Contains(output, "grep -oP") {
		t.Error("generateBashCompletion() should not use non-portable 'grep -oP'")
	}
}

func TestGenerateBashCompletion_WithAlias_ContainsAliasName(t *testing.T) {
	output := generateBashCompletion("tb")

	if !strings.Contains(output, "_tb_completions") {
		t.Error("generateBashCompletion(tb) should contain _tb_completions function")
	}
	if !strings.Contains(output, "complete -F _tb_completions tb") {
		t.Error("generateBashCompletion(tb) should complete for 'tb' command")
	}
	if !strings.Contains(output, `alias "tb"`) {
		t.Error("generateBashCompletion(tb) should note this is for an alias")
	}
}

func TestGenerateZshCompletion_ContainsRequiredElements(t *testing.T) {
	output := generateZshCompletion("treebank")

	requiredElements := []string{
		"#compdef treebank",
		"# treebank zsh completion",
		"_treebank()",
		"compdef _treebank treebank",
		"commands=(",
		"flags=(",
		"completion_shells=(",
		"'run:Run the shipped language corpora'",
		"'--log[Log parser events while running]'",
		"treebank languages 2>/dev/null",
		"cur_pos=$((CURRENT - 1))",
		"if (( cur_pos == 1 ))",
		"$flags[@]",
		`${#languages[@]} -gt 0 && -n "${languages[1]}"`,
		"run|errors|grammars|all|parse)",
	}

	for _, elem := range requiredElements {
		if !strings.Contains(output, elem) {
			t.Errorf("generateZshCompletion() missing required element %q", elem)
		}
	}

	if strings.Contains(output, "grep -oP") {
		t.Error("generateZshCompletion() should not use non-portable 'grep -oP'")
	}
}

func TestGenerateZshCompletion_WithAlias_ContainsAliasName(t *testing.T) {
	output := generateZshCompletion("tb")

	if !strings.Contains(output, "#compdef tb") {
		t.Error("generateZshCompletion(tb) should have #compdef tb")
	}
	if !strings.Contains(output, "_tb()") {
		t.Error("generateZshCompletion(tb) should contain _tb() function")
	}
	if !strings.Contains(output, "compdef _tb tb") {
		t.Error("generateZshCompletion(tb) should complete for 'tb' command")
	}
}

func TestGenerateFishCompletion_ContainsRequiredElements(t *testing.T) {
	output := generateFishCompletion("treebank")

	requiredElements := []string{
		"# treebank fish completion",
		"complete -c treebank -f",
		"complete -c treebank -n '__fish_use_subcommand' -a 'run'",
		"complete -c treebank -n '__fish_use_subcommand' -a 'init'",
		"complete -c treebank -l log-graphs",
		"complete -c treebank -l no-color",
		"__fish_seen_subcommand_from run errors grammars all parse",
		"complete -c treebank -n '__fish_seen_subcommand_from completion' -a 'bash'",
		"complete -c treebank -n '__fish_seen_subcommand_from completion' -a 'zsh'",
		"complete -c treebank -n '__fish_seen_subcommand_from completion' -a 'fish'",
	}

	for _, elem := range requiredElements {
		if !strings.Contains(output, elem) {
			t.Errorf("generateFishCompletion() missing required element %q", elem)
		}
	}
}

func TestGenerateFishCompletion_WithAlias_ContainsAliasName(t *testing.T) {
	output := generateFishCompletion("tb")

	if !strings.Contains(output, "complete -c tb -f") {
		t.Error("generateFishCompletion(tb) should disable file completion for 'tb'")
	}
	if !strings.Contains(output, "complete -c tb -n '__fish_use_subcommand' -a 'run'") {
		t.Error("generateFishCompletion(tb) should complete for 'tb' command")
	}
	if !strings.Contains(output, `alias "tb"`) {
		t.Error("generateFishCompletion(tb) should note this is for an alias")
	}
}
