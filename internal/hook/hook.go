// Package hook ships the shell integration scripts. The wrapper evals
// envision's stdout so mutations reach the parent shell; the prompt banner
// reads only the envision-managed state variables.
package hook

import (
	_ "embed"
	"fmt"
)

//go:embed posix.sh
var posixHook string

//go:embed bash.sh
var bashPrompt string

//go:embed zsh.sh
var zshPrompt string

//go:embed fish.fish
var fishHook string

// Script returns the integration script for the named shell
// (bash, zsh, or fish).
func Script(shell string) (string, error) {
	switch shell {
	case "bash":
		return posixHook + "\n" + bashPrompt, nil
	case "zsh":
		return posixHook + "\n" + zshPrompt, nil
	case "fish":
		return fishHook, nil
	default:
		return "", fmt.Errorf("unsupported shell %q (expected bash, zsh, or fish)", shell)
	}
}
