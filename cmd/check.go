package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/mafilu-cli/mafilu/constant"
	"github.com/mafilu-cli/mafilu/icon"
	"github.com/mafilu-cli/mafilu/key"
	"github.com/mafilu-cli/mafilu/style"
	"github.com/spf13/viper"
)

// CheckDependencies exits when the configured media engine is not in PATH.
func CheckDependencies() {
	engine := viper.GetString(key.Player)
	if _, err := exec.LookPath(engine); err != nil {
		printMissingDependencyError(engine)
		os.Exit(1)
	}
}

func installCommand(dep string) string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install " + dep
	case constant.Linux:
		return "sudo apt install " + dep
	case constant.Windows:
		return "scoop install " + dep
	default:
		return ""
	}
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The media engine '%s' was not found in your PATH.", dep))

	suggestion := ""
	if install := installCommand(dep); install != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(install))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
