package main

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion scripts",
	Long:      `Generate shell completion scripts for twmanifest commands and flags.`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(_ *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

// registerCompletions adds value completion for the enumerated flags. It
// runs after every command has declared its flags.
func registerCompletions() {
	enums := []struct {
		cmd    *cobra.Command
		flag   string
		values []string
	}{
		{rootCmd, "fluid-typography", []string{"true", "false", "LIMITED_DESKTOP"}},
		{rootCmd, "button-typename", []string{"body", "utility"}},
		{rootCmd, "color-group-style", []string{"full", "initial"}},
		{lintCmd, "output-format", []string{"issues", "summary", "full", "json"}},
	}
	for _, e := range enums {
		values := e.values
		_ = e.cmd.RegisterFlagCompletionFunc(e.flag, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		})
	}
	_ = rootCmd.RegisterFlagCompletionFunc("manifest", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	})
}
