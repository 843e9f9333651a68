package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/internal/core/db"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Show or set the display theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	if len(args) == 0 {
		theme, err := env.db.GetPref(db.ThemeKey, env.cfg.DefaultTheme)
		if err != nil {
			return err
		}
		fmt.Println(theme)
		return nil
	}

	theme := args[0]
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("unknown theme %q (want light or dark)", theme)
	}
	if err := env.db.SetPref(db.ThemeKey, theme); err != nil {
		return err
	}
	fmt.Printf("Theme set to %s\n", theme)
	return nil
}
