package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/internal/core/models"
)

var categoryIcon string

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		categories, err := env.db.ListCategories(env.owner())
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		if len(categories) == 0 {
			fmt.Println("No categories defined")
			return nil
		}
		for _, c := range categories {
			if c.Icon != "" {
				fmt.Printf("%s (%s)\n", c.Name, c.Icon)
			} else {
				fmt.Println(c.Name)
			}
		}
		return nil
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		err = env.db.AddCategory(models.Category{
			ID:    uuid.NewString(),
			Owner: env.owner(),
			Name:  args[0],
			Icon:  categoryIcon,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added category %s\n", args[0])
		return nil
	},
}

var categoriesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a category",
	Long: `Remove a category from settings. Existing sessions tagged with it
are kept as-is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.db.RemoveCategory(env.owner(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed category %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesRemoveCmd)
	categoriesAddCmd.Flags().StringVar(&categoryIcon, "icon", "", "Display icon name")
}
