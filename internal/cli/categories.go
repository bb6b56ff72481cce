package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskflow/internal/client"
	"taskflow/internal/model"
)

func newCategoriesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "c"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(newCategoriesListCmd(e))
	cmd.AddCommand(newCategoriesAddCmd(e))
	cmd.AddCommand(newCategoriesEditCmd(e))
	cmd.AddCommand(newCategoriesDeleteCmd(e))
	cmd.AddCommand(newCategoriesTasksCmd(e))
	return cmd
}

func newCategoriesListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := e.client().ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			renderCategories(e.out, categories)
			return nil
		},
	}
}

func newCategoriesAddCmd(e *env) *cobra.Command {
	var p client.CategoryPayload

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Name = args[0]
			c, err := e.client().CreateCategory(cmd.Context(), p)
			if err != nil {
				return err
			}
			renderCategories(e.out, []model.Category{*c})
			return nil
		},
	}
	cmd.Flags().StringVar(&p.Color, "color", "", "Background color, e.g. #ffb86c")
	cmd.Flags().StringVar(&p.TextColor, "text-color", "", "Text color, e.g. #000000")
	return cmd
}

func newCategoriesEditCmd(e *env) *cobra.Command {
	var p client.CategoryPayload

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or recolor a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := e.client().UpdateCategory(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			renderCategories(e.out, []model.Category{*c})
			return nil
		},
	}
	cmd.Flags().StringVar(&p.Name, "name", "", "New name")
	cmd.Flags().StringVar(&p.Color, "color", "", "Background color")
	cmd.Flags().StringVar(&p.TextColor, "text-color", "", "Text color")
	return cmd
}

func newCategoriesDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a category no task uses",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := e.client().DeleteCategory(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, successStyle.Render(fmt.Sprintf("Category %q deleted", c.Name)))
			return nil
		},
	}
}

func newCategoriesTasksCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <id>",
		Short: "List the tasks of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			views, err := e.client().CategoryTasks(cmd.Context(), id)
			if err != nil {
				return err
			}
			tasks := make([]client.Task, 0, len(views))
			for _, v := range views {
				tasks = append(tasks, client.FromView(v))
			}
			renderTasks(e.out, tasks, model.FilterAll)
			return nil
		},
	}
}
