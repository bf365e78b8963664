package todos

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/crucial707/todo-api/cmd/cli/client"
	"github.com/crucial707/todo-api/cmd/cli/output"
	"github.com/spf13/cobra"
)

// Todo is the todo record returned by the API.
type Todo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	UserID      int    `json:"user_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type todoResponse struct {
	Message string `json:"message"`
	Data    Todo   `json:"data"`
}

// ==========================
// Init Todos
// ==========================
func InitTodos(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		listTodosCmd(),
		addTodoCmd(),
		showTodoCmd(),
		doneTodoCmd(),
		editTodoCmd(),
		removeTodoCmd(),
	)
}

func todoPath(arg string) (string, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("invalid todo id %q", arg)
	}
	return "/todos/" + strconv.Itoa(id), nil
}

func renderTodos(w io.Writer, todos []Todo) {
	rows := make([][]interface{}, 0, len(todos))
	for _, t := range todos {
		done := ""
		if t.Completed {
			done = "x"
		}
		rows = append(rows, []interface{}{t.ID, done, t.Title, t.Description})
	}
	output.RenderTable(w, []string{"ID", "Done", "Title", "Description"}, rows)
}

// ==========================
// LIST
// ==========================
func listTodosCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			var resp struct {
				Count int    `json:"count"`
				Data  []Todo `json:"data"`
			}
			if err := c.Do(http.MethodGet, "/todos", nil, &resp); err != nil {
				return err
			}

			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), resp.Data)
			}
			if len(resp.Data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No todos yet.")
				return nil
			}
			renderTodos(cmd.OutOrStdout(), resp.Data)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// ADD
// ==========================
func addTodoCmd() *cobra.Command {
	var title string
	var description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a todo",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			payload := map[string]string{"title": title}
			if description != "" {
				payload["description"] = description
			}

			var resp todoResponse
			if err := c.Do(http.MethodPost, "/todos", payload, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created todo %d: %s\n", resp.Data.ID, resp.Data.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "todo title")
	cmd.Flags().StringVar(&description, "description", "", "todo description")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// ==========================
// SHOW
// ==========================
func showTodoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := todoPath(args[0])
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			var resp todoResponse
			if err := c.Do(http.MethodGet, path, nil, &resp); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), resp.Data)
			}
			renderTodos(cmd.OutOrStdout(), []Todo{resp.Data})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// DONE
// ==========================
func doneTodoCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done [id]",
		Short: "Mark a todo completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := todoPath(args[0])
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			var resp todoResponse
			if err := c.Do(http.MethodPut, path, map[string]bool{"completed": !undo}, &resp); err != nil {
				return err
			}
			state := "completed"
			if !resp.Data.Completed {
				state = "not completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Todo %d marked %s\n", resp.Data.ID, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark the todo as not completed")
	return cmd
}

// ==========================
// EDIT
// ==========================
func editTodoCmd() *cobra.Command {
	var title string
	var description string

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Change a todo's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := todoPath(args[0])
			if err != nil {
				return err
			}

			payload := map[string]string{}
			if cmd.Flags().Changed("title") {
				payload["title"] = title
			}
			if cmd.Flags().Changed("description") {
				payload["description"] = description
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to change: pass --title and/or --description")
			}

			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var resp todoResponse
			if err := c.Do(http.MethodPut, path, payload, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated todo %d: %s\n", resp.Data.ID, resp.Data.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

// ==========================
// DELETE
// ==========================
func removeTodoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := todoPath(args[0])
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			var resp todoResponse
			if err := c.Do(http.MethodDelete, path, nil, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Todo deleted: %s\n", resp.Data.Title)
			return nil
		},
	}
}
