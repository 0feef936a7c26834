package filters

import (
	"fmt"
	"io"
	"strings"

	"goqualtrics/cmd/client/cmd/output"
	"goqualtrics/cmd/client/cmd/types"
	"goqualtrics/internal/domain/filter"
	"goqualtrics/internal/domain/response"

	"github.com/spf13/cobra"
)

var FiltersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Сохраненные фильтры",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Список сохраненных фильтров",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		saved, err := app.Filters().List(cmd.Context())
		if err != nil {
			return err
		}
		return output.Print(saved, func(w io.Writer) {
			output.Header(w, "Имя", "Вид", "Условие", "Создан")
			for _, f := range saved {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					f.Name, f.Spec.Kind, output.Truncate(Describe(f.Spec), 60), f.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Показать фильтр",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		f, err := app.Filters().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return output.Print(f, func(w io.Writer) {
			fmt.Fprintf(w, "Имя:\t%s\n", f.Name)
			fmt.Fprintf(w, "ID:\t%s\n", f.ID)
			fmt.Fprintf(w, "Вид:\t%s\n", f.Spec.Kind)
			for _, field := range f.Spec.Fields() {
				fmt.Fprintf(w, "  %s\t%s\n", field, condition(f.Spec, field))
			}
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Удалить фильтр",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if err := app.Filters().Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		output.Success("Фильтр %q удален", args[0])
		return nil
	},
}

// Describe - однострочное представление условий фильтра
func Describe(spec filter.Spec) string {
	parts := make([]string, 0, len(spec.Fields()))
	for _, field := range spec.Fields() {
		parts = append(parts, field+" "+condition(spec, field))
	}
	return strings.Join(parts, "; ")
}

func condition(spec filter.Spec, field string) string {
	if spec.Kind == filter.KindDate {
		c := spec.Date[field]
		return fmt.Sprintf("%s %s", c.Mode, c.Reference.Format(response.TimestampLayout))
	}
	return "in [" + strings.Join(spec.Text[field], ", ") + "]"
}

func init() {
	FiltersCmd.AddCommand(listCmd, showCmd, deleteCmd)
}
