package auth

import (
	"fmt"
	"io"

	"goqualtrics/cmd/client/cmd/output"
	"goqualtrics/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Проверить текущую сессию",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if !app.IsAuthenticated() {
			output.Warn("Токен не задан. Выполните: goqualtrics auth login")
			return nil
		}

		user, err := app.Directory().WhoAmI(cmd.Context())
		if err != nil {
			return fmt.Errorf("токен не принят: %w", err)
		}

		division := ""
		if user.DivisionID != "" {
			if d, err := app.Directory().GetDivision(cmd.Context(), user.DivisionID); err == nil {
				division = d.Name
			}
		}

		return output.Print(user, func(w io.Writer) {
			fmt.Fprintf(w, "Base URL:\t%s\n", app.Session().BaseURL)
			fmt.Fprintf(w, "Пользователь:\t%s %s\n", user.FirstName, user.LastName)
			fmt.Fprintf(w, "ID:\t%s\n", user.ID)
			fmt.Fprintf(w, "Email:\t%s\n", user.Email)
			fmt.Fprintf(w, "Организация:\t%s\n", user.OrganizationID)
			if division != "" {
				fmt.Fprintf(w, "Подразделение:\t%s\n", division)
			}
		})
	},
}
