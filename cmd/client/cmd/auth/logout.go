package auth

import (
	"fmt"

	"goqualtrics/cmd/client/cmd/output"
	"goqualtrics/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Удалить сохраненный токен",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Logout(); err != nil {
			return fmt.Errorf("ошибка выхода: %w", err)
		}
		output.Success("Токен удален")
		return nil
	},
}
