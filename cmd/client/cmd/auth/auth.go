package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd - родительская команда для работы с токеном API
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление токеном API",
	Long:  `Вход по токену API, проверка текущей сессии и выход.`,
}

func init() {
	AuthCmd.AddCommand(LoginCmd)
	AuthCmd.AddCommand(LogoutCmd)
	AuthCmd.AddCommand(StatusCmd)
}
