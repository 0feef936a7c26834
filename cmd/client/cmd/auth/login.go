package auth

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"goqualtrics/cmd/client/cmd/output"
	"goqualtrics/cmd/client/cmd/types"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginBaseURL string
	tokenStdin   bool
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти по токену API",
	Long: `Запрашивает токен API, проверяет его запросом whoami и сохраняет
в зашифрованном виде. Если задан TOKEN_PASSPHRASE, ключ шифрования
выводится из него.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		token, err := readToken()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		user, err := app.Login(ctx, loginBaseURL, token)
		if err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		output.Success("Вход выполнен: %s %s (%s)", user.FirstName, user.LastName, user.ID)
		return nil
	},
}

func readToken() (string, error) {
	if tokenStdin || !term.IsTerminal(int(os.Stdin.Fd())) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("ошибка чтения токена: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Print("Токен API: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("ошибка чтения токена: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func init() {
	LoginCmd.Flags().StringVar(&loginBaseURL, "datacenter-url", "", "базовый URL API для этого токена")
	LoginCmd.Flags().BoolVar(&tokenStdin, "stdin", false, "читать токен из stdin")
}
