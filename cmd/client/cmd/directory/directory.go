package directory

import (
	"fmt"
	"io"

	"goqualtrics/cmd/client/cmd/output"
	"goqualtrics/cmd/client/cmd/types"
	"goqualtrics/internal/domain/directory"

	"github.com/spf13/cobra"
)

var (
	surveyID       string
	surveyName     string
	libraryID      string
	mailingListID  string
	organizationID string
)

var SurveysCmd = &cobra.Command{
	Use:   "surveys",
	Short: "Опросы",
}

var surveysListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список опросов (или опросов библиотеки с --library)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var surveys []directory.Survey
		if libraryID != "" {
			surveys, err = app.Directory().ListLibrarySurveys(cmd.Context(), libraryID)
		} else {
			surveys, err = app.Directory().ListSurveys(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("ошибка получения опросов: %w", err)
		}

		return output.Print(surveys, func(w io.Writer) {
			output.Header(w, "ID", "Название", "Активен", "Изменен")
			for _, s := range surveys {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", s.ID, output.Truncate(s.Name, 50), s.IsActive, s.LastModified)
			}
		})
	},
}

var surveysShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Найти опрос по --id или --name",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		s, err := app.Directory().FindSurvey(cmd.Context(), surveyID, surveyName)
		if err != nil {
			return err
		}
		return output.Print(s, func(w io.Writer) {
			fmt.Fprintf(w, "ID:\t%s\n", s.ID)
			fmt.Fprintf(w, "Название:\t%s\n", s.Name)
			fmt.Fprintf(w, "Владелец:\t%s\n", s.OwnerID)
			fmt.Fprintf(w, "Активен:\t%t\n", s.IsActive)
			fmt.Fprintf(w, "Создан:\t%s\n", s.CreationDate)
		})
	},
}

var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Пользователи организации",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список пользователей",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		users, err := app.Directory().ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения пользователей: %w", err)
		}
		return output.Print(users, func(w io.Writer) {
			output.Header(w, "ID", "Логин", "Имя", "Email", "Статус")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\n", u.ID, u.Username, u.FirstName, u.LastName, u.Email, u.AccountStatus)
			}
		})
	},
}

var orgShowCmd = &cobra.Command{
	Use:   "organization",
	Short: "Организация по --id (по умолчанию - организация токена)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		id := organizationID
		if id == "" {
			me, err := app.Directory().WhoAmI(cmd.Context())
			if err != nil {
				return err
			}
			id = me.OrganizationID
		}
		org, err := app.Directory().GetOrganization(cmd.Context(), id)
		if err != nil {
			return err
		}
		return output.Print(org, func(w io.Writer) {
			fmt.Fprintf(w, "ID:\t%s\n", org.ID)
			fmt.Fprintf(w, "Название:\t%s\n", org.Name)
			fmt.Fprintf(w, "Base URL:\t%s\n", org.BaseURL)
			fmt.Fprintf(w, "Статус:\t%s\n", org.Status)
		})
	},
}

var GroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Группы",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список групп",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		groups, err := app.Directory().ListGroups(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения групп: %w", err)
		}
		return output.Print(groups, func(w io.Writer) {
			output.Header(w, "ID", "Название")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\n", g.ID, g.Name)
			}
		})
	},
}

var LibrariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "Библиотеки",
}

var librariesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список библиотек",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		libs, err := app.Directory().ListLibraries(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения библиотек: %w", err)
		}
		return output.Print(libs, func(w io.Writer) {
			output.Header(w, "ID", "Название")
			for _, l := range libs {
				fmt.Fprintf(w, "%s\t%s\n", l.ID, l.Name)
			}
		})
	},
}

var MailingListsCmd = &cobra.Command{
	Use:   "mailinglists",
	Short: "Списки рассылки и контакты",
}

var mailingListsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Списки рассылки",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		lists, err := app.Directory().ListMailingLists(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения списков рассылки: %w", err)
		}
		return output.Print(lists, func(w io.Writer) {
			output.Header(w, "ID", "Название", "Библиотека")
			for _, l := range lists {
				fmt.Fprintf(w, "%s\t%s\t%s\n", l.ID, l.Name, l.LibraryID)
			}
		})
	},
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Контакты списка рассылки (--list)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		contacts, err := app.Directory().ListContacts(cmd.Context(), mailingListID)
		if err != nil {
			return err
		}
		return output.Print(contacts, func(w io.Writer) {
			output.Header(w, "ID", "Имя", "Email", "Отписан")
			for _, c := range contacts {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%t\n", c.ID, c.FirstName, c.LastName, c.Email, c.Unsubscribed)
			}
		})
	},
}

func init() {
	surveysListCmd.Flags().StringVar(&libraryID, "library", "", "ID библиотеки")
	surveysShowCmd.Flags().StringVar(&surveyID, "id", "", "ID опроса")
	surveysShowCmd.Flags().StringVar(&surveyName, "name", "", "название опроса")
	SurveysCmd.AddCommand(surveysListCmd, surveysShowCmd)

	orgShowCmd.Flags().StringVar(&organizationID, "id", "", "ID организации")
	UsersCmd.AddCommand(usersListCmd, orgShowCmd)

	GroupsCmd.AddCommand(groupsListCmd)
	LibrariesCmd.AddCommand(librariesListCmd)

	contactsCmd.Flags().StringVar(&mailingListID, "list", "", "ID списка рассылки")
	_ = contactsCmd.MarkFlagRequired("list")
	MailingListsCmd.AddCommand(mailingListsListCmd, contactsCmd)
}
