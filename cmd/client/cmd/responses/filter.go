package responses

import (
	"fmt"
	"strings"

	"goqualtrics/internal/domain/export"
	"goqualtrics/internal/domain/survey"

	"github.com/spf13/cobra"
)

var (
	fields   []string
	saveAs   string
	existing string
	refresh  bool
	columns  bool
)

var filterTextCmd = &cobra.Command{
	Use:   "filter-text",
	Short: "Отобрать ответы по значениям полей",
	Long: `Ответ проходит, если значение каждого поля входит в его список.

Пример:
  goqualtrics responses filter-text --survey SV_1 --field Q1=red,blue --field Q2=yes`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		spec, err := parseFields(fields, parseTextValue)
		if err != nil {
			return err
		}
		s, err := openSurvey(cmd, export.Options{})
		if err != nil {
			return err
		}

		filterBy := s.FilterByText
		if columns {
			filterBy = s.FilterByTextColumns
		}
		res, err := filterBy(cmd.Context(), spec, filterOptions())
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

var filterDateCmd = &cobra.Command{
	Use:   "filter-date",
	Short: "Отобрать ответы по датам",
	Long: `Для каждого поля задается опорная метка и направление (before/after).

Пример:
  goqualtrics responses filter-date --survey SV_1 --field "RecordedDate=2021-03-01 00:00:00,before"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		spec, err := parseFields(fields, parseDateValue)
		if err != nil {
			return err
		}
		s, err := openSurvey(cmd, export.Options{})
		if err != nil {
			return err
		}

		filterBy := s.FilterByDate
		if columns {
			filterBy = s.FilterByDateColumns
		}
		res, err := filterBy(cmd.Context(), spec, filterOptions())
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <filter>",
	Short: "Применить сохраненный фильтр",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSurvey(cmd, export.Options{})
		if err != nil {
			return err
		}

		apply := s.ApplySaved
		if columns {
			apply = s.ApplySavedColumns
		}
		res, err := apply(cmd.Context(), args[0], filterOptions())
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

func filterOptions() survey.FilterOptions {
	return survey.FilterOptions{
		Existing:  existing,
		SaveAs:    saveAs,
		Refresh:   refresh,
		OutputDir: outputDir,
	}
}

// parseFields разбирает повторяемый флаг вида "поле=значение"
func parseFields(raw []string, value func(string) []string) (map[string][]string, error) {
	out := make(map[string][]string, len(raw))
	for _, f := range raw {
		name, val, ok := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("ожидается поле=значение, получено %q", f)
		}
		out[name] = append(out[name], value(val)...)
	}
	return out, nil
}

func parseTextValue(v string) []string {
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseDateValue отделяет направление после последней запятой
func parseDateValue(v string) []string {
	i := strings.LastIndex(v, ",")
	if i < 0 {
		return []string{strings.TrimSpace(v)}
	}
	return []string{strings.TrimSpace(v[:i]), strings.TrimSpace(v[i+1:])}
}

func init() {
	for _, c := range []*cobra.Command{filterTextCmd, filterDateCmd} {
		c.Flags().StringArrayVar(&fields, "field", nil, "условие поле=значение, можно повторять")
		c.Flags().StringVar(&existing, "existing", "", "использовать сохраненный фильтр вместо --field")
		c.Flags().StringVar(&saveAs, "save-as", "", "сохранить фильтр под именем")
	}
	for _, c := range []*cobra.Command{filterTextCmd, filterDateCmd, applyCmd} {
		c.Flags().BoolVar(&refresh, "refresh", false, "выгрузить ответы заново перед фильтрацией")
		c.Flags().BoolVar(&columns, "columns", false, "фильтровать колоночное представление и вывести все колонки")
	}
}
