package responses

import (
	"fmt"
	"io"
	"os"
	"sort"

	"goqualtrics/cmd/client/cmd/output"
	"goqualtrics/cmd/client/cmd/types"
	"goqualtrics/internal/app/client"
	"goqualtrics/internal/domain/export"
	"goqualtrics/internal/domain/filter"
	"goqualtrics/internal/domain/response"
	"goqualtrics/internal/domain/survey"

	"github.com/spf13/cobra"
)

// общие флаги подкоманд
var (
	surveyID   string
	surveyName string
	outputDir  string
	headerRows int
	redownload bool
)

var ResponsesCmd = &cobra.Command{
	Use:   "responses",
	Short: "Выгрузка и фильтрация ответов опроса",
}

func init() {
	ResponsesCmd.PersistentFlags().StringVar(&surveyID, "survey", "", "ID опроса")
	ResponsesCmd.PersistentFlags().StringVar(&surveyName, "name", "", "название опроса (если ID не задан)")
	ResponsesCmd.PersistentFlags().StringVarP(&outputDir, "out", "o", "", "каталог выгрузки")
	ResponsesCmd.PersistentFlags().IntVar(&headerRows, "header-rows", 2, "число служебных строк после заголовка")

	ResponsesCmd.AddCommand(exportCmd, listCmd, getCmd, historyCmd)
	ResponsesCmd.AddCommand(filterTextCmd, filterDateCmd, applyCmd)
}

// openSurvey находит опрос по флагам --survey/--name
func openSurvey(cmd *cobra.Command, opts export.Options) (*survey.Survey, error) {
	app, err := types.App(cmd)
	if err != nil {
		return nil, err
	}

	so := client.SurveyOptions{
		OutputDir:  outputDir,
		Options:    opts,
		OnProgress: progress,
	}
	if cmd.Flags().Changed("header-rows") {
		so.HeaderRows = &headerRows
	}

	return app.Surveys(so).Open(cmd.Context(), surveyID, surveyName)
}

func progress(job export.Job) {
	if output.JSON {
		return
	}
	fmt.Fprintf(os.Stderr, "\rВыгрузка %s: %3.0f%%", job.ProgressID, job.PercentComplete)
	if job.Status.Terminal() {
		fmt.Fprintln(os.Stderr)
	}
}

func printRecords(records []response.Record) error {
	return output.Print(records, func(w io.Writer) {
		output.Header(w, "ResponseId", "Записан", "Прогресс", "Завершен", "Ответы")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%d%%\t%t\t%s\n",
				r.ResponseID, r.RecordedDate, r.Progress, r.Finished, output.Truncate(answers(r), 60))
		}
	})
}

// answers склеивает ответы в стабильном порядке вопросов
func answers(r response.Record) string {
	keys := make([]string, 0, len(r.Answers))
	for k := range r.Answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var s string
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += k + "=" + r.Answers[k]
	}
	return s
}

func printResult(res *filter.Result) error {
	if res.Saved != nil && !output.JSON {
		output.Success("Фильтр сохранен как %q", res.Saved.Name)
	}
	if res.Table != nil {
		return printTable(res.Table)
	}
	return printRecords(res.Records)
}

// printTable выводит колоночный результат со всеми колонками выгрузки
func printTable(t *response.Table) error {
	rows := tableRows(t)
	cols := t.Columns()
	return output.Print(rows, func(w io.Writer) {
		output.Header(w, cols...)
		for _, row := range rows {
			for i, c := range cols {
				if i > 0 {
					fmt.Fprint(w, "\t")
				}
				fmt.Fprint(w, output.Truncate(row[c], 40))
			}
			fmt.Fprintln(w)
		}
	})
}

func tableRows(t *response.Table) []map[string]string {
	rows := make([]map[string]string, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}
