package responses

import (
	"fmt"
	"io"
	"sort"
	"time"

	"goqualtrics/cmd/client/cmd/output"
	"goqualtrics/cmd/client/cmd/types"
	"goqualtrics/internal/domain/export"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать ответы опроса",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSurvey(cmd, export.Options{})
		if err != nil {
			return err
		}

		records, err := s.Responses(cmd.Context(), redownload)
		if err != nil {
			return err
		}
		return printRecords(records)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <response-id>",
	Short: "Показать один ответ со всеми колонками",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSurvey(cmd, export.Options{})
		if err != nil {
			return err
		}

		rec, err := s.Response(cmd.Context(), args[0], redownload)
		if err != nil {
			return err
		}

		return output.Print(rec, func(w io.Writer) {
			cols := make([]string, 0, len(rec.Data))
			for c := range rec.Data {
				cols = append(cols, c)
			}
			sort.Strings(cols)
			for _, c := range cols {
				fmt.Fprintf(w, "%s:\t%s\n", c, rec.Data[c])
			}
		})
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Журнал выполненных выгрузок",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		entries, err := app.History().List(cmd.Context(), surveyID, historyLimit)
		if err != nil {
			return err
		}
		return output.Print(entries, func(w io.Writer) {
			output.Header(w, "Когда", "Опрос", "Задание", "Формат", "Ответов", "Размер", "Длительность", "Файл")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					humanize.Time(e.CreatedAt), e.SurveyID, e.ProgressID, e.Format,
					humanize.Comma(int64(e.Responses)), humanize.Bytes(uint64(e.Bytes)),
					e.Duration.Round(time.Second), e.ArtifactPath)
			}
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{listCmd, getCmd} {
		c.Flags().BoolVar(&redownload, "redownload", false, "выгрузить ответы заново")
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "сколько записей показать, 0 - все")
}
