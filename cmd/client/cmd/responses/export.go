package responses

import (
	"fmt"
	"io"
	"os"
	"time"

	"goqualtrics/cmd/client/cmd/output"
	"goqualtrics/cmd/client/cmd/types"
	"goqualtrics/internal/domain/export"
	"goqualtrics/internal/domain/response"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	format      string
	startDate   string
	endDate     string
	limit       int
	useLabels   bool
	noCompress  bool
	timeZone    string
	questionIDs []string
	embeddedIDs []string
	metadataIDs []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить ответы опроса в файл",
	Long: `Создает задание экспорта, ждет его завершения и сохраняет файл
в каталог выгрузки под именем {название опроса}.{формат}.

Пример:
  goqualtrics responses export --survey SV_1 --format csv --start 2021-01-01T00:00:00Z`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := exportOptions(cmd)
		if err != nil {
			return err
		}

		s, err := openSurvey(cmd, opts)
		if err != nil {
			return err
		}

		summary := exportSummary{SurveyID: s.ID(), Survey: s.Name()}
		switch opts.Format {
		case "", export.FormatCSV, export.FormatTSV:
			snap, err := s.Store().Materialize(cmd.Context(), true)
			if err != nil {
				return fmt.Errorf("ошибка выгрузки: %w", err)
			}
			summary.Path = s.Store().ArtifactPath()
			summary.Responses = len(snap.Records)
			summary.Digest = snap.Digest
			if fi, err := os.Stat(summary.Path); err == nil {
				summary.Bytes = fi.Size()
			}
		default:
			// остальные форматы только сохраняются на диск
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			res, err := app.Exports().Run(cmd.Context(), export.Request{
				SurveyID:   s.ID(),
				SurveyName: s.Name(),
				OutputDir:  s.Store().OutputDir(),
				Options:    opts,
				OnProgress: progress,
			})
			if err != nil {
				return fmt.Errorf("ошибка выгрузки: %w", err)
			}
			summary.Path = res.ArtifactPath
			summary.Bytes = res.Bytes
		}

		return output.Print(summary, func(w io.Writer) {
			fmt.Fprintf(w, "Опрос:\t%s (%s)\n", summary.Survey, summary.SurveyID)
			fmt.Fprintf(w, "Файл:\t%s\n", summary.Path)
			if summary.Bytes > 0 {
				fmt.Fprintf(w, "Размер:\t%s\n", humanize.Bytes(uint64(summary.Bytes)))
			}
			if summary.Digest != "" {
				fmt.Fprintf(w, "Ответов:\t%d\n", summary.Responses)
				fmt.Fprintf(w, "BLAKE2b:\t%s\n", summary.Digest)
			}
		})
	},
}

type exportSummary struct {
	SurveyID  string `json:"survey_id"`
	Survey    string `json:"survey"`
	Path      string `json:"path"`
	Responses int    `json:"responses,omitempty"`
	Digest    string `json:"digest,omitempty"`
	Bytes     int64  `json:"bytes,omitempty"`
}

// exportOptions переносит в Options только явно заданные флаги
func exportOptions(cmd *cobra.Command) (export.Options, error) {
	var opts export.Options
	flags := cmd.Flags()

	if flags.Changed("format") {
		f := export.Format(format)
		if !f.Valid() {
			return opts, fmt.Errorf("неизвестный формат %q", format)
		}
		opts.Format = f
	}
	if flags.Changed("start") {
		t, err := parseTime(startDate)
		if err != nil {
			return opts, fmt.Errorf("--start: %w", err)
		}
		opts.StartDate = export.Time(t)
	}
	if flags.Changed("end") {
		t, err := parseTime(endDate)
		if err != nil {
			return opts, fmt.Errorf("--end: %w", err)
		}
		opts.EndDate = export.Time(t)
	}
	if flags.Changed("limit") {
		opts.Limit = export.Int(limit)
	}
	if flags.Changed("use-labels") {
		opts.UseLabels = export.Bool(useLabels)
	}
	if flags.Changed("no-compress") {
		opts.Compress = export.Bool(!noCompress)
	}
	if flags.Changed("time-zone") {
		opts.TimeZone = export.String(timeZone)
	}
	opts.QuestionIDs = questionIDs
	opts.EmbeddedDataIDs = embeddedIDs
	opts.SurveyMetadataIDs = metadataIDs
	return opts, nil
}

// parseTime принимает RFC3339 или формат дат выгрузки (UTC)
func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(response.TimestampLayout, raw)
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&format, "format", "f", string(export.FormatCSV), "формат: csv, tsv, json, ndjson, spss, xml")
	f.StringVar(&startDate, "start", "", "ответы не раньше (RFC3339 или 2006-01-02 15:04:05)")
	f.StringVar(&endDate, "end", "", "ответы не позже")
	f.IntVar(&limit, "limit", 0, "максимум ответов")
	f.BoolVar(&useLabels, "use-labels", false, "текст вариантов вместо кодов")
	f.BoolVar(&noCompress, "no-compress", false, "получить файл без zip-архива")
	f.StringVar(&timeZone, "time-zone", "", "часовой пояс дат выгрузки")
	f.StringSliceVar(&questionIDs, "question", nil, "ID вопросов для выгрузки")
	f.StringSliceVar(&embeddedIDs, "embedded", nil, "ID встроенных данных")
	f.StringSliceVar(&metadataIDs, "metadata", nil, "ID служебных полей")
}
