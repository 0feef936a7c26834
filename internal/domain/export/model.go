package export

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"
)

type Status string

const (
	StatusRequested  Status = "requested"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
)

// Terminal - complete и failed конечны, задание из них не возвращается
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// parseStatus приводит статус платформы (inProgress, in_progress) к Status
func parseStatus(raw string) Status {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", "")) {
	case "complete", "completed":
		return StatusComplete
	case "failed":
		return StatusFailed
	default:
		return StatusInProgress
	}
}

type Format string

const (
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatSPSS   Format = "spss"
	FormatXML    Format = "xml"
)

func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatTSV, FormatJSON, FormatNDJSON, FormatSPSS, FormatXML:
		return true
	}
	return false
}

// Extension - расширение файла артефакта в архиве
func (f Format) Extension() string {
	if f == FormatSPSS {
		return "sav"
	}
	return string(f)
}

// Job - состояние задания экспорта. Меняется только опросом.
type Job struct {
	SurveyID        string    `json:"survey_id"`
	ProgressID      string    `json:"progress_id"`
	Status          Status    `json:"status"`
	PercentComplete float64   `json:"percent_complete"`
	FileID          string    `json:"file_id,omitempty"`
	Polls           int       `json:"polls"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at,omitempty"`
}

// Options - параметры экспорта. Поле-указатель равное nil не отправляется;
// заданное значение отправляется буквально, включая 0 и false.
type Options struct {
	Format                          Format
	StartDate                       *time.Time
	EndDate                         *time.Time
	Limit                           *int
	UseLabels                       *bool
	SeenUnansweredRecode            *int
	MultiselectSeenUnansweredRecode *int
	IncludeDisplayOrder             *bool
	FormatDecimalAsComma            *bool
	TimeZone                        *string
	NewlineReplacement              *string
	QuestionIDs                     []string
	EmbeddedDataIDs                 []string
	SurveyMetadataIDs               []string
	Compress                        *bool
}

func Bool(v bool) *bool       { return &v }
func Int(v int) *int          { return &v }
func String(v string) *string { return &v }
func Time(v time.Time) *time.Time {
	return &v
}

type payload struct {
	Format                          Format    `json:"format"`
	StartDate                       *string   `json:"startDate,omitempty"`
	EndDate                         *string   `json:"endDate,omitempty"`
	Limit                           *int      `json:"limit,omitempty"`
	UseLabels                       *bool     `json:"useLabels,omitempty"`
	SeenUnansweredRecode            *int      `json:"seenUnansweredRecode,omitempty"`
	MultiselectSeenUnansweredRecode *int      `json:"multiselectSeenUnansweredRecode,omitempty"`
	IncludeDisplayOrder             *bool     `json:"includeDisplayOrder,omitempty"`
	FormatDecimalAsComma            *bool     `json:"formatDecimalAsComma,omitempty"`
	TimeZone                        *string   `json:"timeZone,omitempty"`
	NewlineReplacement              *string   `json:"newlineReplacement,omitempty"`
	QuestionIDs                     *[]string `json:"questionIds,omitempty"`
	EmbeddedDataIDs                 *[]string `json:"embeddedDataIds,omitempty"`
	SurveyMetadataIDs               *[]string `json:"surveyMetadataIds,omitempty"`
	Compress                        *bool     `json:"compress,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func listOf(ids []string) *[]string {
	if ids == nil {
		return nil
	}
	return &ids
}

// MarshalJSON строит тело запроса export-responses
func (o Options) MarshalJSON() ([]byte, error) {
	format := o.Format
	if format == "" {
		format = FormatCSV
	}
	return json.Marshal(payload{
		Format:                          format,
		StartDate:                       formatTime(o.StartDate),
		EndDate:                         formatTime(o.EndDate),
		Limit:                           o.Limit,
		UseLabels:                       o.UseLabels,
		SeenUnansweredRecode:            o.SeenUnansweredRecode,
		MultiselectSeenUnansweredRecode: o.MultiselectSeenUnansweredRecode,
		IncludeDisplayOrder:             o.IncludeDisplayOrder,
		FormatDecimalAsComma:            o.FormatDecimalAsComma,
		TimeZone:                        o.TimeZone,
		NewlineReplacement:              o.NewlineReplacement,
		QuestionIDs:                     listOf(o.QuestionIDs),
		EmbeddedDataIDs:                 listOf(o.EmbeddedDataIDs),
		SurveyMetadataIDs:               listOf(o.SurveyMetadataIDs),
		Compress:                        o.Compress,
	})
}

// Request - полный запрос экспорта для одного опроса
type Request struct {
	SurveyID   string
	SurveyName string
	OutputDir  string
	Options    Options
	// OnProgress вызывается после каждого опроса статуса
	OnProgress func(Job)
}

// Result - итог успешного экспорта
type Result struct {
	Job          Job
	ArtifactPath string
	Bytes        int64
	Duration     time.Duration
}

// ArtifactPath - детерминированный путь артефакта: {dir}/{surveyName}.{format}
func ArtifactPath(dir, surveyName string, format Format) string {
	if format == "" {
		format = FormatCSV
	}
	return filepath.Join(dir, FileName(surveyName)+"."+format.Extension())
}

// FileName превращает название опроса в имя файла внутри каталога выгрузки:
// разделители пути заменяются на '_', ведущие точки отбрасываются.
func FileName(surveyName string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(surveyName))
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "survey"
	}
	return name
}

type startResponse struct {
	Result struct {
		ProgressID string `json:"progressId"`
	} `json:"result"`
}

type progressResponse struct {
	Result struct {
		PercentComplete float64 `json:"percentComplete"`
		Status          string  `json:"status"`
		FileID          string  `json:"fileId"`
	} `json:"result"`
}
