package response

import (
	"strconv"
	"strings"
	"time"
)

// Колонки, которые платформа добавляет к каждому ответу
const (
	ColumnStartDate           = "StartDate"
	ColumnEndDate             = "EndDate"
	ColumnStatus              = "Status"
	ColumnIPAddress           = "IPAddress"
	ColumnProgress            = "Progress"
	ColumnDuration            = "Duration (in seconds)"
	ColumnFinished            = "Finished"
	ColumnRecordedDate        = "RecordedDate"
	ColumnResponseID          = "ResponseId"
	ColumnRecipientFirstName  = "RecipientFirstName"
	ColumnRecipientLastName   = "RecipientLastName"
	ColumnRecipientEmail      = "RecipientEmail"
	ColumnExternalReference   = "ExternalReference"
	ColumnLocationLatitude    = "LocationLatitude"
	ColumnLocationLongitude   = "LocationLongitude"
	ColumnDistributionChannel = "DistributionChannel"
	ColumnUserLanguage        = "UserLanguage"
)

// TimestampLayout - формат дат в выгрузке ответов
const TimestampLayout = "2006-01-02 15:04:05"

type Recipient struct {
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	Email             string `json:"email,omitempty"`
	ExternalReference string `json:"external_reference,omitempty"`
}

// Record - одна строка выгрузки. Data содержит все ячейки строки,
// известные колонки дополнительно вынесены в поля.
type Record struct {
	ResponseID          string            `json:"response_id"`
	StartDate           string            `json:"start_date,omitempty"`
	EndDate             string            `json:"end_date,omitempty"`
	RecordedDate        string            `json:"recorded_date,omitempty"`
	Status              string            `json:"status,omitempty"`
	IPAddress           string            `json:"ip_address,omitempty"`
	Progress            int               `json:"progress"`
	Duration            time.Duration     `json:"duration"`
	Finished            bool              `json:"finished"`
	Recipient           Recipient         `json:"recipient"`
	LocationLatitude    string            `json:"location_latitude,omitempty"`
	LocationLongitude   string            `json:"location_longitude,omitempty"`
	DistributionChannel string            `json:"distribution_channel,omitempty"`
	UserLanguage        string            `json:"user_language,omitempty"`
	Answers             map[string]string `json:"answers"`
	Data                map[string]string `json:"-"`
}

// Get возвращает значение ячейки по имени колонки
func (r Record) Get(column string) (string, bool) {
	v, ok := r.Data[column]
	return v, ok
}

// Time разбирает ячейку как метку времени. Пустая ячейка - ok=false без ошибки.
func (r Record) Time(column string) (t time.Time, ok bool, err error) {
	v := strings.TrimSpace(r.Data[column])
	if v == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(TimestampLayout, v)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func newRecord(columns, row []string, questionPrefix string) Record {
	rec := Record{
		Data:    make(map[string]string, len(columns)),
		Answers: make(map[string]string),
	}
	for i, col := range columns {
		v := row[i]
		rec.Data[col] = v
		if questionPrefix != "" && strings.HasPrefix(col, questionPrefix) {
			rec.Answers[col] = v
		}
	}

	rec.ResponseID = strings.TrimSpace(rec.Data[ColumnResponseID])
	rec.StartDate = rec.Data[ColumnStartDate]
	rec.EndDate = rec.Data[ColumnEndDate]
	rec.RecordedDate = rec.Data[ColumnRecordedDate]
	rec.Status = rec.Data[ColumnStatus]
	rec.IPAddress = rec.Data[ColumnIPAddress]
	rec.Recipient = Recipient{
		FirstName:         rec.Data[ColumnRecipientFirstName],
		LastName:          rec.Data[ColumnRecipientLastName],
		Email:             rec.Data[ColumnRecipientEmail],
		ExternalReference: rec.Data[ColumnExternalReference],
	}
	rec.LocationLatitude = rec.Data[ColumnLocationLatitude]
	rec.LocationLongitude = rec.Data[ColumnLocationLongitude]
	rec.DistributionChannel = rec.Data[ColumnDistributionChannel]
	rec.UserLanguage = rec.Data[ColumnUserLanguage]

	// числовые поля разбираются мягко, исходное значение остается в Data
	if n, err := strconv.Atoi(strings.TrimSpace(rec.Data[ColumnProgress])); err == nil {
		rec.Progress = n
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(rec.Data[ColumnDuration]), 10, 64); err == nil {
		rec.Duration = time.Duration(n) * time.Second
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(rec.Data[ColumnFinished])); err == nil {
		rec.Finished = b
	}
	return rec
}
