package model

import (
	"errors"
	"strings"
)

// Классы ошибок клиента. Конкретные ошибки доменов оборачиваются в *Error
// с одним из этих классов, чтобы вызывающий код мог проверять errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrRemote        = errors.New("remote error")
	ErrExportFailed  = errors.New("export failed")
	ErrExportTimeout = errors.New("export timeout")
	ErrDecode        = errors.New("decode error")
)

// Error - ошибка с контекстом операции
type Error struct {
	Kind  error
	Op    string
	Field string
	JobID string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	}
	if e.Field != "" {
		b.WriteString(" (field '")
		b.WriteString(e.Field)
		b.WriteString("')")
	}
	if e.JobID != "" {
		b.WriteString(" (job ")
		b.WriteString(e.JobID)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Configuration создает ошибку предусловия, обнаруженную до сетевого вызова.
func Configuration(op, field string, err error) error {
	return &Error{Kind: ErrConfiguration, Op: op, Field: field, Err: err}
}

// Remote оборачивает ошибку ответа платформы.
func Remote(op string, err error) error {
	return &Error{Kind: ErrRemote, Op: op, Err: err}
}

func Decode(op string, err error) error {
	return &Error{Kind: ErrDecode, Op: op, Err: err}
}

// FieldOf возвращает имя поля из цепочки ошибок, если оно есть.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
