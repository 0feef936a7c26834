package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"goqualtrics/internal/domain/response"
	"goqualtrics/internal/model"
)

type Kind string

const (
	KindText Kind = "text"
	KindDate Kind = "date"
)

type Mode string

const (
	ModeBefore Mode = "before"
	ModeAfter  Mode = "after"
)

// ParseMode распознает режим по первой букве без учета регистра
func ParseMode(raw string) (Mode, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrBadMode
	}
	switch s[0] {
	case 'b':
		return ModeBefore, nil
	case 'a':
		return ModeAfter, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadMode, raw)
}

type DateCondition struct {
	Reference time.Time `json:"reference"`
	Mode      Mode      `json:"mode"`
}

// Match проверяет строгое сравнение с опорной меткой
func (c DateCondition) Match(t time.Time) bool {
	if c.Mode == ModeBefore {
		return t.Before(c.Reference)
	}
	return t.After(c.Reference)
}

// Spec - описание фильтра: текстовое (поле -> допустимые значения)
// либо по датам (поле -> опорная метка и направление).
type Spec struct {
	Kind Kind                     `json:"kind"`
	Text map[string][]string      `json:"text,omitempty"`
	Date map[string]DateCondition `json:"date,omitempty"`
}

func TextSpec(fields map[string][]string) Spec {
	return Spec{Kind: KindText, Text: fields}
}

// ParseDateSpec строит фильтр по датам из пар [timestamp, mode]
func ParseDateSpec(raw map[string][]string) (Spec, error) {
	const op = "filter.date"

	spec := Spec{Kind: KindDate, Date: make(map[string]DateCondition, len(raw))}
	if len(raw) == 0 {
		return spec, model.Configuration(op, "", ErrEmptySpec)
	}
	for _, field := range sortedKeys(raw) {
		vals := raw[field]
		if len(vals) != 2 {
			return spec, model.Configuration(op, field, fmt.Errorf("%w, got %d values", ErrDateTuple, len(vals)))
		}
		ref, err := time.Parse(response.TimestampLayout, strings.TrimSpace(vals[0]))
		if err != nil {
			return spec, model.Configuration(op, field, fmt.Errorf("%w: %q", ErrBadTimestamp, vals[0]))
		}
		mode, err := ParseMode(vals[1])
		if err != nil {
			return spec, model.Configuration(op, field, err)
		}
		spec.Date[field] = DateCondition{Reference: ref, Mode: mode}
	}
	return spec, nil
}

// Validate проверяет форму фильтра без обращения к данным
func (s Spec) Validate() error {
	const op = "filter.validate"

	switch s.Kind {
	case KindText:
		if len(s.Text) == 0 {
			return model.Configuration(op, "", ErrEmptySpec)
		}
		for _, field := range sortedKeys(s.Text) {
			if len(s.Text[field]) == 0 {
				return model.Configuration(op, field, ErrEmptyValues)
			}
		}
	case KindDate:
		if len(s.Date) == 0 {
			return model.Configuration(op, "", ErrEmptySpec)
		}
		for field, c := range s.Date {
			if c.Mode != ModeBefore && c.Mode != ModeAfter {
				return model.Configuration(op, field, ErrBadMode)
			}
		}
	default:
		return model.Configuration(op, "kind", fmt.Errorf("unknown filter kind %q", s.Kind))
	}
	return nil
}

// Fields - поля фильтра в отсортированном порядке
func (s Spec) Fields() []string {
	if s.Kind == KindDate {
		return sortedKeys(s.Date)
	}
	return sortedKeys(s.Text)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
