package filter

import (
	"fmt"
	"strings"
	"time"

	"goqualtrics/internal/domain/response"
	"goqualtrics/internal/model"
)

// checkFields проверяет, что все поля фильтра есть среди колонок снимка
func checkFields(snap *response.Snapshot, spec Spec) error {
	for _, field := range spec.Fields() {
		if !snap.HasColumn(field) {
			return model.Configuration("filter.evaluate", field, ErrUnknownField)
		}
	}
	return nil
}

func parseCell(field, v string) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(response.TimestampLayout, v)
	if err != nil {
		return time.Time{}, false, &model.Error{
			Kind:  model.ErrDecode,
			Op:    "filter.evaluate",
			Field: field,
			Err:   fmt.Errorf("cell %q: %w", v, err),
		}
	}
	return t, true, nil
}

func contains(values []string, v string) bool {
	for _, want := range values {
		if v == want {
			return true
		}
	}
	return false
}

// Rows вычисляет фильтр построчно и возвращает подходящие записи в исходном порядке
func Rows(snap *response.Snapshot, spec Spec) ([]response.Record, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := checkFields(snap, spec); err != nil {
		return nil, err
	}

	out := make([]response.Record, 0)
	for _, rec := range snap.Records {
		ok, err := matchRecord(rec, spec)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func matchRecord(rec response.Record, spec Spec) (bool, error) {
	if spec.Kind == KindText {
		for field, values := range spec.Text {
			if !contains(values, rec.Data[field]) {
				return false, nil
			}
		}
		return true, nil
	}

	matched := true
	for _, field := range spec.Fields() {
		t, ok, err := parseCell(field, rec.Data[field])
		if err != nil {
			return false, err
		}
		if !ok || !spec.Date[field].Match(t) {
			matched = false
		}
	}
	return matched, nil
}

// Columns вычисляет фильтр над колоночным представлением
func Columns(snap *response.Snapshot, spec Spec) (*response.Table, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := checkFields(snap, spec); err != nil {
		return nil, err
	}

	table := snap.Table
	mask := make([]bool, table.Len())
	for i := range mask {
		mask[i] = true
	}

	for _, field := range spec.Fields() {
		col, _ := table.Column(field)
		for i, v := range col {
			var ok bool
			if spec.Kind == KindText {
				ok = contains(spec.Text[field], v)
			} else {
				t, present, err := parseCell(field, v)
				if err != nil {
					return nil, err
				}
				ok = present && spec.Date[field].Match(t)
			}
			mask[i] = mask[i] && ok
		}
	}
	return table.Select(mask), nil
}
