package response

// Table - колоночное представление тех же строк, что и Snapshot.Records.
// Не изменяется после построения.
type Table struct {
	columns []string
	data    map[string][]string
	ids     []string
}

func newTable(columns []string, records []Record) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		data:    make(map[string][]string, len(columns)),
		ids:     make([]string, len(records)),
	}
	for _, col := range columns {
		t.data[col] = make([]string, len(records))
	}
	for i, rec := range records {
		t.ids[i] = rec.ResponseID
		for _, col := range columns {
			t.data[col][i] = rec.Data[col]
		}
	}
	return t
}

func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Column возвращает значения колонки. Срез нельзя изменять.
func (t *Table) Column(name string) ([]string, bool) {
	v, ok := t.data[name]
	return v, ok
}

func (t *Table) Has(name string) bool {
	_, ok := t.data[name]
	return ok
}

func (t *Table) Len() int {
	return len(t.ids)
}

// IDs - ResponseId по строкам в порядке выгрузки
func (t *Table) IDs() []string {
	return append([]string(nil), t.ids...)
}

// Select возвращает новую таблицу из строк, где mask[i] == true
func (t *Table) Select(mask []bool) *Table {
	out := &Table{
		columns: t.columns,
		data:    make(map[string][]string, len(t.columns)),
	}
	for i, keep := range mask {
		if keep && i < len(t.ids) {
			out.ids = append(out.ids, t.ids[i])
		}
	}
	for _, col := range t.columns {
		src := t.data[col]
		dst := make([]string, 0, len(out.ids))
		for i, keep := range mask {
			if keep && i < len(src) {
				dst = append(dst, src[i])
			}
		}
		out.data[col] = dst
	}
	return out
}

// Row возвращает строку i в виде map колонка -> значение
func (t *Table) Row(i int) map[string]string {
	row := make(map[string]string, len(t.columns))
	for _, col := range t.columns {
		row[col] = t.data[col][i]
	}
	return row
}
