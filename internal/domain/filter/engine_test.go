package filter

import (
	"strings"
	"testing"

	"goqualtrics/internal/domain/response"
	"goqualtrics/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(t *testing.T, csv string) *response.Snapshot {
	t.Helper()
	d := &response.Decoder{HeaderRows: 0, QuestionPrefix: "Q", Comma: ','}
	snap, err := d.Decode(strings.NewReader(csv))
	require.NoError(t, err)
	return snap
}

func recordIDs(recs []response.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ResponseID
	}
	return out
}

const andOrCSV = "ResponseId,Q1,Q2\nR_1,A,X\nR_2,B,X\nR_3,A,Y\n"

const datesCSV = "ResponseId,RecordedDate,StartDate\n" +
	"R_1,2021-01-01 00:00:00,2020-12-31 23:00:00\n" +
	"R_2,2021-06-01 00:00:00,2021-05-31 10:00:00\n" +
	"R_3,,2021-02-01 00:00:00\n"

func TestText_AndAcrossFieldsOrWithin(t *testing.T) {
	snap := snapshotOf(t, andOrCSV)

	tests := []struct {
		name string
		spec map[string][]string
		want []string
	}{
		{name: "and across fields", spec: map[string][]string{"Q1": {"A"}, "Q2": {"X"}}, want: []string{"R_1"}},
		{name: "or within field", spec: map[string][]string{"Q1": {"A", "B"}}, want: []string{"R_1", "R_2", "R_3"}},
		{name: "mixed", spec: map[string][]string{"Q1": {"A", "B"}, "Q2": {"Y"}}, want: []string{"R_3"}},
		{name: "no match", spec: map[string][]string{"Q1": {"C"}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rows, err := Rows(snap, TextSpec(tt.spec))
			require.NoError(t, err)
			table, err := Columns(snap, TextSpec(tt.spec))
			require.NoError(t, err)

			// Assert
			assert.Equal(t, tt.want, recordIDs(rows))
			assert.Equal(t, len(tt.want), table.Len())
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, table.IDs())
			}
		})
	}
}

func TestDate_BeforeAfter(t *testing.T) {
	snap := snapshotOf(t, datesCSV)

	tests := []struct {
		name string
		raw  map[string][]string
		want []string
	}{
		{
			name: "before",
			raw:  map[string][]string{"RecordedDate": {"2021-03-01 00:00:00", "before"}},
			want: []string{"R_1"},
		},
		{
			name: "after case insensitive by first letter",
			raw:  map[string][]string{"RecordedDate": {"2021-03-01 00:00:00", "AFT"}},
			want: []string{"R_2"},
		},
		{
			name: "strict comparison",
			raw:  map[string][]string{"RecordedDate": {"2021-01-01 00:00:00", "b"}},
			want: []string{},
		},
		{
			name: "and across fields",
			raw: map[string][]string{
				"RecordedDate": {"2021-12-01 00:00:00", "Before"},
				"StartDate":    {"2021-01-01 00:00:00", "after"},
			},
			want: []string{"R_2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseDateSpec(tt.raw)
			require.NoError(t, err)

			rows, err := Rows(snap, spec)
			require.NoError(t, err)
			table, err := Columns(snap, spec)
			require.NoError(t, err)

			assert.Equal(t, tt.want, recordIDs(rows))
			assert.Equal(t, len(tt.want), table.Len())
		})
	}
}

func TestRowsColumnsEquivalence(t *testing.T) {
	snap := snapshotOf(t, "ResponseId,Q1,Q2,Q3\n"+
		"R_1,a,x,1\nR_2,b,x,2\nR_3,a,y,3\nR_4,c,z,1\nR_5,a,x,3\nR_6,b,y,2\n")

	specs := []map[string][]string{
		{"Q1": {"a"}},
		{"Q1": {"a", "b"}, "Q2": {"x"}},
		{"Q3": {"1", "3"}, "Q2": {"x", "z"}},
		{"Q1": {"none"}},
		{"ResponseId": {"R_6", "R_2"}},
	}

	for _, s := range specs {
		rows, err := Rows(snap, TextSpec(s))
		require.NoError(t, err)
		table, err := Columns(snap, TextSpec(s))
		require.NoError(t, err)

		assert.ElementsMatch(t, recordIDs(rows), table.IDs(), "spec %v", s)
	}
}

func TestPreconditions(t *testing.T) {
	snap := snapshotOf(t, andOrCSV)

	t.Run("empty text spec", func(t *testing.T) {
		_, err := Rows(snap, TextSpec(map[string][]string{}))
		assert.ErrorIs(t, err, model.ErrConfiguration)
		assert.ErrorIs(t, err, ErrEmptySpec)
	})

	t.Run("empty value set", func(t *testing.T) {
		_, err := Columns(snap, TextSpec(map[string][]string{"F": {}}))
		assert.ErrorIs(t, err, model.ErrConfiguration)
		assert.ErrorIs(t, err, ErrEmptyValues)
		assert.Equal(t, "F", model.FieldOf(err))
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Rows(snap, TextSpec(map[string][]string{"Q9": {"A"}}))
		assert.ErrorIs(t, err, model.ErrConfiguration)
		assert.ErrorIs(t, err, ErrUnknownField)
		assert.Equal(t, "Q9", model.FieldOf(err))
	})

	t.Run("one element date tuple", func(t *testing.T) {
		_, err := ParseDateSpec(map[string][]string{"RecordedDate": {"2021-03-01 00:00:00"}})
		assert.ErrorIs(t, err, model.ErrConfiguration)
		assert.ErrorIs(t, err, ErrDateTuple)
	})

	t.Run("empty date spec", func(t *testing.T) {
		_, err := ParseDateSpec(map[string][]string{})
		assert.ErrorIs(t, err, model.ErrConfiguration)
	})

	t.Run("bad mode", func(t *testing.T) {
		_, err := ParseDateSpec(map[string][]string{"RecordedDate": {"2021-03-01 00:00:00", "during"}})
		assert.ErrorIs(t, err, ErrBadMode)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		_, err := ParseDateSpec(map[string][]string{"RecordedDate": {"2021/03/01", "before"}})
		assert.ErrorIs(t, err, ErrBadTimestamp)
	})
}

func TestDate_MalformedCell(t *testing.T) {
	snap := snapshotOf(t, "ResponseId,RecordedDate\nR_1,not a date\n")
	spec, err := ParseDateSpec(map[string][]string{"RecordedDate": {"2021-03-01 00:00:00", "before"}})
	require.NoError(t, err)

	_, rowErr := Rows(snap, spec)
	_, colErr := Columns(snap, spec)

	assert.ErrorIs(t, rowErr, model.ErrDecode)
	assert.ErrorIs(t, colErr, model.ErrDecode)
	assert.Equal(t, "RecordedDate", model.FieldOf(rowErr))
}

func TestEvaluationDoesNotMutateSnapshot(t *testing.T) {
	snap := snapshotOf(t, andOrCSV)
	before := snap.Table.IDs()

	_, err := Columns(snap, TextSpec(map[string][]string{"Q1": {"B"}}))
	require.NoError(t, err)

	assert.Equal(t, before, snap.Table.IDs())
	assert.Len(t, snap.Records, 3)
}
