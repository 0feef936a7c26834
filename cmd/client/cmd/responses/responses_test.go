package responses

import (
	"strings"
	"testing"
	"time"

	"goqualtrics/internal/domain/export"
	"goqualtrics/internal/domain/filter"
	"goqualtrics/internal/domain/response"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		value   func(string) []string
		want    map[string][]string
		wantErr bool
	}{
		{
			name:  "текст",
			raw:   []string{"Q1=red, blue", "Q2=yes", "Q1=green"},
			value: parseTextValue,
			want:  map[string][]string{"Q1": {"red", "blue", "green"}, "Q2": {"yes"}},
		},
		{
			name:  "дата",
			raw:   []string{"RecordedDate=2021-03-01 00:00:00, before"},
			value: parseDateValue,
			want:  map[string][]string{"RecordedDate": {"2021-03-01 00:00:00", "before"}},
		},
		{
			name:  "дата без направления",
			raw:   []string{"EndDate=2021-03-01 00:00:00"},
			value: parseDateValue,
			want:  map[string][]string{"EndDate": {"2021-03-01 00:00:00"}},
		},
		{
			name:    "без знака равенства",
			raw:     []string{"Q1"},
			value:   parseTextValue,
			wantErr: true,
		},
		{
			name:    "пустое поле",
			raw:     []string{"=red"},
			value:   parseTextValue,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFields(tt.raw, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFields_DateSpec(t *testing.T) {
	raw, err := parseFields([]string{"RecordedDate=2021-03-01 00:00:00,After"}, parseDateValue)
	require.NoError(t, err)

	spec, err := filter.ParseDateSpec(raw)

	require.NoError(t, err)
	assert.Equal(t, filter.ModeAfter, spec.Date["RecordedDate"].Mode)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2021, 3, 1, 10, 30, 0, 0, time.UTC)

	rfc, err := parseTime("2021-03-01T10:30:00Z")
	require.NoError(t, err)
	assert.True(t, want.Equal(rfc))

	plain, err := parseTime("2021-03-01 10:30:00")
	require.NoError(t, err)
	assert.True(t, want.Equal(plain))

	_, err = parseTime("01.03.2021")
	assert.Error(t, err)
}

func TestAnswers_SortedByQuestion(t *testing.T) {
	r := response.Record{Answers: map[string]string{"Q2": "b", "Q1": "a", "Q10": "c"}}

	assert.Equal(t, "Q1=a Q10=c Q2=b", answers(r))
}

func TestExportOptions_OnlyChangedFlags(t *testing.T) {
	// Arrange
	require.NoError(t, exportCmd.ParseFlags([]string{
		"--format", "tsv",
		"--limit", "0",
		"--use-labels=false",
		"--no-compress",
		"--question", "QID1,QID2",
	}))

	// Act
	opts, err := exportOptions(exportCmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, export.FormatTSV, opts.Format)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, 0, *opts.Limit)
	require.NotNil(t, opts.UseLabels)
	assert.False(t, *opts.UseLabels)
	require.NotNil(t, opts.Compress)
	assert.False(t, *opts.Compress)
	assert.Nil(t, opts.StartDate)
	assert.Nil(t, opts.TimeZone)
	assert.Equal(t, []string{"QID1", "QID2"}, opts.QuestionIDs)
}

func TestTableRows_ColumnarFilter(t *testing.T) {
	// Arrange
	csv := "ResponseId,Q1,Q2\nResponse ID,Colour,Size\nImportId,QID1,QID2\n" +
		"R_1,red,S\nR_2,blue,M\nR_3,red,L\n"
	snap, err := response.NewDecoder().Decode(strings.NewReader(csv))
	require.NoError(t, err)

	// Act
	table, err := filter.Columns(snap, filter.TextSpec(map[string][]string{"Q1": {"red"}}))
	require.NoError(t, err)
	rows := tableRows(table)

	// Assert
	assert.Equal(t, []map[string]string{
		{"ResponseId": "R_1", "Q1": "red", "Q2": "S"},
		{"ResponseId": "R_3", "Q1": "red", "Q2": "L"},
	}, rows)
}

func TestColumnsFlag_Registered(t *testing.T) {
	for _, c := range []*cobra.Command{filterTextCmd, filterDateCmd, applyCmd} {
		t.Run(c.Name(), func(t *testing.T) {
			f := c.Flags().Lookup("columns")
			require.NotNil(t, f)
			assert.Equal(t, "false", f.DefValue)
		})
	}
}
