package csvparse_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seasonality/pkg/csvparse"
)

func TestParse_QuotedFieldsRoundTrip(t *testing.T) {
	t.Parallel()

	records := [][]string{
		{"country", "vertical", "downloads"},
		{"USA", "Finance (Trading, Investing)", "1,234,567"},
		{"DE", "say \"hi\"", "12"},
		{"FR", "multi\nline", ""},
	}

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll(records))

	rows, err := csvparse.Parse(buf.String())
	require.NoError(t, err)
	require.Len(t, rows, len(records)-1)

	for i, rec := range records[1:] {
		for j, header := range records[0] {
			assert.Equal(t, rec[j], rows[i].Get(header), "row %d column %s", i, header)
		}
	}
}

func TestParseTable_HeaderOrderAndTrim(t *testing.T) {
	t.Parallel()

	table, err := csvparse.ParseTable(bytes.NewBufferString("\ufeff country , Week Number ,os\r\nUSA,40,IOS\r\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"country", "Week Number", "os"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "40", table.Rows[0].Get("Week Number"))
}

func TestParse_ShortAndLongRows(t *testing.T) {
	t.Parallel()

	rows, err := csvparse.Parse("a,b,c\n1\n1,2,3,4\n")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, csvparse.RawRow{"a": "1", "b": "", "c": ""}, rows[0])
	assert.Equal(t, csvparse.RawRow{"a": "1", "b": "2", "c": "3"}, rows[1])
}

func TestParse_CarriageReturnCell(t *testing.T) {
	t.Parallel()

	rows, err := csvparse.Parse("a,b\n1,\"\r\"\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Get("b"))
}

func TestParse_BlankLinesIgnored(t *testing.T) {
	t.Parallel()

	rows, err := csvparse.Parse("a,b\n1,2\n\n,\n\n")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParse_EmptyInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "header only", input: "a,b,c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rows, err := csvparse.Parse(tt.input)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}

func TestParse_StrayQuoteKeepsRows(t *testing.T) {
	t.Parallel()

	rows, err := csvparse.Parse("country,vertical,value\nUSA,puzzle,1\nUSA,12\" tablets,2\nUSA,rmg,3\n")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "puzzle", rows[0].Get("vertical"))
	assert.Equal(t, "12\" tablets", rows[1].Get("vertical"))
	assert.Equal(t, "2", rows[1].Get("value"))
	assert.Equal(t, "rmg", rows[2].Get("vertical"))
}

func TestParseTable_ReadFailure(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("connection reset")

	_, err := csvparse.ParseTable(iotest.ErrReader(errBoom))
	require.ErrorIs(t, err, csvparse.ErrMalformedCSV)
	require.ErrorIs(t, err, errBoom)
}
