package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSheet = `name,khata,deposit,loan,fine,due,parisodh
Asha,12,100,500,0,0,0
Bithi,,50,,10,,
`

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleSheet))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Asha", rows[0].Name)
	assert.Equal(t, "12", rows[0].Khata)
	assert.Equal(t, "100", rows[0].Deposit.String())
	assert.Equal(t, "500", rows[0].NewLoan.String())

	assert.Equal(t, "Bithi", rows[1].Name)
	assert.True(t, rows[1].NewLoan.IsZero(), "blank cells read as zero")
	assert.Equal(t, "10", rows[1].Fine.String())

	// Derived fields are never read from the sheet.
	assert.True(t, rows[0].Interest.IsZero())
	assert.True(t, rows[0].Total.IsZero())
	assert.True(t, rows[0].LoanBalance.IsZero())
}

func TestParseRoundsFractions(t *testing.T) {
	rows, err := Parse(strings.NewReader("name,khata,deposit,loan,fine,due,parisodh\nAsha,,99.5,,,,\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100", rows[0].Deposit.String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "wrong header",
			input: "member,khata,deposit,loan,fine,due,parisodh\n",
			want:  "unexpected header",
		},
		{
			name:  "empty name",
			input: "name,khata,deposit,loan,fine,due,parisodh\n ,12,100,,,,\n",
			want:  "row 2: empty name",
		},
		{
			name:  "bad amount",
			input: "name,khata,deposit,loan,fine,due,parisodh\nAsha,,abc,,,,\n",
			want:  `parsing deposit "abc"`,
		},
		{
			name:  "negative amount",
			input: "name,khata,deposit,loan,fine,due,parisodh\nAsha,,-5,,,,\n",
			want:  "negative amount",
		},
		{
			name:  "wrong field count",
			input: "name,khata,deposit,loan,fine,due,parisodh\nAsha,100\n",
			want:  "reading day sheet CSV",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseEmptySheet(t *testing.T) {
	rows, err := Parse(strings.NewReader("name,khata,deposit,loan,fine,due,parisodh\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleSheet), 0o644))

	rows, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
