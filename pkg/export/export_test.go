package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"employee", "stage", "score"},
		Rows: []map[string]string{
			{"employee": "Kim, Minji", "stage": "self", "score": "93"},
			{"employee": "Lee Jun", "stage": "primary"},
		},
	}
}

func TestCSVRendererQuotesAndFillsBlanks(t *testing.T) {
	out, err := CSVRenderer{}.Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "employee,stage,score\n\"Kim, Minji\",self,93\nLee Jun,primary,\n", string(out))
}

func TestRendererRejectsEmptyHeaders(t *testing.T) {
	_, err := CSVRenderer{}.Render(Dataset{})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)

	r, err := RendererFor(FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "csv", r.Extension())
	_, err = RendererFor(Format("xlsx"))
	assert.Error(t, err)
}
