package results

import (
	"bytes"
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, chip null.Val[int], splits ...SplitRecord) AthleteRecord {
	return AthleteRecord{
		Name:         name,
		Bib:          "1",
		Gender:       "Female",
		Category:     "V40",
		Rank:         1,
		GenderRank:   1,
		CategoryRank: 1,
		CountryCode:  "BE",
		ChipTime:     chip,
		Splits:       splits,
	}
}

func split(name string, seconds int) SplitRecord {
	return SplitRecord{Name: name, Time: null.From(seconds)}
}

func TestToTable_WithoutSplits(t *testing.T) {
	records := []AthleteRecord{
		record("a", null.From(100), split("5K", 50)),
		record("b", null.Val[int]{}),
	}

	table := ToTable(records, false)

	assert.Equal(t, BaseColumns, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []any{"a", "1", "Female", "V40", 1, 1, 1, "BE", 100}, table.Rows[0])
	assert.Nil(t, table.Rows[1][table.Column("chipTime")])
}

func TestToTable_HeterogeneousSplits(t *testing.T) {
	records := []AthleteRecord{
		record("a", null.From(100), split("5K", 10), split("10K", 20)),
		record("b", null.From(200), split("5K", 11), split("Half", 30)),
		record("c", null.From(300)),
	}

	table := ToTable(records, true)

	wantColumns := append(append([]string{}, BaseColumns...), "split_5K", "split_10K", "split_Half")
	assert.Equal(t, wantColumns, table.Columns)

	col5K := table.Column("split_5K")
	col10K := table.Column("split_10K")
	colHalf := table.Column("split_Half")

	assert.Equal(t, []any{10, 20, nil}, []any{table.Rows[0][col5K], table.Rows[0][col10K], table.Rows[0][colHalf]})
	assert.Equal(t, []any{11, nil, 30}, []any{table.Rows[1][col5K], table.Rows[1][col10K], table.Rows[1][colHalf]})
	assert.Equal(t, []any{nil, nil, nil}, []any{table.Rows[2][col5K], table.Rows[2][col10K], table.Rows[2][colHalf]})

	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Columns))
	}
}

func TestToTable_UnparseableSplitIsNil(t *testing.T) {
	records := []AthleteRecord{
		record("a", null.From(100), SplitRecord{Name: "5K", Time: null.Val[int]{}}),
	}

	table := ToTable(records, true)

	col := table.Column("split_5K")
	require.NotEqual(t, -1, col)
	assert.Nil(t, table.Rows[0][col])
}

func TestToTable_DuplicateSplitNameLastWins(t *testing.T) {
	records := []AthleteRecord{
		record("a", null.From(100), split("Lap", 10), split("Lap", 25)),
	}

	table := ToTable(records, true)

	assert.Len(t, table.Columns, len(BaseColumns)+1)
	assert.Equal(t, 25, table.Rows[0][table.Column("split_Lap")])
}

func TestToTable_Empty(t *testing.T) {
	table := ToTable(nil, true)

	assert.Equal(t, BaseColumns, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestTable_Column(t *testing.T) {
	table := ToTable(nil, false)

	assert.Equal(t, 0, table.Column("name"))
	assert.Equal(t, len(BaseColumns)-1, table.Column("chipTime"))
	assert.Equal(t, -1, table.Column("split_5K"))
}

func TestTable_WriteCSV(t *testing.T) {
	records := []AthleteRecord{
		record("Jansen, Jan", null.From(3723), split("5K", 1200)),
		record("b", null.Val[int]{}),
	}

	var buf bytes.Buffer
	require.NoError(t, ToTable(records, true).WriteCSV(&buf))

	want := "name,bib,gender,category,rank,genderRank,categoryRank,countryCode,chipTime,split_5K\n" +
		"\"Jansen, Jan\",1,Female,V40,1,1,1,BE,3723,1200\n" +
		"b,1,Female,V40,1,1,1,BE,,\n"
	assert.Equal(t, want, buf.String())
}
