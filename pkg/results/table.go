package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"
)

// SplitColumnPrefix prefixes the column of every split.
const SplitColumnPrefix = "split_"

// BaseColumns are the non-split columns, in order.
var BaseColumns = []string{
	"name",
	"bib",
	"gender",
	"category",
	"rank",
	"genderRank",
	"categoryRank",
	"countryCode",
	"chipTime",
}

// Table is a row-per-athlete view of collected records. Cells hold a
// string, an int or nil.
type Table struct {
	Columns []string
	Rows    [][]any
}

// ToTable projects records into a table. With withSplits, one column per
// distinct split name is appended in first-seen order; an athlete without
// that split gets nil. A split name repeated within one athlete keeps the
// last value.
func ToTable(records []AthleteRecord, withSplits bool) *Table {
	var splitNames []string
	if withSplits {
		splitNames = lo.Uniq(lo.FlatMap(records, func(r AthleteRecord, _ int) []string {
			return lo.Map(r.Splits, func(s SplitRecord, _ int) string { return s.Name })
		}))
	}

	columns := make([]string, 0, len(BaseColumns)+len(splitNames))
	columns = append(columns, BaseColumns...)
	columns = append(columns, lo.Map(splitNames, func(name string, _ int) string {
		return SplitColumnPrefix + name
	})...)

	rows := lo.Map(records, func(r AthleteRecord, _ int) []any {
		row := make([]any, 0, len(columns))
		row = append(row,
			r.Name,
			string(r.Bib),
			string(r.Gender),
			r.Category,
			r.Rank,
			r.GenderRank,
			r.CategoryRank,
			r.CountryCode,
			cell(r.ChipTime),
		)

		if withSplits {
			times := lo.SliceToMap(r.Splits, func(s SplitRecord) (string, null.Val[int]) {
				return s.Name, s.Time
			})
			for _, name := range splitNames {
				t, ok := times[name]
				if !ok {
					row = append(row, nil)
					continue
				}
				row = append(row, cell(t))
			}
		}
		return row
	})

	return &Table{Columns: columns, Rows: rows}
}

// Column returns the index of a column, or -1.
func (t *Table) Column(name string) int {
	return lo.IndexOf(t.Columns, name)
}

// WriteCSV writes a header line followed by one line per row. nil cells are
// written as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	line := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j := range line {
			line[j] = ""
			if j < len(row) {
				line[j] = formatCell(row[j])
			}
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func cell(v null.Val[int]) any {
	if seconds, ok := v.Get(); ok {
		return seconds
	}
	return nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
