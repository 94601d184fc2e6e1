package premium

import (
	"encoding/csv"
	"io"
	"strconv"
)

// utf8BOM lets spreadsheet tools that default to a regional code page detect UTF-8.
const utf8BOM = "\ufeff"

var (
	YearSummaryHeader = []string{"age", "total_premium", "cumulative_premium"}
	DetailHeader      = []string{
		"age",
		"product_code",
		"product_name",
		"unit",
		"face_amount",
		"quantity",
		"unit_rate",
		"year_premium",
	}
)

func WriteYearSummaryCSV(w io.Writer, rows []YearRow) error {
	return writeCSV(w, YearSummaryHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			strconv.Itoa(r.Age),
			r.Total.String(),
			r.Cumulative.String(),
		}
	})
}

func WriteDetailCSV(w io.Writer, rows []DetailRow) error {
	return writeCSV(w, DetailHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			strconv.Itoa(r.Age),
			r.ProductCode,
			r.ProductName,
			string(r.Unit),
			r.FaceAmount.String(),
			strconv.Itoa(r.Quantity),
			r.UnitRate.String(),
			r.YearPremium.String(),
		}
	})
}

func writeCSV(w io.Writer, header []string, n int, row func(i int) []string) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
