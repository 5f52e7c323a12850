package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteCSV renders a table as CSV: header row, data rows, then the footer
// row when present. The title is not emitted; CSV consumers carry it in the
// file name.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	if len(t.Footer) > 0 {
		if err := cw.Write(t.Footer); err != nil {
			return fmt.Errorf("writing footer: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes a table to a file, creating or truncating it.
func SaveCSV(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
