package table

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// ReadCSV reads a header line followed by data rows. Empty cells are left
// out of the row, integer and float cells become int64 and float64, cells
// holding a JSON array or object (a coordinates column) are decoded.
// Numbers inside decoded JSON are float64.
// It returns the rows and the header in file order.
func ReadCSV(r io.Reader) (Rows, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return Rows{}, []string{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := Rows{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		row := make(Row, len(header))
		for i, cell := range rec {
			if i >= len(header) || cell == "" {
				continue
			}
			row[header[i]] = parseCell(cell)
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// parseCell infers the cell type. Text that merely looks like JSON stays
// text.
func parseCell(cell string) interface{} {
	trimmed := strings.TrimSpace(cell)
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		var v interface{}
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
		return cell
	}
	// keep "NaN", "Inf" and friends as text
	if trimmed == "" || !strings.ContainsAny(trimmed[:1], "+-.0123456789") {
		return cell
	}
	// zip codes and ids like "007" would lose their zeros
	if leadingZero(trimmed) {
		return cell
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return cell
}

// leadingZero reports whether the digits of s start with a zero that is
// followed by another digit.
func leadingZero(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}

// WriteCSV writes the given columns of every row, header first. Absent
// cells are written empty, nested values as JSON.
func WriteCSV(w io.Writer, t Table, columns []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}

	rec := make([]string, len(columns))
	for _, row := range t.Rows() {
		for i, c := range columns {
			s, err := formatCell(row[c])
			if err != nil {
				return errors.Wrapf(err, "column %q", c)
			}
			rec[i] = s
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
