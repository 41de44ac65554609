package table

import (
	"bufio"
	"encoding/csv"
	"io"
)

var headerLevels = map[int][]string{
	1: {"Name"},
	2: {"Name", "Database_ID"},
	4: {"Name", "Site", "Peptide", "Database_ID"},
}

// WriteTSV writes t as tab-separated text. Column keys take one header line
// per key level; the first column holds the PatientID.
func WriteTSV(w io.Writer, t *Table) error {
	buf := bufio.NewWriterSize(w, 4096)
	cw := csv.NewWriter(buf)
	cw.Comma = '\t'

	width := 1
	for _, c := range t.cols {
		if kw := c.Key.Width(); kw > width {
			width = kw
		}
	}

	levels := headerLevels[width]
	for l, level := range levels {
		line := make([]string, 0, len(t.cols)+1)
		if l == len(levels)-1 {
			line = append(line, "Patient_ID")
		} else {
			line = append(line, level)
		}
		for _, c := range t.cols {
			line = append(line, c.Key.Header(width)[l])
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	for i, id := range t.rows {
		line := make([]string, 0, len(t.cols)+1)
		line = append(line, string(id))
		for _, c := range t.cols {
			line = append(line, c.Format(i))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return buf.Flush()
}
