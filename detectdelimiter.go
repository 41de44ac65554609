package harmonize

import (
	"bytes"
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. Omics exports are tab
// delimited far more often than not, so tab is the fallback.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && len(delimiters[0]) > 0 {
		return rune(delimiters[0][0])
	}

	return '\t'
}

// DetermineDelimiterBytes is DetermineDelimiter over an in-memory sample of
// the file, so streams that cannot seek can still be sniffed.
func DetermineDelimiterBytes(sample []byte) rune {
	return DetermineDelimiter(bytes.NewReader(sample))
}
