package datafile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// ReadCSV decodes CSV data whose header row names the `csv` tags of T. Every
// tagged field of T must have a header column; extra columns are ignored. The
// first malformed row stops decoding. An input without a header row yields no
// records.
func ReadCSV[T any](r io.Reader) ([]T, error) {
	var zero T

	um, err := gocsv.NewUnmarshaller(csv.NewReader(r), zero)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if len(um.MismatchedStructFields) > 0 {
		return nil, fmt.Errorf("header row has no column for %s", strings.Join(um.MismatchedStructFields, ", "))
	}

	var records []T
	for row := 1; ; row++ {
		v, err := um.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		rec, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("row %d: decoded %T instead of %T", row, v, zero)
		}

		records = append(records, rec)
	}

	return records, nil
}
