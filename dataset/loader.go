package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Load reads the CSV file at path.
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer file.Close()

	ds, err := read(path, file)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// Read parses a CSV stream with a header row. Columns may appear in any order;
// columns outside the schema are ignored.
func Read(r io.Reader) (*Dataset, error) {
	return read("", r)
}

func read(path string, r io.Reader) (*Dataset, error) {
	// Spreadsheet exports often carry a UTF-8 BOM in front of the first header.
	utf8Reader := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(utf8Reader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrDataUnavailable)
		}
		return nil, fmt.Errorf("%w: read header: %v", ErrDataUnavailable, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	positions := make([]int, len(Schema))
	for i, f := range Schema {
		pos, ok := columns[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %s", ErrDataUnavailable, f.Name)
		}
		positions[i] = pos
	}
	labelPos, ok := columns[LabelColumn]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %s", ErrDataUnavailable, LabelColumn)
	}

	records := make([]Record, 0, 1500)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDataUnavailable, line, err)
		}

		rec := Record{
			numbers: make([]float64, len(Schema)),
			labels:  make([]string, len(Schema)),
		}
		for i, f := range Schema {
			cell := strings.TrimSpace(row[positions[i]])
			if f.Kind == Categorical {
				rec.labels[i] = cell
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d column %s: invalid number %q", ErrDataUnavailable, line, f.Name, cell)
			}
			rec.numbers[i] = v
		}

		switch label := strings.TrimSpace(row[labelPos]); label {
		case "Yes":
			rec.attrition = true
		case "No":
		default:
			return nil, fmt.Errorf("%w: line %d column %s: invalid label %q", ErrDataUnavailable, line, LabelColumn, label)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrDataUnavailable)
	}
	return newDataset(path, records), nil
}
