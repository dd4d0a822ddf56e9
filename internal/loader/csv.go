package loader

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/models"
)

// CSVLoader reads UTF-8 CSV files with a header row.
type CSVLoader struct{}

func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

func (l *CSVLoader) Name() string {
	return "csv"
}

func (l *CSVLoader) LoadMappings(path string) ([]models.MappingRow, error) {
	t, err := readCSVTable(path)
	if err != nil {
		return nil, err
	}
	return mappingsFromTable(t), nil
}

func (l *CSVLoader) LoadFaultTypes(path string) ([]string, error) {
	t, err := readCSVTable(path)
	if err != nil {
		return nil, err
	}
	return faultTypesFromTable(t), nil
}

func readCSVTable(path string) (*table, error) {
	missing, err := sourceMissing(path)
	if err != nil || missing {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer file.Close()

	return parseCSVTable(file)
}

func parseCSVTable(r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	// Spreadsheet exports often have ragged rows; short rows read as empty cells.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}

	t := newTable(header)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading row")
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}
