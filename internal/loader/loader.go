// Package loader reads the mapping and fault-type tables that seed the
// cascade index. Two engines are available: a plain CSV reader and a DuckDB
// reader; both honour the same contract.
package loader

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/models"
)

// Loader turns a tabular source into mapping rows and fault types.
//
// A missing source file is not an error: the loader returns an empty slice
// so the rest of the system runs with an empty index.
type Loader interface {
	Name() string
	LoadMappings(path string) ([]models.MappingRow, error)
	LoadFaultTypes(path string) ([]string, error)
}

// table is a header-keyed view over raw rows, shared by both engines.
type table struct {
	columns map[string]int
	rows    [][]string
}

func newTable(header []string) *table {
	t := &table{columns: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := t.columns[h]; !dup {
			t.columns[h] = i
		}
	}
	return t
}

// get returns the trimmed cell for column, or "" when the column or cell is absent.
func (t *table) get(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func mappingsFromTable(t *table) []models.MappingRow {
	if t == nil {
		return []models.MappingRow{}
	}
	intern := newStringIntern()
	out := make([]models.MappingRow, 0, len(t.rows))
	for _, row := range t.rows {
		line := t.get(row, models.ColumnLine)
		if line == "" {
			continue
		}
		out = append(out, models.MappingRow{
			Line:          intern.Intern(line),
			Area:          intern.Intern(t.get(row, models.ColumnArea)),
			EquipmentType: intern.Intern(t.get(row, models.ColumnEquipmentType)),
			Equipment:     t.get(row, models.ColumnEquipment),
		})
	}
	return out
}

func faultTypesFromTable(t *table) []string {
	if t == nil {
		return []string{}
	}
	out := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		if v := t.get(row, models.ColumnFaultType); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// sourceMissing reports whether path should be treated as an empty source.
func sourceMissing(path string) (bool, error) {
	if path == "" {
		return true, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return false, errors.Newf("%s is a directory", path)
	}
	return info.Size() == 0, nil
}
