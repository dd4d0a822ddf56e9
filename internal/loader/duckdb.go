package loader

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/marcboeker/go-duckdb"
)

// DuckDBLoader reads CSV sources through an in-memory DuckDB instance.
// Every column is read as VARCHAR so values keep their literal spelling.
type DuckDBLoader struct{}

func NewDuckDBLoader() *DuckDBLoader {
	return &DuckDBLoader{}
}

func (l *DuckDBLoader) Name() string {
	return "duckdb"
}

func (l *DuckDBLoader) LoadMappings(path string) ([]models.MappingRow, error) {
	t, err := l.readTable(path)
	if err != nil {
		return nil, err
	}
	return mappingsFromTable(t), nil
}

func (l *DuckDBLoader) LoadFaultTypes(path string) ([]string, error) {
	t, err := l.readTable(path)
	if err != nil {
		return nil, err
	}
	return faultTypesFromTable(t), nil
}

func (l *DuckDBLoader) readTable(path string) (*table, error) {
	missing, err := sourceMissing(path)
	if err != nil || missing {
		return nil, err
	}

	connector, err := duckdb.NewConnector("", func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=1",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating duckdb connector")
	}
	db := sql.OpenDB(connector)
	defer db.Close()

	query := fmt.Sprintf(
		"SELECT * FROM read_csv(%s, header = true, all_varchar = true, null_padding = true)",
		quoteLiteral(path),
	)
	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "reading columns")
	}

	t := newTable(columns)
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		row := make([]string, len(columns))
		for i, c := range cells {
			row[i] = c.String // NULL reads as ""
		}
		t.rows = append(t.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating rows")
	}
	return t, nil
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
