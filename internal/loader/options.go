package loader

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// LoadOptions reads the static dropdown lists from a YAML file.
// A missing file yields the built-in defaults; lists left empty in the file
// fall back to their defaults too.
func LoadOptions(path string) (models.StaticOptions, error) {
	missing, err := sourceMissing(path)
	if err != nil {
		return models.DefaultStaticOptions(), err
	}
	if missing {
		return models.DefaultStaticOptions(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return models.DefaultStaticOptions(), errors.Wrapf(err, "opening %s", path)
	}
	defer file.Close()

	return LoadOptionsFromReader(file)
}

// LoadOptionsFromReader parses option lists from an io.Reader.
func LoadOptionsFromReader(r io.Reader) (models.StaticOptions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.DefaultStaticOptions(), err
	}

	var opts models.StaticOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return models.DefaultStaticOptions(), errors.Wrap(err, "parsing options")
	}
	return opts.WithDefaults(), nil
}
