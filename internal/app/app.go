// Package app wires configuration, loaders and storage into the core the
// server and CLI share.
package app

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/cascade"
	"github.com/fault-logbook/backend/internal/config"
	"github.com/fault-logbook/backend/internal/export"
	"github.com/fault-logbook/backend/internal/loader"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/fault-logbook/backend/internal/recordlog"
	"github.com/fault-logbook/backend/internal/selection"
	"github.com/fault-logbook/backend/internal/storage"
)

// Core is the loaded, ready-to-use state. Index, FaultTypes and Options are
// read-only after Load returns.
type Core struct {
	Index      *cascade.Index
	FaultTypes *cascade.FaultTypeList
	Options    models.StaticOptions
	Log        *recordlog.Log
	Exporter   *export.XLSXWriter
}

// Load reads the mapping table, fault types and option file, then opens the
// daily log. Unreadable mapping or fault type files are logged and replaced
// by empty data; only a daily log that cannot be opened is fatal.
func Load(cfg *config.AppConfig, logger *slog.Logger) (*Core, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ld, err := loader.NewRegistry().Get(cfg.Loader.Engine)
	if err != nil {
		return nil, err
	}

	mappings, err := ld.LoadMappings(cfg.Storage.MappingsFile)
	if err != nil {
		logger.Error("mapping table unreadable, continuing without mappings",
			"path", cfg.Storage.MappingsFile, "loader", ld.Name(), "error", err)
		mappings = nil
	}

	faults, err := ld.LoadFaultTypes(cfg.Storage.FaultTypesFile)
	if err != nil {
		logger.Error("fault type table unreadable, continuing without fault types",
			"path", cfg.Storage.FaultTypesFile, "loader", ld.Name(), "error", err)
		faults = nil
	}

	options, err := loader.LoadOptions(cfg.Storage.OptionsFile)
	if err != nil {
		logger.Error("option file unreadable, using defaults", "path", cfg.Storage.OptionsFile, "error", err)
		options = models.DefaultStaticOptions()
	}

	index := cascade.Build(mappings)
	faultTypes := cascade.NewFaultTypeList(faults)
	logger.Info("mappings loaded",
		"loader", ld.Name(), "rows", len(mappings), "lines", index.Len(), "fault_types", faultTypes.Len())

	store, err := storage.NewCSVLogStore(cfg.Storage.DailyLogFile)
	if err != nil {
		return nil, errors.Wrap(err, "opening daily log")
	}
	log, err := recordlog.New(store, logger)
	if err != nil {
		return nil, err
	}

	return &Core{
		Index:      index,
		FaultTypes: faultTypes,
		Options:    options,
		Log:        log,
		Exporter:   export.NewXLSXWriter(),
	}, nil
}

// NewMachine returns a fresh selection machine over the loaded data.
func (c *Core) NewMachine() *selection.Machine {
	return selection.NewMachine(c.Index, c.FaultTypes, c.Options)
}
