package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fault-logbook/backend/internal/config"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.DataDirectory = dir
	cfg.Storage.MappingsFile = filepath.Join(dir, "mappings.csv")
	cfg.Storage.FaultTypesFile = filepath.Join(dir, "fault_types.csv")
	cfg.Storage.OptionsFile = filepath.Join(dir, "options.yaml")
	cfg.Storage.DailyLogFile = filepath.Join(dir, "daily_log.csv")
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Storage.MappingsFile, []byte(
		"Line,Area,Equipment Type,Equipment\nL1,A1,T1,E2\nL1,A1,T1,E1\nL2,B1,T2,E3\n"), 0644))
	require.NoError(t, os.WriteFile(cfg.Storage.FaultTypesFile, []byte(
		"Type of Fault\nElectrical\n\nMechanical\n"), 0644))
	require.NoError(t, os.WriteFile(cfg.Storage.OptionsFile, []byte("loto: [\"Y\", \"N\"]\n"), 0644))

	core, err := Load(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"L1", "L2"}, core.Index.Lines())
	assert.Equal(t, []string{"E1", "E2"}, core.Index.Equipment("L1", "A1", "T1"))
	assert.Equal(t, []string{"Electrical", "Mechanical"}, core.FaultTypes.Values())
	assert.Equal(t, []string{"Y", "N"}, core.Options.LOTO)
	assert.Equal(t, models.DefaultStaticOptions().JobTypes, core.Options.JobTypes)
	assert.Equal(t, 0, core.Log.Len())
	assert.FileExists(t, cfg.Storage.DailyLogFile)

	m := core.NewMachine()
	assert.Equal(t, []string{"Y", "N"}, m.Options(models.FieldLOTO))
}

func TestLoad_MissingFilesGiveEmptyData(t *testing.T) {
	cfg := testConfig(t)

	core, err := Load(cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, core.Index.Lines())
	assert.Equal(t, 0, core.FaultTypes.Len())
	assert.Equal(t, models.DefaultStaticOptions(), core.Options)
}

func TestLoad_UnreadableMappingsAreNotFatal(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.Mkdir(cfg.Storage.MappingsFile, 0755))

	core, err := Load(cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, core.Index.Lines())
}

func TestLoad_UnknownEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.Loader.Engine = "parquet"

	_, err := Load(cfg, nil)
	assert.Error(t, err)
}

func TestLoad_DuckDBEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.Loader.Engine = "duckdb"
	require.NoError(t, os.WriteFile(cfg.Storage.MappingsFile, []byte(
		"Line,Area,Equipment Type,Equipment\nL1,A1,T1,E1\n"), 0644))

	core, err := Load(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"L1"}, core.Index.Lines())
}
