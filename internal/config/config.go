package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the till. All fields have working defaults so
// the program runs without a config file at all.
type Config struct {
	// DataDir is the directory owning the catalog, flag, snapshot and audit
	// files plus the per-day sales logs. Exactly one running instance may own
	// a data dir; there is no file locking.
	DataDir string `yaml:"data_dir"`

	CatalogFile  string `yaml:"catalog_file"`
	SalesDir     string `yaml:"sales_dir"`
	SnapshotFile string `yaml:"snapshot_file"`
	StockFlag    string `yaml:"stock_flag_file"`
	AuditFile    string `yaml:"audit_file"`

	// LowStockWarn fires the non-blocking warning after a decrement.
	// LowStockReport is the default threshold for the low-stock listing.
	LowStockWarn   int `yaml:"low_stock_warn"`
	LowStockReport int `yaml:"low_stock_report"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.DataDir = "data"
	cfg.CatalogFile = "productos.csv"
	cfg.SalesDir = "ventas_diarias"
	cfg.SnapshotFile = "ventas_temp.json"
	cfg.StockFlag = "config_stock.txt"
	cfg.AuditFile = "auditoria.jsonl"
	cfg.LowStockWarn = 5
	cfg.LowStockReport = 10
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	return cfg
}

// Load reads a YAML config file on top of the defaults. A missing file is not
// an error (first run); a file that exists but does not parse is. The
// BAZAR_DATA_DIR environment variable overrides data_dir last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if dir := os.Getenv("BAZAR_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if cfg.LowStockWarn < 1 {
		cfg.LowStockWarn = 5
	}
	if cfg.LowStockReport < 1 {
		cfg.LowStockReport = 10
	}

	return cfg, nil
}

func (c Config) CatalogPath() string  { return filepath.Join(c.DataDir, c.CatalogFile) }
func (c Config) SalesPath() string    { return filepath.Join(c.DataDir, c.SalesDir) }
func (c Config) SnapshotPath() string { return filepath.Join(c.DataDir, c.SnapshotFile) }
func (c Config) StockFlagPath() string { return filepath.Join(c.DataDir, c.StockFlag) }
func (c Config) AuditPath() string    { return filepath.Join(c.DataDir, c.AuditFile) }
