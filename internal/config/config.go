// =============================================================================
// Workshop Receipts - Configuration Module
// =============================================================================
//
// This module loads the application configuration (receipts.yaml).
//
// SOURCES, IN ORDER:
//   1. Built-in defaults
//   2. The YAML file, when present
//   3. Environment variables, optionally from a .env file:
//        RECIBOS_WORK_FOLDER    - work folder holding the bookkeeping files
//        RECIBOS_DOWNLOADS_DIR  - where files go when the folder is unusable
//        RECIBOS_SETTINGS_DB    - SQLite database holding the letterhead
//        RECIBOS_LOG_LEVEL      - debug, info, warn or error
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/workshop-receipts/internal/csvparser"
	"github.com/ginjaninja78/workshop-receipts/internal/receipt"
	"github.com/ginjaninja78/workshop-receipts/internal/records"
	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

// DefaultPath is the configuration file read when no --config flag is given.
const DefaultPath = "receipts.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// Institution is printed on the letterhead of every receipt.
	Institution receipt.Institution `yaml:"institution"`

	// =========================================================================
	// FOLDERS
	// =========================================================================

	// WorkFolder holds the three bookkeeping files and the receipts tree.
	// Empty means download-only mode.
	WorkFolder string `yaml:"work_folder"`

	// DownloadsDir receives files that could not be saved in the work folder.
	// Default: "./Descargas"
	DownloadsDir string `yaml:"downloads_dir"`

	// ReceiptsRoot is the top folder of the receipts tree inside WorkFolder.
	// Default: "Recibos"
	ReceiptsRoot string `yaml:"receipts_root"`

	// SettingsDB is the SQLite database holding the letterhead image.
	// Default: "./data/recibos.db"
	SettingsDB string `yaml:"settings_db"`

	// Files are the bookkeeping file names inside WorkFolder.
	Files FileNames `yaml:"files"`

	// Sheets are the sheet names written into new workbooks.
	Sheets SheetNames `yaml:"sheets"`

	// =========================================================================
	// RECEIPTS
	// =========================================================================

	// DefaultPaymentMethod is used when a receipt does not name one.
	// Valid values: "Efectivo", "Transferencia", "Cheque"
	DefaultPaymentMethod string `yaml:"default_payment_method"`

	// =========================================================================
	// IMPORT AND LOGGING
	// =========================================================================

	// Import controls how CSV files are read by the import commands.
	Import csvparser.Settings `yaml:"import"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `yaml:"log_level"`
}

// FileNames are the bookkeeping file names.
type FileNames struct {
	Workshops  string `yaml:"workshops"`
	Roster     string `yaml:"roster"`
	PaymentLog string `yaml:"payment_log"`
}

// SheetNames are the sheet names of new workbooks.
type SheetNames struct {
	Workshops  string `yaml:"workshops"`
	Roster     string `yaml:"roster"`
	PaymentLog string `yaml:"payment_log"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// LoadConfig loads the configuration.
//
// PARAMETERS:
//   - configPath: The YAML file. A missing file at DefaultPath is not an
//     error and yields the defaults; a missing file anywhere else is.
//
// RETURNS:
//   - The configuration, with defaults and environment overrides applied.
//   - An error if the file cannot be read or parsed, or is invalid.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && filepath.Clean(configPath) == DefaultPath:
		// First run.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	_ = godotenv.Load()
	applyEnv(&config)
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnv overrides file values with RECIBOS_* environment variables.
func applyEnv(config *Config) {
	overrides := map[string]*string{
		"RECIBOS_WORK_FOLDER":   &config.WorkFolder,
		"RECIBOS_DOWNLOADS_DIR": &config.DownloadsDir,
		"RECIBOS_SETTINGS_DB":   &config.SettingsDB,
		"RECIBOS_LOG_LEVEL":     &config.LogLevel,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*field = strings.TrimSpace(v)
		}
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.Institution == (receipt.Institution{}) {
		config.Institution = receipt.DefaultInstitution()
	}
	if config.DownloadsDir == "" {
		config.DownloadsDir = "./Descargas"
	}
	if config.ReceiptsRoot == "" {
		config.ReceiptsRoot = "Recibos"
	}
	if config.SettingsDB == "" {
		config.SettingsDB = "./data/recibos.db"
	}
	if config.Files.Workshops == "" {
		config.Files.Workshops = "talleres.xlsx"
	}
	if config.Files.Roster == "" {
		config.Files.Roster = "inscriptos.xlsx"
	}
	if config.Files.PaymentLog == "" {
		config.Files.PaymentLog = "registro_pagos.xlsx"
	}
	if config.Sheets.Workshops == "" {
		config.Sheets.Workshops = records.SheetWorkshops
	}
	if config.Sheets.Roster == "" {
		config.Sheets.Roster = records.SheetRoster
	}
	if config.Sheets.PaymentLog == "" {
		config.Sheets.PaymentLog = records.SheetPaymentLog
	}
	if config.DefaultPaymentMethod == "" {
		config.DefaultPaymentMethod = string(types.PaymentCash)
	}
	if config.Import.Delimiter == "" {
		config.Import.Delimiter = ";"
	}
	if config.Import.Encoding == "" {
		config.Import.Encoding = "UTF-8"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// Validate checks the configuration and reports every problem at once.
// It creates the downloads directory if it does not exist.
func (c *Config) Validate() error {
	var problems []string

	if _, err := types.ParsePaymentMethod(c.DefaultPaymentMethod); err != nil {
		problems = append(problems, fmt.Sprintf("invalid default_payment_method '%s'", c.DefaultPaymentMethod))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log_level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	names := map[string]string{
		"files.workshops":   c.Files.Workshops,
		"files.roster":      c.Files.Roster,
		"files.payment_log": c.Files.PaymentLog,
		"receipts_root":     c.ReceiptsRoot,
	}
	for key, name := range names {
		if strings.ContainsAny(name, `/\`) {
			problems = append(problems, fmt.Sprintf("%s '%s' must be a plain name", key, name))
		}
	}
	if c.Files.Workshops == c.Files.Roster || c.Files.Workshops == c.Files.PaymentLog || c.Files.Roster == c.Files.PaymentLog {
		problems = append(problems, "files must have three different names")
	}

	if strings.TrimSpace(c.Institution.Name) == "" {
		problems = append(problems, "institution.name cannot be empty")
	}

	if c.DownloadsDir != "" {
		if err := os.MkdirAll(c.DownloadsDir, 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create downloads directory '%s': %v", c.DownloadsDir, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// PaymentMethod returns the parsed default payment method.
func (c *Config) PaymentMethod() types.PaymentMethod {
	m, err := types.ParsePaymentMethod(c.DefaultPaymentMethod)
	if err != nil {
		return types.PaymentCash
	}
	return m
}
