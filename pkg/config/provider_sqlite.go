package config

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/Oktaederim/RLT-Berechnung/pkg/migrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const defaultConfigQuery = `(SELECT id FROM configs WHERE name = 'default')`

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// InitSchema brings the configuration tables up to the latest schema version
func (s *SQLiteProvider) InitSchema() error {
	m := migrate.NewMigrator(s.db, migrate.NewFSProvider(migrations, "migrations", "schema_migrations"))
	if err := m.MigrateUp(); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	server, err := s.GetServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	config.Server = *server

	logging, err := s.GetLogging()
	if err != nil {
		return nil, fmt.Errorf("failed to load logging config: %w", err)
	}
	config.Logging = *logging

	defaults, err := s.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("failed to load input defaults: %w", err)
	}
	config.Defaults = *defaults

	presets, err := s.GetPresets()
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	config.Presets = presets

	return config, nil
}

// GetServer returns the server configuration. A missing row yields the zero value.
func (s *SQLiteProvider) GetServer() (*ServerData, error) {
	query := `
		SELECT cert, key, port, listen_addr, enable_cors, session_ttl
		FROM server_configs
		WHERE config_id = ` + defaultConfigQuery

	var server ServerData
	var cert, key, listenAddr, sessionTTL sql.NullString
	var port sql.NullInt64

	err := s.db.QueryRow(query).Scan(&cert, &key, &port, &listenAddr, &server.EnableCORS, &sessionTTL)
	if errors.Is(err, sql.ErrNoRows) {
		return &server, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query server config: %w", err)
	}

	server.Cert = cert.String
	server.Key = key.String
	server.ListenAddr = listenAddr.String
	server.SessionTTL = sessionTTL.String
	if port.Valid {
		server.Port = int(port.Int64)
	}
	return &server, nil
}

// GetLogging returns the logging configuration. A missing row yields the zero value.
func (s *SQLiteProvider) GetLogging() (*LoggingData, error) {
	query := `
		SELECT debug, file, max_size_mb, max_backups, max_age_days
		FROM logging_configs
		WHERE config_id = ` + defaultConfigQuery

	var logging LoggingData
	var file sql.NullString
	var maxSize, maxBackups, maxAge sql.NullInt64

	err := s.db.QueryRow(query).Scan(&logging.Debug, &file, &maxSize, &maxBackups, &maxAge)
	if errors.Is(err, sql.ErrNoRows) {
		return &logging, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query logging config: %w", err)
	}

	logging.File = file.String
	logging.MaxSizeMB = int(maxSize.Int64)
	logging.MaxBackups = int(maxBackups.Int64)
	logging.MaxAgeDays = int(maxAge.Int64)
	return &logging, nil
}

// GetDefaults returns the default input values
func (s *SQLiteProvider) GetDefaults() (*InputsData, error) {
	values, err := s.queryValues(`SELECT field, value FROM input_defaults WHERE config_id = ` + defaultConfigQuery)
	if err != nil {
		return nil, err
	}

	defaults, err := InputsFromValues(values)
	if err != nil {
		return nil, err
	}
	return &defaults, nil
}

// GetPresets returns the configured presets ordered by name
func (s *SQLiteProvider) GetPresets() ([]PresetData, error) {
	query := `
		SELECT id, name, description
		FROM presets
		WHERE config_id = ` + defaultConfigQuery + `
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}

	type presetRow struct {
		id     int64
		preset PresetData
	}
	var found []presetRow
	for rows.Next() {
		var r presetRow
		var description sql.NullString
		if err := rows.Scan(&r.id, &r.preset.Name, &description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan preset row: %w", err)
		}
		r.preset.Description = description.String
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	presets := make([]PresetData, 0, len(found))
	for _, r := range found {
		values, err := s.queryValues(`SELECT field, value FROM preset_values WHERE preset_id = ?`, r.id)
		if err != nil {
			return nil, fmt.Errorf("failed to load values for preset %s: %w", r.preset.Name, err)
		}
		r.preset.Values = values
		presets = append(presets, r.preset)
	}
	return presets, nil
}

func (s *SQLiteProvider) queryValues(query string, args ...interface{}) (map[string]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query values: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("failed to scan value row: %w", err)
		}
		values[field] = value
	}
	return values, rows.Err()
}

// IsReadOnly returns false since SQLite supports writes
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	// Start transaction
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return fmt.Errorf("failed to insert config: %w", err)
	}

	// Clear existing data
	if err := s.clearExistingConfig(tx, configID); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	if err := s.insertServer(tx, configID, &configData.Server); err != nil {
		return fmt.Errorf("failed to insert server config: %w", err)
	}

	if err := s.insertLogging(tx, configID, &configData.Logging); err != nil {
		return fmt.Errorf("failed to insert logging config: %w", err)
	}

	for field, value := range configData.Defaults.Values() {
		if _, err := tx.Exec(`INSERT INTO input_defaults (config_id, field, value) VALUES (?, ?, ?)`, configID, field, value); err != nil {
			return fmt.Errorf("failed to insert default %s: %w", field, err)
		}
	}

	for _, preset := range configData.Presets {
		if err := s.insertPreset(tx, configID, &preset); err != nil {
			return fmt.Errorf("failed to insert preset %s: %w", preset.Name, err)
		}
	}

	// Commit transaction
	return tx.Commit()
}

func (s *SQLiteProvider) getOrCreateConfigID(tx *sql.Tx) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM configs WHERE name = 'default'`).Scan(&id)
	if err == nil {
		_, err = tx.Exec(`UPDATE configs SET updated_at = datetime('now') WHERE id = ?`, id)
		return id, err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	result, err := tx.Exec(`INSERT INTO configs (name, created_at, updated_at) VALUES ('default', datetime('now'), datetime('now'))`)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	queries := []string{
		"DELETE FROM preset_values WHERE preset_id IN (SELECT id FROM presets WHERE config_id = ?)",
		"DELETE FROM presets WHERE config_id = ?",
		"DELETE FROM input_defaults WHERE config_id = ?",
		"DELETE FROM server_configs WHERE config_id = ?",
		"DELETE FROM logging_configs WHERE config_id = ?",
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, configID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertServer(tx *sql.Tx, configID int64, server *ServerData) error {
	query := `
		INSERT INTO server_configs (config_id, cert, key, port, listen_addr, enable_cors, session_ttl)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, configID,
		nullString(server.Cert), nullString(server.Key), server.Port,
		nullString(server.ListenAddr), server.EnableCORS, nullString(server.SessionTTL))
	return err
}

func (s *SQLiteProvider) insertLogging(tx *sql.Tx, configID int64, logging *LoggingData) error {
	query := `
		INSERT INTO logging_configs (config_id, debug, file, max_size_mb, max_backups, max_age_days)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, configID, logging.Debug, nullString(logging.File),
		logging.MaxSizeMB, logging.MaxBackups, logging.MaxAgeDays)
	return err
}

func (s *SQLiteProvider) insertPreset(tx *sql.Tx, configID int64, preset *PresetData) error {
	result, err := tx.Exec(`INSERT INTO presets (config_id, name, description) VALUES (?, ?, ?)`,
		configID, preset.Name, nullString(preset.Description))
	if err != nil {
		return err
	}

	presetID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for field, value := range preset.Values {
		if _, err := tx.Exec(`INSERT INTO preset_values (preset_id, field, value) VALUES (?, ?, ?)`, presetID, field, value); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
