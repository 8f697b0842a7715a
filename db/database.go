package db

import (
	"database/sql"
	"fmt"
	"log"

	"MeldFM/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createVideoMetadataTable(); err != nil {
		return err
	}
	log.Println("Database initialization completed.")
	return nil
}

func createVideoMetadataTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS video_metadata (
		media_id BIGINT NOT NULL PRIMARY KEY,
		source_path VARCHAR(767) NOT NULL,
		artist VARCHAR(255),
		album VARCHAR(255),
		album_artist VARCHAR(255),
		genre VARCHAR(255),
		track_number INT DEFAULT 0,
		disc_number INT DEFAULT 0,
		artwork_url VARCHAR(767),
		release_year INT DEFAULT 0,
		last_modified BIGINT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_source_path (source_path)
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create video_metadata table: %w", err)
	}
	log.Println("video_metadata table initialized successfully (or already exists).")
	return nil
}
