package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DatabaseURL   string // SESSIONLOG_DATABASE_URL (required)
	HTTPAddr      string // SESSIONLOG_HTTP_ADDR (default ":8080")
	NATSURL       string // SESSIONLOG_NATS_URL (optional, empty = no queue ingress or notifications)
	IngestSubject string // SESSIONLOG_INGEST_SUBJECT (default "sessionlog.ingest")
	AuthToken     string // SESSIONLOG_AUTH_TOKEN (optional, empty = auth disabled)

	// Backup settings
	BackupInterval   time.Duration // SESSIONLOG_BACKUP_INTERVAL (default 5m; 0 = disabled)
	BackupS3Bucket   string        // SESSIONLOG_BACKUP_S3_BUCKET (enables backup when set)
	BackupS3Key      string        // SESSIONLOG_BACKUP_S3_KEY (default "sessionlog/sessions.jsonl")
	BackupS3Region   string        // SESSIONLOG_BACKUP_S3_REGION (default "us-east-1")
	BackupS3Endpoint string        // SESSIONLOG_BACKUP_S3_ENDPOINT (custom endpoint for MinIO)
}

// fileConfig mirrors Config for the optional TOML file at
// SESSIONLOG_CONFIG_FILE. Environment variables take precedence over
// file values.
type fileConfig struct {
	DatabaseURL      string `toml:"database_url"`
	HTTPAddr         string `toml:"http_addr"`
	NATSURL          string `toml:"nats_url"`
	IngestSubject    string `toml:"ingest_subject"`
	AuthToken        string `toml:"auth_token"`
	BackupInterval   string `toml:"backup_interval"`
	BackupS3Bucket   string `toml:"backup_s3_bucket"`
	BackupS3Key      string `toml:"backup_s3_key"`
	BackupS3Region   string `toml:"backup_s3_region"`
	BackupS3Endpoint string `toml:"backup_s3_endpoint"`
}

func Load() (*Config, error) {
	var file fileConfig
	if path := os.Getenv("SESSIONLOG_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("SESSIONLOG_CONFIG_FILE: %w", err)
		}
	}

	c := &Config{
		DatabaseURL:      firstOf(os.Getenv("SESSIONLOG_DATABASE_URL"), file.DatabaseURL),
		HTTPAddr:         firstOf(os.Getenv("SESSIONLOG_HTTP_ADDR"), file.HTTPAddr, ":8080"),
		NATSURL:          firstOf(os.Getenv("SESSIONLOG_NATS_URL"), file.NATSURL),
		IngestSubject:    firstOf(os.Getenv("SESSIONLOG_INGEST_SUBJECT"), file.IngestSubject, "sessionlog.ingest"),
		AuthToken:        firstOf(os.Getenv("SESSIONLOG_AUTH_TOKEN"), file.AuthToken),
		BackupS3Bucket:   firstOf(os.Getenv("SESSIONLOG_BACKUP_S3_BUCKET"), file.BackupS3Bucket),
		BackupS3Key:      firstOf(os.Getenv("SESSIONLOG_BACKUP_S3_KEY"), file.BackupS3Key, "sessionlog/sessions.jsonl"),
		BackupS3Region:   firstOf(os.Getenv("SESSIONLOG_BACKUP_S3_REGION"), file.BackupS3Region, "us-east-1"),
		BackupS3Endpoint: firstOf(os.Getenv("SESSIONLOG_BACKUP_S3_ENDPOINT"), file.BackupS3Endpoint),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("SESSIONLOG_DATABASE_URL is required")
	}

	intervalStr := firstOf(os.Getenv("SESSIONLOG_BACKUP_INTERVAL"), file.BackupInterval, "5m")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("SESSIONLOG_BACKUP_INTERVAL: %w", err)
	}
	c.BackupInterval = d

	return c, nil
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
