package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"orderdesk/internal/core/application/usecases/commands"
)

type Config struct {
	HTTPPort            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
	OperatingTimezone   string
	SyncMode            string
	BulkChunkSize       string
	BroadcastFanout     string
	RedisAddress        string
	JWTSecret           string
	TrustOperatorHeader string
	AssemblyOpeningCron string
	LogLevel            string
}

// DSN is the libpq connection string of the database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Location of the operating time zone; UTC when unset.
func (c Config) Location() (*time.Location, error) {
	if c.OperatingTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.OperatingTimezone)
	if err != nil {
		return nil, fmt.Errorf("OPERATING_TIMEZONE: %w", err)
	}
	return loc, nil
}

func (c Config) Sync() (commands.SyncMode, error) {
	return commands.ParseSyncMode(c.SyncMode)
}

func (c Config) ChunkSize() (int, error) {
	if c.BulkChunkSize == "" {
		return commands.DefaultChunkSize, nil
	}
	n, err := strconv.Atoi(c.BulkChunkSize)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("BULK_CHUNK_SIZE must be a positive integer, got %q", c.BulkChunkSize)
	}
	return n, nil
}

func (c Config) TrustHeader() bool {
	ok, _ := strconv.ParseBool(strings.TrimSpace(c.TrustOperatorHeader))
	return ok
}
