package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"

	"github.com/tlmonitor/dashboard/internal/config"
	"github.com/tlmonitor/dashboard/internal/models"
	"github.com/tlmonitor/dashboard/internal/secrets"
)

// Opener opens a database handle without connecting.
type Opener func(driverName, dsn string) (*sqlx.DB, error)

type invalidator interface {
	Invalidate()
}

// MessageStore reads the message table. Every query uses its own
// connection, which is closed before the call returns.
type MessageStore struct {
	cfg    config.DatabaseConfig
	creds  secrets.CredentialProvider
	open   Opener
	logger *zap.Logger
}

func NewMessageStore(cfg config.DatabaseConfig, creds secrets.CredentialProvider, logger *zap.Logger) *MessageStore {
	return &MessageStore{
		cfg:    cfg,
		creds:  creds,
		open:   sqlx.Open,
		logger: logger,
	}
}

// WithOpener replaces how connections are opened.
func (s *MessageStore) WithOpener(open Opener) *MessageStore {
	s.open = open
	return s
}

// QueryMessages returns every row for the job code and country whose date
// falls in [start, end].
func (s *MessageStore) QueryMessages(ctx context.Context, jobCode, countryCode string, start, end time.Time) (models.RowSet, error) {
	if s.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.QueryTimeout)
		defer cancel()
	}

	db, err := s.connect(ctx)
	if err != nil {
		s.logger.Error("failed to connect to database", zap.Error(err))
		return nil, err
	}
	defer db.Close()

	query := db.Rebind(fmt.Sprintf(`
		SELECT *
		FROM %s
		WHERE sm_code = ?
		AND country = ?
		AND date BETWEEN ? AND ?
	`, s.cfg.Table))

	rows, err := db.QueryxContext(ctx, query,
		jobCode, countryCode, start.Format(models.DateLayout), end.Format(models.DateLayout))
	if err != nil {
		s.logger.Error("failed to retrieve messages",
			zap.String("table", s.cfg.Table), zap.Error(err))
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	result := make(models.RowSet, 0)
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		result = append(result, models.Row(row))
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("failed to read message rows", zap.Error(err))
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	s.logger.Debug("messages retrieved",
		zap.String("country", countryCode), zap.Int("rows", len(result)))
	return result, nil
}

func (s *MessageStore) connect(ctx context.Context) (*sqlx.DB, error) {
	creds, err := s.creds.Credentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get database credentials: %w", err)
	}

	dsn, err := BuildDSN(s.cfg.Driver, creds, s.cfg.Port, s.cfg.SSLMode)
	if err != nil {
		return nil, err
	}

	db, err := s.open(s.cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if inv, ok := s.creds.(invalidator); ok {
			inv.Invalidate()
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
