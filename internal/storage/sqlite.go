package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"show_notifier/internal/model"
	"show_notifier/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// RecordNotification inserts a delivered notification and populates its ID
// and CreatedAt.
func (s *SQLite) RecordNotification(ctx context.Context, n *model.Notification) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (kind, chat_id, body, created_at) VALUES (?, ?, ?, ?)`,
		string(n.Kind), n.ChatID, n.Body, now,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	n.ID = id
	n.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// RecentNotifications returns up to limit notifications, newest first.
func (s *SQLite) RecentNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, chat_id, body, created_at
		 FROM notifications ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountNotifications returns how many notifications of kind were recorded.
func (s *SQLite) CountNotifications(ctx context.Context, kind model.CheckKind) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE kind = ?`, string(kind),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanNotification(row scannable) (model.Notification, error) {
	var n model.Notification
	var kind, created string
	if err := row.Scan(&n.ID, &kind, &n.ChatID, &n.Body, &created); err != nil {
		return n, fmt.Errorf("scan notification: %w", err)
	}
	n.Kind = model.CheckKind(kind)
	n.CreatedAt, _ = time.Parse(timeLayout, created)
	return n, nil
}
