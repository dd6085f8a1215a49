// Package storage defines the notification history interface and its implementations.
package storage

import (
	"context"

	"show_notifier/internal/model"
)

// Storage records delivered notifications. It is an audit trail only; dedup
// state is never restored from it.
type Storage interface {
	RecordNotification(ctx context.Context, n *model.Notification) error
	RecentNotifications(ctx context.Context, limit int) ([]model.Notification, error)
	CountNotifications(ctx context.Context, kind model.CheckKind) (int, error)

	Close() error
}
