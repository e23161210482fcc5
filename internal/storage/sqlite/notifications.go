package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roomtab/roomtab/internal/models"
)

// CreateNotification appends a notification event. Meta is stored as JSON.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt == 0 {
		n.CreatedAt = time.Now().Unix()
	}

	var meta any
	if n.Meta != nil {
		raw, err := json.Marshal(n.Meta)
		if err != nil {
			return fmt.Errorf("failed to encode notification meta: %w", err)
		}
		meta = string(raw)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, group_id, type, title, body, meta, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.GroupID, n.Type, n.Title, n.Body, meta, n.CreatedAt, n.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListNotifications retrieves the group's latest notifications, newest first,
// with their read receipts.
func (s *SQLiteStore) ListNotifications(ctx context.Context, groupID string, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, type, title, body, meta, created_at, created_by
		 FROM notifications WHERE group_id = ?
		 ORDER BY created_at DESC, id LIMIT ?`,
		groupID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifs []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var meta sql.NullString
		if err := rows.Scan(&n.ID, &n.GroupID, &n.Type, &n.Title, &n.Body, &meta, &n.CreatedAt, &n.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &n.Meta); err != nil {
				return nil, fmt.Errorf("failed to decode notification meta: %w", err)
			}
		}
		notifs = append(notifs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	for _, n := range notifs {
		n.ReadBy, err = s.notificationReaders(ctx, n.ID)
		if err != nil {
			return nil, err
		}
	}
	return notifs, nil
}

// MarkAllNotificationsRead records the user as a reader of every notification
// in the group. Read receipts only ever grow; re-marking is a no-op.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context, groupID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO notification_reads (notification_id, user_id)
		 SELECT id, ? FROM notifications WHERE group_id = ?`,
		userID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *SQLiteStore) notificationReaders(ctx context.Context, notificationID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM notification_reads WHERE notification_id = ? ORDER BY user_id",
		notificationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification readers: %w", err)
	}
	defer rows.Close()

	var readers []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("failed to scan reader: %w", err)
		}
		readers = append(readers, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readers: %w", err)
	}
	return readers, nil
}
