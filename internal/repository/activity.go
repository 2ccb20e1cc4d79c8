package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tiw25999/license-plate-system/internal/model"
)

// BulkInsertActivityLogs inserts a batch of activity log entries.
// Called by the activity worker; batches keep the write path off the
// request hot path.
func (r *Repository) BulkInsertActivityLogs(ctx context.Context, logs []*model.ActivityLog) error {
	if len(logs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO activity_logs (id, user_id, action, description, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	for _, entry := range logs {
		batch.Queue(query,
			entry.ID,
			entry.UserID,
			entry.Action,
			nullIfEmpty(entry.Description),
			nullIfEmpty(entry.IPAddress),
			nullIfEmpty(entry.UserAgent),
			entry.CreatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range logs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert activity log: %w", err)
		}
	}

	return nil
}

// ListActivityLogs retrieves recent activity entries for a user, newest first.
func (r *Repository) ListActivityLogs(ctx context.Context, userID string, limit int) ([]*model.ActivityLog, error) {
	query := `
		SELECT id, user_id, action, description, ip_address, user_agent, created_at
		FROM activity_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	var logs []*model.ActivityLog
	for rows.Next() {
		var entry model.ActivityLog
		var description, ip, ua *string

		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&description,
			&ip,
			&ua,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}

		entry.Description = deref(description)
		entry.IPAddress = deref(ip)
		entry.UserAgent = deref(ua)
		logs = append(logs, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity logs: %w", err)
	}

	return logs, nil
}
