package database

import (
	"context"
)

const contactColumns = `id, name, email, subject, message, submitted_at, is_resolved, resolved_at`

func scanContactMessage(row rowScanner) (ContactMessage, error) {
	var i ContactMessage
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Subject,
		&i.Message,
		&i.SubmittedAt,
		&i.IsResolved,
		&i.ResolvedAt,
	)
	return i, err
}

const createContactMessage = `-- name: CreateContactMessage :one
INSERT INTO contact_messages (name, email, subject, message)
VALUES ($1, $2, $3, $4)
RETURNING ` + contactColumns

type CreateContactMessageParams struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error) {
	row := q.db.QueryRowContext(ctx, createContactMessage, arg.Name, arg.Email, arg.Subject, arg.Message)
	return scanContactMessage(row)
}

const listContactMessages = `-- name: ListContactMessages :many
SELECT ` + contactColumns + ` FROM contact_messages
WHERE ($1::text = ''
       OR ($1 = 'resolved' AND is_resolved)
       OR ($1 = 'unresolved' AND NOT is_resolved))
ORDER BY submitted_at DESC
`

// ListContactMessages filters by status: "", "resolved" or "unresolved".
func (q *Queries) ListContactMessages(ctx context.Context, status string) ([]ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx, listContactMessages, status)
	return collect(rows, err, scanContactMessage)
}

const resolveContactMessage = `-- name: ResolveContactMessage :one
UPDATE contact_messages
SET is_resolved = TRUE, resolved_at = COALESCE(resolved_at, CURRENT_TIMESTAMP)
WHERE id = $1
RETURNING ` + contactColumns

func (q *Queries) ResolveContactMessage(ctx context.Context, id int64) (ContactMessage, error) {
	return scanContactMessage(q.db.QueryRowContext(ctx, resolveContactMessage, id))
}

const countUnresolvedContactMessages = `-- name: CountUnresolvedContactMessages :one
SELECT COUNT(*) FROM contact_messages WHERE NOT is_resolved
`

func (q *Queries) CountUnresolvedContactMessages(ctx context.Context) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countUnresolvedContactMessages))
}
