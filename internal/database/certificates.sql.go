package database

import (
	"context"
	"time"
)

const certificateColumns = `id, user_id, course_id, issue_date, certificate_code`

func scanCertificate(row rowScanner) (Certificate, error) {
	var i Certificate
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.CourseID,
		&i.IssueDate,
		&i.CertificateCode,
	)
	return i, err
}

const createCertificate = `-- name: CreateCertificate :one
INSERT INTO certificates (user_id, course_id, certificate_code)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, course_id) DO NOTHING
RETURNING ` + certificateColumns

type CreateCertificateParams struct {
	UserID          int64
	CourseID        int64
	CertificateCode string
}

// CreateCertificate returns sql.ErrNoRows when the user already holds a
// certificate for the course.
func (q *Queries) CreateCertificate(ctx context.Context, arg CreateCertificateParams) (Certificate, error) {
	row := q.db.QueryRowContext(ctx, createCertificate, arg.UserID, arg.CourseID, arg.CertificateCode)
	return scanCertificate(row)
}

const certificateDetailSelect = `SELECT ce.id, ce.user_id, ce.course_id, ce.issue_date, ce.certificate_code,
       u.username, u.first_name, u.last_name, c.title
FROM certificates ce
JOIN users u ON u.id = ce.user_id
JOIN courses c ON c.id = ce.course_id`

type CertificateDetail struct {
	Certificate
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CourseTitle string `json:"course_title"`
}

func scanCertificateDetail(row rowScanner) (CertificateDetail, error) {
	var i CertificateDetail
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.CourseID,
		&i.IssueDate,
		&i.CertificateCode,
		&i.Username,
		&i.FirstName,
		&i.LastName,
		&i.CourseTitle,
	)
	return i, err
}

const getCertificate = `-- name: GetCertificate :one
` + certificateDetailSelect + ` WHERE ce.id = $1
`

func (q *Queries) GetCertificate(ctx context.Context, id int64) (CertificateDetail, error) {
	return scanCertificateDetail(q.db.QueryRowContext(ctx, getCertificate, id))
}

const listCertificatesByUser = `-- name: ListCertificatesByUser :many
` + certificateDetailSelect + ` WHERE ce.user_id = $1 ORDER BY ce.issue_date DESC
`

func (q *Queries) ListCertificatesByUser(ctx context.Context, userID int64) ([]CertificateDetail, error) {
	rows, err := q.db.QueryContext(ctx, listCertificatesByUser, userID)
	return collect(rows, err, scanCertificateDetail)
}

const searchCertificates = `-- name: SearchCertificates :many
` + certificateDetailSelect + `
WHERE ($1::text = '' OR ce.certificate_code ILIKE '%' || $1 || '%'
                     OR u.username ILIKE '%' || $1 || '%'
                     OR c.title ILIKE '%' || $1 || '%')
ORDER BY ce.issue_date DESC
`

func (q *Queries) SearchCertificates(ctx context.Context, search string) ([]CertificateDetail, error) {
	rows, err := q.db.QueryContext(ctx, searchCertificates, search)
	return collect(rows, err, scanCertificateDetail)
}

const listRecentCertificates = `-- name: ListRecentCertificates :many
` + certificateDetailSelect + ` ORDER BY ce.issue_date DESC LIMIT $1
`

func (q *Queries) ListRecentCertificates(ctx context.Context, limit int32) ([]CertificateDetail, error) {
	rows, err := q.db.QueryContext(ctx, listRecentCertificates, limit)
	return collect(rows, err, scanCertificateDetail)
}

const deleteCertificate = `-- name: DeleteCertificate :execrows
DELETE FROM certificates WHERE id = $1
`

func (q *Queries) DeleteCertificate(ctx context.Context, id int64) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteCertificate, id))
}

const countCertificates = `-- name: CountCertificates :one
SELECT COUNT(*) FROM certificates
`

func (q *Queries) CountCertificates(ctx context.Context) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countCertificates))
}

const countCertificatesSince = `-- name: CountCertificatesSince :one
SELECT COUNT(*) FROM certificates WHERE issue_date >= $1
`

func (q *Queries) CountCertificatesSince(ctx context.Context, since time.Time) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countCertificatesSince, since))
}
