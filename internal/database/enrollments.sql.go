package database

import (
	"context"
	"time"
)

const enrollmentColumns = `id, user_id, course_id, enroll_date, progress_percent, status, completed_date`

func scanEnrollment(row rowScanner) (Enrollment, error) {
	var i Enrollment
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.CourseID,
		&i.EnrollDate,
		&i.ProgressPercent,
		&i.Status,
		&i.CompletedDate,
	)
	return i, err
}

const createEnrollment = `-- name: CreateEnrollment :one
INSERT INTO enrollments (user_id, course_id)
VALUES ($1, $2)
RETURNING ` + enrollmentColumns

type CreateEnrollmentParams struct {
	UserID   int64
	CourseID int64
}

func (q *Queries) CreateEnrollment(ctx context.Context, arg CreateEnrollmentParams) (Enrollment, error) {
	return scanEnrollment(q.db.QueryRowContext(ctx, createEnrollment, arg.UserID, arg.CourseID))
}

const getEnrollment = `-- name: GetEnrollment :one
SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1 AND course_id = $2
`

type GetEnrollmentParams struct {
	UserID   int64
	CourseID int64
}

func (q *Queries) GetEnrollment(ctx context.Context, arg GetEnrollmentParams) (Enrollment, error) {
	return scanEnrollment(q.db.QueryRowContext(ctx, getEnrollment, arg.UserID, arg.CourseID))
}

const listEnrollmentsByUser = `-- name: ListEnrollmentsByUser :many
SELECT e.id, e.user_id, e.course_id, e.enroll_date, e.progress_percent, e.status, e.completed_date, c.title
FROM enrollments e
JOIN courses c ON c.id = e.course_id
WHERE e.user_id = $1
ORDER BY e.enroll_date DESC
`

type EnrollmentWithCourse struct {
	Enrollment
	CourseTitle string `json:"course_title"`
}

func (q *Queries) ListEnrollmentsByUser(ctx context.Context, userID int64) ([]EnrollmentWithCourse, error) {
	rows, err := q.db.QueryContext(ctx, listEnrollmentsByUser, userID)
	return collect(rows, err, func(row rowScanner) (EnrollmentWithCourse, error) {
		var i EnrollmentWithCourse
		err := row.Scan(
			&i.ID,
			&i.UserID,
			&i.CourseID,
			&i.EnrollDate,
			&i.ProgressPercent,
			&i.Status,
			&i.CompletedDate,
			&i.CourseTitle,
		)
		return i, err
	})
}

const listEnrollmentsByCourse = `-- name: ListEnrollmentsByCourse :many
SELECT e.id, e.user_id, e.course_id, e.enroll_date, e.progress_percent, e.status, e.completed_date,
       u.username, u.email, u.first_name, u.last_name
FROM enrollments e
JOIN users u ON u.id = e.user_id
WHERE e.course_id = $1
ORDER BY e.enroll_date DESC
`

type EnrolledStudent struct {
	Enrollment
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (q *Queries) ListEnrollmentsByCourse(ctx context.Context, courseID int64) ([]EnrolledStudent, error) {
	rows, err := q.db.QueryContext(ctx, listEnrollmentsByCourse, courseID)
	return collect(rows, err, func(row rowScanner) (EnrolledStudent, error) {
		var i EnrolledStudent
		err := row.Scan(
			&i.ID,
			&i.UserID,
			&i.CourseID,
			&i.EnrollDate,
			&i.ProgressPercent,
			&i.Status,
			&i.CompletedDate,
			&i.Username,
			&i.Email,
			&i.FirstName,
			&i.LastName,
		)
		return i, err
	})
}

const addCompletedLesson = `-- name: AddCompletedLesson :execrows
INSERT INTO enrollment_completed_lessons (enrollment_id, lesson_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

type AddCompletedLessonParams struct {
	EnrollmentID int64
	LessonID     int64
}

func (q *Queries) AddCompletedLesson(ctx context.Context, arg AddCompletedLessonParams) (int64, error) {
	return affected(q.db.ExecContext(ctx, addCompletedLesson, arg.EnrollmentID, arg.LessonID))
}

const listCompletedLessonIDs = `-- name: ListCompletedLessonIDs :many
SELECT lesson_id FROM enrollment_completed_lessons WHERE enrollment_id = $1 ORDER BY lesson_id
`

func (q *Queries) ListCompletedLessonIDs(ctx context.Context, enrollmentID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listCompletedLessonIDs, enrollmentID)
	return collect(rows, err, scanInt64)
}

const updateEnrollmentProgress = `-- name: UpdateEnrollmentProgress :one
UPDATE enrollments
SET progress_percent = $2, status = $3, completed_date = $4
WHERE id = $1
RETURNING ` + enrollmentColumns

type UpdateEnrollmentProgressParams struct {
	ID              int64
	ProgressPercent int32
	Status          string
	CompletedDate   *time.Time
}

func (q *Queries) UpdateEnrollmentProgress(ctx context.Context, arg UpdateEnrollmentProgressParams) (Enrollment, error) {
	row := q.db.QueryRowContext(ctx, updateEnrollmentProgress,
		arg.ID,
		arg.ProgressPercent,
		arg.Status,
		arg.CompletedDate,
	)
	return scanEnrollment(row)
}

const countEnrollments = `-- name: CountEnrollments :one
SELECT COUNT(*) FROM enrollments
`

func (q *Queries) CountEnrollments(ctx context.Context) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countEnrollments))
}

const countEnrollmentsByStatus = `-- name: CountEnrollmentsByStatus :one
SELECT COUNT(*) FROM enrollments WHERE status = $1
`

func (q *Queries) CountEnrollmentsByStatus(ctx context.Context, status string) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countEnrollmentsByStatus, status))
}

const countEnrollmentsByInstructor = `-- name: CountEnrollmentsByInstructor :one
SELECT COUNT(*) FROM enrollments e
JOIN courses c ON c.id = e.course_id
WHERE c.instructor_id = $1
`

func (q *Queries) CountEnrollmentsByInstructor(ctx context.Context, instructorID int64) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countEnrollmentsByInstructor, instructorID))
}
