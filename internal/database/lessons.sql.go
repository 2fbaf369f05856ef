package database

import (
	"context"
)

const lessonColumns = `id, course_id, title, description, sort_order, video_url, video_file, content, duration_minutes, created_at`

func scanLesson(row rowScanner) (Lesson, error) {
	var i Lesson
	err := row.Scan(
		&i.ID,
		&i.CourseID,
		&i.Title,
		&i.Description,
		&i.SortOrder,
		&i.VideoUrl,
		&i.VideoFile,
		&i.Content,
		&i.DurationMinutes,
		&i.CreatedAt,
	)
	return i, err
}

const createLesson = `-- name: CreateLesson :one
INSERT INTO lessons (course_id, title, description, sort_order, video_url, video_file, content, duration_minutes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + lessonColumns

type CreateLessonParams struct {
	CourseID        int64
	Title           string
	Description     string
	SortOrder       int32
	VideoUrl        string
	VideoFile       string
	Content         string
	DurationMinutes int32
}

func (q *Queries) CreateLesson(ctx context.Context, arg CreateLessonParams) (Lesson, error) {
	row := q.db.QueryRowContext(ctx, createLesson,
		arg.CourseID,
		arg.Title,
		arg.Description,
		arg.SortOrder,
		arg.VideoUrl,
		arg.VideoFile,
		arg.Content,
		arg.DurationMinutes,
	)
	return scanLesson(row)
}

const updateLesson = `-- name: UpdateLesson :one
UPDATE lessons
SET title = $2, description = $3, sort_order = $4, video_url = $5, content = $6, duration_minutes = $7
WHERE id = $1
RETURNING ` + lessonColumns

type UpdateLessonParams struct {
	ID              int64
	Title           string
	Description     string
	SortOrder       int32
	VideoUrl        string
	Content         string
	DurationMinutes int32
}

func (q *Queries) UpdateLesson(ctx context.Context, arg UpdateLessonParams) (Lesson, error) {
	row := q.db.QueryRowContext(ctx, updateLesson,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.SortOrder,
		arg.VideoUrl,
		arg.Content,
		arg.DurationMinutes,
	)
	return scanLesson(row)
}

const updateLessonVideoFile = `-- name: UpdateLessonVideoFile :exec
UPDATE lessons SET video_file = $2 WHERE id = $1
`

type UpdateLessonVideoFileParams struct {
	ID        int64
	VideoFile string
}

func (q *Queries) UpdateLessonVideoFile(ctx context.Context, arg UpdateLessonVideoFileParams) error {
	_, err := q.db.ExecContext(ctx, updateLessonVideoFile, arg.ID, arg.VideoFile)
	return err
}

const getLesson = `-- name: GetLesson :one
SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1
`

func (q *Queries) GetLesson(ctx context.Context, id int64) (Lesson, error) {
	return scanLesson(q.db.QueryRowContext(ctx, getLesson, id))
}

const deleteLesson = `-- name: DeleteLesson :execrows
DELETE FROM lessons WHERE id = $1
`

func (q *Queries) DeleteLesson(ctx context.Context, id int64) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteLesson, id))
}

const listLessonsByCourse = `-- name: ListLessonsByCourse :many
SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = $1 ORDER BY sort_order, id
`

func (q *Queries) ListLessonsByCourse(ctx context.Context, courseID int64) ([]Lesson, error) {
	rows, err := q.db.QueryContext(ctx, listLessonsByCourse, courseID)
	return collect(rows, err, scanLesson)
}

const countLessonsByCourse = `-- name: CountLessonsByCourse :one
SELECT COUNT(*) FROM lessons WHERE course_id = $1
`

func (q *Queries) CountLessonsByCourse(ctx context.Context, courseID int64) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countLessonsByCourse, courseID))
}

const materialColumns = `id, lesson_id, title, object_key, file_url, mime, size_bytes, extracted_text, uploaded_at`

func scanLessonMaterial(row rowScanner) (LessonMaterial, error) {
	var i LessonMaterial
	err := row.Scan(
		&i.ID,
		&i.LessonID,
		&i.Title,
		&i.ObjectKey,
		&i.FileUrl,
		&i.Mime,
		&i.SizeBytes,
		&i.ExtractedText,
		&i.UploadedAt,
	)
	return i, err
}

const createLessonMaterial = `-- name: CreateLessonMaterial :one
INSERT INTO lesson_materials (lesson_id, title, object_key, file_url, mime, size_bytes, extracted_text)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + materialColumns

type CreateLessonMaterialParams struct {
	LessonID      int64
	Title         string
	ObjectKey     string
	FileUrl       string
	Mime          string
	SizeBytes     int64
	ExtractedText string
}

func (q *Queries) CreateLessonMaterial(ctx context.Context, arg CreateLessonMaterialParams) (LessonMaterial, error) {
	row := q.db.QueryRowContext(ctx, createLessonMaterial,
		arg.LessonID,
		arg.Title,
		arg.ObjectKey,
		arg.FileUrl,
		arg.Mime,
		arg.SizeBytes,
		arg.ExtractedText,
	)
	return scanLessonMaterial(row)
}

const listLessonMaterials = `-- name: ListLessonMaterials :many
SELECT ` + materialColumns + ` FROM lesson_materials WHERE lesson_id = $1 ORDER BY uploaded_at
`

func (q *Queries) ListLessonMaterials(ctx context.Context, lessonID int64) ([]LessonMaterial, error) {
	rows, err := q.db.QueryContext(ctx, listLessonMaterials, lessonID)
	return collect(rows, err, scanLessonMaterial)
}
