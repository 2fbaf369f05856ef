package database

import (
	"context"

	"github.com/lib/pq"
)

const courseColumns = `id, title, description, category, level, instructor_id, cover_image, duration_hours, created_at, updated_at`

func scanCourse(row rowScanner) (Course, error) {
	var i Course
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Description,
		&i.Category,
		&i.Level,
		&i.InstructorID,
		&i.CoverImage,
		&i.DurationHours,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createCourse = `-- name: CreateCourse :one
INSERT INTO courses (title, description, category, level, instructor_id, cover_image, duration_hours)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + courseColumns

type CreateCourseParams struct {
	Title         string
	Description   string
	Category      string
	Level         string
	InstructorID  int64
	CoverImage    string
	DurationHours int32
}

func (q *Queries) CreateCourse(ctx context.Context, arg CreateCourseParams) (Course, error) {
	row := q.db.QueryRowContext(ctx, createCourse,
		arg.Title,
		arg.Description,
		arg.Category,
		arg.Level,
		arg.InstructorID,
		arg.CoverImage,
		arg.DurationHours,
	)
	return scanCourse(row)
}

const updateCourse = `-- name: UpdateCourse :one
UPDATE courses
SET title = $2, description = $3, category = $4, level = $5, duration_hours = $6, updated_at = CURRENT_TIMESTAMP
WHERE id = $1
RETURNING ` + courseColumns

type UpdateCourseParams struct {
	ID            int64
	Title         string
	Description   string
	Category      string
	Level         string
	DurationHours int32
}

func (q *Queries) UpdateCourse(ctx context.Context, arg UpdateCourseParams) (Course, error) {
	row := q.db.QueryRowContext(ctx, updateCourse,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.Category,
		arg.Level,
		arg.DurationHours,
	)
	return scanCourse(row)
}

const updateCourseCover = `-- name: UpdateCourseCover :exec
UPDATE courses SET cover_image = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1
`

type UpdateCourseCoverParams struct {
	ID         int64
	CoverImage string
}

func (q *Queries) UpdateCourseCover(ctx context.Context, arg UpdateCourseCoverParams) error {
	_, err := q.db.ExecContext(ctx, updateCourseCover, arg.ID, arg.CoverImage)
	return err
}

const getCourse = `-- name: GetCourse :one
SELECT ` + courseColumns + ` FROM courses WHERE id = $1
`

func (q *Queries) GetCourse(ctx context.Context, id int64) (Course, error) {
	return scanCourse(q.db.QueryRowContext(ctx, getCourse, id))
}

const deleteCourse = `-- name: DeleteCourse :execrows
DELETE FROM courses WHERE id = $1
`

func (q *Queries) DeleteCourse(ctx context.Context, id int64) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteCourse, id))
}

const listCourses = `-- name: ListCourses :many
SELECT c.id, c.title, c.description, c.category, c.level, c.instructor_id, c.cover_image, c.duration_hours, c.created_at, c.updated_at,
       u.username,
       (SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id AND e.status = 'in_progress') AS enrolled_count
FROM courses c
JOIN users u ON u.id = c.instructor_id
WHERE ($1::text = '' OR c.title ILIKE '%' || $1 || '%' OR c.description ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR c.category = $2)
  AND ($3::text = '' OR c.level = $3)
ORDER BY c.created_at DESC
LIMIT NULLIF($4::int, 0)
`

type ListCoursesParams struct {
	Search   string
	Category string
	Level    string
	Limit    int32
}

type CourseSummary struct {
	Course
	InstructorUsername string `json:"instructor_username"`
	EnrolledCount      int64  `json:"enrolled_count"`
}

func (q *Queries) ListCourses(ctx context.Context, arg ListCoursesParams) ([]CourseSummary, error) {
	rows, err := q.db.QueryContext(ctx, listCourses, arg.Search, arg.Category, arg.Level, arg.Limit)
	return collect(rows, err, func(row rowScanner) (CourseSummary, error) {
		var i CourseSummary
		err := row.Scan(
			&i.ID,
			&i.Title,
			&i.Description,
			&i.Category,
			&i.Level,
			&i.InstructorID,
			&i.CoverImage,
			&i.DurationHours,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.InstructorUsername,
			&i.EnrolledCount,
		)
		return i, err
	})
}

const listCoursesByInstructor = `-- name: ListCoursesByInstructor :many
SELECT ` + courseColumns + ` FROM courses WHERE instructor_id = $1 ORDER BY created_at DESC
`

func (q *Queries) ListCoursesByInstructor(ctx context.Context, instructorID int64) ([]Course, error) {
	rows, err := q.db.QueryContext(ctx, listCoursesByInstructor, instructorID)
	return collect(rows, err, scanCourse)
}

const countCourses = `-- name: CountCourses :one
SELECT COUNT(*) FROM courses
`

func (q *Queries) CountCourses(ctx context.Context) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countCourses))
}

const listRecentCourses = `-- name: ListRecentCourses :many
SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC LIMIT $1
`

func (q *Queries) ListRecentCourses(ctx context.Context, limit int32) ([]Course, error) {
	rows, err := q.db.QueryContext(ctx, listRecentCourses, limit)
	return collect(rows, err, scanCourse)
}

const clearCourseSkills = `-- name: ClearCourseSkills :exec
DELETE FROM course_skills WHERE course_id = $1
`

func (q *Queries) ClearCourseSkills(ctx context.Context, courseID int64) error {
	_, err := q.db.ExecContext(ctx, clearCourseSkills, courseID)
	return err
}

const addCourseSkills = `-- name: AddCourseSkills :exec
INSERT INTO course_skills (course_id, skill_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING
`

type AddCourseSkillsParams struct {
	CourseID int64
	SkillIds []int64
}

func (q *Queries) AddCourseSkills(ctx context.Context, arg AddCourseSkillsParams) error {
	_, err := q.db.ExecContext(ctx, addCourseSkills, arg.CourseID, pq.Array(arg.SkillIds))
	return err
}

const listCourseSkills = `-- name: ListCourseSkills :many
SELECT s.id, s.skill_name, s.description, s.category, s.created_at
FROM skills s
JOIN course_skills cs ON cs.skill_id = s.id
WHERE cs.course_id = $1
ORDER BY s.skill_name
`

func (q *Queries) ListCourseSkills(ctx context.Context, courseID int64) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, listCourseSkills, courseID)
	return collect(rows, err, scanSkill)
}

const listCourseSkillIDs = `-- name: ListCourseSkillIDs :many
SELECT skill_id FROM course_skills WHERE course_id = $1
`

func (q *Queries) ListCourseSkillIDs(ctx context.Context, courseID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listCourseSkillIDs, courseID)
	return collect(rows, err, scanInt64)
}

const listCoursesBySkillName = `-- name: ListCoursesBySkillName :many
SELECT DISTINCT c.id, c.title, c.description, c.category, c.level, c.instructor_id, c.cover_image, c.duration_hours, c.created_at, c.updated_at
FROM courses c
JOIN course_skills cs ON cs.course_id = c.id
JOIN skills s ON s.id = cs.skill_id
WHERE s.skill_name ILIKE '%' || $1::text || '%'
ORDER BY c.created_at DESC
LIMIT $2
`

type ListCoursesBySkillNameParams struct {
	Name  string
	Limit int32
}

func (q *Queries) ListCoursesBySkillName(ctx context.Context, arg ListCoursesBySkillNameParams) ([]Course, error) {
	rows, err := q.db.QueryContext(ctx, listCoursesBySkillName, arg.Name, arg.Limit)
	return collect(rows, err, scanCourse)
}

const listCompletedCoursesByUser = `-- name: ListCompletedCoursesByUser :many
SELECT DISTINCT c.id, c.title, c.description, c.category, c.level, c.instructor_id, c.cover_image, c.duration_hours, c.created_at, c.updated_at
FROM courses c
JOIN enrollments e ON e.course_id = c.id
WHERE e.user_id = $1 AND e.status = 'completed'
ORDER BY c.created_at DESC
`

func (q *Queries) ListCompletedCoursesByUser(ctx context.Context, userID int64) ([]Course, error) {
	rows, err := q.db.QueryContext(ctx, listCompletedCoursesByUser, userID)
	return collect(rows, err, scanCourse)
}
