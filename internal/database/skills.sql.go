package database

import (
	"context"

	"github.com/lib/pq"
)

const skillColumns = `id, skill_name, description, category, created_at`

func scanSkill(row rowScanner) (Skill, error) {
	var i Skill
	err := row.Scan(
		&i.ID,
		&i.SkillName,
		&i.Description,
		&i.Category,
		&i.CreatedAt,
	)
	return i, err
}

const createSkill = `-- name: CreateSkill :one
INSERT INTO skills (skill_name, description, category)
VALUES ($1, $2, $3)
RETURNING ` + skillColumns

type CreateSkillParams struct {
	SkillName   string
	Description string
	Category    string
}

func (q *Queries) CreateSkill(ctx context.Context, arg CreateSkillParams) (Skill, error) {
	row := q.db.QueryRowContext(ctx, createSkill, arg.SkillName, arg.Description, arg.Category)
	return scanSkill(row)
}

const updateSkill = `-- name: UpdateSkill :one
UPDATE skills SET skill_name = $2, description = $3, category = $4
WHERE id = $1
RETURNING ` + skillColumns

type UpdateSkillParams struct {
	ID          int64
	SkillName   string
	Description string
	Category    string
}

func (q *Queries) UpdateSkill(ctx context.Context, arg UpdateSkillParams) (Skill, error) {
	row := q.db.QueryRowContext(ctx, updateSkill, arg.ID, arg.SkillName, arg.Description, arg.Category)
	return scanSkill(row)
}

const getSkill = `-- name: GetSkill :one
SELECT ` + skillColumns + ` FROM skills WHERE id = $1
`

func (q *Queries) GetSkill(ctx context.Context, id int64) (Skill, error) {
	row := q.db.QueryRowContext(ctx, getSkill, id)
	return scanSkill(row)
}

const deleteSkill = `-- name: DeleteSkill :execrows
DELETE FROM skills WHERE id = $1
`

func (q *Queries) DeleteSkill(ctx context.Context, id int64) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteSkill, id))
}

const listSkills = `-- name: ListSkills :many
SELECT ` + skillColumns + ` FROM skills ORDER BY skill_name
`

func (q *Queries) ListSkills(ctx context.Context) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, listSkills)
	return collect(rows, err, scanSkill)
}

const listSkillsByIDs = `-- name: ListSkillsByIDs :many
SELECT ` + skillColumns + ` FROM skills WHERE id = ANY($1::bigint[]) ORDER BY skill_name
`

func (q *Queries) ListSkillsByIDs(ctx context.Context, ids []int64) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, listSkillsByIDs, pq.Array(ids))
	return collect(rows, err, scanSkill)
}

const countSkills = `-- name: CountSkills :one
SELECT COUNT(*) FROM skills
`

func (q *Queries) CountSkills(ctx context.Context) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countSkills))
}

const skillUsageSelect = `SELECT s.id, s.skill_name, s.description, s.category, s.created_at,
       (SELECT COUNT(*) FROM student_skills ss WHERE ss.skill_id = s.id) AS student_count,
       (SELECT COUNT(*) FROM course_skills cs WHERE cs.skill_id = s.id) AS course_count,
       (SELECT COUNT(*) FROM job_skills js WHERE js.skill_id = s.id) AS job_count
FROM skills s`

type SkillUsage struct {
	Skill
	StudentCount int64 `json:"student_count"`
	CourseCount  int64 `json:"course_count"`
	JobCount     int64 `json:"job_count"`
}

// TotalUsage sums the places a skill is referenced from.
func (s SkillUsage) TotalUsage() int64 {
	return s.StudentCount + s.CourseCount + s.JobCount
}

func scanSkillUsage(row rowScanner) (SkillUsage, error) {
	var i SkillUsage
	err := row.Scan(
		&i.ID,
		&i.SkillName,
		&i.Description,
		&i.Category,
		&i.CreatedAt,
		&i.StudentCount,
		&i.CourseCount,
		&i.JobCount,
	)
	return i, err
}

const listSkillUsage = `-- name: ListSkillUsage :many
` + skillUsageSelect + ` ORDER BY s.skill_name
`

func (q *Queries) ListSkillUsage(ctx context.Context) ([]SkillUsage, error) {
	rows, err := q.db.QueryContext(ctx, listSkillUsage)
	return collect(rows, err, scanSkillUsage)
}

const getSkillUsage = `-- name: GetSkillUsage :one
` + skillUsageSelect + ` WHERE s.id = $1
`

func (q *Queries) GetSkillUsage(ctx context.Context, id int64) (SkillUsage, error) {
	return scanSkillUsage(q.db.QueryRowContext(ctx, getSkillUsage, id))
}

const listStudentSkills = `-- name: ListStudentSkills :many
SELECT ss.id, ss.user_id, ss.skill_id, s.skill_name, ss.proficiency_level, ss.acquired_date
FROM student_skills ss
JOIN skills s ON s.id = ss.skill_id
WHERE ss.user_id = $1
ORDER BY s.skill_name
`

func (q *Queries) ListStudentSkills(ctx context.Context, userID int64) ([]StudentSkill, error) {
	rows, err := q.db.QueryContext(ctx, listStudentSkills, userID)
	return collect(rows, err, func(row rowScanner) (StudentSkill, error) {
		var i StudentSkill
		err := row.Scan(
			&i.ID,
			&i.UserID,
			&i.SkillID,
			&i.SkillName,
			&i.ProficiencyLevel,
			&i.AcquiredDate,
		)
		return i, err
	})
}

const listStudentSkillIDs = `-- name: ListStudentSkillIDs :many
SELECT skill_id FROM student_skills WHERE user_id = $1
`

func (q *Queries) ListStudentSkillIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listStudentSkillIDs, userID)
	return collect(rows, err, scanInt64)
}

const listUsersWithSkills = `-- name: ListUsersWithSkills :many
SELECT DISTINCT user_id FROM student_skills ORDER BY user_id
`

func (q *Queries) ListUsersWithSkills(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listUsersWithSkills)
	return collect(rows, err, scanInt64)
}

const addStudentSkill = `-- name: AddStudentSkill :execrows
INSERT INTO student_skills (user_id, skill_id)
VALUES ($1, $2)
ON CONFLICT (user_id, skill_id) DO NOTHING
`

type AddStudentSkillParams struct {
	UserID  int64
	SkillID int64
}

func (q *Queries) AddStudentSkill(ctx context.Context, arg AddStudentSkillParams) (int64, error) {
	return affected(q.db.ExecContext(ctx, addStudentSkill, arg.UserID, arg.SkillID))
}
