package database

import (
	"context"

	"github.com/lib/pq"
)

const careerPathColumns = `id, career_name, description, experience_level, created_at`

func scanCareerPath(row rowScanner) (CareerPath, error) {
	var i CareerPath
	err := row.Scan(
		&i.ID,
		&i.CareerName,
		&i.Description,
		&i.ExperienceLevel,
		&i.CreatedAt,
	)
	return i, err
}

const createCareerPath = `-- name: CreateCareerPath :one
INSERT INTO career_paths (career_name, description, experience_level)
VALUES ($1, $2, $3)
RETURNING ` + careerPathColumns

type CreateCareerPathParams struct {
	CareerName      string
	Description     string
	ExperienceLevel string
}

func (q *Queries) CreateCareerPath(ctx context.Context, arg CreateCareerPathParams) (CareerPath, error) {
	row := q.db.QueryRowContext(ctx, createCareerPath, arg.CareerName, arg.Description, arg.ExperienceLevel)
	return scanCareerPath(row)
}

const updateCareerPath = `-- name: UpdateCareerPath :one
UPDATE career_paths SET career_name = $2, description = $3, experience_level = $4
WHERE id = $1
RETURNING ` + careerPathColumns

type UpdateCareerPathParams struct {
	ID              int64
	CareerName      string
	Description     string
	ExperienceLevel string
}

func (q *Queries) UpdateCareerPath(ctx context.Context, arg UpdateCareerPathParams) (CareerPath, error) {
	row := q.db.QueryRowContext(ctx, updateCareerPath, arg.ID, arg.CareerName, arg.Description, arg.ExperienceLevel)
	return scanCareerPath(row)
}

const getCareerPath = `-- name: GetCareerPath :one
SELECT ` + careerPathColumns + ` FROM career_paths WHERE id = $1
`

func (q *Queries) GetCareerPath(ctx context.Context, id int64) (CareerPath, error) {
	return scanCareerPath(q.db.QueryRowContext(ctx, getCareerPath, id))
}

const listCareerPaths = `-- name: ListCareerPaths :many
SELECT ` + careerPathColumns + ` FROM career_paths ORDER BY career_name
`

func (q *Queries) ListCareerPaths(ctx context.Context) ([]CareerPath, error) {
	rows, err := q.db.QueryContext(ctx, listCareerPaths)
	return collect(rows, err, scanCareerPath)
}

const deleteCareerPath = `-- name: DeleteCareerPath :execrows
DELETE FROM career_paths WHERE id = $1
`

func (q *Queries) DeleteCareerPath(ctx context.Context, id int64) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteCareerPath, id))
}

const clearCareerPathSkills = `-- name: ClearCareerPathSkills :exec
DELETE FROM career_path_skills WHERE career_path_id = $1
`

func (q *Queries) ClearCareerPathSkills(ctx context.Context, careerPathID int64) error {
	_, err := q.db.ExecContext(ctx, clearCareerPathSkills, careerPathID)
	return err
}

const addCareerPathSkills = `-- name: AddCareerPathSkills :exec
INSERT INTO career_path_skills (career_path_id, skill_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING
`

type AddCareerPathSkillsParams struct {
	CareerPathID int64
	SkillIds     []int64
}

func (q *Queries) AddCareerPathSkills(ctx context.Context, arg AddCareerPathSkillsParams) error {
	_, err := q.db.ExecContext(ctx, addCareerPathSkills, arg.CareerPathID, pq.Array(arg.SkillIds))
	return err
}

const listCareerPathSkills = `-- name: ListCareerPathSkills :many
SELECT s.id, s.skill_name, s.description, s.category, s.created_at
FROM skills s
JOIN career_path_skills cps ON cps.skill_id = s.id
WHERE cps.career_path_id = $1
ORDER BY s.skill_name
`

func (q *Queries) ListCareerPathSkills(ctx context.Context, careerPathID int64) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, listCareerPathSkills, careerPathID)
	return collect(rows, err, scanSkill)
}
