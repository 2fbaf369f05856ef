package database

import (
	"context"
	"time"

	"github.com/lib/pq"
)

const jobColumns = `id, job_title, company_name, location, description, salary_min, salary_max, job_type, requirements, posted_by, posted_date, last_date, is_active`

func scanJob(row rowScanner) (Job, error) {
	var i Job
	err := row.Scan(
		&i.ID,
		&i.JobTitle,
		&i.CompanyName,
		&i.Location,
		&i.Description,
		&i.SalaryMin,
		&i.SalaryMax,
		&i.JobType,
		&i.Requirements,
		&i.PostedBy,
		&i.PostedDate,
		&i.LastDate,
		&i.IsActive,
	)
	return i, err
}

const createJob = `-- name: CreateJob :one
INSERT INTO jobs (job_title, company_name, location, description, salary_min, salary_max, job_type, requirements, posted_by, last_date, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + jobColumns

type CreateJobParams struct {
	JobTitle     string
	CompanyName  string
	Location     string
	Description  string
	SalaryMin    *int32
	SalaryMax    *int32
	JobType      string
	Requirements string
	PostedBy     int64
	LastDate     time.Time
	IsActive     bool
}

func (q *Queries) CreateJob(ctx context.Context, arg CreateJobParams) (Job, error) {
	row := q.db.QueryRowContext(ctx, createJob,
		arg.JobTitle,
		arg.CompanyName,
		arg.Location,
		arg.Description,
		arg.SalaryMin,
		arg.SalaryMax,
		arg.JobType,
		arg.Requirements,
		arg.PostedBy,
		arg.LastDate,
		arg.IsActive,
	)
	return scanJob(row)
}

const updateJob = `-- name: UpdateJob :one
UPDATE jobs
SET job_title = $2, company_name = $3, location = $4, description = $5, salary_min = $6,
    salary_max = $7, job_type = $8, requirements = $9, last_date = $10, is_active = $11
WHERE id = $1
RETURNING ` + jobColumns

type UpdateJobParams struct {
	ID           int64
	JobTitle     string
	CompanyName  string
	Location     string
	Description  string
	SalaryMin    *int32
	SalaryMax    *int32
	JobType      string
	Requirements string
	LastDate     time.Time
	IsActive     bool
}

func (q *Queries) UpdateJob(ctx context.Context, arg UpdateJobParams) (Job, error) {
	row := q.db.QueryRowContext(ctx, updateJob,
		arg.ID,
		arg.JobTitle,
		arg.CompanyName,
		arg.Location,
		arg.Description,
		arg.SalaryMin,
		arg.SalaryMax,
		arg.JobType,
		arg.Requirements,
		arg.LastDate,
		arg.IsActive,
	)
	return scanJob(row)
}

const getJob = `-- name: GetJob :one
SELECT ` + jobColumns + ` FROM jobs WHERE id = $1
`

func (q *Queries) GetJob(ctx context.Context, id int64) (Job, error) {
	return scanJob(q.db.QueryRowContext(ctx, getJob, id))
}

const deleteJob = `-- name: DeleteJob :execrows
DELETE FROM jobs WHERE id = $1
`

func (q *Queries) DeleteJob(ctx context.Context, id int64) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteJob, id))
}

const toggleJobActive = `-- name: ToggleJobActive :one
UPDATE jobs SET is_active = NOT is_active WHERE id = $1
RETURNING ` + jobColumns

func (q *Queries) ToggleJobActive(ctx context.Context, id int64) (Job, error) {
	return scanJob(q.db.QueryRowContext(ctx, toggleJobActive, id))
}

// JobWithSkills carries the ids of the skills a job requires.
type JobWithSkills struct {
	Job
	SkillIDs []int64 `json:"skill_ids"`
}

const listJobs = `-- name: ListJobs :many
SELECT j.id, j.job_title, j.company_name, j.location, j.description, j.salary_min, j.salary_max,
       j.job_type, j.requirements, j.posted_by, j.posted_date, j.last_date, j.is_active,
       COALESCE(array_agg(js.skill_id) FILTER (WHERE js.skill_id IS NOT NULL), '{}')::bigint[] AS skill_ids
FROM jobs j
LEFT JOIN job_skills js ON js.job_id = j.id
WHERE ($1::text = '' OR j.job_title ILIKE '%' || $1 || '%'
                     OR j.company_name ILIKE '%' || $1 || '%'
                     OR j.location ILIKE '%' || $1 || '%')
  AND ($2::text = ''
       OR ($2 = 'active' AND j.is_active)
       OR ($2 = 'inactive' AND NOT j.is_active))
GROUP BY j.id
ORDER BY j.posted_date DESC, j.id DESC
`

type ListJobsParams struct {
	Search string
	// Status is "", "active" or "inactive".
	Status string
}

func (q *Queries) ListJobs(ctx context.Context, arg ListJobsParams) ([]JobWithSkills, error) {
	rows, err := q.db.QueryContext(ctx, listJobs, arg.Search, arg.Status)
	return collect(rows, err, func(row rowScanner) (JobWithSkills, error) {
		var i JobWithSkills
		err := row.Scan(
			&i.ID,
			&i.JobTitle,
			&i.CompanyName,
			&i.Location,
			&i.Description,
			&i.SalaryMin,
			&i.SalaryMax,
			&i.JobType,
			&i.Requirements,
			&i.PostedBy,
			&i.PostedDate,
			&i.LastDate,
			&i.IsActive,
			pq.Array(&i.SkillIDs),
		)
		return i, err
	})
}

const clearJobSkills = `-- name: ClearJobSkills :exec
DELETE FROM job_skills WHERE job_id = $1
`

func (q *Queries) ClearJobSkills(ctx context.Context, jobID int64) error {
	_, err := q.db.ExecContext(ctx, clearJobSkills, jobID)
	return err
}

const addJobSkills = `-- name: AddJobSkills :exec
INSERT INTO job_skills (job_id, skill_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING
`

type AddJobSkillsParams struct {
	JobID    int64
	SkillIds []int64
}

func (q *Queries) AddJobSkills(ctx context.Context, arg AddJobSkillsParams) error {
	_, err := q.db.ExecContext(ctx, addJobSkills, arg.JobID, pq.Array(arg.SkillIds))
	return err
}

const listJobSkills = `-- name: ListJobSkills :many
SELECT s.id, s.skill_name, s.description, s.category, s.created_at
FROM skills s
JOIN job_skills js ON js.skill_id = s.id
WHERE js.job_id = $1
ORDER BY s.skill_name
`

func (q *Queries) ListJobSkills(ctx context.Context, jobID int64) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, listJobSkills, jobID)
	return collect(rows, err, scanSkill)
}

const countJobs = `-- name: CountJobs :one
SELECT COUNT(*) FROM jobs
`

func (q *Queries) CountJobs(ctx context.Context) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countJobs))
}

const countActiveJobs = `-- name: CountActiveJobs :one
SELECT COUNT(*) FROM jobs WHERE is_active
`

func (q *Queries) CountActiveJobs(ctx context.Context) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countActiveJobs))
}
