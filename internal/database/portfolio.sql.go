package database

import (
	"context"
	"time"

	"github.com/lib/pq"
)

const projectColumns = `id, user_id, title, description, short_description, image, live_url, github_url, created_date, updated_date`

func scanProject(row rowScanner) (PortfolioProject, error) {
	var i PortfolioProject
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Title,
		&i.Description,
		&i.ShortDescription,
		&i.Image,
		&i.LiveUrl,
		&i.GithubUrl,
		&i.CreatedDate,
		&i.UpdatedDate,
	)
	return i, err
}

const createProject = `-- name: CreateProject :one
INSERT INTO portfolio_projects (user_id, title, description, short_description, image, live_url, github_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + projectColumns

type CreateProjectParams struct {
	UserID           int64
	Title            string
	Description      string
	ShortDescription string
	Image            string
	LiveUrl          string
	GithubUrl        string
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (PortfolioProject, error) {
	row := q.db.QueryRowContext(ctx, createProject,
		arg.UserID,
		arg.Title,
		arg.Description,
		arg.ShortDescription,
		arg.Image,
		arg.LiveUrl,
		arg.GithubUrl,
	)
	return scanProject(row)
}

const updateProject = `-- name: UpdateProject :one
UPDATE portfolio_projects
SET title = $3, description = $4, short_description = $5, image = $6, live_url = $7, github_url = $8,
    updated_date = CURRENT_TIMESTAMP
WHERE id = $1 AND user_id = $2
RETURNING ` + projectColumns

type UpdateProjectParams struct {
	ID               int64
	UserID           int64
	Title            string
	Description      string
	ShortDescription string
	Image            string
	LiveUrl          string
	GithubUrl        string
}

func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (PortfolioProject, error) {
	row := q.db.QueryRowContext(ctx, updateProject,
		arg.ID,
		arg.UserID,
		arg.Title,
		arg.Description,
		arg.ShortDescription,
		arg.Image,
		arg.LiveUrl,
		arg.GithubUrl,
	)
	return scanProject(row)
}

type OwnedParams struct {
	ID     int64
	UserID int64
}

const getProject = `-- name: GetProject :one
SELECT ` + projectColumns + ` FROM portfolio_projects WHERE id = $1 AND user_id = $2
`

func (q *Queries) GetProject(ctx context.Context, arg OwnedParams) (PortfolioProject, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProject, arg.ID, arg.UserID))
}

const deleteProject = `-- name: DeleteProject :execrows
DELETE FROM portfolio_projects WHERE id = $1 AND user_id = $2
`

func (q *Queries) DeleteProject(ctx context.Context, arg OwnedParams) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteProject, arg.ID, arg.UserID))
}

const listProjectsByUser = `-- name: ListProjectsByUser :many
SELECT ` + projectColumns + ` FROM portfolio_projects WHERE user_id = $1 ORDER BY created_date DESC
`

func (q *Queries) ListProjectsByUser(ctx context.Context, userID int64) ([]PortfolioProject, error) {
	rows, err := q.db.QueryContext(ctx, listProjectsByUser, userID)
	return collect(rows, err, scanProject)
}

const clearProjectTechnologies = `-- name: ClearProjectTechnologies :exec
DELETE FROM project_technologies WHERE project_id = $1
`

func (q *Queries) ClearProjectTechnologies(ctx context.Context, projectID int64) error {
	_, err := q.db.ExecContext(ctx, clearProjectTechnologies, projectID)
	return err
}

const addProjectTechnologies = `-- name: AddProjectTechnologies :exec
INSERT INTO project_technologies (project_id, skill_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING
`

type AddProjectTechnologiesParams struct {
	ProjectID int64
	SkillIds  []int64
}

func (q *Queries) AddProjectTechnologies(ctx context.Context, arg AddProjectTechnologiesParams) error {
	_, err := q.db.ExecContext(ctx, addProjectTechnologies, arg.ProjectID, pq.Array(arg.SkillIds))
	return err
}

const listProjectTechnologies = `-- name: ListProjectTechnologies :many
SELECT s.id, s.skill_name, s.description, s.category, s.created_at
FROM skills s
JOIN project_technologies pt ON pt.skill_id = s.id
WHERE pt.project_id = $1
ORDER BY s.skill_name
`

func (q *Queries) ListProjectTechnologies(ctx context.Context, projectID int64) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, listProjectTechnologies, projectID)
	return collect(rows, err, scanSkill)
}

const experienceColumns = `id, user_id, company_name, job_title, description, start_date, end_date, is_current, created_date`

func scanExperience(row rowScanner) (WorkExperience, error) {
	var i WorkExperience
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.CompanyName,
		&i.JobTitle,
		&i.Description,
		&i.StartDate,
		&i.EndDate,
		&i.IsCurrent,
		&i.CreatedDate,
	)
	return i, err
}

const createExperience = `-- name: CreateExperience :one
INSERT INTO work_experiences (user_id, company_name, job_title, description, start_date, end_date, is_current)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + experienceColumns

type CreateExperienceParams struct {
	UserID      int64
	CompanyName string
	JobTitle    string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	IsCurrent   bool
}

func (q *Queries) CreateExperience(ctx context.Context, arg CreateExperienceParams) (WorkExperience, error) {
	row := q.db.QueryRowContext(ctx, createExperience,
		arg.UserID,
		arg.CompanyName,
		arg.JobTitle,
		arg.Description,
		arg.StartDate,
		arg.EndDate,
		arg.IsCurrent,
	)
	return scanExperience(row)
}

const updateExperience = `-- name: UpdateExperience :one
UPDATE work_experiences
SET company_name = $3, job_title = $4, description = $5, start_date = $6, end_date = $7, is_current = $8
WHERE id = $1 AND user_id = $2
RETURNING ` + experienceColumns

type UpdateExperienceParams struct {
	ID          int64
	UserID      int64
	CompanyName string
	JobTitle    string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	IsCurrent   bool
}

func (q *Queries) UpdateExperience(ctx context.Context, arg UpdateExperienceParams) (WorkExperience, error) {
	row := q.db.QueryRowContext(ctx, updateExperience,
		arg.ID,
		arg.UserID,
		arg.CompanyName,
		arg.JobTitle,
		arg.Description,
		arg.StartDate,
		arg.EndDate,
		arg.IsCurrent,
	)
	return scanExperience(row)
}

const deleteExperience = `-- name: DeleteExperience :execrows
DELETE FROM work_experiences WHERE id = $1 AND user_id = $2
`

func (q *Queries) DeleteExperience(ctx context.Context, arg OwnedParams) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteExperience, arg.ID, arg.UserID))
}

const listExperiencesByUser = `-- name: ListExperiencesByUser :many
SELECT ` + experienceColumns + ` FROM work_experiences WHERE user_id = $1 ORDER BY start_date DESC
`

func (q *Queries) ListExperiencesByUser(ctx context.Context, userID int64) ([]WorkExperience, error) {
	rows, err := q.db.QueryContext(ctx, listExperiencesByUser, userID)
	return collect(rows, err, scanExperience)
}

const clearExperienceSkills = `-- name: ClearExperienceSkills :exec
DELETE FROM work_experience_skills WHERE work_experience_id = $1
`

func (q *Queries) ClearExperienceSkills(ctx context.Context, workExperienceID int64) error {
	_, err := q.db.ExecContext(ctx, clearExperienceSkills, workExperienceID)
	return err
}

const addExperienceSkills = `-- name: AddExperienceSkills :exec
INSERT INTO work_experience_skills (work_experience_id, skill_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING
`

type AddExperienceSkillsParams struct {
	WorkExperienceID int64
	SkillIds         []int64
}

func (q *Queries) AddExperienceSkills(ctx context.Context, arg AddExperienceSkillsParams) error {
	_, err := q.db.ExecContext(ctx, addExperienceSkills, arg.WorkExperienceID, pq.Array(arg.SkillIds))
	return err
}

const listExperienceSkills = `-- name: ListExperienceSkills :many
SELECT s.id, s.skill_name, s.description, s.category, s.created_at
FROM skills s
JOIN work_experience_skills ws ON ws.skill_id = s.id
WHERE ws.work_experience_id = $1
ORDER BY s.skill_name
`

func (q *Queries) ListExperienceSkills(ctx context.Context, workExperienceID int64) ([]Skill, error) {
	rows, err := q.db.QueryContext(ctx, listExperienceSkills, workExperienceID)
	return collect(rows, err, scanSkill)
}

const educationColumns = `id, user_id, school_name, degree, field_of_study, start_date, end_date, is_current, grade, activities, created_date`

func scanEducation(row rowScanner) (Education, error) {
	var i Education
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.SchoolName,
		&i.Degree,
		&i.FieldOfStudy,
		&i.StartDate,
		&i.EndDate,
		&i.IsCurrent,
		&i.Grade,
		&i.Activities,
		&i.CreatedDate,
	)
	return i, err
}

const createEducation = `-- name: CreateEducation :one
INSERT INTO education (user_id, school_name, degree, field_of_study, start_date, end_date, is_current, grade, activities)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + educationColumns

type CreateEducationParams struct {
	UserID       int64
	SchoolName   string
	Degree       string
	FieldOfStudy string
	StartDate    time.Time
	EndDate      *time.Time
	IsCurrent    bool
	Grade        string
	Activities   string
}

func (q *Queries) CreateEducation(ctx context.Context, arg CreateEducationParams) (Education, error) {
	row := q.db.QueryRowContext(ctx, createEducation,
		arg.UserID,
		arg.SchoolName,
		arg.Degree,
		arg.FieldOfStudy,
		arg.StartDate,
		arg.EndDate,
		arg.IsCurrent,
		arg.Grade,
		arg.Activities,
	)
	return scanEducation(row)
}

const updateEducation = `-- name: UpdateEducation :one
UPDATE education
SET school_name = $3, degree = $4, field_of_study = $5, start_date = $6, end_date = $7,
    is_current = $8, grade = $9, activities = $10
WHERE id = $1 AND user_id = $2
RETURNING ` + educationColumns

type UpdateEducationParams struct {
	ID           int64
	UserID       int64
	SchoolName   string
	Degree       string
	FieldOfStudy string
	StartDate    time.Time
	EndDate      *time.Time
	IsCurrent    bool
	Grade        string
	Activities   string
}

func (q *Queries) UpdateEducation(ctx context.Context, arg UpdateEducationParams) (Education, error) {
	row := q.db.QueryRowContext(ctx, updateEducation,
		arg.ID,
		arg.UserID,
		arg.SchoolName,
		arg.Degree,
		arg.FieldOfStudy,
		arg.StartDate,
		arg.EndDate,
		arg.IsCurrent,
		arg.Grade,
		arg.Activities,
	)
	return scanEducation(row)
}

const deleteEducation = `-- name: DeleteEducation :execrows
DELETE FROM education WHERE id = $1 AND user_id = $2
`

func (q *Queries) DeleteEducation(ctx context.Context, arg OwnedParams) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteEducation, arg.ID, arg.UserID))
}

const listEducationByUser = `-- name: ListEducationByUser :many
SELECT ` + educationColumns + ` FROM education WHERE user_id = $1 ORDER BY start_date DESC
`

func (q *Queries) ListEducationByUser(ctx context.Context, userID int64) ([]Education, error) {
	rows, err := q.db.QueryContext(ctx, listEducationByUser, userID)
	return collect(rows, err, scanEducation)
}

const socialLinkColumns = `id, user_id, platform, url, display_name, created_date`

func scanSocialLink(row rowScanner) (SocialLink, error) {
	var i SocialLink
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Platform,
		&i.Url,
		&i.DisplayName,
		&i.CreatedDate,
	)
	return i, err
}

const createSocialLink = `-- name: CreateSocialLink :one
INSERT INTO social_links (user_id, platform, url, display_name)
VALUES ($1, $2, $3, $4)
RETURNING ` + socialLinkColumns

type CreateSocialLinkParams struct {
	UserID      int64
	Platform    string
	Url         string
	DisplayName string
}

func (q *Queries) CreateSocialLink(ctx context.Context, arg CreateSocialLinkParams) (SocialLink, error) {
	row := q.db.QueryRowContext(ctx, createSocialLink, arg.UserID, arg.Platform, arg.Url, arg.DisplayName)
	return scanSocialLink(row)
}

const updateSocialLink = `-- name: UpdateSocialLink :one
UPDATE social_links SET platform = $3, url = $4, display_name = $5
WHERE id = $1 AND user_id = $2
RETURNING ` + socialLinkColumns

type UpdateSocialLinkParams struct {
	ID          int64
	UserID      int64
	Platform    string
	Url         string
	DisplayName string
}

func (q *Queries) UpdateSocialLink(ctx context.Context, arg UpdateSocialLinkParams) (SocialLink, error) {
	row := q.db.QueryRowContext(ctx, updateSocialLink, arg.ID, arg.UserID, arg.Platform, arg.Url, arg.DisplayName)
	return scanSocialLink(row)
}

const deleteSocialLink = `-- name: DeleteSocialLink :execrows
DELETE FROM social_links WHERE id = $1 AND user_id = $2
`

func (q *Queries) DeleteSocialLink(ctx context.Context, arg OwnedParams) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteSocialLink, arg.ID, arg.UserID))
}

const listSocialLinksByUser = `-- name: ListSocialLinksByUser :many
SELECT ` + socialLinkColumns + ` FROM social_links WHERE user_id = $1 ORDER BY platform
`

func (q *Queries) ListSocialLinksByUser(ctx context.Context, userID int64) ([]SocialLink, error) {
	rows, err := q.db.QueryContext(ctx, listSocialLinksByUser, userID)
	return collect(rows, err, scanSocialLink)
}

const socialLinkPlatformTaken = `-- name: SocialLinkPlatformTaken :one
SELECT EXISTS (
    SELECT 1 FROM social_links WHERE user_id = $1 AND platform = $2 AND id <> $3
)
`

type SocialLinkPlatformTakenParams struct {
	UserID    int64
	Platform  string
	ExcludeID int64
}

func (q *Queries) SocialLinkPlatformTaken(ctx context.Context, arg SocialLinkPlatformTakenParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, socialLinkPlatformTaken, arg.UserID, arg.Platform, arg.ExcludeID)
	var taken bool
	err := row.Scan(&taken)
	return taken, err
}

const testimonialColumns = `id, user_id, given_by, content, rating, relationship, is_approved, created_date`

func scanTestimonial(row rowScanner) (Testimonial, error) {
	var i Testimonial
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.GivenBy,
		&i.Content,
		&i.Rating,
		&i.Relationship,
		&i.IsApproved,
		&i.CreatedDate,
	)
	return i, err
}

const createTestimonial = `-- name: CreateTestimonial :one
INSERT INTO testimonials (user_id, given_by, content, rating, relationship)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + testimonialColumns

type CreateTestimonialParams struct {
	UserID       int64
	GivenBy      int64
	Content      string
	Rating       int32
	Relationship string
}

func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, createTestimonial,
		arg.UserID,
		arg.GivenBy,
		arg.Content,
		arg.Rating,
		arg.Relationship,
	)
	return scanTestimonial(row)
}

const approveTestimonial = `-- name: ApproveTestimonial :one
UPDATE testimonials SET is_approved = TRUE WHERE id = $1
RETURNING ` + testimonialColumns

func (q *Queries) ApproveTestimonial(ctx context.Context, id int64) (Testimonial, error) {
	return scanTestimonial(q.db.QueryRowContext(ctx, approveTestimonial, id))
}

const listTestimonials = `-- name: ListTestimonials :many
SELECT ` + testimonialColumns + ` FROM testimonials
WHERE ($1::bigint = 0 OR user_id = $1)
  AND (NOT $2::boolean OR is_approved)
ORDER BY created_date DESC
`

type ListTestimonialsParams struct {
	UserID       int64
	ApprovedOnly bool
}

func (q *Queries) ListTestimonials(ctx context.Context, arg ListTestimonialsParams) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, listTestimonials, arg.UserID, arg.ApprovedOnly)
	return collect(rows, err, scanTestimonial)
}

const badgeColumns = `id, name, description, icon, badge_type, created_date`

func scanBadge(row rowScanner) (AchievementBadge, error) {
	var i AchievementBadge
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Icon,
		&i.BadgeType,
		&i.CreatedDate,
	)
	return i, err
}

const createBadge = `-- name: CreateBadge :one
INSERT INTO achievement_badges (name, description, icon, badge_type)
VALUES ($1, $2, $3, $4)
RETURNING ` + badgeColumns

type CreateBadgeParams struct {
	Name        string
	Description string
	Icon        string
	BadgeType   string
}

func (q *Queries) CreateBadge(ctx context.Context, arg CreateBadgeParams) (AchievementBadge, error) {
	row := q.db.QueryRowContext(ctx, createBadge, arg.Name, arg.Description, arg.Icon, arg.BadgeType)
	return scanBadge(row)
}

const listBadges = `-- name: ListBadges :many
SELECT ` + badgeColumns + ` FROM achievement_badges ORDER BY name
`

func (q *Queries) ListBadges(ctx context.Context) ([]AchievementBadge, error) {
	rows, err := q.db.QueryContext(ctx, listBadges)
	return collect(rows, err, scanBadge)
}

const awardBadge = `-- name: AwardBadge :execrows
INSERT INTO user_badges (user_id, badge_id)
VALUES ($1, $2)
ON CONFLICT (user_id, badge_id) DO NOTHING
`

type AwardBadgeParams struct {
	UserID  int64
	BadgeID int64
}

func (q *Queries) AwardBadge(ctx context.Context, arg AwardBadgeParams) (int64, error) {
	return affected(q.db.ExecContext(ctx, awardBadge, arg.UserID, arg.BadgeID))
}

const listUserBadges = `-- name: ListUserBadges :many
SELECT ub.id, ub.user_id, ub.badge_id, b.name, ub.earned_date
FROM user_badges ub
JOIN achievement_badges b ON b.id = ub.badge_id
WHERE ub.user_id = $1
ORDER BY ub.earned_date DESC
`

func (q *Queries) ListUserBadges(ctx context.Context, userID int64) ([]UserBadge, error) {
	rows, err := q.db.QueryContext(ctx, listUserBadges, userID)
	return collect(rows, err, func(row rowScanner) (UserBadge, error) {
		var i UserBadge
		err := row.Scan(
			&i.ID,
			&i.UserID,
			&i.BadgeID,
			&i.BadgeName,
			&i.EarnedDate,
		)
		return i, err
	})
}
