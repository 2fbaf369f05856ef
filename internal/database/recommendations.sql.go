package database

import (
	"context"

	"github.com/lib/pq"
)

const upsertJobRecommendation = `-- name: UpsertJobRecommendation :one
INSERT INTO job_recommendations (user_id, job_id, match_score, matched_skills_count, total_required_skills)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, job_id) DO UPDATE
SET match_score = EXCLUDED.match_score,
    matched_skills_count = EXCLUDED.matched_skills_count,
    total_required_skills = EXCLUDED.total_required_skills,
    recommended_at = CURRENT_TIMESTAMP
RETURNING id, user_id, job_id, match_score, matched_skills_count, total_required_skills, recommended_at
`

type UpsertJobRecommendationParams struct {
	UserID              int64
	JobID               int64
	MatchScore          float64
	MatchedSkillsCount  int32
	TotalRequiredSkills int32
}

func (q *Queries) UpsertJobRecommendation(ctx context.Context, arg UpsertJobRecommendationParams) (JobRecommendation, error) {
	row := q.db.QueryRowContext(ctx, upsertJobRecommendation,
		arg.UserID,
		arg.JobID,
		arg.MatchScore,
		arg.MatchedSkillsCount,
		arg.TotalRequiredSkills,
	)
	var i JobRecommendation
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.JobID,
		&i.MatchScore,
		&i.MatchedSkillsCount,
		&i.TotalRequiredSkills,
		&i.RecommendedAt,
	)
	return i, err
}

const listJobRecommendations = `-- name: ListJobRecommendations :many
SELECT r.id, r.user_id, r.job_id, r.match_score, r.matched_skills_count, r.total_required_skills, r.recommended_at,
       j.job_title, j.company_name, j.location
FROM job_recommendations r
JOIN jobs j ON j.id = r.job_id
WHERE r.user_id = $1 AND j.is_active
ORDER BY r.match_score DESC, j.posted_date DESC
LIMIT NULLIF($2::int, 0)
`

type ListJobRecommendationsParams struct {
	UserID int64
	Limit  int32
}

type StoredRecommendation struct {
	JobRecommendation
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
}

func (q *Queries) ListJobRecommendations(ctx context.Context, arg ListJobRecommendationsParams) ([]StoredRecommendation, error) {
	rows, err := q.db.QueryContext(ctx, listJobRecommendations, arg.UserID, arg.Limit)
	return collect(rows, err, func(row rowScanner) (StoredRecommendation, error) {
		var i StoredRecommendation
		err := row.Scan(
			&i.ID,
			&i.UserID,
			&i.JobID,
			&i.MatchScore,
			&i.MatchedSkillsCount,
			&i.TotalRequiredSkills,
			&i.RecommendedAt,
			&i.JobTitle,
			&i.CompanyName,
			&i.Location,
		)
		return i, err
	})
}

const deleteStaleRecommendations = `-- name: DeleteStaleRecommendations :execrows
DELETE FROM job_recommendations
WHERE user_id = $1 AND NOT (job_id = ANY($2::bigint[]))
`

type DeleteStaleRecommendationsParams struct {
	UserID     int64
	KeepJobIds []int64
}

func (q *Queries) DeleteStaleRecommendations(ctx context.Context, arg DeleteStaleRecommendationsParams) (int64, error) {
	return affected(q.db.ExecContext(ctx, deleteStaleRecommendations, arg.UserID, pq.Array(arg.KeepJobIds)))
}
