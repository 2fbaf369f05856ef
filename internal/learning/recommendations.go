package learning

import (
	"context"
	"errors"
	"fmt"

	"github.com/muhammadolammi/skillnest/internal/cache"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/media"
	"github.com/muhammadolammi/skillnest/internal/recommend"
	"go.uber.org/zap"
)

// GenerateRecommendations stores the user's top matches, replacing the previous set.
// A user without skills gets nothing.
func (s *Service) GenerateRecommendations(ctx context.Context, userID int64) (int, error) {
	skillIDs, err := s.store.ListStudentSkillIDs(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list skills: %w", err)
	}
	if len(skillIDs) == 0 {
		return 0, nil
	}
	jobs, err := s.store.ListJobs(ctx, database.ListJobsParams{Status: "active"})
	if err != nil {
		return 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	recs := recommend.Recommend(skillIDs, jobs, recommend.StoreLimit)

	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		keep := make([]int64, 0, len(recs))
		for _, r := range recs {
			_, err := q.UpsertJobRecommendation(ctx, database.UpsertJobRecommendationParams{
				UserID:              userID,
				JobID:               r.Job.ID,
				MatchScore:          r.MatchScore,
				MatchedSkillsCount:  int32(r.MatchedSkillsCount),
				TotalRequiredSkills: int32(r.TotalRequiredSkills),
			})
			if err != nil {
				return fmt.Errorf("failed to store recommendation for job %d: %w", r.Job.ID, err)
			}
			keep = append(keep, r.Job.ID)
		}
		_, err := q.DeleteStaleRecommendations(ctx, database.DeleteStaleRecommendationsParams{UserID: userID, KeepJobIds: keep})
		return err
	})
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

// JobRecommendations computes the live top matches for the user, served from cache when possible.
func (s *Service) JobRecommendations(ctx context.Context, userID int64) ([]recommend.Recommendation, error) {
	var recs []recommend.Recommendation
	err := s.cache.GetRecommendations(ctx, userID, &recs)
	if err == nil {
		return recs, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("recommendation cache read failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	skillIDs, err := s.store.ListStudentSkillIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	recs = []recommend.Recommendation{}
	if len(skillIDs) > 0 {
		jobs, err := s.store.ListJobs(ctx, database.ListJobsParams{Status: "active"})
		if err != nil {
			return nil, fmt.Errorf("failed to list jobs: %w", err)
		}
		recs = recommend.Recommend(skillIDs, jobs, recommend.DisplayLimit)
		if err := s.attachMissing(ctx, recs); err != nil {
			return nil, err
		}
	}

	if err := s.cache.SetRecommendations(ctx, userID, recs); err != nil {
		s.logger.Warn("recommendation cache write failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return recs, nil
}

func (s *Service) attachMissing(ctx context.Context, recs []recommend.Recommendation) error {
	var ids []int64
	for _, r := range recs {
		ids = append(ids, r.MissingSkillIDs...)
	}
	if len(ids) == 0 {
		return nil
	}
	skills, err := s.store.ListSkillsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load missing skills: %w", err)
	}
	byID := make(map[int64]database.Skill, len(skills))
	for _, sk := range skills {
		byID[sk.ID] = sk
	}
	recommend.AttachMissingSkills(recs, byID)
	return nil
}

// CareerGap compares the user's skills with a stored career path.
func (s *Service) CareerGap(ctx context.Context, userID, careerID int64) (recommend.CareerGap, error) {
	career, err := s.store.GetCareerPath(ctx, careerID)
	if err != nil {
		return recommend.CareerGap{}, database.Normalize(err)
	}
	required, err := s.store.ListCareerPathSkills(ctx, careerID)
	if err != nil {
		return recommend.CareerGap{}, fmt.Errorf("failed to list career skills: %w", err)
	}
	skillIDs, err := s.store.ListStudentSkillIDs(ctx, userID)
	if err != nil {
		return recommend.CareerGap{}, fmt.Errorf("failed to list skills: %w", err)
	}
	return recommend.StoredGap(career, required, skillIDs), nil
}

type CourseVideo struct {
	CourseID    int64  `json:"course_id"`
	CourseTitle string `json:"course_title"`
	LessonTitle string `json:"lesson_title"`
	EmbedURL    string `json:"embed_url"`
	Kind        string `json:"kind"`
}

type TextGapResult struct {
	recommend.TextGap
	Career  string            `json:"career"`
	Courses []database.Course `json:"courses"`
	Videos  []CourseVideo     `json:"videos"`
}

// TextGap runs the free text skill gap check for a catalog career and looks up
// courses teaching the first missing skill.
func (s *Service) TextGap(ctx context.Context, catalog *recommend.Catalog, career, skills string) (*TextGapResult, error) {
	required := catalog.Skills(career)
	gap := recommend.FreeTextGap(required, recommend.ParseSkillList(skills))
	result := &TextGapResult{
		Career:  career,
		TextGap: gap,
		Courses: []database.Course{},
		Videos:  []CourseVideo{},
	}
	if len(gap.Gap) == 0 {
		return result, nil
	}

	courses, err := s.store.ListCoursesBySkillName(ctx, database.ListCoursesBySkillNameParams{Name: gap.Gap[0].Name, Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to find courses: %w", err)
	}
	result.Courses = nonNil(courses)
	for _, c := range courses {
		lessons, err := s.store.ListLessonsByCourse(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list lessons: %w", err)
		}
		if len(lessons) == 0 {
			continue
		}
		first := lessons[0]
		src, kind, ok := media.VideoEmbed(first.VideoUrl)
		if !ok {
			continue
		}
		result.Videos = append(result.Videos, CourseVideo{
			CourseID:    c.ID,
			CourseTitle: c.Title,
			LessonTitle: first.Title,
			EmbedURL:    src,
			Kind:        kind,
		})
	}
	return result, nil
}

// embedURL prefers an uploaded video over the linked one.
func embedURL(l database.Lesson) string {
	if l.VideoFile != "" {
		return l.VideoFile
	}
	return media.EmbedURL(l.VideoUrl)
}
