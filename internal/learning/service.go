package learning

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/cache"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/events"
	"go.uber.org/zap"
)

const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusDropped    = "dropped"
)

// strokePerPercent scales a progress percent onto the circumference of the progress ring.
const strokePerPercent = 3.39

// Store is the persistence the service needs. *database.Store satisfies it.
type Store interface {
	database.Querier
	ExecTx(ctx context.Context, fn func(database.Querier) error) error
}

type Service struct {
	store     Store
	cache     cache.Cache
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
	newCode   func() string
}

// NewService wires the learning service. A nil publisher makes skill changes
// regenerate recommendations inline instead of through the worker.
func NewService(store Store, c cache.Cache, publisher events.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		cache:     c,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newCode:   CertificateCode,
	}
}

// CertificateCode is the first eight characters of a random UUID, upper cased.
func CertificateCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

// ProgressPercent is int(completed/total*100), capped at 100. A course without lessons is complete.
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 100
	}
	p := int(float64(completed) / float64(total) * 100)
	if p > 100 {
		return 100
	}
	return p
}

func ProgressStroke(percent int) float64 {
	return float64(percent) * strokePerPercent
}

func (s *Service) Enroll(ctx context.Context, userID, courseID int64) (database.Enrollment, error) {
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return database.Enrollment{}, database.Normalize(err)
	}
	_, err := s.store.GetEnrollment(ctx, database.GetEnrollmentParams{UserID: userID, CourseID: courseID})
	if err == nil {
		return database.Enrollment{}, apierrors.Conflictf("already enrolled")
	}
	if !errors.Is(database.Normalize(err), database.ErrNotFound) {
		return database.Enrollment{}, err
	}

	enrollment, err := s.store.CreateEnrollment(ctx, database.CreateEnrollmentParams{UserID: userID, CourseID: courseID})
	if err != nil {
		if errors.Is(database.Normalize(err), database.ErrConflict) {
			return database.Enrollment{}, apierrors.Conflictf("already enrolled")
		}
		return database.Enrollment{}, fmt.Errorf("failed to enroll: %w", err)
	}
	return enrollment, nil
}

type LessonView struct {
	Course             database.Course           `json:"course"`
	Lesson             database.Lesson           `json:"lesson"`
	EmbedURL           string                    `json:"embed_url"`
	Materials          []database.LessonMaterial `json:"materials"`
	Lessons            []database.Lesson         `json:"lessons"`
	Enrollment         database.Enrollment       `json:"enrollment"`
	CompletedLessonIDs []int64                   `json:"completed_lesson_ids"`
	IsCompleted        bool                      `json:"is_completed"`
	CurrentNumber      int                       `json:"current_lesson_number"`
	TotalLessons       int                       `json:"total_lessons"`
	Previous           *database.Lesson          `json:"previous_lesson"`
	Next               *database.Lesson          `json:"next_lesson"`
	ProgressStroke     float64                   `json:"progress_stroke"`
}

// WatchLesson loads a lesson of a course the user is enrolled in, with its
// neighbours in id order.
func (s *Service) WatchLesson(ctx context.Context, userID, courseID, lessonID int64) (*LessonView, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, database.Normalize(err)
	}
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, database.Normalize(err)
	}
	if lesson.CourseID != course.ID {
		return nil, fmt.Errorf("%w: lesson does not belong to this course", apierrors.ErrNotFound)
	}
	enrollment, err := s.enrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	lessons, err := s.store.ListLessonsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].ID < lessons[j].ID })

	completed, err := s.store.ListCompletedLessonIDs(ctx, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed lessons: %w", err)
	}
	materials, err := s.store.ListLessonMaterials(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	view := &LessonView{
		Course:             course,
		Lesson:             lesson,
		EmbedURL:           embedURL(lesson),
		Materials:          nonNil(materials),
		Lessons:            lessons,
		Enrollment:         enrollment,
		CompletedLessonIDs: nonNil(completed),
		TotalLessons:       len(lessons),
		ProgressStroke:     ProgressStroke(int(enrollment.ProgressPercent)),
	}
	for _, id := range completed {
		if id == lessonID {
			view.IsCompleted = true
			break
		}
	}
	for i := range lessons {
		if lessons[i].ID != lessonID {
			continue
		}
		view.CurrentNumber = i + 1
		if i > 0 {
			view.Previous = &lessons[i-1]
		}
		if i < len(lessons)-1 {
			view.Next = &lessons[i+1]
		}
		break
	}
	return view, nil
}

type Completion struct {
	Enrollment       database.Enrollment   `json:"enrollment"`
	AlreadyCompleted bool                  `json:"already_completed"`
	CourseCompleted  bool                  `json:"course_completed"`
	SkillsAwarded    int                   `json:"skills_awarded"`
	Certificate      *database.Certificate `json:"certificate,omitempty"`
}

// CompleteLesson marks a lesson done and recomputes progress. Finishing the
// course awards its skills and issues the certificate in the same transaction.
func (s *Service) CompleteLesson(ctx context.Context, userID, lessonID int64) (*Completion, error) {
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, database.Normalize(err)
	}

	var result Completion
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		enrollment, err := q.GetEnrollment(ctx, database.GetEnrollmentParams{UserID: userID, CourseID: lesson.CourseID})
		if err != nil {
			if errors.Is(database.Normalize(err), database.ErrNotFound) {
				return apierrors.ErrNotEnrolled
			}
			return err
		}
		result.Enrollment = enrollment

		added, err := q.AddCompletedLesson(ctx, database.AddCompletedLessonParams{EnrollmentID: enrollment.ID, LessonID: lesson.ID})
		if err != nil {
			return fmt.Errorf("failed to mark lesson complete: %w", err)
		}
		if added == 0 {
			result.AlreadyCompleted = true
			return nil
		}

		completed, err := q.ListCompletedLessonIDs(ctx, enrollment.ID)
		if err != nil {
			return err
		}
		total, err := q.CountLessonsByCourse(ctx, lesson.CourseID)
		if err != nil {
			return err
		}

		percent := ProgressPercent(len(completed), int(total))
		update := database.UpdateEnrollmentProgressParams{
			ID:              enrollment.ID,
			ProgressPercent: int32(percent),
			Status:          enrollment.Status,
			CompletedDate:   enrollment.CompletedDate,
		}
		if percent >= 100 {
			now := s.now()
			update.Status = StatusCompleted
			if update.CompletedDate == nil {
				update.CompletedDate = &now
			}
			result.CourseCompleted = true

			if result.SkillsAwarded, err = awardCourseSkills(ctx, q, userID, lesson.CourseID); err != nil {
				return err
			}
			cert, err := q.CreateCertificate(ctx, database.CreateCertificateParams{
				UserID:          userID,
				CourseID:        lesson.CourseID,
				CertificateCode: s.newCode(),
			})
			switch {
			case err == nil:
				result.Certificate = &cert
			case errors.Is(database.Normalize(err), database.ErrNotFound):
				// already issued
			default:
				return fmt.Errorf("failed to issue certificate: %w", err)
			}
		}

		result.Enrollment, err = q.UpdateEnrollmentProgress(ctx, update)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.SkillsAwarded > 0 {
		s.SkillsChanged(ctx, userID, events.ReasonCourseCompleted)
	}
	return &result, nil
}

func awardCourseSkills(ctx context.Context, q database.Querier, userID, courseID int64) (int, error) {
	skillIDs, err := q.ListCourseSkillIDs(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to list course skills: %w", err)
	}
	awarded := 0
	for _, id := range skillIDs {
		n, err := q.AddStudentSkill(ctx, database.AddStudentSkillParams{UserID: userID, SkillID: id})
		if err != nil {
			return 0, fmt.Errorf("failed to award skill %d: %w", id, err)
		}
		awarded += int(n)
	}
	return awarded, nil
}

// SkillsChanged drops the cached recommendations and asks the worker to
// regenerate the stored ones. Without a broker it regenerates inline.
func (s *Service) SkillsChanged(ctx context.Context, userID int64, reason string) {
	log := s.logger.With(zap.Int64("user_id", userID), zap.String("reason", reason))
	if err := s.cache.InvalidateRecommendations(ctx, userID); err != nil {
		log.Warn("failed to invalidate recommendations", zap.Error(err))
	}
	if s.publisher != nil {
		err := s.publisher.PublishSkillEvent(ctx, events.SkillEvent{UserID: userID, Reason: reason, Timestamp: s.now()})
		if err == nil {
			return
		}
		log.Warn("failed to publish skill event, regenerating inline", zap.Error(err))
	}
	if _, err := s.GenerateRecommendations(ctx, userID); err != nil {
		log.Error("failed to regenerate recommendations", zap.Error(err))
	}
}

// JobsChanged refreshes recommendations for every user holding a skill after
// a job is created, edited, toggled or deleted. It returns how many users were queued.
func (s *Service) JobsChanged(ctx context.Context) (int, error) {
	users, err := s.store.ListUsersWithSkills(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users with skills: %w", err)
	}
	for _, id := range users {
		s.SkillsChanged(ctx, id, events.ReasonJobsChanged)
	}
	return len(users), nil
}

func (s *Service) enrollment(ctx context.Context, userID, courseID int64) (database.Enrollment, error) {
	enrollment, err := s.store.GetEnrollment(ctx, database.GetEnrollmentParams{UserID: userID, CourseID: courseID})
	if err != nil {
		if errors.Is(database.Normalize(err), database.ErrNotFound) {
			return enrollment, apierrors.ErrNotEnrolled
		}
		return enrollment, err
	}
	return enrollment, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
