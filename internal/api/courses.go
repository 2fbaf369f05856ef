package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
)

// Category is a course category with its display label.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	Categories = []Category{
		{"web_dev", "Web Development"},
		{"programming", "Programming"},
		{"databases", "Databases"},
		{"cloud", "Cloud Computing"},
		{"data_science", "Data Science"},
		{"mobile", "Mobile Development"},
		{"devops", "DevOps"},
	}
	Levels = []string{"beginner", "intermediate", "advanced"}
)

const maxCourseList = 100

func validCategory(v string) bool {
	for _, c := range Categories {
		if c.Value == v {
			return true
		}
	}
	return false
}

func validLevel(v string) bool {
	for _, l := range Levels {
		if l == v {
			return true
		}
	}
	return false
}

// FallbackImage picks one of the nine stock images by instructor.
func FallbackImage(instructorID int64) string {
	return fmt.Sprintf("images/pic-%d.jpg", instructorID%9+1)
}

type courseCard struct {
	database.CourseSummary
	Image string `json:"image"`
}

func toCards(courses []database.CourseSummary) []courseCard {
	cards := make([]courseCard, 0, len(courses))
	for _, c := range courses {
		image := c.CoverImage
		if image == "" {
			image = FallbackImage(c.InstructorID)
		}
		cards = append(cards, courseCard{CourseSummary: c, Image: image})
	}
	return cards
}

type homeResponse struct {
	FeaturedCourses []courseCard `json:"featured_courses"`
	Categories      []Category   `json:"categories"`
	SkillsCount     int64        `json:"skills_count"`
	CoursesCount    int64        `json:"courses_count"`
	StudentsCount   int64        `json:"students_count"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	featured, err := s.store.ListCourses(ctx, database.ListCoursesParams{Limit: 6})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := homeResponse{FeaturedCourses: toCards(featured), Categories: Categories}
	if resp.SkillsCount, err = s.store.CountSkills(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	if resp.CoursesCount, err = s.store.CountCourses(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	if resp.StudentsCount, err = s.store.CountUsersByRole(ctx, auth.RoleStudent); err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.store.ListSkills(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(skills))
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courses, err := s.store.ListCourses(r.Context(), database.ListCoursesParams{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Level:    q.Get("level"),
		Limit:    queryLimit(r, 0, maxCourseList),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"courses":    toCards(courses),
		"categories": Categories,
		"levels":     Levels,
	})
}

type courseDetailResponse struct {
	Course       database.Course      `json:"course"`
	Image        string               `json:"image"`
	Instructor   database.User        `json:"instructor"`
	Lessons      []database.Lesson    `json:"lessons"`
	Skills       []database.Skill     `json:"skills"`
	Enrollment   *database.Enrollment `json:"enrollment"`
	IsEnrolled   bool                 `json:"is_enrolled"`
	Progress     int32                `json:"progress"`
	IsInstructor bool                 `json:"is_instructor"`
}

func (s *Server) handleCourseDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	course, err := s.store.GetCourse(ctx, id)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	instructor, err := s.store.GetUser(ctx, course.InstructorID)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	lessons, err := s.store.ListLessonsByCourse(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	skills, err := s.store.ListCourseSkills(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := courseDetailResponse{
		Course:     course,
		Image:      course.CoverImage,
		Instructor: instructor,
		Lessons:    emptyIfNil(lessons),
		Skills:     emptyIfNil(skills),
	}
	if resp.Image == "" {
		resp.Image = FallbackImage(course.InstructorID)
	}
	if p := principalFrom(ctx); p != nil {
		resp.IsInstructor = p.UserID == course.InstructorID
		enrollment, err := s.store.GetEnrollment(ctx, database.GetEnrollmentParams{UserID: p.UserID, CourseID: id})
		switch {
		case err == nil:
			resp.Enrollment = &enrollment
			resp.IsEnrolled = true
			resp.Progress = enrollment.ProgressPercent
		case !errors.Is(database.Normalize(err), database.ErrNotFound):
			s.fail(w, r, err)
			return
		}
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	enrollment, err := s.learning.Enroll(r.Context(), principalFrom(r.Context()).UserID, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, enrollment)
}

func (s *Server) handleWatchLesson(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lessonID, err := pathID(r, "lessonID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.learning.WatchLesson(r.Context(), principalFrom(r.Context()).UserID, courseID, lessonID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.learning.CompleteLesson(r.Context(), principalFrom(r.Context()).UserID, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleMyCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := s.store.ListCertificatesByUser(r.Context(), principalFrom(r.Context()).UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(certs))
}

func (s *Server) handleCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cert, err := s.store.GetCertificate(r.Context(), id)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	if p := principalFrom(r.Context()); cert.UserID != p.UserID && !p.IsAdmin() {
		s.fail(w, r, apierrors.ErrForbiddenReq("you do not have access to this certificate"))
		return
	}
	respondWithJSON(w, http.StatusOK, cert)
}
