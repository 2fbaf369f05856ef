package api

import (
	"context"
	"net/http"
	"time"

	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/learning"
)

type studentDashboard struct {
	Role            string                          `json:"role"`
	Enrollments     []database.EnrollmentWithCourse `json:"enrollments"`
	Certificates    []database.CertificateDetail    `json:"certificates"`
	Skills          []database.StudentSkill         `json:"skills"`
	Recommendations []database.StoredRecommendation `json:"recommendations"`
}

type teacherDashboard struct {
	Role             string            `json:"role"`
	Courses          []database.Course `json:"courses"`
	TotalEnrollments int64             `json:"total_enrollments"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := principalFrom(ctx)

	var (
		resp any
		err  error
	)
	switch {
	case p.IsAdmin():
		resp, err = s.adminStats(ctx)
	case p.Role == auth.RoleTeacher:
		resp, err = s.teacherDashboard(ctx, p.UserID)
	default:
		resp, err = s.studentDashboard(ctx, p.UserID)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) studentDashboard(ctx context.Context, userID int64) (*studentDashboard, error) {
	d := &studentDashboard{Role: auth.RoleStudent}
	enrollments, err := s.store.ListEnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	certs, err := s.store.ListCertificatesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	skills, err := s.store.ListStudentSkills(ctx, userID)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.ListJobRecommendations(ctx, database.ListJobRecommendationsParams{UserID: userID, Limit: 10})
	if err != nil {
		return nil, err
	}
	d.Enrollments = emptyIfNil(enrollments)
	d.Certificates = emptyIfNil(certs)
	d.Skills = emptyIfNil(skills)
	d.Recommendations = emptyIfNil(recs)
	return d, nil
}

func (s *Server) teacherDashboard(ctx context.Context, userID int64) (*teacherDashboard, error) {
	courses, err := s.store.ListCoursesByInstructor(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountEnrollmentsByInstructor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &teacherDashboard{Role: auth.RoleTeacher, Courses: emptyIfNil(courses), TotalEnrollments: total}, nil
}

type adminStats struct {
	Role                 string                       `json:"role"`
	TotalUsers           int64                        `json:"total_users"`
	TotalStudents        int64                        `json:"total_students"`
	TotalTeachers        int64                        `json:"total_teachers"`
	TotalCourses         int64                        `json:"total_courses"`
	TotalCertificates    int64                        `json:"total_certificates"`
	CertificatesThisWeek int64                        `json:"certificates_this_week"`
	TotalJobs            int64                        `json:"total_jobs"`
	ActiveJobs           int64                        `json:"active_jobs"`
	TotalEnrollments     int64                        `json:"total_enrollments"`
	ActiveEnrollments    int64                        `json:"active_enrollments"`
	PendingContacts      int64                        `json:"pending_contacts"`
	RecentUsers          []database.User              `json:"recent_users"`
	RecentCourses        []database.Course            `json:"recent_courses"`
	RecentCertificates   []database.CertificateDetail `json:"recent_certificates"`
}

func (s *Server) adminStats(ctx context.Context) (*adminStats, error) {
	st := &adminStats{Role: auth.RoleAdmin}
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&st.TotalUsers, func() (int64, error) { return s.store.CountUsers(ctx) }},
		{&st.TotalStudents, func() (int64, error) { return s.store.CountUsersByRole(ctx, auth.RoleStudent) }},
		{&st.TotalTeachers, func() (int64, error) { return s.store.CountUsersByRole(ctx, auth.RoleTeacher) }},
		{&st.TotalCourses, func() (int64, error) { return s.store.CountCourses(ctx) }},
		{&st.TotalCertificates, func() (int64, error) { return s.store.CountCertificates(ctx) }},
		{&st.CertificatesThisWeek, func() (int64, error) {
			return s.store.CountCertificatesSince(ctx, s.now().Add(-7*24*time.Hour))
		}},
		{&st.TotalJobs, func() (int64, error) { return s.store.CountJobs(ctx) }},
		{&st.ActiveJobs, func() (int64, error) { return s.store.CountActiveJobs(ctx) }},
		{&st.TotalEnrollments, func() (int64, error) { return s.store.CountEnrollments(ctx) }},
		{&st.ActiveEnrollments, func() (int64, error) { return s.store.CountEnrollmentsByStatus(ctx, learning.StatusInProgress) }},
		{&st.PendingContacts, func() (int64, error) { return s.store.CountUnresolvedContactMessages(ctx) }},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	var err error
	if st.RecentUsers, err = s.store.ListRecentUsers(ctx, 5); err != nil {
		return nil, err
	}
	if st.RecentCourses, err = s.store.ListRecentCourses(ctx, 5); err != nil {
		return nil, err
	}
	if st.RecentCertificates, err = s.store.ListRecentCertificates(ctx, 5); err != nil {
		return nil, err
	}
	st.RecentUsers = emptyIfNil(st.RecentUsers)
	st.RecentCourses = emptyIfNil(st.RecentCourses)
	st.RecentCertificates = emptyIfNil(st.RecentCertificates)
	return st, nil
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.adminStats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, st)
}
