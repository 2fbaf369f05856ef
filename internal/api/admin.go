package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/logger"
	"go.uber.org/zap"
)

var JobTypes = []string{"full_time", "part_time", "contract"}

// Users

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := s.store.ListUsers(r.Context(), database.ListUsersParams{
		Role:   strings.TrimSpace(q.Get("role")),
		Search: strings.TrimSpace(q.Get("search")),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(users))
}

func (s *Server) handleAdminToggleUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if id == principalFrom(ctx).UserID {
		s.fail(w, r, apierrors.Invalid("you cannot deactivate your own account"))
		return
	}
	user, err := s.store.ToggleUserActive(ctx, id)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	state := "deactivated"
	if user.IsActive {
		state = "activated"
	}
	logger.FromContext(ctx, s.logger).Info("user toggled", zap.Int64("user_id", id), zap.Bool("active", user.IsActive))
	respondWithJSON(w, http.StatusOK, struct {
		Message string        `json:"message"`
		User    database.User `json:"user"`
	}{fmt.Sprintf("User %s has been %s.", user.Username, state), user})
}

func (s *Server) handleAdminApproveTeacher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		if err := q.ActivateUser(ctx, id); err != nil {
			return err
		}
		return q.SetProfileRole(ctx, database.SetProfileRoleParams{UserID: id, Role: auth.RoleTeacher})
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message{fmt.Sprintf("Teacher %s has been approved.", user.Username)})
}

// Courses

func (s *Server) handleAdminCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store.ListCourses(r.Context(), database.ListCoursesParams{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(courses))
}

func (s *Server) handleAdminDeleteCourse(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.store.DeleteCourse, "Course deleted successfully!")
}

// deleteByID runs an execrows delete for the {id} path variable. Zero rows is not found.
func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, del func(context.Context, int64) (int64, error), msg string) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := ownedResult(del(r.Context(), id)); err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message{msg})
}

// Certificates

func (s *Server) handleAdminCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := s.store.SearchCertificates(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(certs))
}

func (s *Server) handleAdminRevokeCertificate(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.store.DeleteCertificate, "Certificate revoked successfully!")
}

// Jobs

type jobRequest struct {
	JobTitle     string  `json:"job_title"`
	CompanyName  string  `json:"company_name"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	SalaryMin    *int32  `json:"salary_min"`
	SalaryMax    *int32  `json:"salary_max"`
	JobType      string  `json:"job_type"`
	Requirements string  `json:"requirements"`
	LastDate     string  `json:"last_date"`
	IsActive     *bool   `json:"is_active"`
	SkillIDs     []int64 `json:"skill_ids"`
}

func (req *jobRequest) validate() (time.Time, error) {
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.JobTitle == "" || req.CompanyName == "" || strings.TrimSpace(req.Description) == "" {
		return time.Time{}, apierrors.Invalid("job_title, company_name and description are required")
	}
	if req.JobType == "" {
		req.JobType = JobTypes[0]
	}
	if !slices.Contains(JobTypes, req.JobType) {
		return time.Time{}, apierrors.Invalid("job_type must be one of " + strings.Join(JobTypes, ", "))
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return time.Time{}, apierrors.Invalid("salary_min cannot exceed salary_max")
	}
	return parseDate(req.LastDate, "last_date")
}

func (req *jobRequest) active() bool {
	return req.IsActive == nil || *req.IsActive
}

func (s *Server) handleAdminJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := s.store.ListJobs(r.Context(), database.ListJobsParams{
		Search: strings.TrimSpace(q.Get("search")),
		Status: strings.TrimSpace(q.Get("status")),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(jobs))
}

func (s *Server) handleAdminCreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	lastDate, err := req.validate()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var job database.Job
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		job, err = q.CreateJob(ctx, database.CreateJobParams{
			JobTitle:     req.JobTitle,
			CompanyName:  req.CompanyName,
			Location:     strings.TrimSpace(req.Location),
			Description:  req.Description,
			SalaryMin:    req.SalaryMin,
			SalaryMax:    req.SalaryMax,
			JobType:      req.JobType,
			Requirements: req.Requirements,
			PostedBy:     principalFrom(ctx).UserID,
			LastDate:     lastDate,
			IsActive:     req.active(),
		})
		if err != nil {
			return err
		}
		return q.AddJobSkills(ctx, database.AddJobSkillsParams{JobID: job.ID, SkillIds: req.SkillIDs})
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jobsChanged(r)
	respondWithJSON(w, http.StatusCreated, database.JobWithSkills{Job: job, SkillIDs: emptyIfNil(req.SkillIDs)})
}

func (s *Server) handleAdminUpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	lastDate, err := req.validate()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var job database.Job
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		job, err = q.UpdateJob(ctx, database.UpdateJobParams{
			ID:           id,
			JobTitle:     req.JobTitle,
			CompanyName:  req.CompanyName,
			Location:     strings.TrimSpace(req.Location),
			Description:  req.Description,
			SalaryMin:    req.SalaryMin,
			SalaryMax:    req.SalaryMax,
			JobType:      req.JobType,
			Requirements: req.Requirements,
			LastDate:     lastDate,
			IsActive:     req.active(),
		})
		if err != nil {
			return database.Normalize(err)
		}
		if err := q.ClearJobSkills(ctx, id); err != nil {
			return err
		}
		return q.AddJobSkills(ctx, database.AddJobSkillsParams{JobID: id, SkillIds: req.SkillIDs})
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jobsChanged(r)
	respondWithJSON(w, http.StatusOK, database.JobWithSkills{Job: job, SkillIDs: emptyIfNil(req.SkillIDs)})
}

func (s *Server) handleAdminDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := ownedResult(s.store.DeleteJob(r.Context(), id)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jobsChanged(r)
	respondWithJSON(w, http.StatusOK, message{"Job deleted successfully!"})
}

func (s *Server) handleAdminToggleJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	job, err := s.store.ToggleJobActive(r.Context(), id)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	s.jobsChanged(r)
	respondWithJSON(w, http.StatusOK, job)
}

// jobsChanged refreshes recommendations once a job mutation is committed. A
// failure here does not undo the mutation, so it is only logged.
func (s *Server) jobsChanged(r *http.Request) {
	n, err := s.learning.JobsChanged(r.Context())
	log := logger.FromContext(r.Context(), s.logger)
	if err != nil {
		log.Error("failed to refresh recommendations after job change", zap.Error(err))
		return
	}
	log.Debug("recommendations refresh queued", zap.Int("users", n))
}

// Skills

type skillUsageView struct {
	database.SkillUsage
	TotalUsage int64 `json:"total_usage"`
}

func usageView(u database.SkillUsage) skillUsageView {
	return skillUsageView{SkillUsage: u, TotalUsage: u.TotalUsage()}
}

type skillRequest struct {
	SkillName   string `json:"skill_name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (req *skillRequest) validate() error {
	req.SkillName = strings.TrimSpace(req.SkillName)
	if req.SkillName == "" {
		return apierrors.Invalid("skill_name is required")
	}
	req.Category = strings.TrimSpace(req.Category)
	return nil
}

func (s *Server) handleAdminSkills(w http.ResponseWriter, r *http.Request) {
	usage, err := s.store.ListSkillUsage(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]skillUsageView, 0, len(usage))
	for _, u := range usage {
		out = append(out, usageView(u))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) handleAdminCreateSkill(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	skill, err := s.store.CreateSkill(r.Context(), database.CreateSkillParams{
		SkillName:   req.SkillName,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		if database.IsConstraint(err, "skills_skill_name_key") {
			err = apierrors.Conflictf("skill %q already exists", req.SkillName)
		}
		s.fail(w, r, database.Normalize(err))
		return
	}
	respondWithJSON(w, http.StatusCreated, skill)
}

func (s *Server) handleAdminUpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req skillRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	skill, err := s.store.UpdateSkill(r.Context(), database.UpdateSkillParams{
		ID:          id,
		SkillName:   req.SkillName,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		if database.IsConstraint(err, "skills_skill_name_key") {
			err = apierrors.Conflictf("skill %q already exists", req.SkillName)
		}
		s.fail(w, r, database.Normalize(err))
		return
	}
	respondWithJSON(w, http.StatusOK, skill)
}

// handleAdminDeleteSkill reports how widely the skill was used before it went away.
func (s *Server) handleAdminDeleteSkill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	usage, err := s.store.GetSkillUsage(ctx, id)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	if err := ownedResult(s.store.DeleteSkill(ctx, id)); err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, struct {
		Message string         `json:"message"`
		Usage   skillUsageView `json:"usage"`
	}{
		Message: fmt.Sprintf("Skill %s deleted. It was used by %d students, %d courses and %d jobs.",
			usage.SkillName, usage.StudentCount, usage.CourseCount, usage.JobCount),
		Usage: usageView(usage),
	})
}

// Contact messages

func (s *Server) handleAdminContacts(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status != "" && status != "resolved" && status != "unresolved" {
		s.fail(w, r, apierrors.Invalid("status must be resolved or unresolved"))
		return
	}
	msgs, err := s.store.ListContactMessages(r.Context(), status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(msgs))
}

func (s *Server) handleAdminResolveContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	msg, err := s.store.ResolveContactMessage(r.Context(), id)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	respondWithJSON(w, http.StatusOK, msg)
}

// Career paths

type careerPathRequest struct {
	CareerName      string  `json:"career_name"`
	Description     string  `json:"description"`
	ExperienceLevel string  `json:"experience_level"`
	SkillIDs        []int64 `json:"skill_ids"`
}

type careerPathView struct {
	database.CareerPath
	RequiredSkills []database.Skill `json:"required_skills"`
}

func (req *careerPathRequest) validate() error {
	req.CareerName = strings.TrimSpace(req.CareerName)
	if req.CareerName == "" {
		return apierrors.Invalid("career_name is required")
	}
	if req.ExperienceLevel == "" {
		req.ExperienceLevel = "beginner"
	}
	if !validLevel(req.ExperienceLevel) {
		return apierrors.Invalid("invalid experience_level")
	}
	return nil
}

func (s *Server) handleAdminCareerPaths(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paths, err := s.store.ListCareerPaths(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]careerPathView, 0, len(paths))
	for _, p := range paths {
		skills, err := s.store.ListCareerPathSkills(ctx, p.ID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out = append(out, careerPathView{CareerPath: p, RequiredSkills: emptyIfNil(skills)})
	}
	respondWithJSON(w, http.StatusOK, out)
}

// saveCareerPath creates the path when id is zero, otherwise updates it, and
// replaces its required skills.
func (s *Server) saveCareerPath(ctx context.Context, id int64, req careerPathRequest) (careerPathView, error) {
	var view careerPathView
	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		if id == 0 {
			view.CareerPath, err = q.CreateCareerPath(ctx, database.CreateCareerPathParams{
				CareerName:      req.CareerName,
				Description:     req.Description,
				ExperienceLevel: req.ExperienceLevel,
			})
		} else {
			view.CareerPath, err = q.UpdateCareerPath(ctx, database.UpdateCareerPathParams{
				ID:              id,
				CareerName:      req.CareerName,
				Description:     req.Description,
				ExperienceLevel: req.ExperienceLevel,
			})
		}
		if err != nil {
			return database.Normalize(err)
		}
		if err := q.ClearCareerPathSkills(ctx, view.ID); err != nil {
			return err
		}
		if err := q.AddCareerPathSkills(ctx, database.AddCareerPathSkillsParams{CareerPathID: view.ID, SkillIds: req.SkillIDs}); err != nil {
			return err
		}
		view.RequiredSkills, err = q.ListCareerPathSkills(ctx, view.ID)
		return err
	})
	view.RequiredSkills = emptyIfNil(view.RequiredSkills)
	return view, err
}

func (s *Server) handleAdminCreateCareerPath(w http.ResponseWriter, r *http.Request) {
	var req careerPathRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.saveCareerPath(r.Context(), 0, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, view)
}

func (s *Server) handleAdminUpdateCareerPath(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req careerPathRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.saveCareerPath(r.Context(), id, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (s *Server) handleAdminDeleteCareerPath(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.store.DeleteCareerPath, "Career path deleted successfully!")
}

// Badges

type badgeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	BadgeType   string `json:"badge_type"`
}

func (s *Server) handleAdminBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := s.store.ListBadges(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(badges))
}

func (s *Server) handleAdminCreateBadge(w http.ResponseWriter, r *http.Request) {
	var req badgeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		s.fail(w, r, apierrors.Invalid("name is required"))
		return
	}
	badge, err := s.store.CreateBadge(r.Context(), database.CreateBadgeParams{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		BadgeType:   strings.TrimSpace(req.BadgeType),
	})
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	respondWithJSON(w, http.StatusCreated, badge)
}

func (s *Server) handleAdminAwardBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	badgeID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.UserID <= 0 {
		s.fail(w, r, apierrors.Invalid("user_id is required"))
		return
	}
	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	n, err := s.store.AwardBadge(ctx, database.AwardBadgeParams{UserID: req.UserID, BadgeID: badgeID})
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	if n == 0 {
		s.fail(w, r, apierrors.Conflictf("user already holds this badge"))
		return
	}
	respondWithJSON(w, http.StatusCreated, message{"Badge awarded."})
}

// Testimonials

func (s *Server) handleAdminTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListTestimonials(r.Context(), database.ListTestimonialsParams{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(items))
}

func (s *Server) handleAdminApproveTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.store.ApproveTestimonial(r.Context(), id)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}
