package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/learning"
	"github.com/muhammadolammi/skillnest/internal/storage"
)

const (
	dateLayout          = "2006-01-02"
	maxShortDescription = 500
)

// Platforms lists the allowed social link platforms and their display names.
var Platforms = map[string]string{
	"linkedin":  "LinkedIn",
	"github":    "GitHub",
	"twitter":   "Twitter",
	"portfolio": "Portfolio",
	"website":   "Website",
	"instagram": "Instagram",
	"dribbble":  "Dribbble",
	"behance":   "Behance",
	"other":     "Other",
}

type projectView struct {
	database.PortfolioProject
	Technologies []database.Skill `json:"technologies"`
}

type experienceView struct {
	database.WorkExperience
	SkillsUsed []database.Skill `json:"skills_used"`
}

type portfolioResponse struct {
	User             database.User                `json:"user"`
	Profile          database.Profile             `json:"profile"`
	Certificates     []database.CertificateDetail `json:"certificates"`
	Skills           []database.StudentSkill      `json:"skills"`
	CompletedCourses []database.Course            `json:"completed_courses"`
	Projects         []projectView                `json:"projects"`
	Experiences      []experienceView             `json:"experiences"`
	Education        []database.Education         `json:"education"`
	SocialLinks      []database.SocialLink        `json:"social_links"`
	Badges           []database.UserBadge         `json:"badges"`
	Testimonials     []database.Testimonial       `json:"testimonials"`
	TotalCourses     int                          `json:"total_courses"`
	InProgress       int                          `json:"in_progress"`
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := s.store.GetUserByUsername(ctx, mux.Vars(r)["username"])
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	profile, err := s.store.GetProfile(ctx, user.ID)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	if profile.Role != auth.RoleStudent {
		s.fail(w, r, apierrors.ErrNotFoundReq("portfolio not found"))
		return
	}

	resp, err := s.buildPortfolio(ctx, user, profile)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) buildPortfolio(ctx context.Context, user database.User, profile database.Profile) (*portfolioResponse, error) {
	resp := &portfolioResponse{User: user, Profile: profile}
	var err error
	if resp.Certificates, err = s.store.ListCertificatesByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	if resp.Skills, err = s.store.ListStudentSkills(ctx, user.ID); err != nil {
		return nil, err
	}
	if resp.CompletedCourses, err = s.store.ListCompletedCoursesByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	if resp.Projects, err = s.projectViews(ctx, user.ID); err != nil {
		return nil, err
	}

	experiences, err := s.store.ListExperiencesByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp.Experiences = make([]experienceView, 0, len(experiences))
	for _, e := range experiences {
		skills, err := s.store.ListExperienceSkills(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		resp.Experiences = append(resp.Experiences, experienceView{WorkExperience: e, SkillsUsed: emptyIfNil(skills)})
	}

	if resp.Education, err = s.store.ListEducationByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	if resp.SocialLinks, err = s.store.ListSocialLinksByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	if resp.Badges, err = s.store.ListUserBadges(ctx, user.ID); err != nil {
		return nil, err
	}
	resp.Testimonials, err = s.store.ListTestimonials(ctx, database.ListTestimonialsParams{UserID: user.ID, ApprovedOnly: true})
	if err != nil {
		return nil, err
	}

	enrollments, err := s.store.ListEnrollmentsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp.TotalCourses = len(enrollments)
	for _, e := range enrollments {
		if e.Status == learning.StatusInProgress {
			resp.InProgress++
		}
	}

	resp.Certificates = emptyIfNil(resp.Certificates)
	resp.Skills = emptyIfNil(resp.Skills)
	resp.CompletedCourses = emptyIfNil(resp.CompletedCourses)
	resp.Education = emptyIfNil(resp.Education)
	resp.SocialLinks = emptyIfNil(resp.SocialLinks)
	resp.Badges = emptyIfNil(resp.Badges)
	resp.Testimonials = emptyIfNil(resp.Testimonials)
	return resp, nil
}

func (s *Server) projectViews(ctx context.Context, userID int64) ([]projectView, error) {
	projects, err := s.store.ListProjectsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		techs, err := s.store.ListProjectTechnologies(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, projectView{PortfolioProject: p, Technologies: emptyIfNil(techs)})
	}
	return views, nil
}

// ownedResult maps a missing row or zero affected rows on user owned data to not found.
func ownedResult(n int64, err error) error {
	if err != nil {
		return database.Normalize(err)
	}
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}

type projectRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"short_description"`
	LiveUrl          string  `json:"live_url"`
	GithubUrl        string  `json:"github_url"`
	Technologies     []int64 `json:"technologies"`
}

func (req *projectRequest) validate() error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Description) == "" {
		return apierrors.Invalid("title and description are required")
	}
	if len([]rune(req.ShortDescription)) > maxShortDescription {
		return apierrors.Invalid(fmt.Sprintf("short description must be at most %d characters", maxShortDescription))
	}
	return nil
}

func (s *Server) handleListMyProjects(w http.ResponseWriter, r *http.Request) {
	views, err := s.projectViews(r.Context(), principalFrom(r.Context()).UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	var project database.PortfolioProject
	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		project, err = q.CreateProject(ctx, database.CreateProjectParams{
			UserID:           principalFrom(ctx).UserID,
			Title:            req.Title,
			Description:      req.Description,
			ShortDescription: req.ShortDescription,
			LiveUrl:          req.LiveUrl,
			GithubUrl:        req.GithubUrl,
		})
		if err != nil {
			return err
		}
		return q.AddProjectTechnologies(ctx, database.AddProjectTechnologiesParams{ProjectID: project.ID, SkillIds: req.Technologies})
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	owner := database.OwnedParams{ID: id, UserID: principalFrom(ctx).UserID}
	var project database.PortfolioProject
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		current, err := q.GetProject(ctx, owner)
		if err != nil {
			return database.Normalize(err)
		}
		project, err = q.UpdateProject(ctx, database.UpdateProjectParams{
			ID:               id,
			UserID:           owner.UserID,
			Title:            req.Title,
			Description:      req.Description,
			ShortDescription: req.ShortDescription,
			Image:            current.Image,
			LiveUrl:          req.LiveUrl,
			GithubUrl:        req.GithubUrl,
		})
		if err != nil {
			return database.Normalize(err)
		}
		if err := q.ClearProjectTechnologies(ctx, id); err != nil {
			return err
		}
		return q.AddProjectTechnologies(ctx, database.AddProjectTechnologiesParams{ProjectID: id, SkillIds: req.Technologies})
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.store.DeleteProject, "Project deleted successfully!")
}

func (s *Server) deleteOwned(w http.ResponseWriter, r *http.Request, del func(context.Context, database.OwnedParams) (int64, error), msg string) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := ownedResult(del(r.Context(), database.OwnedParams{ID: id, UserID: principalFrom(r.Context()).UserID})); err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message{msg})
}

func (s *Server) handleUploadProjectImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	owner := database.OwnedParams{ID: id, UserID: principalFrom(ctx).UserID}
	current, err := s.store.GetProject(ctx, owner)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	up, err := s.readUpload(w, r, "image", storage.ProjectImages)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	url, err := s.storeUpload(r, up)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	project, err := s.store.UpdateProject(ctx, database.UpdateProjectParams{
		ID:               id,
		UserID:           owner.UserID,
		Title:            current.Title,
		Description:      current.Description,
		ShortDescription: current.ShortDescription,
		Image:            url,
		LiveUrl:          current.LiveUrl,
		GithubUrl:        current.GithubUrl,
	})
	if err != nil {
		s.discardUploads(r, up)
		s.fail(w, r, database.Normalize(err))
		return
	}
	respondWithJSON(w, http.StatusOK, project)
}

func parseDate(v, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, apierrors.Invalid(field + " must be a date like 2024-01-31")
	}
	return t, nil
}

// parsePeriod reads a start/end pair. A current entry has no end date.
func parsePeriod(start, end string, current bool) (time.Time, *time.Time, error) {
	s, err := parseDate(start, "start_date")
	if err != nil {
		return time.Time{}, nil, err
	}
	if current || strings.TrimSpace(end) == "" {
		return s, nil, nil
	}
	e, err := parseDate(end, "end_date")
	if err != nil {
		return time.Time{}, nil, err
	}
	if e.Before(s) {
		return time.Time{}, nil, apierrors.Invalid("end_date is before start_date")
	}
	return s, &e, nil
}

type experienceRequest struct {
	CompanyName string  `json:"company_name"`
	JobTitle    string  `json:"job_title"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	IsCurrent   bool    `json:"is_current"`
	SkillsUsed  []int64 `json:"skills_used"`
}

func (req *experienceRequest) params() (database.CreateExperienceParams, error) {
	if strings.TrimSpace(req.CompanyName) == "" || strings.TrimSpace(req.JobTitle) == "" {
		return database.CreateExperienceParams{}, apierrors.Invalid("company_name and job_title are required")
	}
	start, end, err := parsePeriod(req.StartDate, req.EndDate, req.IsCurrent)
	if err != nil {
		return database.CreateExperienceParams{}, err
	}
	return database.CreateExperienceParams{
		CompanyName: strings.TrimSpace(req.CompanyName),
		JobTitle:    strings.TrimSpace(req.JobTitle),
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		IsCurrent:   req.IsCurrent,
	}, nil
}

func (s *Server) handleCreateExperience(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req experienceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	arg, err := req.params()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	arg.UserID = principalFrom(ctx).UserID

	var exp database.WorkExperience
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		if exp, err = q.CreateExperience(ctx, arg); err != nil {
			return err
		}
		return q.AddExperienceSkills(ctx, database.AddExperienceSkillsParams{WorkExperienceID: exp.ID, SkillIds: req.SkillsUsed})
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, exp)
}

func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req experienceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	arg, err := req.params()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var exp database.WorkExperience
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		exp, err = q.UpdateExperience(ctx, database.UpdateExperienceParams{
			ID:          id,
			UserID:      principalFrom(ctx).UserID,
			CompanyName: arg.CompanyName,
			JobTitle:    arg.JobTitle,
			Description: arg.Description,
			StartDate:   arg.StartDate,
			EndDate:     arg.EndDate,
			IsCurrent:   arg.IsCurrent,
		})
		if err != nil {
			return database.Normalize(err)
		}
		if err := q.ClearExperienceSkills(ctx, id); err != nil {
			return err
		}
		return q.AddExperienceSkills(ctx, database.AddExperienceSkillsParams{WorkExperienceID: id, SkillIds: req.SkillsUsed})
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, exp)
}

func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.store.DeleteExperience, "Experience deleted successfully!")
}

type educationRequest struct {
	SchoolName   string `json:"school_name"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsCurrent    bool   `json:"is_current"`
	Grade        string `json:"grade"`
	Activities   string `json:"activities"`
}

func (req *educationRequest) params(userID int64) (database.CreateEducationParams, error) {
	if strings.TrimSpace(req.SchoolName) == "" || strings.TrimSpace(req.Degree) == "" {
		return database.CreateEducationParams{}, apierrors.Invalid("school_name and degree are required")
	}
	start, end, err := parsePeriod(req.StartDate, req.EndDate, req.IsCurrent)
	if err != nil {
		return database.CreateEducationParams{}, err
	}
	return database.CreateEducationParams{
		UserID:       userID,
		SchoolName:   strings.TrimSpace(req.SchoolName),
		Degree:       strings.TrimSpace(req.Degree),
		FieldOfStudy: req.FieldOfStudy,
		StartDate:    start,
		EndDate:      end,
		IsCurrent:    req.IsCurrent,
		Grade:        req.Grade,
		Activities:   req.Activities,
	}, nil
}

func (s *Server) handleCreateEducation(w http.ResponseWriter, r *http.Request) {
	var req educationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	arg, err := req.params(principalFrom(r.Context()).UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	edu, err := s.store.CreateEducation(r.Context(), arg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, edu)
}

func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req educationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	arg, err := req.params(principalFrom(r.Context()).UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	edu, err := s.store.UpdateEducation(r.Context(), database.UpdateEducationParams{
		ID:           id,
		UserID:       arg.UserID,
		SchoolName:   arg.SchoolName,
		Degree:       arg.Degree,
		FieldOfStudy: arg.FieldOfStudy,
		StartDate:    arg.StartDate,
		EndDate:      arg.EndDate,
		IsCurrent:    arg.IsCurrent,
		Grade:        arg.Grade,
		Activities:   arg.Activities,
	})
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	respondWithJSON(w, http.StatusOK, edu)
}

func (s *Server) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.store.DeleteEducation, "Education deleted successfully!")
}

type socialLinkRequest struct {
	Platform    string `json:"platform"`
	Url         string `json:"url"`
	DisplayName string `json:"display_name"`
}

func (req *socialLinkRequest) validate() error {
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))
	if _, ok := Platforms[req.Platform]; !ok {
		return apierrors.Invalid("unknown platform " + req.Platform)
	}
	if strings.TrimSpace(req.Url) == "" {
		return apierrors.Invalid("url is required")
	}
	return nil
}

// checkPlatform rejects a second link for the same platform.
func (s *Server) checkPlatform(ctx context.Context, userID int64, platform string, excludeID int64) error {
	taken, err := s.store.SocialLinkPlatformTaken(ctx, database.SocialLinkPlatformTakenParams{
		UserID:    userID,
		Platform:  platform,
		ExcludeID: excludeID,
	})
	if err != nil {
		return err
	}
	if taken {
		return apierrors.Conflictf("You already have a social link for %s.", Platforms[platform])
	}
	return nil
}

func (s *Server) handleCreateSocialLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req socialLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	userID := principalFrom(ctx).UserID
	if err := s.checkPlatform(ctx, userID, req.Platform, 0); err != nil {
		s.fail(w, r, err)
		return
	}
	link, err := s.store.CreateSocialLink(ctx, database.CreateSocialLinkParams{
		UserID:      userID,
		Platform:    req.Platform,
		Url:         strings.TrimSpace(req.Url),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		if errors.Is(database.Normalize(err), database.ErrConflict) {
			err = apierrors.Conflictf("You already have a social link for %s.", Platforms[req.Platform])
		}
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, link)
}

func (s *Server) handleUpdateSocialLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req socialLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	userID := principalFrom(ctx).UserID
	if err := s.checkPlatform(ctx, userID, req.Platform, id); err != nil {
		s.fail(w, r, err)
		return
	}
	link, err := s.store.UpdateSocialLink(ctx, database.UpdateSocialLinkParams{
		ID:          id,
		UserID:      userID,
		Platform:    req.Platform,
		Url:         strings.TrimSpace(req.Url),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	respondWithJSON(w, http.StatusOK, link)
}

func (s *Server) handleDeleteSocialLink(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.store.DeleteSocialLink, "Social link deleted successfully!")
}

type testimonialRequest struct {
	Content      string `json:"content"`
	Rating       int32  `json:"rating"`
	Relationship string `json:"relationship"`
}

// handleCreateTestimonial lets one user vouch for another. It stays hidden until an admin approves it.
func (s *Server) handleCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req testimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.fail(w, r, apierrors.Invalid("content is required"))
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		s.fail(w, r, apierrors.Invalid("rating must be between 1 and 5"))
		return
	}
	subject, err := s.store.GetUserByUsername(ctx, mux.Vars(r)["username"])
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	p := principalFrom(ctx)
	if subject.ID == p.UserID {
		s.fail(w, r, apierrors.Invalid("you cannot write a testimonial for yourself"))
		return
	}
	t, err := s.store.CreateTestimonial(ctx, database.CreateTestimonialParams{
		UserID:       subject.ID,
		GivenBy:      p.UserID,
		Content:      strings.TrimSpace(req.Content),
		Rating:       req.Rating,
		Relationship: req.Relationship,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, t)
}
