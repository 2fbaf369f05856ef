package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/events"
	"github.com/muhammadolammi/skillnest/internal/learning"
	"github.com/muhammadolammi/skillnest/internal/media"
	"github.com/muhammadolammi/skillnest/internal/recommend"
)

// jobView is a job as a given viewer sees it. MatchPercent is only set for
// signed in viewers.
type jobView struct {
	database.JobWithSkills
	Preview      string   `json:"preview"`
	MatchPercent *float64 `json:"match_percent,omitempty"`
}

const previewLength = 160

type jobDetail struct {
	jobView
	Skills []database.Skill `json:"skills"`
}

// viewerSkills returns the skill ids of the signed in viewer, or nil.
func (s *Server) viewerSkills(r *http.Request) ([]int64, bool, error) {
	p := principalFrom(r.Context())
	if p == nil {
		return nil, false, nil
	}
	ids, err := s.store.ListStudentSkillIDs(r.Context(), p.UserID)
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

func withMatch(job database.JobWithSkills, skillIDs []int64, signedIn bool) jobView {
	v := jobView{JobWithSkills: job, Preview: media.Preview(job.Description, previewLength)}
	if signedIn {
		pct := recommend.MatchPercent(skillIDs, job.SkillIDs)
		v.MatchPercent = &pct
	}
	if v.SkillIDs == nil {
		v.SkillIDs = []int64{}
	}
	return v
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobs, err := s.store.ListJobs(ctx, database.ListJobsParams{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Status: "active",
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	skillIDs, signedIn, err := s.viewerSkills(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]jobView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, withMatch(j, skillIDs, signedIn))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) handleJobDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	// closed jobs stay viewable; is_active tells the client to mark them
	skills, err := s.store.ListJobSkills(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ids := make([]int64, 0, len(skills))
	for _, sk := range skills {
		ids = append(ids, sk.ID)
	}
	skillIDs, signedIn, err := s.viewerSkills(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, jobDetail{
		jobView: withMatch(database.JobWithSkills{Job: job, SkillIDs: ids}, skillIDs, signedIn),
		Skills:  emptyIfNil(skills),
	})
}

type careersResponse struct {
	Careers []string              `json:"careers"`
	Paths   []database.CareerPath `json:"career_paths"`
}

func (s *Server) handleListCareers(w http.ResponseWriter, r *http.Request) {
	paths, err := s.store.ListCareerPaths(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, careersResponse{
		Careers: s.catalog.Names(),
		Paths:   emptyIfNil(paths),
	})
}

func (s *Server) handleRecommendedJobs(w http.ResponseWriter, r *http.Request) {
	recs, err := s.learning.JobRecommendations(r.Context(), principalFrom(r.Context()).UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(recs))
}

func (s *Server) handleRefreshRecommendations(w http.ResponseWriter, r *http.Request) {
	s.learning.SkillsChanged(r.Context(), principalFrom(r.Context()).UserID, events.ReasonManual)
	respondWithJSON(w, http.StatusAccepted, message{"Recommendations are being refreshed."})
}

type skillGapRequest struct {
	Career string `json:"career"`
	Skills string `json:"skills"`
}

func (s *Server) readSkillGap(r *http.Request) (skillGapRequest, error) {
	var req skillGapRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}
	req.Career = strings.TrimSpace(req.Career)
	req.Skills = strings.TrimSpace(req.Skills)
	if req.Career == "" || req.Skills == "" {
		return req, apierrors.Invalid("Please select a career and enter your skills.")
	}
	if !slices.Contains(s.catalog.Names(), req.Career) {
		return req, apierrors.Invalid(fmt.Sprintf("unknown career %q", req.Career))
	}
	return req, nil
}

func (s *Server) handleSkillGap(w http.ResponseWriter, r *http.Request) {
	req, err := s.readSkillGap(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.learning.TextGap(r.Context(), s.catalog, req.Career, req.Skills)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

type adviceResponse struct {
	*learning.TextGapResult
	Advice json.RawMessage `json:"advice"`
}

// handleSkillGapAdvice runs the gap check and asks the advisor for a study plan.
func (s *Server) handleSkillGapAdvice(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		s.fail(w, r, apierrors.ErrServiceUnavailable("career advice is not configured"))
		return
	}
	req, err := s.readSkillGap(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx := r.Context()
	result, err := s.learning.TextGap(ctx, s.catalog, req.Career, req.Skills)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	advice, err := s.advisor.Advise(ctx, principalFrom(ctx).UserID, req.Career, result.Acquired, result.GapNames())
	if err != nil {
		s.fail(w, r, fmt.Errorf("advisor failed: %w", err))
		return
	}
	raw := json.RawMessage(advice)
	if !json.Valid(raw) {
		raw, _ = json.Marshal(advice)
	}
	respondWithJSON(w, http.StatusOK, adviceResponse{TextGapResult: result, Advice: raw})
}

func (s *Server) handleCareerGap(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	gap, err := s.learning.CareerGap(r.Context(), principalFrom(r.Context()).UserID, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, gap)
}
