package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/storage"
)

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"role"`
}

func (req *signupRequest) validate() error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" || req.PasswordConfirm == "" {
		return apierrors.Invalid("All fields are required!")
	}
	if req.Password != req.PasswordConfirm {
		return apierrors.Invalid("Passwords do not match!")
	}
	if len(req.Password) < auth.MinPasswordLength {
		return apierrors.Invalid(fmt.Sprintf("Password must be at least %d characters long!", auth.MinPasswordLength))
	}
	// admins are created from the command line only
	if req.Role != auth.RoleTeacher {
		req.Role = auth.RoleStudent
	}
	return nil
}

type authResponse struct {
	Token     string        `json:"token"`
	ExpiresAt int64         `json:"expires_at"`
	User      database.User `json:"user"`
	Role      string        `json:"role"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := CreateAccount(r.Context(), s.store, NewAccount{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.issueToken(w, r, http.StatusCreated, user, req.Role)
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, status int, user database.User, role string) {
	token, claims, err := s.issuer.Issue(user.ID, role, user.IsStaff)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, status, authResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		User:      user,
		Role:      role,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	invalid := apierrors.ErrUnauthorizedReq("Invalid username or password!")

	user, err := s.store.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(database.Normalize(err), database.ErrNotFound) {
			s.fail(w, r, invalid)
			return
		}
		s.fail(w, r, err)
		return
	}
	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok || !user.IsActive {
		s.fail(w, r, invalid)
		return
	}
	profile, err := s.store.GetProfile(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	s.issueToken(w, r, http.StatusOK, user, profile.Role)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	ttl := p.ExpiresAt.Sub(s.now())
	if err := s.cache.Revoke(r.Context(), p.TokenID, ttl); err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message{"You have been logged out."})
}

type profileResponse struct {
	User    database.User    `json:"user"`
	Profile database.Profile `json:"profile"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	resp, err := s.loadProfile(r, p.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) loadProfile(r *http.Request, userID int64) (profileResponse, error) {
	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		return profileResponse{}, database.Normalize(err)
	}
	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		return profileResponse{}, database.Normalize(err)
	}
	return profileResponse{User: user, Profile: profile}, nil
}

type updateProfileRequest struct {
	FirstName       *string         `json:"first_name"`
	LastName        *string         `json:"last_name"`
	Email           *string         `json:"email"`
	Bio             *string         `json:"bio"`
	Phone           *string         `json:"phone"`
	Specialization  *string         `json:"specialization"`
	Expertise       *string         `json:"expertise"`
	ExperienceYears json.RawMessage `json:"experience_years"`
	LinkedinUrl     *string         `json:"linkedin_url"`
	WebsiteUrl      *string         `json:"website_url"`
}

// parseYears accepts a JSON number or numeric string. Anything else keeps current.
func parseYears(raw json.RawMessage, current *int32) *int32 {
	if len(raw) == 0 {
		return current
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return current
	}
	var n int64
	switch t := v.(type) {
	case float64:
		if t != float64(int64(t)) {
			return current
		}
		n = int64(t)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(t), 10, 32)
		if err != nil {
			return current
		}
		n = parsed
	default:
		return current
	}
	if n < 0 {
		return current
	}
	years := int32(n)
	return &years
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	current, err := s.loadProfile(r, p.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	u := database.UpdateUserParams{
		ID:        p.UserID,
		FirstName: current.User.FirstName,
		LastName:  current.User.LastName,
		Email:     current.User.Email,
	}
	set(&u.FirstName, req.FirstName)
	set(&u.LastName, req.LastName)
	set(&u.Email, req.Email)
	if u.Email == "" {
		s.fail(w, r, apierrors.Invalid("email is required"))
		return
	}

	pr := database.UpdateProfileParams{
		UserID:          p.UserID,
		Bio:             current.Profile.Bio,
		Phone:           current.Profile.Phone,
		Specialization:  current.Profile.Specialization,
		Expertise:       current.Profile.Expertise,
		ExperienceYears: current.Profile.ExperienceYears,
		LinkedinUrl:     current.Profile.LinkedinUrl,
		WebsiteUrl:      current.Profile.WebsiteUrl,
	}
	set(&pr.Bio, req.Bio)
	set(&pr.Phone, req.Phone)
	if current.Profile.Role == auth.RoleTeacher {
		set(&pr.Specialization, req.Specialization)
		set(&pr.Expertise, req.Expertise)
		set(&pr.LinkedinUrl, req.LinkedinUrl)
		set(&pr.WebsiteUrl, req.WebsiteUrl)
		pr.ExperienceYears = parseYears(req.ExperienceYears, current.Profile.ExperienceYears)
	}

	var resp profileResponse
	err = s.store.ExecTx(r.Context(), func(q database.Querier) error {
		var err error
		if resp.User, err = q.UpdateUser(r.Context(), u); err != nil {
			if errors.Is(database.Normalize(err), database.ErrConflict) {
				return apierrors.Conflictf("email is already in use")
			}
			return err
		}
		resp.Profile, err = q.UpdateProfile(r.Context(), pr)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	up, err := s.readUpload(w, r, "profile_picture", storage.ProfilePictures)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		s.fail(w, r, apierrors.Invalid("profile picture must be an image"))
		return
	}
	url, err := s.storeUpload(r, up)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	err = s.store.UpdateProfilePicture(r.Context(), database.UpdateProfilePictureParams{UserID: p.UserID, ProfilePicture: url})
	if err != nil {
		s.discardUploads(r, up)
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"profile_picture": url})
}

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := s.store.ListTeachers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(teachers))
}

type teacherProfileResponse struct {
	User          database.User     `json:"user"`
	Profile       database.Profile  `json:"profile"`
	Courses       []database.Course `json:"courses"`
	TotalStudents int64             `json:"total_students"`
}

func (s *Server) handleTeacherProfile(w http.ResponseWriter, r *http.Request) {
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
	if profile.Role != auth.RoleTeacher {
		s.fail(w, r, apierrors.ErrNotFoundReq("teacher not found"))
		return
	}
	courses, err := s.store.ListCoursesByInstructor(ctx, user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	students, err := s.store.CountEnrollmentsByInstructor(ctx, user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, teacherProfileResponse{
		User:          user,
		Profile:       profile,
		Courses:       emptyIfNil(courses),
		TotalStudents: students,
	})
}
