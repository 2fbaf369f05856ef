package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactAlwaysThanks(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/contact", "", contactRequest{Name: "Ada", Message: "no email"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, ts.store.contacts)

	rec = ts.do(t, http.MethodPost, "/api/contact", "", contactRequest{
		Name: " Ada ", Email: "ada@example.com", Subject: "Hi", Message: "Great courses",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ts.store.contacts, 1)
	assert.Equal(t, "Ada", ts.store.contacts[0].Name)

	var msg message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, contactThanks, msg.Message)
}

func TestSocialLinkOnePerPlatform(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.login(t, "ada", auth.RoleStudent)

	body := socialLinkRequest{Platform: "GitHub", Url: "https://github.com/ada"}
	rec := ts.do(t, http.MethodPost, "/api/me/social-links", token, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/me/social-links", token, body)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "You already have a social link for GitHub.", decodeError(t, rec).Detail)

	rec = ts.do(t, http.MethodPost, "/api/me/social-links", token, socialLinkRequest{Platform: "myspace", Url: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCertificateAccess(t *testing.T) {
	ts := newTestServer(t)
	owner, ownerToken := ts.login(t, "owner", auth.RoleStudent)
	_, otherToken := ts.login(t, "other", auth.RoleStudent)
	_, adminToken := ts.login(t, "root", auth.RoleAdmin)
	ts.store.certificates[7] = database.CertificateDetail{
		Certificate: database.Certificate{ID: 7, UserID: owner.ID, CertificateCode: "ABCD1234"},
		CourseTitle: "Go Basics",
	}

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"owner", ownerToken, http.StatusOK},
		{"stranger", otherToken, http.StatusForbidden},
		{"admin", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/certificates/7", tt.token, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestTeacherCannotTouchOthersCourse(t *testing.T) {
	ts := newTestServer(t)
	owner, _ := ts.login(t, "owner", auth.RoleTeacher)
	_, intruder := ts.login(t, "intruder", auth.RoleTeacher)
	ts.store.courses[3] = database.Course{ID: 3, Title: "Rust", InstructorID: owner.ID}

	rec := ts.do(t, http.MethodDelete, "/api/teacher/courses/3", intruder, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, ts.store.courses, int64(3))

	rec = ts.do(t, http.MethodDelete, "/api/teacher/courses/99", intruder, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTeacherDeletesOwnCourse(t *testing.T) {
	ts := newTestServer(t)
	owner, token := ts.login(t, "owner", auth.RoleTeacher)
	ts.store.courses[3] = database.Course{ID: 3, Title: "Rust", InstructorID: owner.ID}

	rec := ts.do(t, http.MethodDelete, "/api/teacher/courses/3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, ts.store.courses, int64(3))
	assert.Contains(t, rec.Body.String(), "Rust")
}

func TestSkillGap(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.login(t, "ada", auth.RoleStudent)

	rec := ts.do(t, http.MethodPost, "/api/skill-gap", token, skillGapRequest{Career: "Astronaut", Skills: "go"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/skill-gap", token, skillGapRequest{Career: "Cloud Architect"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/skill-gap", token, skillGapRequest{
		Career: "Cloud Architect",
		Skills: "aws, azure, gcp, architecture, security",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Career   string            `json:"career"`
		Acquired []string          `json:"acquired_skills"`
		Gap      []json.RawMessage `json:"gap_skills"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Cloud Architect", got.Career)
	assert.Len(t, got.Acquired, 5)
	assert.Empty(t, got.Gap)
}

func TestSkillGapAdvice(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.login(t, "ada", auth.RoleStudent)
	req := skillGapRequest{Career: "Cloud Architect", Skills: "aws, azure, gcp, architecture, security"}

	rec := ts.do(t, http.MethodPost, "/api/skill-gap/advice", token, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	advisor := &stubAdvisor{reply: `{"summary":"keep going"}`}
	ts = newTestServer(t, func(o *Options) { o.Advisor = advisor })
	_, token = ts.login(t, "ada", auth.RoleStudent)
	rec = ts.do(t, http.MethodPost, "/api/skill-gap/advice", token, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"summary":"keep going"}`, string(decodeField(t, rec, "advice")))
	assert.Equal(t, "Cloud Architect", advisor.career)
}

func TestListCareers(t *testing.T) {
	ts := newTestServer(t)
	ts.store.careerPaths = []database.CareerPath{{ID: 1, CareerName: "Platform Engineer"}}

	rec := ts.do(t, http.MethodGet, "/api/careers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got careersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got.Careers, "Data Scientist")
	require.Len(t, got.Paths, 1)
	assert.Equal(t, "Platform Engineer", got.Paths[0].CareerName)
}

func TestFallbackImage(t *testing.T) {
	assert.Equal(t, "images/pic-1.jpg", FallbackImage(0))
	assert.Equal(t, "images/pic-9.jpg", FallbackImage(8))
	assert.Equal(t, "images/pic-1.jpg", FallbackImage(9))
	assert.Equal(t, "images/pic-5.jpg", FallbackImage(22))
}

func TestReadCourseForm(t *testing.T) {
	f, err := readCourseForm("Go", "Learn Go", Categories[0].Value, "", "", "3, 4")
	require.NoError(t, err)
	assert.Equal(t, "beginner", f.Level)
	assert.Equal(t, int32(defaultDurationHours), f.DurationHours)
	assert.Equal(t, []int64{3, 4}, f.SkillIDs)

	_, err = readCourseForm("Go", "Learn Go", "cooking", "", "", "")
	assert.Error(t, err)
	_, err = readCourseForm("Go", "Learn Go", Categories[0].Value, "", "-2", "")
	assert.Error(t, err)
	_, err = readCourseForm("", "Learn Go", Categories[0].Value, "", "", "")
	assert.Error(t, err)
}

type stubAdvisor struct {
	reply  string
	career string
}

func (a *stubAdvisor) Advise(_ context.Context, _ int64, career string, _, _ []string) (string, error) {
	a.career = career
	return a.reply, nil
}

func decodeField(t *testing.T, rec *httptest.ResponseRecorder, field string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m[field]
}

func TestJobDetailShowsClosedJobs(t *testing.T) {
	ts := newTestServer(t)
	ts.store.jobs[8] = database.Job{ID: 8, JobTitle: "Platform Engineer", Description: "<p>Run <b>k8s</b></p>", IsActive: false}
	_, token := ts.login(t, "ada", auth.RoleStudent)

	rec := ts.do(t, http.MethodGet, "/api/jobs/8", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got jobDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.IsActive)
	assert.Equal(t, "Run k8s", got.Preview)
	require.NotNil(t, got.MatchPercent)
	assert.InDelta(t, 100, *got.MatchPercent, 1e-9)

	rec = ts.do(t, http.MethodGet, "/api/jobs/404", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
