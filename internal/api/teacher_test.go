package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/storage"
)

func buildCourseForm(t *testing.T, skillIDs string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":       "Go in Practice",
		"description": "Services and tooling",
		"category":    "programming",
		"skill_ids":   skillIDs,
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	cover, err := mw.CreateFormFile("cover_image", "cover.png")
	require.NoError(t, err)
	_, err = cover.Write([]byte("\x89PNG\r\n\x1a\nrest-of-image"))
	require.NoError(t, err)
	video, err := mw.CreateFormFile("lesson_video", "intro.mp4")
	require.NoError(t, err)
	_, err = video.Write([]byte("not really a video"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreateCourseDiscardsUploadsOnFailure(t *testing.T) {
	objects := storage.NewMemory("http://files.test")
	ts := newTestServer(t, func(o *Options) { o.Objects = objects })
	_, token := ts.login(t, "grace", auth.RoleTeacher)

	post := func(skillIDs string) *httptest.ResponseRecorder {
		body, ct := buildCourseForm(t, skillIDs)
		req := httptest.NewRequest(http.MethodPost, "/api/teacher/courses", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := post("999")
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Zero(t, objects.Len(), "cover and video must not outlive a failed create")

	ts.store.skillIDs[4] = true
	rec = post("4")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 2, objects.Len())

	var resp createCourseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Course.CoverImage, "http://files.test/")
	require.NotNil(t, resp.Lesson)
	assert.NotEmpty(t, resp.Lesson.VideoFile)
	assert.Empty(t, resp.Lesson.VideoUrl)
}
