package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name   string
		req    signupRequest
		detail string
	}{
		{
			name:   "missing fields",
			req:    signupRequest{Username: "ada", Password: "secret1", PasswordConfirm: "secret1"},
			detail: "All fields are required!",
		},
		{
			name:   "mismatch",
			req:    signupRequest{Username: "ada", Email: "a@x.io", Password: "secret1", PasswordConfirm: "secret2"},
			detail: "Passwords do not match!",
		},
		{
			name:   "short password",
			req:    signupRequest{Username: "ada", Email: "a@x.io", Password: "abc", PasswordConfirm: "abc"},
			detail: "Password must be at least 6 characters long!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec := ts.do(t, http.MethodPost, "/api/auth/signup", "", tt.req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.detail, decodeError(t, rec).Detail)
			assert.Empty(t, ts.store.users)
		})
	}
}

func TestSignupCannotClaimAdmin(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/auth/signup", "", signupRequest{
		Username:        "mallory",
		Email:           "m@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
		Role:            auth.RoleAdmin,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, auth.RoleStudent, resp.Role)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, auth.RoleStudent, ts.store.profiles[resp.User.ID].Role)

	claims, err := ts.issuer.Parse(resp.Token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin())
}

func TestSignupTeacherThenDuplicate(t *testing.T) {
	ts := newTestServer(t)
	req := signupRequest{
		Username:        "grace",
		Email:           "grace@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
		Role:            auth.RoleTeacher,
	}
	rec := ts.do(t, http.MethodPost, "/api/auth/signup", "", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/signup", "", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists!", decodeError(t, rec).Detail)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	active := ts.store.addUser(database.User{Username: "ada", PasswordHash: hash, IsActive: true}, auth.RoleTeacher)
	ts.store.addUser(database.User{Username: "off", PasswordHash: hash}, auth.RoleStudent)

	rec := ts.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{Username: "ada", Password: "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, active.ID, resp.User.ID)
	assert.Equal(t, auth.RoleTeacher, resp.Role)
	assert.NotContains(t, rec.Body.String(), hash)

	for _, bad := range []loginRequest{
		{Username: "ada", Password: "wrong"},
		{Username: "nobody", Password: "secret123"},
		{Username: "off", Password: "secret123"},
	} {
		rec := ts.do(t, http.MethodPost, "/api/auth/login", "", bad)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, bad.Username)
		assert.Equal(t, "Invalid username or password!", decodeError(t, rec).Detail)
	}
}

func TestParseYears(t *testing.T) {
	five := int32(5)
	assert.Equal(t, &five, parseYears(json.RawMessage(`"x"`), &five))
	got := parseYears(json.RawMessage(`7`), &five)
	require.NotNil(t, got)
	assert.Equal(t, int32(7), *got)
}
