package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/cache"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/learning"
	"github.com/muhammadolammi/skillnest/internal/recommend"
	"github.com/muhammadolammi/skillnest/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/time/rate"
)

type testServer struct {
	*Server
	store   *fakeStore
	cache   *cache.Memory
	handler http.Handler
}

func newTestServer(t *testing.T, opts ...func(*Options)) *testServer {
	t.Helper()
	store := newFakeStore()
	mem := cache.NewMemory(time.Minute)
	catalog, err := recommend.LoadCatalog("")
	require.NoError(t, err)
	log := zaptest.NewLogger(t)

	o := Options{
		Store:     store,
		Learning:  learning.NewService(store, mem, nil, log),
		Issuer:    auth.NewIssuer("test-secret", time.Hour),
		Cache:     mem,
		Objects:   storage.NewMemory("http://files.test"),
		Catalog:   catalog,
		Logger:    log,
		RateLimit: rate.Inf,
	}
	for _, opt := range opts {
		opt(&o)
	}
	s := NewServer(o)
	return &testServer{Server: s, store: store, cache: mem, handler: s.Router()}
}

// login registers a user with the role and returns a bearer token for it.
func (ts *testServer) login(t *testing.T, username, role string) (database.User, string) {
	t.Helper()
	u := ts.store.addUser(database.User{Username: username, Email: username + "@example.com", IsActive: true}, role)
	token, _, err := ts.issuer.Issue(u.ID, role, false)
	require.NoError(t, err)
	return u, token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ApiError {
	t.Helper()
	var apiErr apierrors.ApiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestHealthAndRequestID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, func(o *Options) { o.AllowedOrigin = "https://skillnest.test" })

	for _, path := range []string{"/healthz", "/api/auth/login", "/api/profile", "/api/admin/jobs/3"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", "https://app.skillnest.test")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			ts.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "https://skillnest.test", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		})
	}

	rec := ts.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, "https://skillnest.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodDelete, "/healthz", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	apiErr := decodeError(t, rec)
	assert.NotEmpty(t, apiErr.RequestID)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), apiErr.RequestID)
}

func TestRequireAuth(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.login(t, "ada", auth.RoleStudent)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"not bearer", "Token abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/certificates/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			ts.handler.ServeHTTP(rec, req)
			if tt.want == http.StatusOK {
				// authenticated, so the missing certificate is what fails
				assert.Equal(t, http.StatusNotFound, rec.Code)
				return
			}
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestInactiveUserIsForbidden(t *testing.T) {
	ts := newTestServer(t)
	u, token := ts.login(t, "ghost", auth.RoleStudent)
	u.IsActive = false
	ts.store.users[u.ID] = u

	rec := ts.do(t, http.MethodGet, "/api/certificates", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.login(t, "ada", auth.RoleStudent)

	rec := ts.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token has been revoked", decodeError(t, rec).Detail)
}

func TestRoleGates(t *testing.T) {
	ts := newTestServer(t)
	_, student := ts.login(t, "stu", auth.RoleStudent)
	_, teacher := ts.login(t, "tea", auth.RoleTeacher)

	rec := ts.do(t, http.MethodGet, "/api/teacher/courses", student, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/admin/users", teacher, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, func(o *Options) {
		o.RateLimit = rate.Every(time.Hour)
		o.RateBurst = 2
	})
	body := contactRequest{Name: "A", Email: "a@example.com", Message: "hi"}
	for i := 0; i < 2; i++ {
		rec := ts.do(t, http.MethodPost, "/api/contact", "", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := ts.do(t, http.MethodPost, "/api/contact", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// a forged forwarding header does not buy a fresh budget
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString(`{"name":"B"}`))
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec = httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	}
	assert.Equal(t, 1, ts.limiter.size())

	// other clients keep their own budget
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString(`{"name":"B"}`))
	req.RemoteAddr = "198.51.100.20:4000"
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitBehindProxy(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	ts := newTestServer(t, func(o *Options) {
		o.RateLimit = rate.Every(time.Hour)
		o.RateBurst = 1
		o.TrustedProxies = proxies
	})
	send := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString(`{}`))
		req.RemoteAddr = "10.1.2.3:443"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"))
}

func TestClientLimiterEviction(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newClientLimiter(rate.Every(time.Hour), 1)
	c.now = func() time.Time { return now }

	c.get("a")
	c.get("b")
	require.Equal(t, 2, c.size())

	now = now.Add(limiterIdle / 2)
	c.get("a")
	now = now.Add(limiterIdle / 2)
	c.get("c")
	// b idled out, a was seen half a window ago
	assert.Equal(t, 2, c.size())
	assert.Contains(t, c.limiters, "a")
	assert.NotContains(t, c.limiters, "b")
}

func TestRecover(t *testing.T) {
	ts := newTestServer(t)
	h := ts.RequestID(ts.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decodeError(t, rec).RequestID)
}

func TestPrincipalIsAdmin(t *testing.T) {
	assert.True(t, (&Principal{Role: auth.RoleAdmin}).IsAdmin())
	assert.True(t, (&Principal{Role: auth.RoleStudent, IsStaff: true}).IsAdmin())
	assert.False(t, (&Principal{Role: auth.RoleTeacher}).IsAdmin())
}

func TestClientKey(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.1"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		remote  string
		fwd     string
		proxies []netip.Prefix
		want    string
	}{
		{name: "socket", remote: "198.51.100.7:5555", want: "198.51.100.7"},
		{name: "forwarded ignored without proxies", remote: "198.51.100.7:5555", fwd: "203.0.113.1", want: "198.51.100.7"},
		{name: "forwarded ignored from untrusted peer", remote: "198.51.100.7:5555", fwd: "203.0.113.1", proxies: proxies, want: "198.51.100.7"},
		{name: "trusted proxy", remote: "10.0.0.5:80", fwd: "203.0.113.1", proxies: proxies, want: "203.0.113.1"},
		{name: "rightmost untrusted hop", remote: "10.0.0.5:80", fwd: "6.6.6.6, 203.0.113.1, 192.168.1.1", proxies: proxies, want: "203.0.113.1"},
		{name: "all hops trusted", remote: "10.0.0.5:80", fwd: "10.9.9.9", proxies: proxies, want: "10.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.fwd != "" {
				req.Header.Set("X-Forwarded-For", tt.fwd)
			}
			assert.Equal(t, tt.want, clientKey(req, tt.proxies))
		})
	}

	_, err = ParseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)
}

func TestQueryLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int32
	}{
		{"", 10},
		{"limit=5", 5},
		{"limit=0", 10},
		{"limit=-3", 10},
		{"limit=abc", 10},
		{"limit=500", 50},
		{"limit=4294967301", 50},
		{"limit=99999999999999999999999", 50},
		{"limit=-99999999999999999999999", 10},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/courses?"+tt.query, nil)
			assert.Equal(t, tt.want, queryLimit(req, 10, 50))
		})
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList(" 1, 2,,3 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	ids, err = parseIDList("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = parseIDList("1,x")
	assert.Error(t, err)
}

func TestCreateAccountConflicts(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	acct := NewAccount{Username: "ada", Email: "ada@example.com", Password: "secret123", Role: auth.RoleStudent}

	_, err := CreateAccount(ctx, store, acct)
	require.NoError(t, err)

	_, err = CreateAccount(ctx, store, acct)
	assert.Equal(t, "Username already exists!", apierrors.FromError(err).Detail)

	acct.Username = "ada2"
	_, err = CreateAccount(ctx, store, acct)
	assert.Equal(t, "Email already exists!", apierrors.FromError(err).Detail)
}
