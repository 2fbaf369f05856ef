package api

import (
	"context"
	"net/http"
	"net/netip"
	"time"

	"github.com/gorilla/mux"
	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/cache"
	"github.com/muhammadolammi/skillnest/internal/learning"
	"github.com/muhammadolammi/skillnest/internal/recommend"
	"github.com/muhammadolammi/skillnest/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultMaxUpload = 200 << 20

// Advisor turns a skill gap into a study plan. The returned string is a JSON document.
type Advisor interface {
	Advise(ctx context.Context, userID int64, career string, acquired, missing []string) (string, error)
}

type Options struct {
	Store    learning.Store
	Learning *learning.Service
	Issuer   *auth.Issuer
	Cache    cache.Cache
	Objects  storage.ObjectStore
	Catalog  *recommend.Catalog
	// Advisor is optional; without it the advice endpoint answers 503.
	Advisor Advisor
	Logger  *zap.Logger

	MaxUploadBytes int64
	AllowedOrigin  string
	// RateLimit and RateBurst bound auth and contact requests per client.
	RateLimit rate.Limit
	RateBurst int
	// TrustedProxies are the only peers whose X-Forwarded-For is believed.
	TrustedProxies []netip.Prefix
}

type Server struct {
	store     learning.Store
	learning  *learning.Service
	issuer    *auth.Issuer
	cache     cache.Cache
	objects   storage.ObjectStore
	catalog   *recommend.Catalog
	advisor   Advisor
	logger    *zap.Logger
	limiter   *clientLimiter
	proxies   []netip.Prefix
	maxUpload int64
	origin    string
	now       func() time.Time
}

func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = rate.Every(time.Second)
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 5
	}
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}
	return &Server{
		store:     opts.Store,
		learning:  opts.Learning,
		issuer:    opts.Issuer,
		cache:     opts.Cache,
		objects:   opts.Objects,
		catalog:   opts.Catalog,
		advisor:   opts.Advisor,
		logger:    opts.Logger,
		limiter:   newClientLimiter(opts.RateLimit, opts.RateBurst),
		proxies:   opts.TrustedProxies,
		maxUpload: opts.MaxUploadBytes,
		origin:    opts.AllowedOrigin,
		now:       time.Now,
	}
}

// Router builds the full route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)
	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	limited := api.NewRoute().Subrouter()
	limited.Use(s.RateLimit)
	limited.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	limited.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	limited.HandleFunc("/contact", s.handleContact).Methods(http.MethodPost)

	// public, with the viewer attached when a token is sent
	public := api.NewRoute().Subrouter()
	public.Use(s.OptionalAuth)
	public.HandleFunc("/home", s.handleHome).Methods(http.MethodGet)
	public.HandleFunc("/skills", s.handleListSkills).Methods(http.MethodGet)
	public.HandleFunc("/courses", s.handleListCourses).Methods(http.MethodGet)
	public.HandleFunc("/courses/{id:[0-9]+}", s.handleCourseDetail).Methods(http.MethodGet)
	public.HandleFunc("/jobs", s.handleListJobs).Methods(http.MethodGet)
	public.HandleFunc("/jobs/{id:[0-9]+}", s.handleJobDetail).Methods(http.MethodGet)
	public.HandleFunc("/teachers", s.handleListTeachers).Methods(http.MethodGet)
	public.HandleFunc("/teachers/{username}", s.handleTeacherProfile).Methods(http.MethodGet)
	public.HandleFunc("/portfolio/{username}", s.handlePortfolio).Methods(http.MethodGet)
	public.HandleFunc("/careers", s.handleListCareers).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.RequireAuth)
	authed.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/profile/picture", s.handleUploadProfilePicture).Methods(http.MethodPost)
	authed.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	authed.HandleFunc("/courses/{id:[0-9]+}/enroll", s.handleEnroll).Methods(http.MethodPost)
	authed.HandleFunc("/courses/{id:[0-9]+}/lessons/{lessonID:[0-9]+}", s.handleWatchLesson).Methods(http.MethodGet)
	authed.HandleFunc("/lessons/{id:[0-9]+}/complete", s.handleCompleteLesson).Methods(http.MethodPost)
	authed.HandleFunc("/certificates", s.handleMyCertificates).Methods(http.MethodGet)
	authed.HandleFunc("/certificates/{id:[0-9]+}", s.handleCertificate).Methods(http.MethodGet)
	authed.HandleFunc("/recommendations", s.handleRecommendedJobs).Methods(http.MethodGet)
	authed.HandleFunc("/recommendations/refresh", s.handleRefreshRecommendations).Methods(http.MethodPost)
	authed.HandleFunc("/skill-gap", s.handleSkillGap).Methods(http.MethodPost)
	authed.HandleFunc("/skill-gap/advice", s.handleSkillGapAdvice).Methods(http.MethodPost)
	authed.HandleFunc("/skill-gap/paths/{id:[0-9]+}", s.handleCareerGap).Methods(http.MethodGet)
	authed.HandleFunc("/users/{username}/testimonials", s.handleCreateTestimonial).Methods(http.MethodPost)
	s.portfolioRoutes(authed.PathPrefix("/me").Subrouter())

	teacher := api.PathPrefix("/teacher").Subrouter()
	teacher.Use(s.RequireAuth, s.RequireRole(auth.RoleTeacher))
	s.teacherRoutes(teacher)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.RequireAuth, s.RequireAdmin)
	s.adminRoutes(admin)

	// mux only runs Use middleware on matched routes, so the chain wraps the
	// router to also cover preflights and unmatched requests.
	return s.RequestID(s.Logger(s.Recover(s.CORS(r))))
}

func (s *Server) portfolioRoutes(r *mux.Router) {
	r.HandleFunc("/projects", s.handleListMyProjects).Methods(http.MethodGet)
	r.HandleFunc("/projects", s.handleCreateProject).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id:[0-9]+}", s.handleUpdateProject).Methods(http.MethodPut)
	r.HandleFunc("/projects/{id:[0-9]+}", s.handleDeleteProject).Methods(http.MethodDelete)
	r.HandleFunc("/projects/{id:[0-9]+}/image", s.handleUploadProjectImage).Methods(http.MethodPost)
	r.HandleFunc("/experiences", s.handleCreateExperience).Methods(http.MethodPost)
	r.HandleFunc("/experiences/{id:[0-9]+}", s.handleUpdateExperience).Methods(http.MethodPut)
	r.HandleFunc("/experiences/{id:[0-9]+}", s.handleDeleteExperience).Methods(http.MethodDelete)
	r.HandleFunc("/education", s.handleCreateEducation).Methods(http.MethodPost)
	r.HandleFunc("/education/{id:[0-9]+}", s.handleUpdateEducation).Methods(http.MethodPut)
	r.HandleFunc("/education/{id:[0-9]+}", s.handleDeleteEducation).Methods(http.MethodDelete)
	r.HandleFunc("/social-links", s.handleCreateSocialLink).Methods(http.MethodPost)
	r.HandleFunc("/social-links/{id:[0-9]+}", s.handleUpdateSocialLink).Methods(http.MethodPut)
	r.HandleFunc("/social-links/{id:[0-9]+}", s.handleDeleteSocialLink).Methods(http.MethodDelete)
}

func (s *Server) teacherRoutes(r *mux.Router) {
	r.HandleFunc("/courses", s.handleTeacherCourses).Methods(http.MethodGet)
	r.HandleFunc("/courses", s.handleCreateCourse).Methods(http.MethodPost)
	r.HandleFunc("/courses/{id:[0-9]+}", s.handleUpdateCourse).Methods(http.MethodPut)
	r.HandleFunc("/courses/{id:[0-9]+}", s.handleDeleteCourse).Methods(http.MethodDelete)
	r.HandleFunc("/courses/{id:[0-9]+}/cover", s.handleUploadCover).Methods(http.MethodPost)
	r.HandleFunc("/courses/{id:[0-9]+}/students", s.handleCourseStudents).Methods(http.MethodGet)
	r.HandleFunc("/courses/{id:[0-9]+}/lessons", s.handleCreateLesson).Methods(http.MethodPost)
	r.HandleFunc("/lessons/{id:[0-9]+}", s.handleUpdateLesson).Methods(http.MethodPut)
	r.HandleFunc("/lessons/{id:[0-9]+}", s.handleDeleteLesson).Methods(http.MethodDelete)
	r.HandleFunc("/lessons/{id:[0-9]+}/video", s.handleUploadLessonVideo).Methods(http.MethodPost)
	r.HandleFunc("/lessons/{id:[0-9]+}/materials", s.handleUploadMaterial).Methods(http.MethodPost)
}

func (s *Server) adminRoutes(r *mux.Router) {
	r.HandleFunc("/stats", s.handleAdminStats).Methods(http.MethodGet)
	r.HandleFunc("/users", s.handleAdminUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}/toggle", s.handleAdminToggleUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{id:[0-9]+}/approve-teacher", s.handleAdminApproveTeacher).Methods(http.MethodPost)
	r.HandleFunc("/courses", s.handleAdminCourses).Methods(http.MethodGet)
	r.HandleFunc("/courses/{id:[0-9]+}", s.handleAdminDeleteCourse).Methods(http.MethodDelete)
	r.HandleFunc("/certificates", s.handleAdminCertificates).Methods(http.MethodGet)
	r.HandleFunc("/certificates/{id:[0-9]+}", s.handleAdminRevokeCertificate).Methods(http.MethodDelete)
	r.HandleFunc("/jobs", s.handleAdminJobs).Methods(http.MethodGet)
	r.HandleFunc("/jobs", s.handleAdminCreateJob).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id:[0-9]+}", s.handleAdminUpdateJob).Methods(http.MethodPut)
	r.HandleFunc("/jobs/{id:[0-9]+}", s.handleAdminDeleteJob).Methods(http.MethodDelete)
	r.HandleFunc("/jobs/{id:[0-9]+}/toggle", s.handleAdminToggleJob).Methods(http.MethodPost)
	r.HandleFunc("/skills", s.handleAdminSkills).Methods(http.MethodGet)
	r.HandleFunc("/skills", s.handleAdminCreateSkill).Methods(http.MethodPost)
	r.HandleFunc("/skills/{id:[0-9]+}", s.handleAdminUpdateSkill).Methods(http.MethodPut)
	r.HandleFunc("/skills/{id:[0-9]+}", s.handleAdminDeleteSkill).Methods(http.MethodDelete)
	r.HandleFunc("/contacts", s.handleAdminContacts).Methods(http.MethodGet)
	r.HandleFunc("/contacts/{id:[0-9]+}/resolve", s.handleAdminResolveContact).Methods(http.MethodPost)
	r.HandleFunc("/career-paths", s.handleAdminCareerPaths).Methods(http.MethodGet)
	r.HandleFunc("/career-paths", s.handleAdminCreateCareerPath).Methods(http.MethodPost)
	r.HandleFunc("/career-paths/{id:[0-9]+}", s.handleAdminUpdateCareerPath).Methods(http.MethodPut)
	r.HandleFunc("/career-paths/{id:[0-9]+}", s.handleAdminDeleteCareerPath).Methods(http.MethodDelete)
	r.HandleFunc("/badges", s.handleAdminBadges).Methods(http.MethodGet)
	r.HandleFunc("/badges", s.handleAdminCreateBadge).Methods(http.MethodPost)
	r.HandleFunc("/badges/{id:[0-9]+}/award", s.handleAdminAwardBadge).Methods(http.MethodPost)
	r.HandleFunc("/testimonials", s.handleAdminTestimonials).Methods(http.MethodGet)
	r.HandleFunc("/testimonials/{id:[0-9]+}/approve", s.handleAdminApproveTestimonial).Methods(http.MethodPost)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
