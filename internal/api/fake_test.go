package api

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/muhammadolammi/skillnest/internal/database"
)

// fakeStore backs the handlers under test with maps. Any Querier method it
// does not override panics through the nil embedded interface.
type fakeStore struct {
	database.Querier

	mu           sync.Mutex
	users        map[int64]database.User
	profiles     map[int64]database.Profile
	courses      map[int64]database.Course
	certificates map[int64]database.CertificateDetail
	socialLinks  []database.SocialLink
	contacts     []database.CreateContactMessageParams
	careerPaths  []database.CareerPath
	skillIDs     map[int64]bool
	skillUsers   []int64
	jobs         map[int64]database.Job
	nextID       int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[int64]database.User{},
		profiles:     map[int64]database.Profile{},
		courses:      map[int64]database.Course{},
		certificates: map[int64]database.CertificateDetail{},
		skillIDs:     map[int64]bool{},
		jobs:         map[int64]database.Job{},
		nextID:       100,
	}
}

func (f *fakeStore) ExecTx(_ context.Context, fn func(database.Querier) error) error {
	return fn(f)
}

func (f *fakeStore) addUser(u database.User, role string) database.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	}
	f.users[u.ID] = u
	f.profiles[u.ID] = database.Profile{UserID: u.ID, Role: role}
	return u
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return u, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return database.User{}, sql.ErrNoRows
}

func (f *fakeStore) GetProfile(_ context.Context, userID int64) (database.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return p, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeStore) UsernameExists(_ context.Context, username string) (bool, error) {
	_, err := f.GetUserByUsername(context.Background(), username)
	return err == nil, nil
}

func (f *fakeStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateUser(_ context.Context, arg database.CreateUserParams) (database.User, error) {
	u := database.User{
		Username:     arg.Username,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		FirstName:    arg.FirstName,
		LastName:     arg.LastName,
		IsStaff:      arg.IsStaff,
		IsActive:     true,
		DateJoined:   time.Now(),
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) CreateProfile(_ context.Context, arg database.CreateProfileParams) (database.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := database.Profile{UserID: arg.UserID, Role: arg.Role}
	f.profiles[arg.UserID] = p
	return p, nil
}

func (f *fakeStore) CreateContactMessage(_ context.Context, arg database.CreateContactMessageParams) (database.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, arg)
	return database.ContactMessage{Name: arg.Name, Email: arg.Email, Message: arg.Message}, nil
}

func (f *fakeStore) SocialLinkPlatformTaken(_ context.Context, arg database.SocialLinkPlatformTakenParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.socialLinks {
		if l.UserID == arg.UserID && l.Platform == arg.Platform && l.ID != arg.ExcludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateSocialLink(_ context.Context, arg database.CreateSocialLinkParams) (database.SocialLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l := database.SocialLink{ID: f.nextID, UserID: arg.UserID, Platform: arg.Platform, Url: arg.Url, DisplayName: arg.DisplayName}
	f.socialLinks = append(f.socialLinks, l)
	return l, nil
}

func (f *fakeStore) GetCertificate(_ context.Context, id int64) (database.CertificateDetail, error) {
	c, ok := f.certificates[id]
	if !ok {
		return c, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeStore) GetCourse(_ context.Context, id int64) (database.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return c, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeStore) DeleteCourse(_ context.Context, id int64) (int64, error) {
	if _, ok := f.courses[id]; !ok {
		return 0, nil
	}
	delete(f.courses, id)
	return 1, nil
}

func (f *fakeStore) CreateCourse(_ context.Context, arg database.CreateCourseParams) (database.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := database.Course{
		ID:            f.nextID,
		Title:         arg.Title,
		Description:   arg.Description,
		Category:      arg.Category,
		Level:         arg.Level,
		InstructorID:  arg.InstructorID,
		CoverImage:    arg.CoverImage,
		DurationHours: arg.DurationHours,
	}
	f.courses[c.ID] = c
	return c, nil
}

func (f *fakeStore) AddCourseSkills(_ context.Context, arg database.AddCourseSkillsParams) error {
	for _, id := range arg.SkillIds {
		if !f.skillIDs[id] {
			return &pq.Error{Code: "23503", Constraint: "course_skills_skill_id_fkey"}
		}
	}
	return nil
}

func (f *fakeStore) ListCourseSkills(context.Context, int64) ([]database.Skill, error) {
	return nil, nil
}

func (f *fakeStore) CreateLesson(_ context.Context, arg database.CreateLessonParams) (database.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return database.Lesson{ID: f.nextID, CourseID: arg.CourseID, Title: arg.Title, VideoUrl: arg.VideoUrl, VideoFile: arg.VideoFile}, nil
}

func (f *fakeStore) ListCareerPaths(context.Context) ([]database.CareerPath, error) {
	return f.careerPaths, nil
}

func (f *fakeStore) CreateCareerPath(_ context.Context, arg database.CreateCareerPathParams) (database.CareerPath, error) {
	f.nextID++
	cp := database.CareerPath{ID: f.nextID, CareerName: arg.CareerName, Description: arg.Description, ExperienceLevel: arg.ExperienceLevel}
	f.careerPaths = append(f.careerPaths, cp)
	return cp, nil
}

func (f *fakeStore) ClearCareerPathSkills(context.Context, int64) error {
	return nil
}

// AddCareerPathSkills fails like postgres does for a skill id with no row.
func (f *fakeStore) AddCareerPathSkills(_ context.Context, arg database.AddCareerPathSkillsParams) error {
	for _, id := range arg.SkillIds {
		if !f.skillIDs[id] {
			return &pq.Error{Code: "23503", Constraint: "career_path_skills_skill_id_fkey"}
		}
	}
	return nil
}

func (f *fakeStore) ListCareerPathSkills(context.Context, int64) ([]database.Skill, error) {
	return nil, nil
}

func (f *fakeStore) ListUsersWithSkills(context.Context) ([]int64, error) {
	return f.skillUsers, nil
}

func (f *fakeStore) ToggleJobActive(_ context.Context, id int64) (database.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return database.Job{}, sql.ErrNoRows
	}
	job.IsActive = !job.IsActive
	f.jobs[id] = job
	return job, nil
}

func (f *fakeStore) DeleteJob(_ context.Context, id int64) (int64, error) {
	if _, ok := f.jobs[id]; !ok {
		return 0, nil
	}
	delete(f.jobs, id)
	return 1, nil
}

func (f *fakeStore) GetJob(_ context.Context, id int64) (database.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return database.Job{}, sql.ErrNoRows
	}
	return job, nil
}

func (f *fakeStore) ListJobSkills(context.Context, int64) ([]database.Skill, error) {
	return []database.Skill{{ID: 1, SkillName: "Go"}}, nil
}

func (f *fakeStore) ListStudentSkillIDs(context.Context, int64) ([]int64, error) {
	return []int64{1}, nil
}
