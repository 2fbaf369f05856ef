package learning

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/events"
)

type enrollKey struct{ user, course int64 }

// fakeStore keeps just enough state for the service paths under test.
// Calling a Querier method it does not override panics.
type fakeStore struct {
	database.Querier

	mu            sync.Mutex
	courses       map[int64]database.Course
	lessons       map[int64]database.Lesson
	enrollments   map[enrollKey]database.Enrollment
	completed     map[int64]map[int64]bool
	courseSkills  map[int64][]int64
	studentSkills map[int64]map[int64]bool
	certificates  map[enrollKey]database.Certificate
	jobs          []database.JobWithSkills
	skills        map[int64]database.Skill
	stored        map[int64]map[int64]database.UpsertJobRecommendationParams
	careers       map[int64]database.CareerPath
	careerSkills  map[int64][]database.Skill
	skillCourses  map[string][]database.Course
	nextID        int64
	txCount       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courses:       map[int64]database.Course{},
		lessons:       map[int64]database.Lesson{},
		enrollments:   map[enrollKey]database.Enrollment{},
		completed:     map[int64]map[int64]bool{},
		courseSkills:  map[int64][]int64{},
		studentSkills: map[int64]map[int64]bool{},
		certificates:  map[enrollKey]database.Certificate{},
		skills:        map[int64]database.Skill{},
		stored:        map[int64]map[int64]database.UpsertJobRecommendationParams{},
		careers:       map[int64]database.CareerPath{},
		careerSkills:  map[int64][]database.Skill{},
		skillCourses:  map[string][]database.Course{},
		nextID:        100,
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ExecTx(_ context.Context, fn func(database.Querier) error) error {
	f.txCount++
	return fn(f)
}

func (f *fakeStore) GetCourse(_ context.Context, id int64) (database.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return c, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeStore) GetLesson(_ context.Context, id int64) (database.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return l, sql.ErrNoRows
	}
	return l, nil
}

func (f *fakeStore) ListLessonsByCourse(_ context.Context, courseID int64) ([]database.Lesson, error) {
	var out []database.Lesson
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) CountLessonsByCourse(ctx context.Context, courseID int64) (int64, error) {
	lessons, _ := f.ListLessonsByCourse(ctx, courseID)
	return int64(len(lessons)), nil
}

func (f *fakeStore) ListLessonMaterials(context.Context, int64) ([]database.LessonMaterial, error) {
	return nil, nil
}

func (f *fakeStore) GetEnrollment(_ context.Context, arg database.GetEnrollmentParams) (database.Enrollment, error) {
	e, ok := f.enrollments[enrollKey{arg.UserID, arg.CourseID}]
	if !ok {
		return e, sql.ErrNoRows
	}
	return e, nil
}

func (f *fakeStore) CreateEnrollment(_ context.Context, arg database.CreateEnrollmentParams) (database.Enrollment, error) {
	e := database.Enrollment{
		ID:         f.id(),
		UserID:     arg.UserID,
		CourseID:   arg.CourseID,
		EnrollDate: time.Now(),
		Status:     StatusInProgress,
	}
	f.enrollments[enrollKey{arg.UserID, arg.CourseID}] = e
	return e, nil
}

func (f *fakeStore) AddCompletedLesson(_ context.Context, arg database.AddCompletedLessonParams) (int64, error) {
	done := f.completed[arg.EnrollmentID]
	if done == nil {
		done = map[int64]bool{}
		f.completed[arg.EnrollmentID] = done
	}
	if done[arg.LessonID] {
		return 0, nil
	}
	done[arg.LessonID] = true
	return 1, nil
}

func (f *fakeStore) ListCompletedLessonIDs(_ context.Context, enrollmentID int64) ([]int64, error) {
	var ids []int64
	for id := range f.completed[enrollmentID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeStore) UpdateEnrollmentProgress(_ context.Context, arg database.UpdateEnrollmentProgressParams) (database.Enrollment, error) {
	for k, e := range f.enrollments {
		if e.ID == arg.ID {
			e.ProgressPercent = arg.ProgressPercent
			e.Status = arg.Status
			e.CompletedDate = arg.CompletedDate
			f.enrollments[k] = e
			return e, nil
		}
	}
	return database.Enrollment{}, sql.ErrNoRows
}

func (f *fakeStore) ListCourseSkillIDs(_ context.Context, courseID int64) ([]int64, error) {
	return f.courseSkills[courseID], nil
}

func (f *fakeStore) AddStudentSkill(_ context.Context, arg database.AddStudentSkillParams) (int64, error) {
	owned := f.studentSkills[arg.UserID]
	if owned == nil {
		owned = map[int64]bool{}
		f.studentSkills[arg.UserID] = owned
	}
	if owned[arg.SkillID] {
		return 0, nil
	}
	owned[arg.SkillID] = true
	return 1, nil
}

func (f *fakeStore) ListStudentSkillIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for id := range f.studentSkills[userID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeStore) ListUsersWithSkills(context.Context) ([]int64, error) {
	var ids []int64
	for id, owned := range f.studentSkills {
		if len(owned) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeStore) CreateCertificate(_ context.Context, arg database.CreateCertificateParams) (database.Certificate, error) {
	key := enrollKey{arg.UserID, arg.CourseID}
	if _, ok := f.certificates[key]; ok {
		return database.Certificate{}, sql.ErrNoRows
	}
	c := database.Certificate{
		ID:              f.id(),
		UserID:          arg.UserID,
		CourseID:        arg.CourseID,
		IssueDate:       time.Now(),
		CertificateCode: arg.CertificateCode,
	}
	f.certificates[key] = c
	return c, nil
}

func (f *fakeStore) ListJobs(_ context.Context, arg database.ListJobsParams) ([]database.JobWithSkills, error) {
	var out []database.JobWithSkills
	for _, j := range f.jobs {
		if arg.Status == "active" && !j.IsActive {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeStore) ListSkillsByIDs(_ context.Context, ids []int64) ([]database.Skill, error) {
	var out []database.Skill
	for _, id := range ids {
		if s, ok := f.skills[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertJobRecommendation(_ context.Context, arg database.UpsertJobRecommendationParams) (database.JobRecommendation, error) {
	if f.stored[arg.UserID] == nil {
		f.stored[arg.UserID] = map[int64]database.UpsertJobRecommendationParams{}
	}
	f.stored[arg.UserID][arg.JobID] = arg
	return database.JobRecommendation{UserID: arg.UserID, JobID: arg.JobID, MatchScore: arg.MatchScore}, nil
}

func (f *fakeStore) DeleteStaleRecommendations(_ context.Context, arg database.DeleteStaleRecommendationsParams) (int64, error) {
	keep := map[int64]bool{}
	for _, id := range arg.KeepJobIds {
		keep[id] = true
	}
	var n int64
	for jobID := range f.stored[arg.UserID] {
		if !keep[jobID] {
			delete(f.stored[arg.UserID], jobID)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) GetCareerPath(_ context.Context, id int64) (database.CareerPath, error) {
	c, ok := f.careers[id]
	if !ok {
		return c, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeStore) ListCareerPathSkills(_ context.Context, id int64) ([]database.Skill, error) {
	return f.careerSkills[id], nil
}

func (f *fakeStore) ListCoursesBySkillName(_ context.Context, arg database.ListCoursesBySkillNameParams) ([]database.Course, error) {
	return f.skillCourses[strings.ToLower(arg.Name)], nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.SkillEvent
	err    error
}

func (p *fakePublisher) PublishSkillEvent(_ context.Context, ev events.SkillEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) PublishRecommendationUpdate(context.Context, events.RecommendationUpdate) error {
	return nil
}
