package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/logger"
	"github.com/muhammadolammi/skillnest/internal/media"
	"github.com/muhammadolammi/skillnest/internal/storage"
	"go.uber.org/zap"
)

const (
	defaultDurationHours   = 10
	defaultDurationMinutes = 10
	defaultLessonTitle     = "Introduction"
)

// ownedCourse loads a course and checks that the caller teaches it.
func (s *Server) ownedCourse(ctx context.Context, courseID int64) (database.Course, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return course, database.Normalize(err)
	}
	if course.InstructorID != principalFrom(ctx).UserID {
		return course, apierrors.ErrForbiddenReq("you are not the instructor of this course")
	}
	return course, nil
}

// ownedLesson loads a lesson whose course the caller teaches.
func (s *Server) ownedLesson(ctx context.Context, lessonID int64) (database.Lesson, error) {
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		return lesson, database.Normalize(err)
	}
	if _, err := s.ownedCourse(ctx, lesson.CourseID); err != nil {
		return lesson, err
	}
	return lesson, nil
}

type teacherCourse struct {
	database.Course
	Lessons  []database.Lesson `json:"lessons"`
	Skills   []database.Skill  `json:"skills"`
	Students int               `json:"students"`
}

func (s *Server) handleTeacherCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	courses, err := s.store.ListCoursesByInstructor(ctx, principalFrom(ctx).UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]teacherCourse, 0, len(courses))
	for _, c := range courses {
		lessons, err := s.store.ListLessonsByCourse(ctx, c.ID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		skills, err := s.store.ListCourseSkills(ctx, c.ID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		students, err := s.store.ListEnrollmentsByCourse(ctx, c.ID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out = append(out, teacherCourse{Course: c, Lessons: emptyIfNil(lessons), Skills: emptyIfNil(skills), Students: len(students)})
	}
	respondWithJSON(w, http.StatusOK, out)
}

type courseForm struct {
	Title         string
	Description   string
	Category      string
	Level         string
	DurationHours int32
	SkillIDs      []int64
}

func readCourseForm(title, description, category, level, duration, skills string) (courseForm, error) {
	f := courseForm{
		Title:         strings.TrimSpace(title),
		Description:   strings.TrimSpace(description),
		Category:      strings.TrimSpace(category),
		Level:         strings.TrimSpace(level),
		DurationHours: defaultDurationHours,
	}
	if f.Title == "" || f.Description == "" {
		return f, apierrors.Invalid("title and description are required")
	}
	if !validCategory(f.Category) {
		return f, apierrors.Invalid("invalid category")
	}
	if f.Level == "" {
		f.Level = "beginner"
	}
	if !validLevel(f.Level) {
		return f, apierrors.Invalid("invalid level")
	}
	if d := strings.TrimSpace(duration); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n <= 0 {
			return f, apierrors.Invalid("duration_hours must be a positive number")
		}
		f.DurationHours = int32(n)
	}
	ids, err := parseIDList(skills)
	if err != nil {
		return f, err
	}
	f.SkillIDs = ids
	return f, nil
}

type createCourseResponse struct {
	Course database.Course  `json:"course"`
	Lesson *database.Lesson `json:"lesson,omitempty"`
	Skills []database.Skill `json:"skills"`
}

// handleCreateCourse takes a form so the cover and a first lesson video can
// come along. An uploaded video wins over a video URL.
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	form, err := readCourseForm(
		r.FormValue("title"),
		r.FormValue("description"),
		r.FormValue("category"),
		r.FormValue("level"),
		r.FormValue("duration_hours"),
		r.FormValue("skill_ids"),
	)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var coverURL, videoURL string
	cover, err := s.formFile(w, r, "cover_image", storage.CourseCovers)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if cover != nil {
		if coverURL, err = s.storeUpload(r, cover); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	video, err := s.formFile(w, r, "lesson_video", storage.LessonVideos)
	if err != nil {
		s.discardUploads(r, cover)
		s.fail(w, r, err)
		return
	}
	if video != nil {
		if videoURL, err = s.storeUpload(r, video); err != nil {
			s.discardUploads(r, cover)
			s.fail(w, r, err)
			return
		}
	}

	lessonURL := strings.TrimSpace(r.FormValue("lesson_video_url"))
	withLesson := videoURL != "" || lessonURL != "" || strings.TrimSpace(r.FormValue("lesson_title")) != ""

	var resp createCourseResponse
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		resp.Course, err = q.CreateCourse(ctx, database.CreateCourseParams{
			Title:         form.Title,
			Description:   form.Description,
			Category:      form.Category,
			Level:         form.Level,
			InstructorID:  principalFrom(ctx).UserID,
			CoverImage:    coverURL,
			DurationHours: form.DurationHours,
		})
		if err != nil {
			return err
		}
		if err := q.AddCourseSkills(ctx, database.AddCourseSkillsParams{CourseID: resp.Course.ID, SkillIds: form.SkillIDs}); err != nil {
			return err
		}
		if !withLesson {
			return nil
		}
		title := strings.TrimSpace(r.FormValue("lesson_title"))
		if title == "" {
			title = defaultLessonTitle
		}
		arg := database.CreateLessonParams{
			CourseID:        resp.Course.ID,
			Title:           title,
			Description:     r.FormValue("lesson_description"),
			VideoUrl:        lessonURL,
			VideoFile:       videoURL,
			DurationMinutes: defaultDurationMinutes,
		}
		if videoURL != "" {
			arg.VideoUrl = ""
		}
		lesson, err := q.CreateLesson(ctx, arg)
		if err != nil {
			return err
		}
		resp.Lesson = &lesson
		return nil
	})
	if err != nil {
		s.discardUploads(r, cover, video)
		s.fail(w, r, err)
		return
	}
	if resp.Skills, err = s.store.ListCourseSkills(ctx, resp.Course.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	resp.Skills = emptyIfNil(resp.Skills)
	respondWithJSON(w, http.StatusCreated, resp)
}

type updateCourseRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Level         string  `json:"level"`
	DurationHours int32   `json:"duration_hours"`
	SkillIDs      []int64 `json:"skill_ids"`
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.ownedCourse(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	var req updateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	duration := ""
	if req.DurationHours != 0 {
		duration = strconv.Itoa(int(req.DurationHours))
	}
	form, err := readCourseForm(req.Title, req.Description, req.Category, req.Level, duration, "")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var course database.Course
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		course, err = q.UpdateCourse(ctx, database.UpdateCourseParams{
			ID:            id,
			Title:         form.Title,
			Description:   form.Description,
			Category:      form.Category,
			Level:         form.Level,
			DurationHours: form.DurationHours,
		})
		if err != nil {
			return database.Normalize(err)
		}
		if err := q.ClearCourseSkills(ctx, id); err != nil {
			return err
		}
		return q.AddCourseSkills(ctx, database.AddCourseSkillsParams{CourseID: id, SkillIds: req.SkillIDs})
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, course)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	course, err := s.ownedCourse(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.store.DeleteCourse(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message{"Course '" + course.Title + "' deleted successfully!"})
}

func (s *Server) handleUploadCover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.ownedCourse(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	up, err := s.readUpload(w, r, "cover_image", storage.CourseCovers)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		s.fail(w, r, apierrors.Invalid("cover must be an image"))
		return
	}
	url, err := s.storeUpload(r, up)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.UpdateCourseCover(ctx, database.UpdateCourseCoverParams{ID: id, CoverImage: url}); err != nil {
		s.discardUploads(r, up)
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"cover_image": url})
}

func (s *Server) handleCourseStudents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.ownedCourse(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	students, err := s.store.ListEnrollmentsByCourse(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, emptyIfNil(students))
}

type lessonRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Order           int32  `json:"order"`
	VideoUrl        string `json:"video_url"`
	Content         string `json:"content"`
	DurationMinutes int32  `json:"duration_minutes"`
}

func (req *lessonRequest) validate() error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return apierrors.Invalid("title is required")
	}
	if req.Order < 0 {
		return apierrors.Invalid("order cannot be negative")
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = defaultDurationMinutes
	}
	req.VideoUrl = strings.TrimSpace(req.VideoUrl)
	return nil
}

func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	courseID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.ownedCourse(ctx, courseID); err != nil {
		s.fail(w, r, err)
		return
	}
	var req lessonRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	lesson, err := s.store.CreateLesson(ctx, database.CreateLessonParams{
		CourseID:        courseID,
		Title:           req.Title,
		Description:     req.Description,
		SortOrder:       req.Order,
		VideoUrl:        req.VideoUrl,
		Content:         req.Content,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, lesson)
}

func (s *Server) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.ownedLesson(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	var req lessonRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	lesson, err := s.store.UpdateLesson(ctx, database.UpdateLessonParams{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		SortOrder:       req.Order,
		VideoUrl:        req.VideoUrl,
		Content:         req.Content,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		s.fail(w, r, database.Normalize(err))
		return
	}
	respondWithJSON(w, http.StatusOK, lesson)
}

func (s *Server) handleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lesson, err := s.ownedLesson(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.store.DeleteLesson(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message{"Lesson '" + lesson.Title + "' deleted successfully!"})
}

func (s *Server) handleUploadLessonVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.ownedLesson(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	up, err := s.readUpload(w, r, "video", storage.LessonVideos)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !strings.HasPrefix(up.ContentType, "video/") {
		s.fail(w, r, apierrors.Invalid("lesson video must be a video file"))
		return
	}
	url, err := s.storeUpload(r, up)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.UpdateLessonVideoFile(ctx, database.UpdateLessonVideoFileParams{ID: id, VideoFile: url}); err != nil {
		s.discardUploads(r, up)
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"video_file": url})
}

// handleUploadMaterial stores a lesson attachment. Text is pulled out of pdf,
// docx and plain files so the material is searchable.
func (s *Server) handleUploadMaterial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.ownedLesson(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	up, err := s.readUpload(w, r, "file", storage.LessonMaterials)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	up.ContentType = media.DetectMime(up.Filename, up.Data)

	var text string
	if media.Extractable(up.ContentType) {
		text, err = media.ExtractText(up.ContentType, up.Data)
		if err != nil {
			logger.FromContext(ctx, s.logger).Warn("text extraction failed",
				zap.String("file", up.Filename), zap.Error(err))
			text = ""
		}
	}
	url, err := s.storeUpload(r, up)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = up.Filename
	}
	material, err := s.store.CreateLessonMaterial(ctx, database.CreateLessonMaterialParams{
		LessonID:      id,
		Title:         title,
		ObjectKey:     up.Key,
		FileUrl:       url,
		Mime:          up.ContentType,
		SizeBytes:     int64(len(up.Data)),
		ExtractedText: text,
	})
	if err != nil {
		s.discardUploads(r, up)
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, material)
}
