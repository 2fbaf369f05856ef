package database

import (
	"context"
	"time"
)

// Querier is implemented by *Queries, both on the pool and inside a transaction.
type Querier interface {
	CreateCareerPath(ctx context.Context, arg CreateCareerPathParams) (CareerPath, error)
	UpdateCareerPath(ctx context.Context, arg UpdateCareerPathParams) (CareerPath, error)
	GetCareerPath(ctx context.Context, id int64) (CareerPath, error)
	ListCareerPaths(ctx context.Context) ([]CareerPath, error)
	DeleteCareerPath(ctx context.Context, id int64) (int64, error)
	ClearCareerPathSkills(ctx context.Context, careerPathID int64) error
	AddCareerPathSkills(ctx context.Context, arg AddCareerPathSkillsParams) error
	ListCareerPathSkills(ctx context.Context, careerPathID int64) ([]Skill, error)
	CreateCertificate(ctx context.Context, arg CreateCertificateParams) (Certificate, error)
	GetCertificate(ctx context.Context, id int64) (CertificateDetail, error)
	ListCertificatesByUser(ctx context.Context, userID int64) ([]CertificateDetail, error)
	SearchCertificates(ctx context.Context, search string) ([]CertificateDetail, error)
	ListRecentCertificates(ctx context.Context, limit int32) ([]CertificateDetail, error)
	DeleteCertificate(ctx context.Context, id int64) (int64, error)
	CountCertificates(ctx context.Context) (int64, error)
	CountCertificatesSince(ctx context.Context, since time.Time) (int64, error)
	CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error)
	ListContactMessages(ctx context.Context, status string) ([]ContactMessage, error)
	ResolveContactMessage(ctx context.Context, id int64) (ContactMessage, error)
	CountUnresolvedContactMessages(ctx context.Context) (int64, error)
	CreateCourse(ctx context.Context, arg CreateCourseParams) (Course, error)
	UpdateCourse(ctx context.Context, arg UpdateCourseParams) (Course, error)
	UpdateCourseCover(ctx context.Context, arg UpdateCourseCoverParams) error
	GetCourse(ctx context.Context, id int64) (Course, error)
	DeleteCourse(ctx context.Context, id int64) (int64, error)
	ListCourses(ctx context.Context, arg ListCoursesParams) ([]CourseSummary, error)
	ListCoursesByInstructor(ctx context.Context, instructorID int64) ([]Course, error)
	CountCourses(ctx context.Context) (int64, error)
	ListRecentCourses(ctx context.Context, limit int32) ([]Course, error)
	ClearCourseSkills(ctx context.Context, courseID int64) error
	AddCourseSkills(ctx context.Context, arg AddCourseSkillsParams) error
	ListCourseSkills(ctx context.Context, courseID int64) ([]Skill, error)
	ListCourseSkillIDs(ctx context.Context, courseID int64) ([]int64, error)
	ListCoursesBySkillName(ctx context.Context, arg ListCoursesBySkillNameParams) ([]Course, error)
	ListCompletedCoursesByUser(ctx context.Context, userID int64) ([]Course, error)
	CreateEnrollment(ctx context.Context, arg CreateEnrollmentParams) (Enrollment, error)
	GetEnrollment(ctx context.Context, arg GetEnrollmentParams) (Enrollment, error)
	ListEnrollmentsByUser(ctx context.Context, userID int64) ([]EnrollmentWithCourse, error)
	ListEnrollmentsByCourse(ctx context.Context, courseID int64) ([]EnrolledStudent, error)
	AddCompletedLesson(ctx context.Context, arg AddCompletedLessonParams) (int64, error)
	ListCompletedLessonIDs(ctx context.Context, enrollmentID int64) ([]int64, error)
	UpdateEnrollmentProgress(ctx context.Context, arg UpdateEnrollmentProgressParams) (Enrollment, error)
	CountEnrollments(ctx context.Context) (int64, error)
	CountEnrollmentsByStatus(ctx context.Context, status string) (int64, error)
	CountEnrollmentsByInstructor(ctx context.Context, instructorID int64) (int64, error)
	CreateJob(ctx context.Context, arg CreateJobParams) (Job, error)
	UpdateJob(ctx context.Context, arg UpdateJobParams) (Job, error)
	GetJob(ctx context.Context, id int64) (Job, error)
	DeleteJob(ctx context.Context, id int64) (int64, error)
	ToggleJobActive(ctx context.Context, id int64) (Job, error)
	ListJobs(ctx context.Context, arg ListJobsParams) ([]JobWithSkills, error)
	ClearJobSkills(ctx context.Context, jobID int64) error
	AddJobSkills(ctx context.Context, arg AddJobSkillsParams) error
	ListJobSkills(ctx context.Context, jobID int64) ([]Skill, error)
	CountJobs(ctx context.Context) (int64, error)
	CountActiveJobs(ctx context.Context) (int64, error)
	CreateLesson(ctx context.Context, arg CreateLessonParams) (Lesson, error)
	UpdateLesson(ctx context.Context, arg UpdateLessonParams) (Lesson, error)
	UpdateLessonVideoFile(ctx context.Context, arg UpdateLessonVideoFileParams) error
	GetLesson(ctx context.Context, id int64) (Lesson, error)
	DeleteLesson(ctx context.Context, id int64) (int64, error)
	ListLessonsByCourse(ctx context.Context, courseID int64) ([]Lesson, error)
	CountLessonsByCourse(ctx context.Context, courseID int64) (int64, error)
	CreateLessonMaterial(ctx context.Context, arg CreateLessonMaterialParams) (LessonMaterial, error)
	ListLessonMaterials(ctx context.Context, lessonID int64) ([]LessonMaterial, error)
	CreateProject(ctx context.Context, arg CreateProjectParams) (PortfolioProject, error)
	UpdateProject(ctx context.Context, arg UpdateProjectParams) (PortfolioProject, error)
	GetProject(ctx context.Context, arg OwnedParams) (PortfolioProject, error)
	DeleteProject(ctx context.Context, arg OwnedParams) (int64, error)
	ListProjectsByUser(ctx context.Context, userID int64) ([]PortfolioProject, error)
	ClearProjectTechnologies(ctx context.Context, projectID int64) error
	AddProjectTechnologies(ctx context.Context, arg AddProjectTechnologiesParams) error
	ListProjectTechnologies(ctx context.Context, projectID int64) ([]Skill, error)
	CreateExperience(ctx context.Context, arg CreateExperienceParams) (WorkExperience, error)
	UpdateExperience(ctx context.Context, arg UpdateExperienceParams) (WorkExperience, error)
	DeleteExperience(ctx context.Context, arg OwnedParams) (int64, error)
	ListExperiencesByUser(ctx context.Context, userID int64) ([]WorkExperience, error)
	ClearExperienceSkills(ctx context.Context, workExperienceID int64) error
	AddExperienceSkills(ctx context.Context, arg AddExperienceSkillsParams) error
	ListExperienceSkills(ctx context.Context, workExperienceID int64) ([]Skill, error)
	CreateEducation(ctx context.Context, arg CreateEducationParams) (Education, error)
	UpdateEducation(ctx context.Context, arg UpdateEducationParams) (Education, error)
	DeleteEducation(ctx context.Context, arg OwnedParams) (int64, error)
	ListEducationByUser(ctx context.Context, userID int64) ([]Education, error)
	CreateSocialLink(ctx context.Context, arg CreateSocialLinkParams) (SocialLink, error)
	UpdateSocialLink(ctx context.Context, arg UpdateSocialLinkParams) (SocialLink, error)
	DeleteSocialLink(ctx context.Context, arg OwnedParams) (int64, error)
	ListSocialLinksByUser(ctx context.Context, userID int64) ([]SocialLink, error)
	SocialLinkPlatformTaken(ctx context.Context, arg SocialLinkPlatformTakenParams) (bool, error)
	CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (Testimonial, error)
	ApproveTestimonial(ctx context.Context, id int64) (Testimonial, error)
	ListTestimonials(ctx context.Context, arg ListTestimonialsParams) ([]Testimonial, error)
	CreateBadge(ctx context.Context, arg CreateBadgeParams) (AchievementBadge, error)
	ListBadges(ctx context.Context) ([]AchievementBadge, error)
	AwardBadge(ctx context.Context, arg AwardBadgeParams) (int64, error)
	ListUserBadges(ctx context.Context, userID int64) ([]UserBadge, error)
	UpsertJobRecommendation(ctx context.Context, arg UpsertJobRecommendationParams) (JobRecommendation, error)
	ListJobRecommendations(ctx context.Context, arg ListJobRecommendationsParams) ([]StoredRecommendation, error)
	DeleteStaleRecommendations(ctx context.Context, arg DeleteStaleRecommendationsParams) (int64, error)
	CreateSkill(ctx context.Context, arg CreateSkillParams) (Skill, error)
	UpdateSkill(ctx context.Context, arg UpdateSkillParams) (Skill, error)
	GetSkill(ctx context.Context, id int64) (Skill, error)
	DeleteSkill(ctx context.Context, id int64) (int64, error)
	ListSkills(ctx context.Context) ([]Skill, error)
	ListSkillsByIDs(ctx context.Context, ids []int64) ([]Skill, error)
	CountSkills(ctx context.Context) (int64, error)
	ListSkillUsage(ctx context.Context) ([]SkillUsage, error)
	GetSkillUsage(ctx context.Context, id int64) (SkillUsage, error)
	ListStudentSkills(ctx context.Context, userID int64) ([]StudentSkill, error)
	ListStudentSkillIDs(ctx context.Context, userID int64) ([]int64, error)
	ListUsersWithSkills(ctx context.Context) ([]int64, error)
	AddStudentSkill(ctx context.Context, arg AddStudentSkillParams) (int64, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetProfile(ctx context.Context, userID int64) (Profile, error)
	UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error)
	UpdateProfile(ctx context.Context, arg UpdateProfileParams) (Profile, error)
	UpdateProfilePicture(ctx context.Context, arg UpdateProfilePictureParams) error
	ToggleUserActive(ctx context.Context, id int64) (User, error)
	ActivateUser(ctx context.Context, id int64) error
	SetProfileRole(ctx context.Context, arg SetProfileRoleParams) error
	ListUsers(ctx context.Context, arg ListUsersParams) ([]UserWithRole, error)
	ListTeachers(ctx context.Context) ([]TeacherSummary, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role string) (int64, error)
	ListRecentUsers(ctx context.Context, limit int32) ([]User, error)
}

var _ Querier = (*Queries)(nil)
