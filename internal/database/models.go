package database

import (
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	DateJoined   time.Time `json:"date_joined"`
}

type Profile struct {
	UserID          int64     `json:"user_id"`
	Role            string    `json:"role"`
	Bio             string    `json:"bio"`
	ProfilePicture  string    `json:"profile_picture"`
	Phone           string    `json:"phone"`
	Specialization  string    `json:"specialization"`
	Expertise       string    `json:"expertise"`
	ExperienceYears *int32    `json:"experience_years"`
	LinkedinUrl     string    `json:"linkedin_url"`
	WebsiteUrl      string    `json:"website_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserWithRole is a user joined with its profile role.
type UserWithRole struct {
	User
	Role string `json:"role"`
}

type Skill struct {
	ID          int64     `json:"id"`
	SkillName   string    `json:"skill_name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type Course struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Level         string    `json:"level"`
	InstructorID  int64     `json:"instructor_id"`
	CoverImage    string    `json:"cover_image"`
	DurationHours int32     `json:"duration_hours"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Lesson struct {
	ID              int64     `json:"id"`
	CourseID        int64     `json:"course_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	SortOrder       int32     `json:"order"`
	VideoUrl        string    `json:"video_url"`
	VideoFile       string    `json:"video_file"`
	Content         string    `json:"content"`
	DurationMinutes int32     `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

type LessonMaterial struct {
	ID            int64     `json:"id"`
	LessonID      int64     `json:"lesson_id"`
	Title         string    `json:"title"`
	ObjectKey     string    `json:"-"`
	FileUrl       string    `json:"file_url"`
	Mime          string    `json:"mime"`
	SizeBytes     int64     `json:"size_bytes"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

type Enrollment struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	CourseID        int64      `json:"course_id"`
	EnrollDate      time.Time  `json:"enroll_date"`
	ProgressPercent int32      `json:"progress_percent"`
	Status          string     `json:"status"`
	CompletedDate   *time.Time `json:"completed_date"`
}

type StudentSkill struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	SkillID          int64     `json:"skill_id"`
	SkillName        string    `json:"skill_name"`
	ProficiencyLevel string    `json:"proficiency_level"`
	AcquiredDate     time.Time `json:"acquired_date"`
}

type Certificate struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	CourseID        int64     `json:"course_id"`
	IssueDate       time.Time `json:"issue_date"`
	CertificateCode string    `json:"certificate_code"`
}

type Job struct {
	ID           int64     `json:"id"`
	JobTitle     string    `json:"job_title"`
	CompanyName  string    `json:"company_name"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	SalaryMin    *int32    `json:"salary_min"`
	SalaryMax    *int32    `json:"salary_max"`
	JobType      string    `json:"job_type"`
	Requirements string    `json:"requirements"`
	PostedBy     int64     `json:"posted_by"`
	PostedDate   time.Time `json:"posted_date"`
	LastDate     time.Time `json:"last_date"`
	IsActive     bool      `json:"is_active"`
}

type JobRecommendation struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	JobID               int64     `json:"job_id"`
	MatchScore          float64   `json:"match_score"`
	MatchedSkillsCount  int32     `json:"matched_skills_count"`
	TotalRequiredSkills int32     `json:"total_required_skills"`
	RecommendedAt       time.Time `json:"recommended_at"`
}

type CareerPath struct {
	ID              int64     `json:"id"`
	CareerName      string    `json:"career_name"`
	Description     string    `json:"description"`
	ExperienceLevel string    `json:"experience_level"`
	CreatedAt       time.Time `json:"created_at"`
}

type PortfolioProject struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	Image            string    `json:"image"`
	LiveUrl          string    `json:"live_url"`
	GithubUrl        string    `json:"github_url"`
	CreatedDate      time.Time `json:"created_date"`
	UpdatedDate      time.Time `json:"updated_date"`
}

type WorkExperience struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	CompanyName string     `json:"company_name"`
	JobTitle    string     `json:"job_title"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsCurrent   bool       `json:"is_current"`
	CreatedDate time.Time  `json:"created_date"`
}

type Education struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	SchoolName   string     `json:"school_name"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	IsCurrent    bool       `json:"is_current"`
	Grade        string     `json:"grade"`
	Activities   string     `json:"activities"`
	CreatedDate  time.Time  `json:"created_date"`
}

type SocialLink struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Platform    string    `json:"platform"`
	Url         string    `json:"url"`
	DisplayName string    `json:"display_name"`
	CreatedDate time.Time `json:"created_date"`
}

type Testimonial struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	GivenBy      int64     `json:"given_by"`
	Content      string    `json:"content"`
	Rating       int32     `json:"rating"`
	Relationship string    `json:"relationship"`
	IsApproved   bool      `json:"is_approved"`
	CreatedDate  time.Time `json:"created_date"`
}

type AchievementBadge struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	BadgeType   string    `json:"badge_type"`
	CreatedDate time.Time `json:"created_date"`
}

type UserBadge struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	BadgeID    int64     `json:"badge_id"`
	BadgeName  string    `json:"badge_name"`
	EarnedDate time.Time `json:"earned_date"`
}

type ContactMessage struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	SubmittedAt time.Time  `json:"submitted_at"`
	IsResolved  bool       `json:"is_resolved"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}
