package database

import (
	"context"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `id, username, email, password_hash, first_name, last_name, is_active, is_staff, date_joined`

func scanUser(row rowScanner) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.PasswordHash,
		&i.FirstName,
		&i.LastName,
		&i.IsActive,
		&i.IsStaff,
		&i.DateJoined,
	)
	return i, err
}

const profileColumns = `user_id, role, bio, profile_picture, phone, specialization, expertise, experience_years, linkedin_url, website_url, created_at, updated_at`

func scanProfile(row rowScanner) (Profile, error) {
	var i Profile
	err := row.Scan(
		&i.UserID,
		&i.Role,
		&i.Bio,
		&i.ProfilePicture,
		&i.Phone,
		&i.Specialization,
		&i.Expertise,
		&i.ExperienceYears,
		&i.LinkedinUrl,
		&i.WebsiteUrl,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (username, email, password_hash, first_name, last_name, is_staff)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Username,
		arg.Email,
		arg.PasswordHash,
		arg.FirstName,
		arg.LastName,
		arg.IsStaff,
	)
	return scanUser(row)
}

const createProfile = `-- name: CreateProfile :one
INSERT INTO profiles (user_id, role)
VALUES ($1, $2)
RETURNING ` + profileColumns

type CreateProfileParams struct {
	UserID int64
	Role   string
}

func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error) {
	row := q.db.QueryRowContext(ctx, createProfile, arg.UserID, arg.Role)
	return scanProfile(row)
}

const getUser = `-- name: GetUser :one
SELECT ` + userColumns + ` FROM users WHERE id = $1
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	return scanUser(row)
}

const getUserByUsername = `-- name: GetUserByUsername :one
SELECT ` + userColumns + ` FROM users WHERE username = $1
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByUsername, username)
	return scanUser(row)
}

const usernameExists = `-- name: UsernameExists :one
SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
`

func (q *Queries) UsernameExists(ctx context.Context, username string) (bool, error) {
	row := q.db.QueryRowContext(ctx, usernameExists, username)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const emailExists = `-- name: EmailExists :one
SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
`

func (q *Queries) EmailExists(ctx context.Context, email string) (bool, error) {
	row := q.db.QueryRowContext(ctx, emailExists, email)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getProfile = `-- name: GetProfile :one
SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1
`

func (q *Queries) GetProfile(ctx context.Context, userID int64) (Profile, error) {
	row := q.db.QueryRowContext(ctx, getProfile, userID)
	return scanProfile(row)
}

const updateUser = `-- name: UpdateUser :one
UPDATE users
SET first_name = $2, last_name = $3, email = $4
WHERE id = $1
RETURNING ` + userColumns

type UpdateUserParams struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, updateUser, arg.ID, arg.FirstName, arg.LastName, arg.Email)
	return scanUser(row)
}

const updateProfile = `-- name: UpdateProfile :one
UPDATE profiles
SET bio = $2,
    phone = $3,
    specialization = $4,
    expertise = $5,
    experience_years = $6,
    linkedin_url = $7,
    website_url = $8,
    updated_at = CURRENT_TIMESTAMP
WHERE user_id = $1
RETURNING ` + profileColumns

type UpdateProfileParams struct {
	UserID          int64
	Bio             string
	Phone           string
	Specialization  string
	Expertise       string
	ExperienceYears *int32
	LinkedinUrl     string
	WebsiteUrl      string
}

func (q *Queries) UpdateProfile(ctx context.Context, arg UpdateProfileParams) (Profile, error) {
	row := q.db.QueryRowContext(ctx, updateProfile,
		arg.UserID,
		arg.Bio,
		arg.Phone,
		arg.Specialization,
		arg.Expertise,
		arg.ExperienceYears,
		arg.LinkedinUrl,
		arg.WebsiteUrl,
	)
	return scanProfile(row)
}

const updateProfilePicture = `-- name: UpdateProfilePicture :exec
UPDATE profiles SET profile_picture = $2, updated_at = CURRENT_TIMESTAMP WHERE user_id = $1
`

type UpdateProfilePictureParams struct {
	UserID         int64
	ProfilePicture string
}

func (q *Queries) UpdateProfilePicture(ctx context.Context, arg UpdateProfilePictureParams) error {
	_, err := q.db.ExecContext(ctx, updateProfilePicture, arg.UserID, arg.ProfilePicture)
	return err
}

const toggleUserActive = `-- name: ToggleUserActive :one
UPDATE users SET is_active = NOT is_active WHERE id = $1
RETURNING ` + userColumns

func (q *Queries) ToggleUserActive(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, toggleUserActive, id)
	return scanUser(row)
}

const activateUser = `-- name: ActivateUser :exec
UPDATE users SET is_active = TRUE WHERE id = $1
`

func (q *Queries) ActivateUser(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, activateUser, id)
	return err
}

const setProfileRole = `-- name: SetProfileRole :exec
UPDATE profiles SET role = $2, updated_at = CURRENT_TIMESTAMP WHERE user_id = $1
`

type SetProfileRoleParams struct {
	UserID int64
	Role   string
}

func (q *Queries) SetProfileRole(ctx context.Context, arg SetProfileRoleParams) error {
	_, err := q.db.ExecContext(ctx, setProfileRole, arg.UserID, arg.Role)
	return err
}

const listUsers = `-- name: ListUsers :many
SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.is_active, u.is_staff, u.date_joined, p.role
FROM users u
JOIN profiles p ON p.user_id = u.id
WHERE ($1::text = '' OR p.role = $1)
  AND ($2::text = '' OR u.username ILIKE '%' || $2 || '%'
               OR u.email ILIKE '%' || $2 || '%'
               OR u.first_name ILIKE '%' || $2 || '%'
               OR u.last_name ILIKE '%' || $2 || '%')
ORDER BY u.date_joined DESC
`

type ListUsersParams struct {
	Role   string
	Search string
}

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]UserWithRole, error) {
	rows, err := q.db.QueryContext(ctx, listUsers, arg.Role, arg.Search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []UserWithRole
	for rows.Next() {
		var i UserWithRole
		if err := rows.Scan(
			&i.ID,
			&i.Username,
			&i.Email,
			&i.PasswordHash,
			&i.FirstName,
			&i.LastName,
			&i.IsActive,
			&i.IsStaff,
			&i.DateJoined,
			&i.Role,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTeachers = `-- name: ListTeachers :many
SELECT u.id, u.username, u.first_name, u.last_name, p.specialization, p.profile_picture,
       (SELECT COUNT(*) FROM courses c WHERE c.instructor_id = u.id) AS course_count
FROM users u
JOIN profiles p ON p.user_id = u.id
WHERE p.role = 'teacher'
ORDER BY u.username
`

type TeacherSummary struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Specialization string `json:"specialization"`
	ProfilePicture string `json:"profile_picture"`
	CourseCount    int64  `json:"course_count"`
}

func (q *Queries) ListTeachers(ctx context.Context) ([]TeacherSummary, error) {
	rows, err := q.db.QueryContext(ctx, listTeachers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TeacherSummary
	for rows.Next() {
		var i TeacherSummary
		if err := rows.Scan(
			&i.ID,
			&i.Username,
			&i.FirstName,
			&i.LastName,
			&i.Specialization,
			&i.ProfilePicture,
			&i.CourseCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countUsers = `-- name: CountUsers :one
SELECT COUNT(*) FROM users
`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countUsers))
}

const countUsersByRole = `-- name: CountUsersByRole :one
SELECT COUNT(*) FROM profiles WHERE role = $1
`

func (q *Queries) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	return scanInt64(q.db.QueryRowContext(ctx, countUsersByRole, role))
}

const listRecentUsers = `-- name: ListRecentUsers :many
SELECT ` + userColumns + ` FROM users ORDER BY date_joined DESC LIMIT $1
`

func (q *Queries) ListRecentUsers(ctx context.Context, limit int32) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listRecentUsers, limit)
	return collect(rows, err, scanUser)
}
