package repositories

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"prepcoach/internal/apperr"
	"prepcoach/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = apperr.New(apperr.KindStore, "user_not_found", "user not found")
	ErrDuplicateEmail     = apperr.New(apperr.KindStore, "duplicate_email", "email already exists")
	ErrInvalidCredentials = apperr.New(apperr.KindStore, "invalid_credentials", "invalid password")
	ErrMissingEmail       = apperr.Validation("missing_email", "email is required")
)

type UserRepository struct {
	DB     *gorm.DB
	Hasher PasswordHasher
	now    func() time.Time
}

func NewUserRepository(db *gorm.DB, hasher PasswordHasher) *UserRepository {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &UserRepository{DB: db, Hasher: hasher, now: time.Now}
}

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func stripPassword(u models.User) *models.User {
	u.Password = ""
	return &u
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

func (r *UserRepository) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

// CreateUser stores a new account and returns it without the password.
func (r *UserRepository) CreateUser(user *models.User) (*models.User, error) {
	email := NormalizeEmail(user.Email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	existing, err := r.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	stored, err := r.Hasher.Hash(user.Password)
	if err != nil {
		return nil, apperr.Store("store_failure", "failed to hash password", err)
	}

	rec := *user
	rec.ID = 0
	rec.Email = email
	rec.Password = stored
	rec.IsActive = true
	rec.LastLogin = nil
	if rec.Role == "" {
		rec.Role = models.RoleCandidate
	}
	now := r.clock()
	rec.CreatedAt, rec.UpdatedAt = now, now

	if err := r.DB.Create(&rec).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, apperr.Store("store_failure", "failed to create user", err)
	}
	return stripPassword(rec), nil
}

// GetUserByEmail returns (nil, nil) when no user has the email.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, "email = ?", NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("store_failure", "failed to get user", err)
	}
	return &user, nil
}

// GetUserByID returns (nil, nil) when the id is unknown or malformed.
func (r *UserRepository) GetUserByID(userID string) (*models.User, error) {
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return nil, nil
	}
	var user models.User
	err = r.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("store_failure", "failed to get user by ID", err)
	}
	return &user, nil
}

func (r *UserRepository) mustGet(userID string) (*models.User, error) {
	user, err := r.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser merges the non-nil fields of updates into the stored record.
func (r *UserRepository) UpdateUser(userID string, updates *models.UserUpdate) (*models.User, error) {
	user, err := r.mustGet(userID)
	if err != nil {
		return nil, err
	}

	if updates.Email != nil {
		email := NormalizeEmail(*updates.Email)
		if email == "" {
			return nil, ErrMissingEmail
		}
		var count int64
		if err := r.DB.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count).Error; err != nil {
			return nil, apperr.Store("store_failure", "failed to check email", err)
		}
		if count > 0 {
			return nil, ErrDuplicateEmail
		}
		user.Email = email
	}
	if updates.Password != nil {
		stored, err := r.Hasher.Hash(*updates.Password)
		if err != nil {
			return nil, apperr.Store("store_failure", "failed to hash password", err)
		}
		user.Password = stored
	}
	applyUpdate(user, updates)
	user.UpdatedAt = r.clock()

	if err := r.DB.Save(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, apperr.Store("store_failure", "failed to update user", err)
	}
	return user, nil
}

func applyUpdate(u *models.User, p *models.UserUpdate) {
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.FirstName != nil {
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Company != nil {
		u.Company = strings.TrimSpace(*p.Company)
	}
	if p.JobTitle != nil {
		u.JobTitle = strings.TrimSpace(*p.JobTitle)
	}
	if p.Experience != nil {
		u.Experience = *p.Experience
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Skills != nil {
		u.Skills = append([]string(nil), (*p.Skills)...)
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.Preferences != nil {
		u.Preferences = *p.Preferences
	}
	if p.ProfileComplete != nil {
		u.ProfileComplete = *p.ProfileComplete
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.LastLogin != nil {
		t := *p.LastLogin
		u.LastLogin = &t
	}
	if p.InterviewsCompleted != nil {
		u.InterviewsCompleted = *p.InterviewsCompleted
	}
	if p.BestScore != nil {
		u.BestScore = *p.BestScore
	}
	if p.LastInterviewAt != nil {
		t := *p.LastInterviewAt
		u.LastInterviewAt = &t
	}
}

// AuthenticateUser checks credentials, stamps lastLogin and returns the user without the password.
func (r *UserRepository) AuthenticateUser(email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !r.Hasher.Matches(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	now := r.clock()
	updated, err := r.UpdateUser(strconv.FormatUint(uint64(user.ID), 10), &models.UserUpdate{LastLogin: &now})
	if err != nil {
		return nil, err
	}
	return stripPassword(*updated), nil
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	user, err := r.GetUserByEmail(email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (r *UserRepository) DeleteUser(userID string) error {
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return ErrUserNotFound
	}
	result := r.DB.Delete(&models.User{}, id)
	if result.Error != nil {
		return apperr.Store("store_failure", "failed to delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListAllUsers returns every account ordered by id, passwords stripped.
func (r *UserRepository) ListAllUsers() ([]models.User, error) {
	var users []models.User
	if err := r.DB.Order("id").Find(&users).Error; err != nil {
		return nil, apperr.Store("store_failure", "failed to get users", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// RecordInterview folds a completed interview into the user's profile stats.
func (r *UserRepository) RecordInterview(userID string, score float64, completedAt time.Time) error {
	user, err := r.mustGet(userID)
	if err != nil {
		return err
	}
	count := user.InterviewsCompleted + 1
	best := user.BestScore
	if score > best {
		best = score
	}
	_, err = r.UpdateUser(userID, &models.UserUpdate{
		InterviewsCompleted: &count,
		BestScore:           &best,
		LastInterviewAt:     &completedAt,
	})
	return err
}

type demoAccount struct {
	user     models.User
	password string
}

var demoAccounts = []demoAccount{
	{
		user: models.User{
			FirstName: "Demo", LastName: "Interviewer",
			Email: "interviewer@aiinterview.com", Role: models.RoleInterviewer,
			Company: "AI Interview Corp", JobTitle: "Senior Interviewer",
			Bio: "Demo interviewer account for testing purposes.", ProfileComplete: true,
			Preferences: models.Preferences{Notifications: true, Theme: "light"},
		},
		password: "interviewer123",
	},
	{
		user: models.User{
			FirstName: "Test", LastName: "Candidate",
			Email: "candidate@example.com", Role: models.RoleCandidate,
			Company: "Tech Company", JobTitle: "Software Developer", Experience: "3-5",
			Bio: "Demo candidate account for testing purposes.", ProfileComplete: true,
			Skills:      []string{"JavaScript", "React", "Node.js"},
			Preferences: models.Preferences{Notifications: true, Theme: "light"},
		},
		password: "candidate123",
	},
}

// SeedDemoUsers creates the demo accounts that do not exist yet and returns how many were created.
func (r *UserRepository) SeedDemoUsers() (int, error) {
	created := 0
	for _, acc := range demoAccounts {
		exists, err := r.EmailExists(acc.user.Email)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		u := acc.user
		u.Password = acc.password
		if _, err := r.CreateUser(&u); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
