package models

import "time"

// Preferences holds per-user UI and notification settings.
type Preferences struct {
	Notifications bool   `json:"notifications"`
	EmailUpdates  bool   `json:"emailUpdates"`
	Theme         string `json:"theme" validate:"omitempty,oneof=light dark"`
}

// User represents a registered account.
type User struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Email           string      `gorm:"uniqueIndex;not null" json:"email"`
	Password        string      `gorm:"not null" json:"-"`
	Role            Role        `gorm:"index;not null;default:candidate" json:"role"`
	FirstName       string      `json:"firstName"`
	LastName        string      `json:"lastName"`
	Company         string      `json:"company"`
	JobTitle        string      `json:"jobTitle"`
	Experience      string      `json:"experience"`
	Bio             string      `gorm:"type:text" json:"bio"`
	Skills          []string    `gorm:"serializer:json" json:"skills"`
	ProfilePicture  string      `json:"profilePicture,omitempty"`
	Preferences     Preferences `gorm:"serializer:json" json:"preferences"`
	ProfileComplete bool        `json:"profileComplete"`
	IsActive        bool        `json:"isActive"`
	LastLogin       *time.Time  `json:"lastLogin"`

	InterviewsCompleted int        `gorm:"default:0" json:"interviewsCompleted"`
	BestScore           float64    `gorm:"default:0" json:"bestScore"`
	LastInterviewAt     *time.Time `json:"lastInterviewAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Email           *string      `json:"email,omitempty"`
	Password        *string      `json:"password,omitempty"`
	Role            *Role        `json:"role,omitempty"`
	FirstName       *string      `json:"firstName,omitempty"`
	LastName        *string      `json:"lastName,omitempty"`
	Company         *string      `json:"company,omitempty"`
	JobTitle        *string      `json:"jobTitle,omitempty"`
	Experience      *string      `json:"experience,omitempty"`
	Bio             *string      `json:"bio,omitempty"`
	Skills          *[]string    `json:"skills,omitempty"`
	ProfilePicture  *string      `json:"profilePicture,omitempty"`
	Preferences     *Preferences `json:"preferences,omitempty"`
	ProfileComplete *bool        `json:"profileComplete,omitempty"`
	IsActive        *bool        `json:"isActive,omitempty"`
	LastLogin       *time.Time   `json:"lastLogin,omitempty"`

	InterviewsCompleted *int       `json:"-"`
	BestScore           *float64   `json:"-"`
	LastInterviewAt     *time.Time `json:"-"`
}
