package models

var validExperience = map[string]bool{
	"":     true,
	"0-1":  true,
	"1-3":  true,
	"3-5":  true,
	"5-10": true,
	"10+":  true,
}

// SignupRequest mirrors the signup form.
type SignupRequest struct {
	FirstName           string `json:"firstName" validate:"notblank"`
	LastName            string `json:"lastName" validate:"notblank"`
	Email               string `json:"email" validate:"required,email"`
	Password            string `json:"password" validate:"required,min=8,mixedcase"`
	ConfirmPassword     string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role                Role   `json:"role" validate:"oneof=candidate interviewer"`
	Company             string `json:"company"`
	JobTitle            string `json:"jobTitle"`
	Experience          string `json:"experience" validate:"experience"`
	SubscribeNewsletter bool   `json:"subscribeNewsletter"`
	AgreeToTerms        bool   `json:"agreeToTerms" validate:"required"`
}

var signupRules = map[string]fieldRule{
	"firstName.notblank":       {Reason: "First name is required"},
	"lastName.notblank":        {Reason: "Last name is required"},
	"email.required":           {Reason: "Email is required"},
	"email.email":              {Reason: "Enter a valid email address"},
	"password.required":        {Reason: "Password is required"},
	"password.min":             {Reason: "Password must be at least 8 characters"},
	"password.mixedcase":       {Reason: "Password must contain uppercase, lowercase, and number"},
	"confirmPassword.required": {Reason: "Please confirm your password"},
	"confirmPassword.eqfield":  {Reason: "Passwords do not match"},
	"role.oneof":               {Reason: "Please select your role"},
	"experience.experience":    {Reason: "Unknown experience bracket"},
	"agreeToTerms.required":    {Reason: "You must agree to the terms"},
}

// implements the Validator interface; collects every failing field
func (r *SignupRequest) Validate() error {
	return collectFailures(r, "Signup form has invalid fields", signupRules)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

var loginRules = map[string]fieldRule{
	"email.required":    {Code: "invalid_email", Reason: "A valid email is required"},
	"email.email":       {Code: "invalid_email", Reason: "A valid email is required"},
	"password.required": {Code: "missing_password", Reason: "Password is required"},
	"password.min":      {Code: "invalid_password", Reason: "Password must be at least 6 characters"},
}

func (r *LoginRequest) Validate() error {
	return firstFailure(r, loginRules)
}

// ProfileUpdateRequest is the subset of UserUpdate a user may change on their own profile.
type ProfileUpdateRequest struct {
	FirstName      *string      `json:"firstName" validate:"omitempty,notblank"`
	LastName       *string      `json:"lastName" validate:"omitempty,notblank"`
	Company        *string      `json:"company"`
	JobTitle       *string      `json:"jobTitle"`
	Experience     *string      `json:"experience" validate:"omitempty,experience"`
	Bio            *string      `json:"bio"`
	Skills         *[]string    `json:"skills"`
	ProfilePicture *string      `json:"profilePicture"`
	Preferences    *Preferences `json:"preferences"`
}

var profileRules = map[string]fieldRule{
	"experience.experience": {Code: "invalid_experience", Reason: "Experience must be one of: 0-1, 1-3, 3-5, 5-10, 10+"},
	"firstName.notblank":    {Code: "missing_first_name", Reason: "First name cannot be empty"},
	"lastName.notblank":     {Code: "missing_last_name", Reason: "Last name cannot be empty"},
	"theme.oneof":           {Code: "invalid_theme", Reason: "Theme must be light or dark"},
}

func (r *ProfileUpdateRequest) Validate() error {
	return firstFailure(r, profileRules)
}

// ToUpdate converts the request into a store update; a full profile is marked complete.
func (r *ProfileUpdateRequest) ToUpdate() *UserUpdate {
	u := &UserUpdate{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Company:        r.Company,
		JobTitle:       r.JobTitle,
		Experience:     r.Experience,
		Bio:            r.Bio,
		Skills:         r.Skills,
		ProfilePicture: r.ProfilePicture,
		Preferences:    r.Preferences,
	}
	complete := true
	u.ProfileComplete = &complete
	return u
}

// TextRequest carries a single chat submission (info field or interview answer).
type TextRequest struct {
	Text string `json:"text" validate:"notblank"`
}

func (r *TextRequest) Validate() error {
	return firstFailure(r, map[string]fieldRule{
		"text.notblank": {Code: "missing_text", Reason: "Text field is required"},
	})
}
