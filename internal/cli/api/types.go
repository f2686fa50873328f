package api

import "time"

// Role is a user role as reported by the backend
type Role string

const (
	RolePolice Role = "police"
	RoleAdmin  Role = "admin"
)

// User represents a user profile returned by the backend
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Role       Role      `json:"role"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// TokenResponse represents the login response.
// Role and IsApproved are informational; the profile from /auth/me is
// authoritative for session state.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        Role   `json:"role"`
	IsApproved  bool   `json:"is_approved"`
}

// RegisterRequest represents a new account request. Role is always "police";
// the backend rejects anything else on this endpoint.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role"`
}

// VerificationResponse represents the result of an ID verification
type VerificationResponse struct {
	IDNumber        string         `json:"id_number"`
	Verification    string         `json:"verification"` // legit | fake | unknown
	ImageSimilarity *float64       `json:"image_similarity,omitempty"`
	Confidence      float64        `json:"confidence"`
	ParsedFields    map[string]any `json:"parsed_fields"`
	Errors          []string       `json:"errors"`
}

// VerifyOptions carries the OCR engine parameters and optional request metadata
type VerifyOptions struct {
	PSM      int
	OEM      int
	Metadata map[string]any
}

// LogRecord represents a verification-log entry
type LogRecord struct {
	ID                 string         `json:"id"`
	PoliceUserID       string         `json:"police_user_id"`
	DLCodeChecked      string         `json:"dl_code_checked,omitempty"`
	VerificationResult string         `json:"verification_result"`
	ImageSimilarity    *float64       `json:"image_similarity,omitempty"`
	Confidence         *float64       `json:"confidence,omitempty"`
	ParsedFields       map[string]any `json:"parsed_fields,omitempty"`
	Extra              map[string]any `json:"extra,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	PoliceUser         *User          `json:"police_user,omitempty"`
}

// LogFilter narrows the admin log listing
type LogFilter struct {
	UserID             string
	VerificationResult string
	StartDate          time.Time
	EndDate            time.Time
	Limit              int
	Offset             int
}
