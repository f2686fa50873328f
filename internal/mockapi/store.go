package mockapi

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a stored account
type User struct {
	ID           string
	Email        string
	Name         string
	Phone        string
	PasswordHash []byte
	Role         string
	IsApproved   bool
	CreatedAt    time.Time
}

// LogEntry is a stored verification log
type LogEntry struct {
	ID                 string
	PoliceUserID       string
	DLCodeChecked      string
	VerificationResult string
	ImageSimilarity    *float64
	Confidence         float64
	ParsedFields       map[string]any
	Extra              map[string]any
	CreatedAt          time.Time
}

func (s *Server) addUser(email, password, name, phone, role string, approved bool) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		IsApproved:   approved,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	s.usersByID[user.ID] = user
	s.usersByEmail[user.Email] = user
	s.mu.Unlock()

	return user, nil
}

// SeedAdmin creates an approved administrator account
func (s *Server) SeedAdmin(email, password, name string) (*User, error) {
	return s.addUser(email, password, name, "", "admin", true)
}

// SeedOfficer creates a police account, approved or pending
func (s *Server) SeedOfficer(email, password, name string, approved bool) (*User, error) {
	return s.addUser(email, password, name, "", "police", approved)
}

// AddKnownID registers an ID number the verification stub will report legit
func (s *Server) AddKnownID(idNumber string) {
	s.mu.Lock()
	s.knownIDs[idNumber] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) userByEmail(email string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.usersByEmail[email]
	return user, ok
}

func (s *Server) userByID(id string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.usersByID[id]
	return user, ok
}

func checkPassword(user *User, password string) bool {
	return bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) == nil
}
