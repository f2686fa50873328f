package validate

import "testing"

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  string
	}{
		{"valid", "officer@example.com", "secret1", ""},
		{"missing email", "", "secret1", "invalid email address"},
		{"malformed email", "not-an-email", "secret1", "invalid email address"},
		{"missing password", "officer@example.com", "", "password is required"},
		{"short password", "officer@example.com", "abc", "password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Login(tt.email, tt.password)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected success, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestRegister(t *testing.T) {
	valid := Registration{
		Email:    "officer@example.com",
		Password: "secret1",
		Name:     "Officer",
	}

	if err := Register(valid); err != nil {
		t.Errorf("expected success, got: %v", err)
	}

	noName := valid
	noName.Name = ""
	if err := Register(noName); err == nil || err.Error() != "name is required" {
		t.Errorf("expected name error, got: %v", err)
	}

	badPhone := valid
	badPhone.Phone = "123"
	if err := Register(badPhone); err == nil || err.Error() != "invalid phone number" {
		t.Errorf("expected phone error, got: %v", err)
	}

	withPhone := valid
	withPhone.Phone = "+15550001111"
	if err := Register(withPhone); err != nil {
		t.Errorf("expected success with phone, got: %v", err)
	}
}

func TestPasswordsMatch(t *testing.T) {
	if err := PasswordsMatch("secret1", "secret1"); err != nil {
		t.Errorf("expected match, got: %v", err)
	}
	if err := PasswordsMatch("secret1", "secret2"); err == nil {
		t.Error("expected mismatch error")
	}
}
