package credstore

import (
	"testing"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
)

const testServer = "https://verify.example.com"

func testUser() api.User {
	return api.User{
		ID:         "user-1",
		Email:      "officer@example.com",
		Name:       "Officer",
		Role:       api.RolePolice,
		IsApproved: true,
	}
}

func TestMemory_SetGetRoundtrip(t *testing.T) {
	store := NewMemory()

	if err := store.Set(testServer, Record{User: testUser(), Token: "tok-1"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	rec, ok, err := store.Get(testServer)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected record to be present")
	}
	if rec.Token != "tok-1" {
		t.Errorf("expected token tok-1, got %s", rec.Token)
	}
	if rec.User.Email != "officer@example.com" {
		t.Errorf("unexpected user: %+v", rec.User)
	}
}

func TestMemory_TokenWithoutUserReadsAbsent(t *testing.T) {
	store := NewMemory()
	store.PutRawToken(testServer, "orphan-token")

	_, ok, err := store.Get(testServer)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("half-written pair must read as absent")
	}

	token, err := store.Token(testServer)
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	if token != "" {
		t.Errorf("expected no token from half pair, got %q", token)
	}
}

func TestMemory_UserWithoutTokenReadsAbsent(t *testing.T) {
	store := NewMemory()
	store.PutRawUser(testServer, `{"id":"user-1","email":"officer@example.com"}`)

	_, ok, err := store.Get(testServer)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("half-written pair must read as absent")
	}
}

func TestMemory_MalformedUserReadsAbsent(t *testing.T) {
	store := NewMemory()
	store.PutRawToken(testServer, "tok-1")
	store.PutRawUser(testServer, "{not json")

	_, ok, err := store.Get(testServer)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("unparseable user record must read as absent")
	}
}

func TestMemory_ClearRemovesBothKeys(t *testing.T) {
	store := NewMemory()
	if err := store.Set(testServer, Record{User: testUser(), Token: "tok-1"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := store.Clear(testServer); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if !store.Empty(testServer) {
		t.Error("expected both keys removed")
	}

	// Clearing again is not an error
	if err := store.Clear(testServer); err != nil {
		t.Errorf("clearing an absent pair should succeed, got: %v", err)
	}
}

func TestMemory_ServersAreIsolated(t *testing.T) {
	store := NewMemory()
	if err := store.Set(testServer, Record{User: testUser(), Token: "tok-1"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	_, ok, err := store.Get("https://other.example.com")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("credentials must be scoped per server")
	}
}
