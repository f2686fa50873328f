package commands

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
	"github.com/adityasawant2/idcarddetection/internal/cli/credstore"
	"github.com/adityasawant2/idcarddetection/internal/cli/session"
	"github.com/adityasawant2/idcarddetection/internal/mockapi"
)

// actor bundles one user's store, client, and controller, wired the way
// newEnv wires them.
type actor struct {
	store *credstore.Memory
	api   *api.Client
	sess  *session.Controller
}

func newActor(serverURL string) *actor {
	store := credstore.NewMemory()
	client := api.New(serverURL, store)
	ctrl := session.NewController(store, client, serverURL)
	client.OnUnauthorized(ctrl.Invalidate)
	return &actor{store: store, api: client, sess: ctrl}
}

// TestFullFlow_RegisterApproveVerify walks the whole lifecycle against the
// mock backend: account request, admin approval, login, document checks,
// log review, and a server-side token expiry.
func TestFullFlow_RegisterApproveVerify(t *testing.T) {
	backend := mockapi.New("test-secret")
	ts := httptest.NewServer(backend.Handler())
	defer ts.Close()

	_, err := backend.SeedAdmin("admin@example.com", "admin-pass-1", "Root Admin")
	require.NoError(t, err)
	backend.AddKnownID("DL99887766")

	officer := newActor(ts.URL)
	admin := newActor(ts.URL)

	// A new officer requests an account; no session state changes
	user, err := officer.sess.Register("rao@example.com", "password123", "Officer Rao", "+1555000111")
	require.NoError(t, err)
	assert.False(t, user.IsApproved)
	assert.Equal(t, session.StatusAnonymous, officer.sess.Restore().Status)

	// The account cannot log in until an administrator approves it
	err = officer.sess.Login("rao@example.com", "password123")
	require.Error(t, err)
	apiErr, ok := api.AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.Forbidden())
	assert.True(t, officer.store.Empty(ts.URL))

	// The administrator approves the pending account
	require.NoError(t, admin.sess.Login("admin@example.com", "admin-pass-1"))

	pending, err := admin.api.UnapprovedPolice()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "rao@example.com", pending[0].Email)

	approved, err := admin.api.ApprovePolice(pending[0].ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	// Now the officer can log in
	require.NoError(t, officer.sess.Login("rao@example.com", "password123"))
	s := officer.sess.Current()
	require.True(t, s.Authenticated())
	assert.Equal(t, api.RolePolice, s.Role())

	// A known ID verifies as legit, an unknown one as fake
	legit, err := officer.api.Verify("DL99887766.png", strings.NewReader("image-bytes"), api.VerifyOptions{PSM: 6, OEM: 3})
	require.NoError(t, err)
	assert.Equal(t, "legit", legit.Verification)
	assert.Equal(t, "DL99887766", legit.IDNumber)

	fake, err := officer.api.Verify("ZZ00000000.jpg", strings.NewReader("image-bytes"), api.VerifyOptions{PSM: 6, OEM: 3})
	require.NoError(t, err)
	assert.Equal(t, "fake", fake.Verification)

	// Both checks show up in the officer's own log
	logs, err := officer.api.Logs(50, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	// The admin audit view sees them too
	adminLogs, err := admin.api.AdminLogs(api.LogFilter{VerificationResult: "legit", Limit: 50})
	require.NoError(t, err)
	require.Len(t, adminLogs, 1)
	assert.Equal(t, "DL99887766", adminLogs[0].DLCodeChecked)

	// When the server stops honoring the token, the very request that saw
	// the rejection tears the session down before its error surfaces
	officer.store.PutRawToken(ts.URL, "expired-or-revoked")
	_, err = officer.api.Logs(50, 0)
	require.Error(t, err)
	apiErr, ok = api.AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.Unauthorized())
	assert.True(t, officer.store.Empty(ts.URL), "stored credentials must be gone after a rejected token")
	assert.Equal(t, session.StatusAnonymous, officer.sess.Current().Status)

	// Logging in again recovers cleanly
	require.NoError(t, officer.sess.Login("rao@example.com", "password123"))
	assert.True(t, officer.sess.Current().Authenticated())
}

// TestFullFlow_Reject checks that a rejected account disappears and cannot
// log in.
func TestFullFlow_Reject(t *testing.T) {
	backend := mockapi.New("test-secret")
	ts := httptest.NewServer(backend.Handler())
	defer ts.Close()

	_, err := backend.SeedAdmin("admin@example.com", "admin-pass-1", "Root Admin")
	require.NoError(t, err)

	admin := newActor(ts.URL)
	require.NoError(t, admin.sess.Login("admin@example.com", "admin-pass-1"))

	applicant := newActor(ts.URL)
	_, err = applicant.sess.Register("bad@example.com", "password123", "Bad Apple", "")
	require.NoError(t, err)

	pending, err := admin.api.UnapprovedPolice()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, admin.api.RejectPolice(pending[0].ID))

	pending, err = admin.api.UnapprovedPolice()
	require.NoError(t, err)
	assert.Empty(t, pending)

	err = applicant.sess.Login("bad@example.com", "password123")
	require.Error(t, err)
	apiErr, ok := api.AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.Unauthorized())
}
