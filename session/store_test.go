package session_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/investai/investai-go/session"
	"github.com/investai/investai-go/session/apifake"
	"github.com/investai/investai-go/tokenstore/storefake"
	"github.com/investai/investai-go/users"
)

const (
	testEmail    = "test@test.com"
	testPassword = "password"
)

// testFixture holds the store under test and its fake collaborators.
type testFixture struct {
	api    *apifake.FakeAuthAPI
	tokens *storefake.FakeTokenStore
	store  *session.Store
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	api := apifake.NewFakeAuthAPI()
	tokens := storefake.NewFakeTokenStore()
	store, err := session.NewStore(api, session.WithTokenStore(tokens))
	require.NoError(t, err)

	return &testFixture{api: api, tokens: tokens, store: store}
}

func defaultTestUser() *users.User {
	return &users.User{
		ID:         "1",
		Email:      testEmail,
		Role:       users.RoleUser,
		FirstName:  "John",
		LastName:   "Doe",
		MFAEnabled: false,
	}
}

// configureSuccessfulLogin makes the fake resolve a token pair and a profile.
func (f *testFixture) configureSuccessfulLogin() {
	f.api.LoginPair = session.TokenPair{AccessToken: "access123", RefreshToken: "refresh123"}
	f.api.User = defaultTestUser()
}

// loggedInFixture returns a fixture whose store already completed a login.
func loggedInFixture(t *testing.T) *testFixture {
	t.Helper()
	f := setupTestFixture(t)
	f.configureSuccessfulLogin()
	require.NoError(t, f.store.Login(context.Background(), testEmail, testPassword))
	return f
}

func TestNewStore_RequiresAuthAPI(t *testing.T) {
	_, err := session.NewStore(nil)
	require.Error(t, err)
}

func TestStore_InitialState(t *testing.T) {
	f := setupTestFixture(t)

	snap := f.store.Snapshot()
	require.Empty(t, snap.AccessToken)
	require.Empty(t, snap.RefreshToken)
	require.Nil(t, snap.User)
	require.False(t, snap.Authenticated)
	require.False(t, snap.Loading)
	require.Empty(t, snap.Err)
}

func TestLogin_Success(t *testing.T) {
	f := setupTestFixture(t)
	f.configureSuccessfulLogin()

	err := f.store.Login(context.Background(), testEmail, testPassword)

	require.NoError(t, err)
	snap := f.store.Snapshot()
	require.Equal(t, "access123", snap.AccessToken)
	require.Equal(t, "refresh123", snap.RefreshToken)
	require.True(t, snap.Authenticated)
	require.False(t, snap.Loading)
	require.NotNil(t, snap.User)
	require.Equal(t, testEmail, snap.User.Email)
}

// TestLogin_TokenUsedForProfileFetch checks the chained profile fetch uses
// the access token obtained moments before.
func TestLogin_TokenUsedForProfileFetch(t *testing.T) {
	f := loggedInFixture(t)

	require.Equal(t, 1, f.api.CurrentUserCalls())
	require.Equal(t, "access123", f.api.LastAccessToken())
}

func TestLogin_Failure(t *testing.T) {
	f := setupTestFixture(t)
	f.api.LoginErr = errors.New("Invalid credentials")

	err := f.store.Login(context.Background(), testEmail, "wrong")

	require.Error(t, err)
	snap := f.store.Snapshot()
	require.Equal(t, "Invalid credentials", snap.Err)
	require.False(t, snap.Authenticated)
	require.False(t, snap.Loading)
	require.Empty(t, snap.AccessToken)
}

func TestLogin_ClearsPriorError(t *testing.T) {
	f := setupTestFixture(t)
	f.api.LoginErr = errors.New("Invalid credentials")
	require.Error(t, f.store.Login(context.Background(), testEmail, "wrong"))

	f.api.LoginErr = nil
	f.configureSuccessfulLogin()
	require.NoError(t, f.store.Login(context.Background(), testEmail, testPassword))

	require.Empty(t, f.store.Snapshot().Err)
}

// TestLogin_ProfileFetchFailure verifies that a session whose profile cannot
// be fetched right after login is not kept: the store degrades to the
// anonymous state and the failure is both recorded and returned.
func TestLogin_ProfileFetchFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.api.LoginPair = session.TokenPair{AccessToken: "access123", RefreshToken: "refresh123"}
	f.api.CurrentUserErr = errors.New("profile unavailable")

	err := f.store.Login(context.Background(), testEmail, testPassword)

	require.Error(t, err)
	snap := f.store.Snapshot()
	require.False(t, snap.Authenticated)
	require.Empty(t, snap.AccessToken)
	require.Empty(t, snap.RefreshToken)
	require.Nil(t, snap.User)
	require.False(t, snap.Loading)
	require.Equal(t, "profile unavailable", snap.Err)
}

func TestLogin_PersistsTokens(t *testing.T) {
	f := loggedInFixture(t)

	pair, ok := f.tokens.Stored()
	require.True(t, ok)
	require.Equal(t, "access123", pair.AccessToken)
	require.Equal(t, "refresh123", pair.RefreshToken)
}

func TestLogout_ResetsToZeroState(t *testing.T) {
	f := loggedInFixture(t)
	f.api.LoginErr = errors.New("boom") // leave an error behind as well
	_ = f.store.Login(context.Background(), testEmail, "wrong")

	f.store.Logout()

	snap := f.store.Snapshot()
	require.Nil(t, snap.User)
	require.Empty(t, snap.AccessToken)
	require.Empty(t, snap.RefreshToken)
	require.False(t, snap.Authenticated)
	require.Empty(t, snap.Err)
}

func TestLogout_Idempotent(t *testing.T) {
	f := loggedInFixture(t)

	f.store.Logout()
	once := f.store.Snapshot()
	f.store.Logout()
	twice := f.store.Snapshot()

	require.Equal(t, once, twice)
}

func TestLogout_ClearsPersistedTokens(t *testing.T) {
	f := loggedInFixture(t)

	f.store.Logout()

	_, ok := f.tokens.Stored()
	require.False(t, ok)
}

func TestSetTokens_Authenticates(t *testing.T) {
	f := setupTestFixture(t)

	f.store.SetTokens("new-access", "new-refresh")

	snap := f.store.Snapshot()
	require.Equal(t, "new-access", snap.AccessToken)
	require.Equal(t, "new-refresh", snap.RefreshToken)
	require.True(t, snap.Authenticated)
}

// TestSetTokens_LeavesUserAndErrorAlone: out-of-band token acquisition only
// swaps credentials; profile and error state are untouched.
func TestSetTokens_LeavesUserAndErrorAlone(t *testing.T) {
	f := setupTestFixture(t)
	f.api.LoginErr = errors.New("Invalid credentials")
	_ = f.store.Login(context.Background(), testEmail, "wrong")

	f.store.SetTokens("new-access", "new-refresh")

	snap := f.store.Snapshot()
	require.Equal(t, "Invalid credentials", snap.Err)
	require.Nil(t, snap.User)
}

func TestSetTokens_PersistsPair(t *testing.T) {
	f := setupTestFixture(t)

	f.store.SetTokens("new-access", "new-refresh")

	pair, ok := f.tokens.Stored()
	require.True(t, ok)
	require.Equal(t, "new-access", pair.AccessToken)
}

// TestRefreshAccessToken_MissingRefreshTokenLogsOut: a session cannot
// silently continue on an access token alone once refresh is needed, and no
// network call may be attempted.
func TestRefreshAccessToken_MissingRefreshTokenLogsOut(t *testing.T) {
	f := setupTestFixture(t)
	f.store.SetTokens("access-only", "")

	f.store.RefreshAccessToken(context.Background())

	require.False(t, f.store.Snapshot().Authenticated)
	require.Zero(t, f.api.RefreshCalls())
}

func TestRefreshAccessToken_RotatesPair(t *testing.T) {
	f := loggedInFixture(t)
	f.api.RefreshPair = session.TokenPair{AccessToken: "access456", RefreshToken: "refresh456"}

	f.store.RefreshAccessToken(context.Background())

	snap := f.store.Snapshot()
	require.True(t, snap.Authenticated)
	require.Equal(t, "access456", snap.AccessToken)
	require.Equal(t, "refresh456", snap.RefreshToken)
	require.Equal(t, "refresh123", f.api.LastRefreshToken())

	pair, ok := f.tokens.Stored()
	require.True(t, ok)
	require.Equal(t, "refresh456", pair.RefreshToken)
}

func TestRefreshAccessToken_FailureLogsOut(t *testing.T) {
	f := loggedInFixture(t)
	f.api.RefreshErr = errors.New("refresh token expired")

	f.store.RefreshAccessToken(context.Background())

	snap := f.store.Snapshot()
	require.False(t, snap.Authenticated)
	require.Empty(t, snap.AccessToken)
	require.Nil(t, snap.User)
	// Background failure is absorbed, never surfaced as a user-facing error.
	require.Empty(t, snap.Err)
}

func TestFetchCurrentUser_StoresProfile(t *testing.T) {
	f := setupTestFixture(t)
	f.store.SetTokens("access123", "refresh123")
	f.api.User = defaultTestUser()

	f.store.FetchCurrentUser(context.Background())

	snap := f.store.Snapshot()
	require.NotNil(t, snap.User)
	require.Equal(t, testEmail, snap.User.Email)
	require.False(t, snap.Loading)
}

func TestFetchCurrentUser_FailureLogsOut(t *testing.T) {
	f := loggedInFixture(t)
	f.api.CurrentUserErr = errors.New("unauthorized")

	f.store.FetchCurrentUser(context.Background())

	snap := f.store.Snapshot()
	require.False(t, snap.Authenticated)
	require.Nil(t, snap.User)
	require.Empty(t, snap.AccessToken)
}

func TestClearError_OnlyClearsError(t *testing.T) {
	f := setupTestFixture(t)
	f.store.SetTokens("access123", "refresh123")
	f.api.LoginErr = errors.New("Invalid credentials")
	_ = f.store.Login(context.Background(), testEmail, "wrong")
	// The failed login superseded the SetTokens session; reestablish one so
	// we can observe that ClearError leaves it alone.
	f.store.SetTokens("access123", "refresh123")

	before := f.store.Snapshot()
	require.Equal(t, "Invalid credentials", before.Err)

	f.store.ClearError()

	after := f.store.Snapshot()
	require.Empty(t, after.Err)
	require.Equal(t, before.AccessToken, after.AccessToken)
	require.Equal(t, before.RefreshToken, after.RefreshToken)
	require.Equal(t, before.Authenticated, after.Authenticated)
	require.Equal(t, before.User, after.User)
}

// TestLogin_StaleResultDiscardedAfterLogout: a logout issued while the login
// round trip is in flight wins; the late result must not resurrect the
// session.
func TestLogin_StaleResultDiscardedAfterLogout(t *testing.T) {
	f := setupTestFixture(t)
	f.api.User = defaultTestUser()
	f.api.LoginFunc = func(ctx context.Context, email, password string) (session.TokenPair, error) {
		// Simulate a logout racing the in-flight request.
		f.store.Logout()
		return session.TokenPair{AccessToken: "late-access", RefreshToken: "late-refresh"}, nil
	}

	err := f.store.Login(context.Background(), testEmail, testPassword)

	require.ErrorIs(t, err, session.ErrSuperseded)
	snap := f.store.Snapshot()
	require.False(t, snap.Authenticated)
	require.Empty(t, snap.AccessToken)
	require.False(t, snap.Loading)
}

// TestRefresh_StaleResultDiscardedAfterLogout mirrors the login race for the
// background refresh path.
func TestRefresh_StaleResultDiscardedAfterLogout(t *testing.T) {
	f := loggedInFixture(t)
	f.api.RefreshFunc = func(ctx context.Context, refreshToken string) (session.TokenPair, error) {
		f.store.Logout()
		return session.TokenPair{AccessToken: "late-access", RefreshToken: "late-refresh"}, nil
	}

	f.store.RefreshAccessToken(context.Background())

	snap := f.store.Snapshot()
	require.False(t, snap.Authenticated)
	require.Empty(t, snap.AccessToken)
}

func TestRestore_RehydratesPersistedSession(t *testing.T) {
	f := setupTestFixture(t)
	f.tokens.Seed(session.TokenPair{AccessToken: "stored-access", RefreshToken: "stored-refresh"})

	restored, err := f.store.Restore()

	require.NoError(t, err)
	require.True(t, restored)
	snap := f.store.Snapshot()
	require.True(t, snap.Authenticated)
	require.Equal(t, "stored-access", snap.AccessToken)
	require.Equal(t, "stored-refresh", snap.RefreshToken)
	require.Nil(t, snap.User)
}

func TestRestore_NothingStored(t *testing.T) {
	f := setupTestFixture(t)

	restored, err := f.store.Restore()

	require.NoError(t, err)
	require.False(t, restored)
	require.False(t, f.store.Snapshot().Authenticated)
}

// TestPersistenceFailure_DoesNotBreakLogin: a token store that cannot write
// must not fail the in-memory login.
func TestPersistenceFailure_DoesNotBreakLogin(t *testing.T) {
	f := setupTestFixture(t)
	f.configureSuccessfulLogin()
	f.tokens.SaveErr = errors.New("disk full")

	err := f.store.Login(context.Background(), testEmail, testPassword)

	require.NoError(t, err)
	require.True(t, f.store.Snapshot().Authenticated)
}
