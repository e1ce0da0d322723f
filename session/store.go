package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/investai/investai-go/users"
)

// loginFallbackMessage is surfaced when a login failure carries no message of
// its own. The backend localises its own error strings; this is the client's
// last-resort copy for a connection that never produced one.
const loginFallbackMessage = "Erreur de connexion"

// Store is the single authority for authentication state. It is constructed
// once at application start and injected into every consumer; there is no
// package-level instance. A mutex gives concurrent callers the same
// single-writer guarantee the state had in a single-threaded UI loop.
//
// Each mutating command records a generation number before releasing the lock
// for its network round trip. The result is applied only if the generation is
// still current, so a stale in-flight login can never overwrite state
// established by a later logout or a second login.
type Store struct {
	api    AuthAPI
	tokens TokenStore // optional; nil disables persistence

	mu  sync.RWMutex
	gen uint64

	accessToken   string
	refreshToken  string
	user          *users.User
	authenticated bool
	loading       bool
	errMsg        string
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithTokenStore enables durable token persistence. Tokens established by
// Login, SetTokens and refresh rotation are written through; Logout clears
// the stored pair.
func WithTokenStore(ts TokenStore) StoreOption {
	return func(s *Store) { s.tokens = ts }
}

// NewStore creates a session Store bound to the given auth collaborator.
func NewStore(api AuthAPI, options ...StoreOption) (*Store, error) {
	if api == nil {
		return nil, errors.New("[NewStore] auth API is required")
	}
	s := &Store{api: api}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		AccessToken:   s.accessToken,
		RefreshToken:  s.refreshToken,
		User:          s.user,
		Authenticated: s.authenticated,
		Loading:       s.loading,
		Err:           s.errMsg,
	}
}

// AccessToken returns the current access token and whether the session is
// authenticated. Satisfies the api package's TokenProvider contract.
func (s *Store) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.authenticated && s.accessToken != ""
}

// Login authenticates with an email/password pair. On success the token pair
// is stored, the session becomes authenticated and the user profile is
// fetched and stored. On failure the session stays unauthenticated, the error
// message is recorded on the store, and the failure is returned so calling
// UI can react. Login is the only foreground command: every other command
// absorbs failure into a state transition instead of returning it.
//
// Format validation of the credentials is the caller's concern.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	pair, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.failLogin(gen, err)
		return errors.Wrap(err, "[Store.Login] login request")
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.authenticated = true
	s.mu.Unlock()

	// The profile fetch depends on the token just obtained, so it chains
	// sequentially after token storage.
	user, err := s.api.CurrentUser(ctx, pair.AccessToken)
	if err != nil {
		// A token the server will not honour for a profile lookup is not
		// trusted for anything else either: drop the whole session, then
		// record the message so the login form can show it.
		msg := err.Error()
		if msg == "" {
			msg = loginFallbackMessage
		}
		s.mu.Lock()
		if s.gen == gen {
			s.gen++
			s.resetLocked()
			s.errMsg = msg
		}
		s.mu.Unlock()
		if s.tokens != nil {
			if clearErr := s.tokens.Clear(); clearErr != nil {
				log.Warn().Err(clearErr).Msg("session: clearing persisted tokens failed")
			}
		}
		return errors.Wrap(err, "[Store.Login] current user request")
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.user = user
	s.loading = false
	s.mu.Unlock()

	s.persist(pair)
	return nil
}

// failLogin records the failure message and clears the loading flag, unless a
// later command already took over the session.
func (s *Store) failLogin(gen uint64, cause error) {
	msg := cause.Error()
	if msg == "" {
		msg = loginFallbackMessage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.errMsg = msg
	s.loading = false
}

// Logout unconditionally resets the session to its zero state: no tokens, no
// user, not authenticated, no error. It is idempotent and makes no network
// call. Any stored token pair is cleared as well.
func (s *Store) Logout() {
	s.mu.Lock()
	s.gen++
	s.resetLocked()
	s.mu.Unlock()

	if s.tokens != nil {
		if err := s.tokens.Clear(); err != nil {
			log.Warn().Err(err).Msg("session: clearing persisted tokens failed")
		}
	}
}

func (s *Store) resetLocked() {
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	s.authenticated = false
	s.loading = false
	s.errMsg = ""
}

// SetTokens installs a token pair obtained out of band (for example through
// the email-verification flow) and marks the session authenticated. The user
// profile and error message are left untouched.
func (s *Store) SetTokens(accessToken, refreshToken string) {
	pair := TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}

	s.mu.Lock()
	s.gen++
	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.authenticated = true
	s.mu.Unlock()

	s.persist(pair)
}

// RefreshAccessToken rotates the token pair using the stored refresh token.
// It never reports failure to the caller: it runs from background and
// interceptor contexts with nobody waiting on a result, so failure is always
// absorbed into a forced logout. If no refresh token is present the session
// is logged out immediately without a network call.
func (s *Store) RefreshAccessToken(ctx context.Context) {
	s.mu.Lock()
	refreshToken := s.refreshToken
	if refreshToken == "" {
		s.gen++
		s.resetLocked()
		s.mu.Unlock()
		if s.tokens != nil {
			if err := s.tokens.Clear(); err != nil {
				log.Warn().Err(err).Msg("session: clearing persisted tokens failed")
			}
		}
		return
	}
	gen := s.gen
	s.loading = true
	s.mu.Unlock()

	pair, err := s.api.Refresh(ctx, refreshToken)
	if err != nil {
		log.Debug().Err(err).Msg("session: token refresh failed, logging out")
		s.forceLogout(gen, "refresh")
		return
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	// Rotation: the old refresh token is single-use and now discarded.
	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.authenticated = true
	s.loading = false
	s.mu.Unlock()

	s.persist(pair)
}

// FetchCurrentUser loads the profile for the current access token into the
// session. Like refresh, it is a background command: failure forces a logout
// instead of being returned.
func (s *Store) FetchCurrentUser(ctx context.Context) {
	s.mu.Lock()
	gen := s.gen
	accessToken := s.accessToken
	s.loading = true
	s.mu.Unlock()

	user, err := s.api.CurrentUser(ctx, accessToken)
	if err != nil {
		log.Debug().Err(err).Msg("session: current user fetch failed, logging out")
		s.forceLogout(gen, "current user fetch")
		return
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.user = user
	s.loading = false
	s.mu.Unlock()
}

// ClearError discards the last recorded failure message. Nothing else is
// touched, and in-flight operations are unaffected.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

// Restore rehydrates the session from the token store, if one is configured
// and holds a pair. It reports whether a session was restored. The profile is
// not fetched here; callers typically follow up with FetchCurrentUser.
func (s *Store) Restore() (bool, error) {
	if s.tokens == nil {
		return false, nil
	}
	pair, ok, err := s.tokens.Load()
	if err != nil {
		return false, errors.Wrap(err, "[Store.Restore] load tokens")
	}
	if !ok || pair.IsZero() {
		return false, nil
	}

	s.mu.Lock()
	s.gen++
	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.authenticated = true
	s.mu.Unlock()
	return true, nil
}

// forceLogout resets the session to the zero state unless a later command
// already took over. Used for unrecoverable authentication failures, as
// opposed to a user-initiated Logout.
func (s *Store) forceLogout(gen uint64, cause string) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.resetLocked()
	s.mu.Unlock()

	log.Debug().Str("cause", cause).Msg("session: forced logout")
	if s.tokens != nil {
		if err := s.tokens.Clear(); err != nil {
			log.Warn().Err(err).Msg("session: clearing persisted tokens failed")
		}
	}
}

// persist writes the pair through the token store. Persistence problems never
// break the in-memory transition; a session that cannot be saved still works
// for the life of the process.
func (s *Store) persist(pair TokenPair) {
	if s.tokens == nil {
		return
	}
	if err := s.tokens.Save(pair); err != nil {
		log.Warn().Err(err).Msg("session: persisting tokens failed")
	}
}
