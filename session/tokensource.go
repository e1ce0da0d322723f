package session

import "golang.org/x/oauth2"

// TokenSource adapts the store to the oauth2.TokenSource contract so generic
// HTTP plumbing (oauth2.NewClient, oauth2.Transport) can consume the session's
// credentials. The source reflects the store's current state on every call;
// it never refreshes on its own, that stays the store's decision.
func (s *Store) TokenSource() oauth2.TokenSource {
	return storeTokenSource{store: s}
}

type storeTokenSource struct {
	store *Store
}

func (ts storeTokenSource) Token() (*oauth2.Token, error) {
	snap := ts.store.Snapshot()
	if !snap.Authenticated || snap.AccessToken == "" {
		return nil, ErrNotAuthenticated
	}
	tok := &oauth2.Token{
		AccessToken:  snap.AccessToken,
		RefreshToken: snap.RefreshToken,
		TokenType:    "Bearer",
	}
	if exp, ok := AccessTokenExpiry(snap.AccessToken); ok {
		tok.Expiry = exp
	}
	return tok, nil
}
