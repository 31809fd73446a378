package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Token acquisition (the browser consent flow) is an external collaborator;
// this package only consumes previously stored credentials and keeps the
// refresh token cycle going.

var authEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// ErrNoCredentials indicates the credentials file does not exist yet.
var ErrNoCredentials = errors.New("no stored credentials; authorize the CLI first")

// credentialsFile is the stored credential shape (.clasprc.json).
type credentialsFile struct {
	Token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiryDate   int64  `json:"expiry_date"` // milliseconds since epoch
	} `json:"token"`
	OAuth2ClientSettings struct {
		ClientID     string `json:"clientId"`
		ClientSecret string `json:"clientSecret"`
		RedirectURI  string `json:"redirectUri"`
	} `json:"oauth2ClientSettings"`
}

// CredentialProvider loads stored OAuth2 credentials from Path and produces
// authorized HTTP clients. Refreshed access tokens are written back to the
// file so subsequent invocations skip the refresh round-trip.
type CredentialProvider struct {
	Path string

	mu sync.Mutex
}

// AuthorizedClient returns an *http.Client that attaches and refreshes the
// stored OAuth2 token.
func (p *CredentialProvider) AuthorizedClient(ctx context.Context) (*http.Client, error) {
	creds, err := p.load()
	if err != nil {
		return nil, err
	}

	conf := &oauth2.Config{
		ClientID:     creds.OAuth2ClientSettings.ClientID,
		ClientSecret: creds.OAuth2ClientSettings.ClientSecret,
		Endpoint:     authEndpoint,
	}

	token := &oauth2.Token{
		AccessToken:  creds.Token.AccessToken,
		RefreshToken: creds.Token.RefreshToken,
		TokenType:    creds.Token.TokenType,
		Expiry:       time.UnixMilli(creds.Token.ExpiryDate),
	}

	source := &persistingSource{
		provider: p,
		inner:    conf.TokenSource(ctx, token),
		last:     token,
	}

	return oauth2.NewClient(ctx, source), nil
}

func (p *CredentialProvider) load() (*credentialsFile, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w (expected at %s)", ErrNoCredentials, p.Path)
		}
		return nil, fmt.Errorf("reading credentials file %s: %w", p.Path, err)
	}

	var creds credentialsFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", p.Path, err)
	}

	if creds.Token.RefreshToken == "" && creds.Token.AccessToken == "" {
		return nil, fmt.Errorf("credentials file %s contains no token", p.Path)
	}

	return &creds, nil
}

// persist rewrites the stored token fields, leaving client settings intact.
func (p *CredentialProvider) persist(token *oauth2.Token) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	creds, err := p.load()
	if err != nil {
		return err
	}

	creds.Token.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		creds.Token.RefreshToken = token.RefreshToken
	}
	creds.Token.TokenType = token.TokenType
	creds.Token.ExpiryDate = token.Expiry.UnixMilli()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.WriteFile(p.Path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials file %s: %w", p.Path, err)
	}

	return nil
}

// persistingSource saves tokens back to disk whenever the inner source
// produces a new one.
type persistingSource struct {
	provider *CredentialProvider
	inner    oauth2.TokenSource

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	token, err := s.inner.Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing access token: %w", err)
	}

	s.mu.Lock()
	changed := s.last == nil || token.AccessToken != s.last.AccessToken
	s.last = token
	s.mu.Unlock()

	if changed {
		if err := s.provider.persist(token); err != nil {
			// Token refresh succeeded; a failed save only costs the next
			// invocation one extra refresh.
			fmt.Fprintf(os.Stderr, "Warning: failed to save refreshed token: %v\n", err)
		}
	}

	return token, nil
}
