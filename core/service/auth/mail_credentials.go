// Package auth owns OAuth credential lifecycle: the oauth2 config and a JSON
// token file store. The core never touches globals; an authenticated token is
// injected into the provider adapter at startup.
package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

type Credentials struct {
	config    *oauth2.Config
	tokenFile string
}

func NewCredentials(clientID, clientSecret, redirectURL, tokenFile string) *Credentials {
	return &Credentials{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				gmailapi.GmailReadonlyScope,
				gmailapi.GmailSendScope,
			},
			Endpoint: google.Endpoint,
		},
		tokenFile: tokenFile,
	}
}

// Config returns the oauth2 config; token refresh flows through its
// TokenSource.
func (c *Credentials) Config() *oauth2.Config {
	return c.config
}

// Configured reports whether a client id/secret pair was supplied.
func (c *Credentials) Configured() bool {
	return c.config.ClientID != "" && c.config.ClientSecret != ""
}

// AuthURL returns the consent URL for the offline access flow.
func (c *Credentials) AuthURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and persists it.
func (c *Credentials) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}
	if err := c.SaveToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// LoadToken reads the persisted token. A missing file is reported as an
// error; callers decide whether to run degraded.
func (c *Credentials) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

// SaveToken persists a token to the token file with owner-only permissions.
func (c *Credentials) SaveToken(token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(c.tokenFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
