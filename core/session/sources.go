package session

import (
	"context"
	"net/url"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/geniotutoring/studenttrack/core"
)

// StaticTokenSource returns a pre-issued token as-is. It cannot renew:
// once the token expires, calls start failing with authentication errors.
type StaticTokenSource struct {
	token string
}

var _ TokenSource = (*StaticTokenSource)(nil)

func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (ts *StaticTokenSource) Token(_ context.Context) (string, error) {
	if ts.token == "" {
		return "", ErrNoSession
	}
	return ts.token, nil
}

// clientCredentialsSource fetches tokens from the auth provider's token
// endpoint, scoped to the configured API audience.
type clientCredentialsSource struct {
	cfg *clientcredentials.Config
}

var _ TokenSource = (*clientCredentialsSource)(nil)

func NewClientCredentialsTokenSource(conf *core.Config) TokenSource {
	return &clientCredentialsSource{
		cfg: &clientcredentials.Config{
			ClientID:       conf.AuthClientID,
			ClientSecret:   conf.AuthClientSecret,
			TokenURL:       conf.AuthTokenURL,
			EndpointParams: url.Values{"audience": {conf.AuthAudience}},
		},
	}
}

func (ts *clientCredentialsSource) Token(ctx context.Context) (string, error) {
	tok, err := ts.cfg.Token(ctx)
	if err != nil {
		return "", errors.Wrap(err, "fetching token")
	}
	return tok.AccessToken, nil
}

// DevTokenSource self-signs HS256 tokens for local development and tests.
type DevTokenSource struct {
	Subject     string
	Secret      string
	Permissions []string
	Expiry      time.Duration
}

var _ TokenSource = (*DevTokenSource)(nil)

func (ts *DevTokenSource) Token(_ context.Context) (string, error) {
	expiry := ts.Expiry
	if expiry == 0 {
		expiry = 24 * time.Hour
	}
	now := NowFunc()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   ts.Subject,
			Audience:  core.Conf.AuthAudience,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(expiry).Unix(),
		},
		Permissions: ts.Permissions,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(ts.Secret))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}
