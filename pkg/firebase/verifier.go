package firebase

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/dmwangi/sokoni-backend/pkg/config"
	"github.com/dmwangi/sokoni-backend/pkg/logger"
)

// Identity is the verified subject the identity provider vouches for. The
// core never inspects raw tokens; it consumes this result.
type Identity struct {
	UID      string
	Email    string
	Name     string
	PhotoURL string
}

// Verifier maps an opaque ID token to a verified identity.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// Client is the Firebase-backed Verifier, constructed once at process start.
type Client struct {
	auth *fbauth.Client
}

// NewClient bootstraps the Firebase Admin SDK for token verification.
func NewClient(ctx context.Context, cfg config.FirebaseConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("firebase project id is required")
	}

	var opts []option.ClientOption
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase auth: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "firebase verifier initialized")
	}

	return &Client{auth: authClient}, nil
}

// Verify validates the ID token and extracts the subject's profile claims.
func (c *Client) Verify(ctx context.Context, idToken string) (Identity, error) {
	if strings.TrimSpace(idToken) == "" {
		return Identity{}, fmt.Errorf("id token is required")
	}

	token, err := c.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, fmt.Errorf("verifying id token: %w", err)
	}

	identity := Identity{UID: token.UID}
	if v, ok := token.Claims["email"].(string); ok {
		identity.Email = v
	}
	if v, ok := token.Claims["name"].(string); ok {
		identity.Name = v
	}
	if v, ok := token.Claims["picture"].(string); ok {
		identity.PhotoURL = v
	}
	return identity, nil
}
