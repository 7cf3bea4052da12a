package firebase

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"

	"bazaarbondhu/internal/domain/access"
)

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// VerifyIDToken checks the token signature and revocation.
func (f *FirebaseAuthClient) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
}

// LookupEmail returns the identity registered for email.
func (f *FirebaseAuthClient) LookupEmail(ctx context.Context, email string) (*access.Identity, error) {
	user, err := f.client.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	return &access.Identity{
		UID:         user.UID,
		Email:       strings.ToLower(user.Email),
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
	}, nil
}

// RevokeSessions forces the account to sign in again, used after a role change.
func (f *FirebaseAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	return f.client.RevokeRefreshTokens(ctx, uid)
}
