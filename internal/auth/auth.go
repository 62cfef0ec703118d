package auth

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/auth"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/firebase"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/oweek/raceday-backend/internal/store"
	"github.com/oweek/raceday-backend/internal/utils/errors"
)

// Auther is an auth abstraction layer interface
type Auther interface {
	AuthenticateToken(ctx context.Context, idToken string) (string, error)
	CreateUser(ctx context.Context, email string, password string, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}

// Client to interact with auth API
type Client struct{}

//AuthenticateToken Verifies provided ID token and if valid, extracts the UID from it.
func (c Client) AuthenticateToken(ctx context.Context, idToken string) (string, error) {
	client := firebase.FirebaseAuth
	token, err := client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}

	return token.UID, nil
}

//CreateUser Creates a new auth user with email/password credentials.
func (c Client) CreateUser(ctx context.Context, email string, password string, displayName string) (string, error) {
	client := firebase.FirebaseAuth

	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	rec, err := client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}

	return rec.UID, nil
}

//DeleteUser Deletes the auth user with given UID.
func (c Client) DeleteUser(ctx context.Context, uid string) error {
	client := firebase.FirebaseAuth
	return client.DeleteUser(ctx, uid)
}

//VerifyRole Authenticates the token, loads the caller's user document and checks the caller
//holds one of the allowed roles. Returns the caller UID and user document.
func VerifyRole(ctx context.Context, auther Auther, storeClient store.Storer, idToken string, allowedRoles ...string) (string, *structs.User, error) {
	uid, err := auther.AuthenticateToken(ctx, idToken)
	if err != nil {
		return "", nil, &errors.UnauthenticatedError{Msg: "Invalid or expired ID token"}
	}

	snap, err := storeClient.Doc(constants.CollectionUsers, uid).Get(ctx)
	if err != nil {
		return "", nil, &errors.UnauthenticatedError{Msg: fmt.Sprintf("No user record for caller %v", uid)}
	}

	var user structs.User
	if err := snap.DataTo(&user); err != nil {
		return "", nil, err
	}

	for _, role := range allowedRoles {
		if user.Role == role {
			return uid, &user, nil
		}
	}

	return "", nil, &errors.PermissionDeniedError{Msg: fmt.Sprintf("Role %v is not allowed to perform this action", user.Role)}
}

// MockClient mocks auth client functionality for unit tests
type MockClient struct {
	UID string
}

//AuthenticateToken Verifies provided token (but not, because it's a mock).
func (c MockClient) AuthenticateToken(ctx context.Context, idToken string) (string, error) {
	if c.UID == "" {
		return "mock-uid", nil
	}
	return c.UID, nil
}

//CreateUser Creates a new auth user (it's a mock!).
func (c MockClient) CreateUser(ctx context.Context, email string, password string, displayName string) (string, error) {
	return "mock-uid", nil
}

//DeleteUser Deletes the auth user (it's a mock!).
func (c MockClient) DeleteUser(ctx context.Context, uid string) error {
	return nil
}
