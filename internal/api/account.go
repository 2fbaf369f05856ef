package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/learning"
)

type NewAccount struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	IsStaff   bool
}

// CreateAccount stores a user and its profile together. It is shared by
// signup and the createadmin command.
func CreateAccount(ctx context.Context, store learning.Store, acct NewAccount) (database.User, error) {
	taken, err := store.UsernameExists(ctx, acct.Username)
	if err != nil {
		return database.User{}, err
	}
	if taken {
		return database.User{}, apierrors.Conflictf("Username already exists!")
	}
	taken, err = store.EmailExists(ctx, acct.Email)
	if err != nil {
		return database.User{}, err
	}
	if taken {
		return database.User{}, apierrors.Conflictf("Email already exists!")
	}

	hash, err := auth.HashPassword(acct.Password)
	if err != nil {
		return database.User{}, err
	}

	var user database.User
	err = store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		user, err = q.CreateUser(ctx, database.CreateUserParams{
			Username:     acct.Username,
			Email:        acct.Email,
			PasswordHash: hash,
			FirstName:    acct.FirstName,
			LastName:     acct.LastName,
			IsStaff:      acct.IsStaff,
		})
		if err != nil {
			if errors.Is(database.Normalize(err), database.ErrConflict) {
				return apierrors.Conflictf("Username or email already exists!")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		_, err = q.CreateProfile(ctx, database.CreateProfileParams{UserID: user.ID, Role: acct.Role})
		return err
	})
	return user, err
}
