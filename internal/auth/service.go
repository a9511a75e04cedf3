package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/store"
)

// Service registers accounts and exchanges credentials for tokens.
type Service struct {
	store  *store.Store
	issuer *Issuer
}

func NewService(st *store.Store, issuer *Issuer) *Service {
	return &Service{store: st, issuer: issuer}
}

// Register validates the payload, rejects a taken email or username before
// writing, and stores the account with a hashed password.
func (s *Service) Register(ctx context.Context, reg catalog.Registration) (catalog.User, error) {
	reg.Normalize()
	if err := reg.Validate(); err != nil {
		return catalog.User{}, err
	}

	var taken []goerrors.FieldError
	emailTaken, err := s.store.EmailTaken(ctx, reg.Email)
	if err != nil {
		return catalog.User{}, err
	}
	if emailTaken {
		taken = append(taken, goerrors.FieldError{Field: "email", Message: "email already exists"})
	}
	usernameTaken, err := s.store.UsernameTaken(ctx, reg.Username)
	if err != nil {
		return catalog.User{}, err
	}
	if usernameTaken {
		taken = append(taken, goerrors.FieldError{Field: "username", Message: "username already exists"})
	}
	if len(taken) > 0 {
		return catalog.User{}, goerrors.NewValidation("invalid registration", taken...).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(catalog.TextCodeValidation)
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		return catalog.User{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password").
			WithCode(goerrors.CodeInternal)
	}

	return s.store.Users.Create(ctx, catalog.User{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
	})
}

// Login checks credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, creds catalog.Credentials) (TokenPair, error) {
	if err := creds.Validate(); err != nil {
		return TokenPair{}, err
	}

	user, err := s.store.UserByUsername(ctx, creds.Username)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return TokenPair{}, Unauthorized("no active account found with the given credentials")
		}
		return TokenPair{}, err
	}
	if !CheckPassword(user.PasswordHash, creds.Password) {
		return TokenPair{}, Unauthorized("no active account found with the given credentials")
	}
	return s.issuer.Issue(user.ID)
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(refreshToken string) (string, error) {
	return s.issuer.Refresh(refreshToken)
}
