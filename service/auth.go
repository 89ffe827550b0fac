package service

import (
	"errors"
	"time"

	dmn "github.com/forest-guardian/forest-guardian-api/domain"
	"github.com/forest-guardian/forest-guardian-api/service/i"
	"github.com/google/uuid"
)

const tokenLifetime = 24 * time.Hour

// Auth implements operator registration and sign-in on top of the user
// repository and the token service.
type Auth struct {
	userRepo  i.UserRepo
	tokenizer i.Tokenizer
}

// NewAuth wires an Auth service.
func NewAuth(userRepo i.UserRepo, tokenizer i.Tokenizer) *Auth {
	return &Auth{
		userRepo:  userRepo,
		tokenizer: tokenizer,
	}
}

// Register creates a new operator account.
func (a *Auth) Register(username, password string) error {
	userConfig := dmn.UserConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
	}

	user, err := dmn.NewUser(userConfig)
	if err != nil {
		return err
	}

	return a.userRepo.Save(user)
}

// SignIn verifies credentials and issues a bearer token.
func (a *Auth) SignIn(username, password string) (*dmn.User, string, error) {
	user, err := a.userRepo.ByUsername(username)
	if err != nil {
		return nil, "", errors.New("invalid username or password")
	}

	if !user.VerifyPassword(password) {
		return nil, "", errors.New("invalid username or password")
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		"userID":   user.ID,
		"username": user.Username,
	}, tokenLifetime)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
