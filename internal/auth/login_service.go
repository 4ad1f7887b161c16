package auth

import (
	"errors"

	"github.com/mikann/photo-gallery/database/models"
	"github.com/mikann/photo-gallery/database/repo/users"
	"github.com/mikann/photo-gallery/utils/crypto"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username is already taken")
)

// LoginService validates credentials and registers new accounts.
type LoginService struct {
	users *users.Repository
}

func NewLoginService(usersRepo *users.Repository) *LoginService {
	return &LoginService{users: usersRepo}
}

// Login checks the username/password pair. With create set, an unknown
// username is registered instead; a known one is rejected.
func (s *LoginService) Login(username, password string, create bool) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	switch {
	case err == nil:
		if create {
			return nil, ErrUsernameTaken
		}
		match, err := crypto.ComparePasswordAndHash(password, user.Password)
		if err != nil || !match {
			return nil, ErrInvalidCredentials
		}
		return user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if !create {
			return nil, ErrInvalidCredentials
		}
		return s.register(username, password)
	default:
		return nil, err
	}
}

func (s *LoginService) register(username, password string) (*models.User, error) {
	hash, err := crypto.GenerateFromPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, Password: hash}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
