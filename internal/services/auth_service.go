package services

import (
	"errors"

	"okeanmarket/internal/domain"
	"okeanmarket/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid login or password")

// AuthService handles staff (courier/admin) credential login and session
// binding. Shoppers never log in: their Telegram id is display identity only.
type AuthService struct {
	Staff *repos.StaffRepo
}

func (s *AuthService) Login(sid, login, password string) (*domain.StaffUser, error) {
	u, err := s.Staff.ByLogin(login)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Staff.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Staff.UnbindSession(sid)
}

func (s *AuthService) CurrentStaff(sid string) (*domain.StaffUser, error) {
	return s.Staff.SessionStaff(sid)
}
