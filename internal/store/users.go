package store

import (
	"agririsk-back/internal/models"
)

func (s *Store) CreateUser(user *models.User) error {
	return translate(s.db.Create(user).Error, "create user")
}

func (s *Store) UserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, translate(err, "find user by email")
	}
	return &user, nil
}

func (s *Store) UserByToken(token string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("auth_token = ?", token).Take(&user).Error; err != nil {
		return nil, translate(err, "find user by token")
	}
	return &user, nil
}

// SetToken replaces the user's token; nil clears it.
func (s *Store) SetToken(userID uint, token *string) error {
	err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("auth_token", token).Error
	return translate(err, "set user token")
}

func (s *Store) SetPassword(userID uint, hash string) error {
	err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("hashed_password", hash).Error
	return translate(err, "set user password")
}
