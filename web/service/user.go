package service

import (
	"fmt"
	"strings"

	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/util/crypto"
	"github.com/techinsight/blog/web/entity"
)

type UserService struct{}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ProfileForm is the editable part of a profile.
type ProfileForm struct {
	Email  string `form:"email"`
	Bio    string `form:"bio"`
	Avatar string `form:"avatar"`
}

func (s *UserService) GetUsers() ([]model.User, error) {
	return loadUsers()
}

func (s *UserService) GetUser(id int) (*model.User, error) {
	users, err := loadUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Id == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
}

// GetFirstAdmin returns the admin with the lowest id.
func (s *UserService) GetFirstAdmin() (*model.User, error) {
	users, err := loadUsers()
	if err != nil {
		return nil, err
	}
	var first *model.User
	for i := range users {
		if users[i].IsAdmin && (first == nil || users[i].Id < first.Id) {
			first = &users[i]
		}
	}
	if first == nil {
		return nil, fmt.Errorf("admin: %w", ErrNotFound)
	}
	return first, nil
}

// CheckUser verifies the credentials of an account of the given role and
// records the login time. It returns nil when they do not match.
func (s *UserService) CheckUser(username, password string, role entity.Role) *model.User {
	var users []model.User
	var found *model.User
	err := database.GetStore().Update(database.Users, &users, func() error {
		for i := range users {
			u := &users[i]
			if u.Username != username || u.IsAdmin != (role == entity.RoleAdmin) {
				continue
			}
			if !crypto.CheckPasswordHash(u.Password, password) {
				return database.ErrUnchanged
			}
			loginAt := model.FormatTime(now())
			u.LastLogin = &loginAt
			found = u
			return nil
		}
		return database.ErrUnchanged
	})
	if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}
	if found == nil {
		return nil
	}
	user := *found
	return &user
}

// Register creates a regular account. Username and email must be unused.
func (s *UserService) Register(form RegisterForm) (*model.User, error) {
	username := strings.TrimSpace(form.Username)
	email := strings.TrimSpace(form.Email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("username and email are required: %w", ErrInvalidInput)
	}
	hash, err := crypto.HashPasswordAsBcrypt(form.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var users []model.User
	var created model.User
	err = database.GetStore().Update(database.Users, &users, func() error {
		for _, u := range users {
			if u.Username == username {
				return fmt.Errorf("username %q: %w", username, ErrDuplicate)
			}
			if strings.EqualFold(u.Email, email) {
				return fmt.Errorf("email %q: %w", email, ErrDuplicate)
			}
		}
		created = model.User{
			Id:        nextId(users, func(u *model.User) int { return u.Id }),
			Username:  username,
			Email:     email,
			Password:  hash,
			Avatar:    model.UserAvatar,
			CreatedAt: model.FormatTime(now()),
		}
		users = append(users, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("registered user %q", username)
	return &created, nil
}

// UpdateProfile changes the email, bio and avatar of account id. The email
// may not belong to another account.
func (s *UserService) UpdateProfile(id int, form ProfileForm) error {
	email := strings.TrimSpace(form.Email)
	var users []model.User
	return database.GetStore().Update(database.Users, &users, func() error {
		var target *model.User
		for i := range users {
			if users[i].Id == id {
				target = &users[i]
				continue
			}
			if email != "" && strings.EqualFold(users[i].Email, email) {
				return fmt.Errorf("email %q: %w", email, ErrDuplicate)
			}
		}
		if target == nil {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		if email != "" {
			target.Email = email
		}
		target.Bio = strings.TrimSpace(form.Bio)
		if avatar := strings.TrimSpace(form.Avatar); avatar != "" {
			target.Avatar = avatar
		}
		return nil
	})
}

// ResetAdmin sets the credentials of the first admin, creating one when none exists.
func (s *UserService) ResetAdmin(username, password string) error {
	if username == "" {
		return fmt.Errorf("username can not be empty: %w", ErrInvalidInput)
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var users []model.User
	return database.GetStore().Update(database.Users, &users, func() error {
		var admin *model.User
		for i := range users {
			u := &users[i]
			if u.Username == username && !u.IsAdmin {
				return fmt.Errorf("username %q belongs to a user: %w", username, ErrDuplicate)
			}
			if u.IsAdmin && (admin == nil || u.Id < admin.Id) {
				admin = u
			}
		}
		if admin == nil {
			users = append(users, model.User{
				Id:        nextId(users, func(u *model.User) int { return u.Id }),
				IsAdmin:   true,
				Bio:       model.AdminBio,
				Avatar:    model.AdminAvatar,
				CreatedAt: model.FormatTime(now()),
			})
			admin = &users[len(users)-1]
		}
		admin.Username = username
		admin.Password = hash
		return nil
	})
}
