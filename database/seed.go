package database

import (
	"time"

	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/util/crypto"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminEmail    = "admin@techinsight.pro"
	defaultAdminPassword = "admin123"
)

var defaultCategories = []model.Category{
	{Id: 1, Name: "Technology", Slug: "technology", Description: "Latest tech trends and innovations"},
	{Id: 2, Name: "Business", Slug: "business", Description: "Business insights and strategies"},
	{Id: 3, Name: "AI & Machine Learning", Slug: "ai-ml", Description: "Artificial Intelligence and ML topics"},
	{Id: 4, Name: "Web Development", Slug: "web-dev", Description: "Web development tutorials and tips"},
	{Id: 5, Name: "Data Science", Slug: "data-science", Description: "Data analysis and visualization"},
	{Id: 6, Name: "Cybersecurity", Slug: "cybersecurity", Description: "Security best practices and news"},
}

// initAdmin creates the default administrator when no admin account exists.
func initAdmin(s *Store) error {
	var users []model.User
	return s.Update(Users, &users, func() error {
		maxId := 0
		for _, u := range users {
			if u.IsAdmin {
				return ErrUnchanged
			}
			maxId = max(maxId, u.Id)
		}
		hash, err := crypto.HashPasswordAsBcrypt(defaultAdminPassword)
		if err != nil {
			return err
		}
		users = append(users, model.User{
			Id:        maxId + 1,
			Username:  defaultAdminUsername,
			Email:     defaultAdminEmail,
			Password:  hash,
			IsAdmin:   true,
			Bio:       model.AdminBio,
			Avatar:    model.AdminAvatar,
			CreatedAt: model.FormatTime(time.Now()),
		})
		logger.Infof("created default admin %q", defaultAdminUsername)
		return nil
	})
}

// initCategories seeds the category document when it is empty.
func initCategories(s *Store) error {
	var categories []model.Category
	if err := s.Load(Categories, &categories); err != nil {
		return err
	}
	if len(categories) > 0 {
		return nil
	}
	return s.Save(Categories, defaultCategories)
}
