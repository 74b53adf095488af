package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/logger"

	"github.com/google/uuid"
)

type CategoryService struct{}

// CategoryForm is the add-category form of the admin pages.
type CategoryForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
}

// Slugify lower-cases value and joins its runs of letters and digits with dashes.
func Slugify(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	lastDash := false
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return uuid.NewString()
	}
	return slug
}

func (s *CategoryService) GetCategories() ([]model.Category, error) {
	return loadCategories()
}

// AddCategory stores a category whose slug is derived from its name,
// suffixed with a counter when taken.
func (s *CategoryService) AddCategory(form CategoryForm) (*model.Category, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrInvalidInput)
	}

	var categories []model.Category
	var created model.Category
	err := database.GetStore().Update(database.Categories, &categories, func() error {
		taken := make(map[string]bool, len(categories))
		for _, c := range categories {
			taken[c.Slug] = true
		}
		base := Slugify(name)
		slug := base
		for counter := 2; taken[slug]; counter++ {
			slug = base + "-" + strconv.Itoa(counter)
		}
		created = model.Category{
			Id:          nextId(categories, func(c *model.Category) int { return c.Id }),
			Name:        name,
			Slug:        slug,
			Description: strings.TrimSpace(form.Description),
		}
		categories = append(categories, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteCategory removes category id. Posts keep referencing its slug.
func (s *CategoryService) DeleteCategory(id int) error {
	var categories []model.Category
	err := database.GetStore().Update(database.Categories, &categories, func() error {
		for i, c := range categories {
			if c.Id == id {
				categories = append(categories[:i], categories[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	})
	if err == nil {
		logger.Infof("category %d deleted", id)
	}
	return err
}

// categoryNames maps slugs to display names.
func categoryNames(categories []model.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.Slug] = c.Name
	}
	return names
}
