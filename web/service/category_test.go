package service

import (
	"testing"

	"github.com/techinsight/blog/database/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Web Development":           "web-development",
		"  AI & Machine  Learning ": "ai-machine-learning",
		"Go 1.25":                   "go-1-25",
		"Ünïcode Café":              "ünïcode-café",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Slugify(in))
		})
	}
	_, err := uuid.Parse(Slugify("!!!"))
	assert.NoError(t, err)
}

func TestAddCategory(t *testing.T) {
	setup(t)
	var s CategoryService

	created, err := s.AddCategory(CategoryForm{Name: "Cloud Native", Description: "k8s"})
	require.NoError(t, err)
	assert.Equal(t, 7, created.Id)
	assert.Equal(t, "cloud-native", created.Slug)

	again, err := s.AddCategory(CategoryForm{Name: "cloud native"})
	require.NoError(t, err)
	assert.Equal(t, "cloud-native-2", again.Slug)

	_, err = s.AddCategory(CategoryForm{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	categories, err := s.GetCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 8)
}

func TestDeleteCategoryKeepsPosts(t *testing.T) {
	setup(t)
	savePosts(t, model.Post{Id: 1, Title: "Tech", Category: "technology"})
	var s CategoryService

	require.NoError(t, s.DeleteCategory(1))
	assert.ErrorIs(t, s.DeleteCategory(1), ErrNotFound)

	categories, err := s.GetCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 5)

	var ps PostService
	post, err := ps.GetPost(1)
	require.NoError(t, err)
	assert.Equal(t, "technology", post.Category)
}
