package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	tests := []struct {
		name           string
		postExists     bool
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "Success",
			postExists:     true,
			body:           map[string]string{"content": "nice one"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Empty content is accepted",
			postExists:     true,
			body:           map[string]string{"content": ""},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing post",
			postExists:     false,
			body:           map[string]string{"content": "orphan"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestServer()

			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				c.Locals("userID", uint(1))
				return c.Next()
			})
			app.Post("/posts/:id/comments", s.CreateComment)

			if tt.postExists {
				m.postRepo.On("GetByID", mock.Anything, uint(3), uint(0)).Return(&models.Post{ID: 3}, nil)
				m.commentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
				m.commentRepo.On("GetByID", mock.Anything, mock.Anything, uint(1)).Return(&models.Comment{ID: 1, PostID: 3, UserID: 1}, nil)
			} else {
				m.postRepo.On("GetByID", mock.Anything, uint(3), uint(0)).Return(nil, models.NewNotFoundError("Post", uint(3)))
			}

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/posts/3/comments", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestGetComments_PostScoped(t *testing.T) {
	s, m := newTestServer()

	app := fiber.New()
	app.Get("/posts/:id/comments", s.GetComments)

	m.commentRepo.On("ListByPost", mock.Anything, uint(2), 50, 0, uint(0)).Return([]*models.Comment{
		{ID: 5, PostID: 2},
		{ID: 4, PostID: 2},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/posts/2/comments", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var comments []models.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
	assert.Len(t, comments, 2)
}

func TestGetComments_UnknownPostIsEmptyPage(t *testing.T) {
	s, m := newTestServer()

	app := fiber.New()
	app.Get("/posts/:id/comments", s.GetComments)

	m.commentRepo.On("ListByPost", mock.Anything, uint(9), 50, 0, uint(0)).Return([]*models.Comment{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/posts/9/comments", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var comments []models.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
	assert.Empty(t, comments)
}

func TestGetAllComments_FlatListing(t *testing.T) {
	s, m := newTestServer()

	app := fiber.New()
	app.Get("/comments", s.GetAllComments)

	m.commentRepo.On("ListAll", mock.Anything, 50, 0, uint(0)).Return([]*models.Comment{
		{ID: 8, PostID: 2},
		{ID: 7, PostID: 5},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/comments", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var comments []models.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
	require.Len(t, comments, 2)
	assert.NotEqual(t, comments[0].PostID, comments[1].PostID,
		"the flat listing spans posts")
}

func TestUpdateComment_NonOwnerForbidden(t *testing.T) {
	s, m := newTestServer()

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(2))
		return c.Next()
	})
	app.Put("/comments/:id", s.UpdateComment)

	m.commentRepo.On("GetByID", mock.Anything, uint(1), uint(2)).Return(&models.Comment{ID: 1, UserID: 9}, nil)

	body, _ := json.Marshal(map[string]string{"content": "edited"})
	req := httptest.NewRequest(http.MethodPut, "/comments/1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	m.commentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLikeComment_Anonymous(t *testing.T) {
	s, m := newTestServer()

	app := fiber.New()
	app.Post("/comments/:id/like", s.LikeComment)

	m.commentRepo.On("GetByID", mock.Anything, uint(4), uint(0)).Return(&models.Comment{ID: 4}, nil)

	req := httptest.NewRequest(http.MethodPost, "/comments/4/like", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		AnonymousLike bool `json:"anonymous_like"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload.AnonymousLike)
	m.commentRepo.AssertNotCalled(t, "Like", mock.Anything, mock.Anything, mock.Anything)
}
