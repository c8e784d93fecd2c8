package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/models"
)

func TestSaveAndListSaved(t *testing.T) {
	router, _ := newTestRouter(t)
	author := registerUser(t, router, "author")
	reader := registerUser(t, router, "reader")
	postID := createPost(t, router, author, "worth saving")
	createPost(t, router, author, "not saved")

	w, _ := doJSON(t, router, http.MethodPost, pathf("/api/v1/posts/%d/save", postID), reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// saving twice changes nothing
	w, _ = doJSON(t, router, http.MethodPost, pathf("/api/v1/posts/%d/save", postID), reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/posts/saved", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Items []models.Post `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Items, 1)
	assert.Equal(t, postID, data.Items[0].ID)
}

func TestRemoveSaved(t *testing.T) {
	router, _ := newTestRouter(t)
	author := registerUser(t, router, "author")
	reader := registerUser(t, router, "reader")
	postID := createPost(t, router, author, "fleeting")

	w, _ := doJSON(t, router, http.MethodPost, pathf("/api/v1/posts/%d/save", postID), reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodDelete, pathf("/api/v1/posts/%d/save", postID), reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// removing again is a no-op
	w, _ = doJSON(t, router, http.MethodDelete, pathf("/api/v1/posts/%d/save", postID), reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env := doJSON(t, router, http.MethodGet, "/api/v1/posts/saved", reader, nil)
	var data struct {
		Items []models.Post `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Items)
}

func TestSaveUnknownPost(t *testing.T) {
	router, _ := newTestRouter(t)
	reader := registerUser(t, router, "reader")

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/posts/9999/save", reader, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSavedRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/posts/saved", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
