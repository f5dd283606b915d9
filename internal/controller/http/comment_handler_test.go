package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"community-board/internal/apperr"
	"community-board/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListComments_Public(t *testing.T) {
	s := newTestServer(t, tokenTransport)
	at := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	s.comments.On("List", mock.Anything, uint(3)).Return([]*entity.Comment{{
		ID:        21,
		PostID:    3,
		UserID:    7,
		Content:   "first",
		Author:    entity.Author{ID: 7, Nickname: "alice"},
		CreatedAt: at,
		UpdatedAt: at,
	}}, nil)

	w := s.do("GET", "/v1/posts/3/comments", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "COMMENTS_RETRIEVED", env.Code)

	var items []CommentResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, uint(21), items[0].ID)
	assert.Equal(t, uint(3), items[0].PostID)
	assert.Equal(t, "alice", items[0].Author.Nickname)
	assert.True(t, items[0].CreatedAt.Equal(at))
}

func TestListComments_MissingPost(t *testing.T) {
	s := newTestServer(t, tokenTransport)
	s.comments.On("List", mock.Anything, uint(9)).Return(nil, apperr.ErrPostNotFound)

	w := s.do("GET", "/v1/posts/9/comments", nil, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "POST_NOT_FOUND", decode(t, w).Code)
}

func TestCreateComment(t *testing.T) {
	s := newTestServer(t, tokenTransport)
	author := s.signedIn(alice())
	s.comments.On("Create", mock.Anything, uint(3), "nice", author).Return(&entity.Comment{ID: 22}, nil)

	w := s.do("POST", "/v1/posts/3/comments", map[string]string{"content": "nice"}, testToken)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.Equal(t, "COMMENT_CREATED", env.Code)
	assert.JSONEq(t, `{"commentId":22}`, string(env.Data))
}

func TestCreateComment_EmptyContent(t *testing.T) {
	s := newTestServer(t, tokenTransport)
	s.signedIn(alice())

	w := s.do("POST", "/v1/posts/3/comments", map[string]string{"content": ""}, testToken)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrorsOf(t, decode(t, w)), "content")
}

func TestUpdateComment(t *testing.T) {
	s := newTestServer(t, tokenTransport)
	requester := s.signedIn(alice())
	s.comments.On("Update", mock.Anything, uint(3), uint(22), "edited", requester).Return(nil)

	w := s.do("PATCH", "/v1/posts/3/comments/22", map[string]string{"content": "edited"}, testToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "COMMENT_UPDATED", decode(t, w).Code)
}

func TestUpdateComment_BadCommentID(t *testing.T) {
	s := newTestServer(t, tokenTransport)
	s.signedIn(alice())

	w := s.do("PATCH", "/v1/posts/3/comments/x", map[string]string{"content": "edited"}, testToken)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrorsOf(t, decode(t, w)), "commentId")
}

func TestDeleteComment_NotAuthor(t *testing.T) {
	s := newTestServer(t, tokenTransport)
	requester := s.signedIn(alice())
	s.comments.On("Delete", mock.Anything, uint(3), uint(22), requester).Return(apperr.ErrForbidden)

	w := s.do("DELETE", "/v1/posts/3/comments/22", nil, testToken)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w).Code)
}

func TestDeleteComment(t *testing.T) {
	s := newTestServer(t, tokenTransport)
	requester := s.signedIn(alice())
	s.comments.On("Delete", mock.Anything, uint(3), uint(22), requester).Return(nil)

	w := s.do("DELETE", "/v1/posts/3/comments/22", nil, testToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "COMMENT_DELETED", decode(t, w).Code)
}
