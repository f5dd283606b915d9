package http

import (
	"net/http"

	"community-board/internal/apperr"
	"community-board/internal/usecase"
	"community-board/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentUseCase usecase.CommentUseCase
	logger         *logger.Logger
}

func NewCommentHandler(commentUseCase usecase.CommentUseCase, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{commentUseCase: commentUseCase, logger: logger}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListComments godoc
// @Summary      Comments of a post, newest first
// @Tags         comments
// @Produce      json
// @Param        postId path int true "Post id"
// @Success      200  {object}  Envelope{data=[]CommentResponse}
// @Failure      404  {object}  Envelope
// @Router       /posts/{postId}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	comments, err := h.commentUseCase.List(c.Request.Context(), postID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := make([]CommentResponse, 0, len(comments))
	if err := copyTo(&resp, comments); err != nil {
		respondError(c, h.logger, apperr.Internal(err))
		return
	}
	respond(c, http.StatusOK, "COMMENTS_RETRIEVED", resp)
}

// CreateComment godoc
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post id"
// @Param        request body CommentRequest true "Comment"
// @Success      201  {object}  Envelope{data=CommentIDResponse}
// @Failure      400  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /posts/{postId}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req CommentRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	comment, err := h.commentUseCase.Create(c.Request.Context(), postID, req.Content, identityFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, "COMMENT_CREATED", CommentIDResponse{CommentID: comment.ID})
}

// UpdateComment godoc
// @Summary      Edit a comment (author only)
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post id"
// @Param        commentId path int true "Comment id"
// @Param        request body CommentRequest true "Comment"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /posts/{postId}/comments/{commentId} [patch]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	postID, commentID, err := commentParams(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req CommentRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.commentUseCase.Update(c.Request.Context(), postID, commentID, req.Content, identityFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "COMMENT_UPDATED", nil)
}

// DeleteComment godoc
// @Summary      Delete a comment (author only)
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post id"
// @Param        commentId path int true "Comment id"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /posts/{postId}/comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	postID, commentID, err := commentParams(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.commentUseCase.Delete(c.Request.Context(), postID, commentID, identityFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "COMMENT_DELETED", nil)
}

func commentParams(c *gin.Context) (uint, uint, error) {
	postID, err := idParam(c, "postId")
	if err != nil {
		return 0, 0, err
	}
	commentID, err := idParam(c, "commentId")
	if err != nil {
		return 0, 0, err
	}
	return postID, commentID, nil
}
