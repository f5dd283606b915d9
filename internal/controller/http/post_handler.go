package http

import (
	"net/http"

	"community-board/internal/apperr"
	"community-board/internal/entity"
	"community-board/internal/usecase"
	"community-board/pkg/logger"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 10

type PostHandler struct {
	postUseCase usecase.PostUseCase
	maxUpload   int64
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, maxUpload int64, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		maxUpload:   maxUpload,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

type UpdatePostRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=255"`
	Content  *string `json:"content" binding:"omitempty,min=1"`
	ImageURL *string `json:"imageUrl"`
}

// ListPosts godoc
// @Summary      List posts, newest first
// @Tags         posts
// @Produce      json
// @Param        page query int false "Page, from 1" default(1)
// @Param        size query int false "Page size" default(10)
// @Success      200  {object}  Envelope{data=[]PostResponse}
// @Failure      400  {object}  Envelope
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	size, err := queryInt(c, "size", defaultPageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	posts, err := h.postUseCase.List(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := make([]PostResponse, 0, len(posts))
	if err := copyTo(&resp, posts); err != nil {
		respondError(c, h.logger, apperr.Internal(err))
		return
	}
	respond(c, http.StatusOK, "posts_retrieved", resp)
}

// GetPost godoc
// @Summary      Post detail
// @Description  An authenticated caller's first visit counts as a view.
// @Tags         posts
// @Produce      json
// @Param        postId path int true "Post id"
// @Success      200  {object}  Envelope{data=PostResponse}
// @Failure      404  {object}  Envelope
// @Router       /posts/{postId} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	post, err := h.postUseCase.Get(c.Request.Context(), postID, identityFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var resp PostResponse
	if err := copyTo(&resp, post); err != nil {
		respondError(c, h.logger, apperr.Internal(err))
		return
	}
	respond(c, http.StatusOK, "post_retrieved", resp)
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Post"
// @Success      201  {object}  Envelope{data=PostIDResponse}
// @Failure      400  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	post, err := h.postUseCase.Create(c.Request.Context(), usecase.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}, identityFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, "post_success", PostIDResponse{PostID: post.ID})
}

// UpdatePost godoc
// @Summary      Edit a post (author only)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post id"
// @Param        request body UpdatePostRequest true "Fields to change"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /posts/{postId} [patch]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req UpdatePostRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	err = h.postUseCase.Update(c.Request.Context(), postID, entity.PostUpdate{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}, identityFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "POST_UPDATED", nil)
}

// DeletePost godoc
// @Summary      Delete a post with its comments and likes (author only)
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post id"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /posts/{postId} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.postUseCase.Delete(c.Request.Context(), postID, identityFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "POST_DELETED", nil)
}

// LikePost godoc
// @Summary      Like a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post id"
// @Success      201  {object}  Envelope{data=LikeCountResponse}
// @Failure      404  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Router       /posts/{postId}/likes [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	likeCount, err := h.postUseCase.Like(c.Request.Context(), postID, identityFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, "POST_LIKE_CREATED", LikeCountResponse{LikeCount: likeCount})
}

// UnlikePost godoc
// @Summary      Remove a like
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post id"
// @Success      200  {object}  Envelope{data=LikeCountResponse}
// @Failure      404  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Router       /posts/{postId}/likes [delete]
func (h *PostHandler) UnlikePost(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	likeCount, err := h.postUseCase.Unlike(c.Request.Context(), postID, identityFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "POST_LIKE_DELETED", LikeCountResponse{LikeCount: likeCount})
}

// UploadPostImage godoc
// @Summary      Upload a post image (jpg, jpeg, png)
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image file"
// @Success      201  {object}  Envelope{data=PostFileResponse}
// @Failure      400  {object}  Envelope
// @Failure      413  {object}  Envelope
// @Router       /posts/images [post]
func (h *PostHandler) UploadPostImage(c *gin.Context) {
	file, closeFile, err := formUpload(c, h.maxUpload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer closeFile()

	url, err := h.postUseCase.UploadImage(c.Request.Context(), file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, "POST_FILE_UPLOADED", PostFileResponse{PostFileURL: url})
}
