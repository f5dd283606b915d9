package http

import (
	"net/http"

	"community-board/internal/apperr"
	"community-board/internal/entity"
	"community-board/internal/usecase"
	"community-board/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUseCase   usecase.UserUseCase
	authenticator *Authenticator
	maxUpload     int64
	logger        *logger.Logger
}

func NewUserHandler(userUseCase usecase.UserUseCase, authenticator *Authenticator, maxUpload int64, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userUseCase:   userUseCase,
		authenticator: authenticator,
		maxUpload:     maxUpload,
		logger:        logger,
	}
}

type UpdateUserRequest struct {
	Nickname        *string `json:"nickname" binding:"omitempty,min=2,max=10"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

type UpdatePasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8,max=20"`
	CurrentPassword string `json:"currentPassword"`
}

// targetUser resolves the :userId segment, where "me" is the caller.
func targetUser(c *gin.Context) (uint, entity.Identity, error) {
	requester := identityFrom(c)
	if c.Param("userId") == "me" {
		return requester.UserID(), requester, nil
	}
	id, err := idParam(c, "userId")
	return id, requester, err
}

func (h *UserHandler) userResponse(c *gin.Context, code string, user *entity.User) {
	var resp UserResponse
	if err := copyTo(&resp, user); err != nil {
		respondError(c, h.logger, apperr.Internal(err))
		return
	}
	respond(c, http.StatusOK, code, resp)
}

// GetUser godoc
// @Summary      Get a user profile (owner only)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "User id or me"
// @Success      200  {object}  Envelope{data=UserResponse}
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /users/{userId} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, requester, err := targetUser(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), userID, requester)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.userResponse(c, "USER_RETRIEVED", user)
}

// UpdateUser godoc
// @Summary      Update nickname or profile image URL
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "User id or me"
// @Param        request body UpdateUserRequest true "Fields to change"
// @Success      200  {object}  Envelope{data=UserResponse}
// @Failure      400  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Router       /users/{userId} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, requester, err := targetUser(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, err := h.userUseCase.Update(c.Request.Context(), userID, entity.UserUpdate{
		Nickname:        req.Nickname,
		ProfileImageURL: req.ProfileImageURL,
	}, requester)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.userResponse(c, "USER_UPDATED", user)
}

// UpdatePassword godoc
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "User id or me"
// @Param        request body UpdatePasswordRequest true "New password"
// @Success      200  {object}  Envelope
// @Failure      400  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Router       /users/{userId}/password [patch]
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	userID, requester, err := targetUser(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req UpdatePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	err = h.userUseCase.UpdatePassword(c.Request.Context(), userID, usecase.PasswordChange{
		NewPassword:     req.Password,
		CurrentPassword: req.CurrentPassword,
	}, requester)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "USER_PASSWORD_UPDATED", nil)
}

// DeleteUser godoc
// @Summary      Delete the account with its posts and comments
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "User id or me"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /users/{userId} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, requester, err := targetUser(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), userID, requester); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.authenticator.clear(c)
	respond(c, http.StatusOK, "USER_DELETED", nil)
}

// UploadProfileImage godoc
// @Summary      Upload a profile image (jpg, jpeg, png)
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "User id or me"
// @Param        file formData file true "Image file"
// @Success      201  {object}  Envelope{data=ProfileImageResponse}
// @Failure      400  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      413  {object}  Envelope
// @Router       /users/{userId}/profile-image [post]
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	userID, requester, err := targetUser(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	file, closeFile, err := formUpload(c, h.maxUpload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer closeFile()

	url, err := h.userUseCase.UploadProfileImage(c.Request.Context(), userID, file, requester)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, "USER_PROFILE_IMAGE_UPLOADED", ProfileImageResponse{ProfileImageURL: url})
}
