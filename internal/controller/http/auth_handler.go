package http

import (
	"net/http"

	"community-board/internal/usecase"
	"community-board/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase   usecase.AuthUseCase
	authenticator *Authenticator
	logger        *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, authenticator *Authenticator, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase:   authUseCase,
		authenticator: authenticator,
		logger:        logger,
	}
}

type SignupRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=20"`
	Nickname        string `json:"nickname" binding:"required,min=2,max=10"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup godoc
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup data"
// @Success      201  {object}  Envelope
// @Failure      400  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	_, err := h.authUseCase.Signup(c.Request.Context(), usecase.SignupInput{
		Email:           req.Email,
		Password:        req.Password,
		Nickname:        req.Nickname,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "SIGNUP_SUCCESS", nil)
}

// Login godoc
// @Summary      Log in
// @Description  Returns the bearer token in token mode; sets the session cookie in session mode.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  Envelope{data=LoginResponse}
// @Failure      400  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, credential, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.authenticator.issue(c, credential)

	resp := LoginResponse{User: LoginUser{ID: user.ID, Email: user.Email, Nickname: user.Nickname}}
	if !h.authenticator.transport.sessionMode() {
		resp.User.AuthToken = credential
	}
	respond(c, http.StatusOK, "LOGIN_SUCCESS", resp)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=UserResponse}
// @Failure      401  {object}  Envelope
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	var resp UserResponse
	if err := copyTo(&resp, currentUser(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "AUTH_SUCCESS", resp)
}

// Logout godoc
// @Summary      Log out
// @Description  Deletes the server-side session in session mode. Tokens simply expire.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /auth/session [delete]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUseCase.Logout(c.Request.Context(), h.authenticator.credential(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.authenticator.clear(c)
	respond(c, http.StatusOK, "SESSION_DELETED", nil)
}

// CheckEmail godoc
// @Summary      Email availability
// @Tags         auth
// @Produce      json
// @Param        email query string true "Email"
// @Success      200  {object}  Envelope
// @Failure      400  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Router       /auth/emails/availability [get]
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	if err := h.authUseCase.CheckEmail(c.Request.Context(), c.Query("email")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "EMAIL_AVAILABLE", nil)
}

// CheckNickname godoc
// @Summary      Nickname availability
// @Tags         auth
// @Produce      json
// @Param        nickname query string true "Nickname"
// @Success      200  {object}  Envelope
// @Failure      400  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Router       /auth/nicknames/availability [get]
func (h *AuthHandler) CheckNickname(c *gin.Context) {
	if err := h.authUseCase.CheckNickname(c.Request.Context(), c.Query("nickname")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "NICKNAME_AVAILABLE", nil)
}
