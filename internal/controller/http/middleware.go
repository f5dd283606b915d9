package http

import (
	"net/http"
	"strings"
	"time"

	"community-board/internal/apperr"
	"community-board/internal/entity"
	"community-board/internal/usecase"
	"community-board/pkg/config"
	"community-board/pkg/logger"
	"community-board/pkg/middleware"

	"github.com/gin-gonic/gin"
)

const (
	identityKey    = "identity"
	currentUserKey = "current_user"
)

// CredentialTransport says where the credential travels: the Authorization header in token
// mode, a cookie in session mode.
type CredentialTransport struct {
	Mode         string
	CookieName   string
	CookieMaxAge time.Duration
	SecureCookie bool
}

func (t CredentialTransport) sessionMode() bool {
	return t.Mode == config.AuthModeSession
}

type Authenticator struct {
	authUseCase usecase.AuthUseCase
	transport   CredentialTransport
	logger      *logger.Logger
}

func NewAuthenticator(authUseCase usecase.AuthUseCase, transport CredentialTransport, logger *logger.Logger) *Authenticator {
	return &Authenticator{authUseCase: authUseCase, transport: transport, logger: logger}
}

func (a *Authenticator) credential(c *gin.Context) string {
	if a.transport.sessionMode() {
		sid, err := c.Cookie(a.transport.CookieName)
		if err != nil {
			return ""
		}
		return sid
	}

	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (a *Authenticator) resolve(c *gin.Context) error {
	credential := a.credential(c)
	if credential == "" {
		return apperr.ErrUnauthorized
	}

	user, err := a.authUseCase.CurrentUser(c.Request.Context(), credential)
	if err != nil {
		return err
	}

	c.Set(identityKey, entity.NewIdentity(user))
	c.Set(currentUserKey, user)
	c.Set(middleware.IdentityKey, user.ID)
	return nil
}

// RequireAuth rejects requests without a valid credential.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.resolve(c); err != nil {
			respondError(c, a.logger, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid credential is present and otherwise lets the
// request through anonymously.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.resolve(c); err != nil && apperr.From(err).Kind == apperr.KindInternal {
			respondError(c, a.logger, err)
			return
		}
		c.Next()
	}
}

// issue hands the credential to the client; in token mode it travels in the response body.
func (a *Authenticator) issue(c *gin.Context, credential string) {
	if !a.transport.sessionMode() {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.transport.CookieName, credential, int(a.transport.CookieMaxAge.Seconds()), "/", "", a.transport.SecureCookie, true)
}

func (a *Authenticator) clear(c *gin.Context) {
	if !a.transport.sessionMode() {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.transport.CookieName, "", -1, "/", "", a.transport.SecureCookie, true)
}

func identityFrom(c *gin.Context) entity.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(entity.Identity); ok {
			return id
		}
	}
	return entity.Identity{}
}

func currentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}
