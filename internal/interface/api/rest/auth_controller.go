package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"minidrive-api/internal/application/ports"
	"minidrive-api/internal/application/services"
	domain "minidrive-api/internal/domain/user"
	userDB "minidrive-api/internal/infrastructure/db/postgres/user"
	"minidrive-api/internal/interface/api/rest/dto/auth"
	"minidrive-api/internal/interface/api/rest/dto/user"
	"minidrive-api/internal/interface/api/rest/middleware"
	"minidrive-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger       *zap.Logger
	authService  ports.Auth
	tokenTTL     time.Duration
	cookieSecure bool
	adminEmail   string
}

func NewAuthController(
	r gin.IRouter,
	logger *zap.Logger,
	authService ports.Auth,
	tokenTTL time.Duration,
	cookieSecure bool,
	adminEmail string,
) *AuthController {
	ac := &AuthController{
		logger:       logger,
		authService:  authService,
		tokenTTL:     tokenTTL,
		cookieSecure: cookieSecure,
		adminEmail:   adminEmail,
	}

	r.POST(RouteRegister, ac.RegisterHandler)
	r.POST(RouteLogin, ac.LoginHandler)
	r.POST(RouteLogout, ac.LogoutHandler)

	return ac
}

func (ac *AuthController) RegisterHandler(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.ValidateRegister(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	u, token, err := ac.authService.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, userDB.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to register"},
		)
		ac.logger.Error("Register() error", zap.Error(err))
		return
	}

	ac.respondWithToken(c, http.StatusCreated, token, u)
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.ValidateLogin(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	u, token, err := ac.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to login"},
		)
		ac.logger.Error("Login() error", zap.Error(err))
		return
	}

	ac.respondWithToken(c, http.StatusOK, token, u)
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", ac.cookieSecure, true)
	c.Status(http.StatusNoContent)
}

func (ac *AuthController) respondWithToken(c *gin.Context, status int, token string, u *domain.User) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, int(ac.tokenTTL.Seconds()), "/", "", ac.cookieSecure, true)

	c.JSON(status, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"user":         user.ToResponseUser(*u, domain.IsAdministrator(domain.Identity{UserID: u.UUID, Email: u.Email}, ac.adminEmail)),
	})
}
