// Package http is the REST boundary of the teamspace server. It validates
// request shapes, calls the identity service, and maps domain failures to
// status codes. No business rules live here.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tensillabs/teamspace/internal/logging"
	"github.com/tensillabs/teamspace/internal/server/identity"
	"github.com/tensillabs/teamspace/internal/server/models"
	"github.com/tensillabs/teamspace/internal/server/tokens"
)

// Identity is the slice of the identity service the handlers consume.
type Identity interface {
	Register(ctx context.Context, p identity.RegisterParams) (*models.User, *models.Workspace, error)
	VerifyEmail(ctx context.Context, email, otp string) (*models.User, *identity.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *identity.TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	ResendVerification(ctx context.Context, email string) error
	Refresh(ctx context.Context, refreshToken string) (*models.User, *identity.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	CheckEmail(ctx context.Context, email string) (bool, error)
	CheckWorkspace(ctx context.Context, name string) (bool, string, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	Workspaces(ctx context.Context, userID string) ([]*models.Workspace, error)
}

// Server hosts the HTTP endpoint.
type Server struct {
	address  string
	engine   *gin.Engine
	identity Identity
	issuer   *tokens.Issuer
	logger   logging.Logger
}

func NewServer(address string, identity Identity, issuer *tokens.Issuer, logger logging.Logger) *Server {
	s := &Server{
		address:  address,
		identity: identity,
		issuer:   issuer,
		logger:   logger.With("module", "http_server"),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	s.registerRoutes(engine)
	s.engine = engine

	return s
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	api := engine.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/verify-email", s.verifyEmail)
	auth.POST("/login", s.login)
	auth.POST("/forgot-password", s.forgotPassword)
	auth.POST("/reset-password", s.resetPassword)
	auth.POST("/resend-verification", s.resendVerification)
	auth.POST("/refresh-token", s.refreshToken)
	auth.POST("/logout", s.requireAuth(), s.logout)
	auth.POST("/check-email", s.checkEmail)
	auth.POST("/check-workspace", s.checkWorkspace)

	users := api.Group("/users", s.requireAuth())
	users.GET("/me", s.profile)
	users.GET("/me/workspaces", s.listWorkspaces)
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
