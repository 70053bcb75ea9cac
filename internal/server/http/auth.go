package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tensillabs/teamspace/internal/common"
	"github.com/tensillabs/teamspace/internal/server/identity"
	"github.com/tensillabs/teamspace/internal/server/models"
)

type registerRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	FirstName     string `json:"firstName" binding:"required"`
	MiddleName    string `json:"middleName"`
	LastName      string `json:"lastName" binding:"required"`
	WorkspaceName string `json:"workspaceName" binding:"required"`
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type resendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type checkEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type checkWorkspaceRequest struct {
	WorkspaceName string `json:"workspaceName" binding:"required"`
}

// userResponse is the public projection of a user; no secret material,
// ever.
type userResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName,omitempty"`
	MiddleName    string     `json:"middleName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	DisplayName   string     `json:"displayName,omitempty"`
	AvatarURL     string     `json:"avatarUrl,omitempty"`
	EmailVerified *time.Time `json:"emailVerified"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func publicUser(u *models.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		MiddleName:    u.MiddleName,
		LastName:      u.LastName,
		DisplayName:   u.DisplayName,
		AvatarURL:     u.AvatarURL,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request parameters"})
		return
	}

	user, workspace, err := s.identity.Register(c.Request.Context(), identity.RegisterParams{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		LastName:      req.LastName,
		WorkspaceName: req.WorkspaceName,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please verify your email.",
		"user":    publicUser(user),
		"workspace": gin.H{
			"id":   workspace.ID,
			"name": workspace.Name,
			"slug": workspace.Slug,
		},
	})
}

func (s *Server) verifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request parameters"})
		return
	}

	user, pair, err := s.identity.VerifyEmail(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	s.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{
		"message":     "Email verified successfully",
		"user":        publicUser(user),
		"accessToken": pair.AccessToken,
	})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request parameters"})
		return
	}

	user, pair, err := s.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	s.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{
		"message":     "Login successful",
		"user":        publicUser(user),
		"accessToken": pair.AccessToken,
	})
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request parameters"})
		return
	}

	if err := s.identity.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	// Same body whether or not the email exists.
	c.JSON(http.StatusOK, gin.H{
		"message": "If this email exists, we will send a password reset code.",
	})
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request parameters"})
		return
	}

	if err := s.identity.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successfully. You can now login with your new password.",
	})
}

func (s *Server) resendVerification(c *gin.Context) {
	var req resendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request parameters"})
		return
	}

	if err := s.identity.ResendVerification(c.Request.Context(), req.Email); err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent to your email."})
}

func (s *Server) refreshToken(c *gin.Context) {
	var req refreshTokenRequest
	_ = c.ShouldBindJSON(&req)

	token := req.RefreshToken
	if token == "" {
		if cookie, err := c.Cookie(common.RefreshTokenCookieName); err == nil {
			token = cookie
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No active session"})
		return
	}

	user, pair, err := s.identity.Refresh(c.Request.Context(), token)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	s.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{
		"message":     "Token refreshed successfully",
		"user":        publicUser(user),
		"accessToken": pair.AccessToken,
	})
}

func (s *Server) logout(c *gin.Context) {
	var req refreshTokenRequest
	_ = c.ShouldBindJSON(&req)

	token := req.RefreshToken
	if token == "" {
		if cookie, err := c.Cookie(common.RefreshTokenCookieName); err == nil {
			token = cookie
		}
	}

	if token != "" {
		if err := s.identity.Logout(c.Request.Context(), token); err != nil {
			c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
			return
		}
	}

	s.clearTokenCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *Server) checkEmail(c *gin.Context) {
	var req checkEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request parameters"})
		return
	}

	available, err := s.identity.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	message := "Email is available"
	if !available {
		message = "Email is already registered"
	}
	c.JSON(http.StatusOK, gin.H{"available": available, "message": message})
}

func (s *Server) checkWorkspace(c *gin.Context) {
	var req checkWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request parameters"})
		return
	}

	available, slug, err := s.identity.CheckWorkspace(c.Request.Context(), req.WorkspaceName)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	message := "Workspace name is available"
	if !available {
		message = "Workspace name is already taken"
	}
	c.JSON(http.StatusOK, gin.H{"available": available, "slug": slug, "message": message})
}

// setTokenCookies stores the pair in httpOnly cookies whose max-ages track
// the configured token lifetimes, so a cookie never outlives its token.
func (s *Server) setTokenCookies(c *gin.Context, pair *identity.TokenPair) {
	c.SetCookie(common.AccessTokenCookieName, pair.AccessToken,
		int(s.issuer.AccessTTL().Seconds()), "/", "", false, true)
	c.SetCookie(common.RefreshTokenCookieName, pair.RefreshToken,
		int(s.issuer.RefreshTTL().Seconds()), "/", "", false, true)
}

func (s *Server) clearTokenCookies(c *gin.Context) {
	c.SetCookie(common.AccessTokenCookieName, "", -1, "/", "", false, true)
	c.SetCookie(common.RefreshTokenCookieName, "", -1, "/", "", false, true)
}
