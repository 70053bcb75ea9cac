package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) profile(c *gin.Context) {
	user, err := s.identity.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User profile retrieved successfully",
		"user":    publicUser(user),
	})
}

func (s *Server) listWorkspaces(c *gin.Context) {
	list, err := s.identity.Workspaces(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": messageFor(err)})
		return
	}

	out := make([]gin.H, 0, len(list))
	for _, w := range list {
		out = append(out, gin.H{"id": w.ID, "name": w.Name, "slug": w.Slug})
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": out})
}
