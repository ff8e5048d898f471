package controllers

import (
	"net/http"

	"github.com/Aditya0Kumar/trackr-sub000/models"
	"github.com/Aditya0Kumar/trackr-sub000/services"

	"github.com/gin-gonic/gin"
)

// DirectoryController provisions users and workspace memberships for the internal API
type DirectoryController struct {
	directory *services.Directory
}

func NewDirectoryController(directory *services.Directory) *DirectoryController {
	return &DirectoryController{directory: directory}
}

// CreateUser POST /internal/users, returns the user and a bearer token
func (dc *DirectoryController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := dc.directory.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := dc.directory.IssueToken(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// IssueToken POST /internal/users/:id/token
func (dc *DirectoryController) IssueToken(c *gin.Context) {
	token, err := dc.directory.IssueToken(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// SetMember PUT /internal/workspaces/:id/members
func (dc *DirectoryController) SetMember(c *gin.Context) {
	var req models.SetMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	member, err := dc.directory.SetMember(c.Request.Context(), c.Param("id"), req.UserID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}
