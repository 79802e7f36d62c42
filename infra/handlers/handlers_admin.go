package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"storefront-service/domain"
	"storefront-service/service"
	"storefront-service/siteconfig"

	"github.com/gin-gonic/gin"
)

// AdminHandler is the back-office surface: video and user CRUD, site
// configuration, wallet edits. Everything except login sits behind the
// auth middleware.
type AdminHandler struct {
	admin    *service.AdminService
	db       domain.DatabaseInterface
	provider *siteconfig.Provider
}

func NewAdminHandler(admin *service.AdminService, db domain.DatabaseInterface, provider *siteconfig.Provider) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		db:       db,
		provider: provider,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, token, err := h.admin.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// ListVideos returns every video, inactive ones included; the back
// office needs the full set.
func (h *AdminHandler) ListVideos(c *gin.Context) {
	videos, err := h.db.ListVideos()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos"})
		return
	}
	c.JSON(http.StatusOK, videos)
}

// videoInputFromForm reads the multipart video mutation form. File
// parts are optional here; create enforces their presence downstream.
func videoInputFromForm(c *gin.Context) (service.VideoInput, []multipart.File, error) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		return service.VideoInput{}, nil, errors.New("invalid price")
	}

	isActive := true
	if v := c.PostForm("is_active"); v != "" {
		isActive = v == "true" || v == "1"
	}

	input := service.VideoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Price:       price,
		Duration:    domain.Timecode(c.PostForm("duration")),
		ProductLink: c.PostForm("product_link"),
		IsActive:    isActive,
	}

	var open []multipart.File

	if file, header, err := c.Request.FormFile("video"); err == nil {
		input.Media = &service.FileUpload{Reader: file, Filename: header.Filename, Size: header.Size}
		open = append(open, file)
	}
	if file, header, err := c.Request.FormFile("thumbnail"); err == nil {
		input.Thumbnail = &service.FileUpload{Reader: file, Filename: header.Filename, Size: header.Size}
		open = append(open, file)
	}

	return input, open, nil
}

func closeFiles(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}

func (h *AdminHandler) CreateVideo(c *gin.Context) {
	input, files, err := videoInputFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFiles(files)

	video, err := h.admin.CreateVideo(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (h *AdminHandler) UpdateVideo(c *gin.Context) {
	input, files, err := videoInputFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFiles(files)

	video, err := h.admin.UpdateVideo(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *AdminHandler) DeleteVideo(c *gin.Context) {
	if err := h.admin.DeleteVideo(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.admin.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.admin.UpdateUser(c.Param("id"), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.admin.DeleteUser(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// GetConfig returns the admin view of the configuration. The stored
// secret key is masked; the form sends an empty secret to keep it.
func (h *AdminHandler) GetConfig(c *gin.Context) {
	config := h.provider.Snapshot()
	if config.StripeSecretKey != "" {
		config.StripeSecretKey = "********"
	}
	c.JSON(http.StatusOK, gin.H{
		"config":                config,
		"wallets_from_fallback": h.provider.WalletsFromFallback(),
	})
}

func (h *AdminHandler) SaveConfig(c *gin.Context) {
	var req domain.SiteConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	config, err := h.admin.SaveSiteConfig(req)
	if err != nil {
		respondError(c, err)
		return
	}

	config.StripeSecretKey = ""
	c.JSON(http.StatusOK, config)
}

func (h *AdminHandler) AddWallet(c *gin.Context) {
	var req domain.Wallet
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	entries, err := h.admin.AddWallet(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"crypto": entries})
}

func (h *AdminHandler) RemoveWallet(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet index"})
		return
	}

	entries, err := h.admin.RemoveWallet(index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"crypto": entries})
}

// respondError maps domain errors onto HTTP statuses, keeping the
// underlying message intact.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrPathNotOffered):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
