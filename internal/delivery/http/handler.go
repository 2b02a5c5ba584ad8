package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vinoteca/backend/internal/domain"
	"github.com/vinoteca/backend/internal/usecase"
)

// Pagination bounds enforced at the boundary before anything reaches the
// query engine.
const (
	defaultSearchLimit  = 20
	maxSearchLimit      = 100
	defaultPairingLimit = 3
	maxPairingLimit     = 12
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	wines     *usecase.WineService
	pairings  *usecase.PairingService
	auth      *usecase.AuthService
	users     domain.UserRepository
	favorites domain.FavoriteRepository
}

// NewHandler creates a new HTTP handler
func NewHandler(
	wines *usecase.WineService,
	pairings *usecase.PairingService,
	auth *usecase.AuthService,
	users domain.UserRepository,
	favorites domain.FavoriteRepository,
) *Handler {
	return &Handler{
		wines:     wines,
		pairings:  pairings,
		auth:      auth,
		users:     users,
		favorites: favorites,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "vinoteca-backend",
		"version": "1.0.0",
	})
}

// ListWines handles GET /api/wines?style=&limit=&offset=
func (h *Handler) ListWines(c *gin.Context) {
	var style *domain.Style
	if raw := c.Query("style"); raw != "" {
		parsed, ok := domain.ParseStyle(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown style: " + raw})
			return
		}
		style = &parsed
	}

	limit := clampQueryInt(c, "limit", defaultSearchLimit, 1, maxSearchLimit)
	offset := clampQueryInt(c, "offset", 0, 0, -1)

	result, err := h.wines.List(c.Request.Context(), style, limit, offset)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchWines handles GET /api/wines/search?q=&limit=&offset=
func (h *Handler) SearchWines(c *gin.Context) {
	q := trimmedQuery(c, "q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query param: q"})
		return
	}

	limit := clampQueryInt(c, "limit", defaultSearchLimit, 1, maxSearchLimit)
	offset := clampQueryInt(c, "offset", 0, 0, -1)

	result, err := h.wines.Search(c.Request.Context(), q, limit, offset)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListDishes handles GET /api/pairings/dishes
func (h *Handler) ListDishes(c *gin.Context) {
	c.JSON(http.StatusOK, h.pairings.ListDishes())
}

// SuggestPairings handles GET /api/pairings/suggest?dish=&limit=
func (h *Handler) SuggestPairings(c *gin.Context) {
	dish := trimmedQuery(c, "dish")
	if dish == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query param: dish"})
		return
	}

	limit := clampQueryInt(c, "limit", defaultPairingLimit, 1, maxPairingLimit)

	ideas := h.pairings.Suggest(dish)
	recommendations, err := h.wines.MatchIdeas(c.Request.Context(), ideas, limit)
	if err != nil {
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dish":            dish,
		"count":           len(recommendations),
		"recommendations": recommendations,
	})
}

// registerRequest is the POST /api/users/register body
type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/users/register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body."})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}

	userID, err := h.auth.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	switch {
	case errors.Is(err, domain.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is too weak. It must be at least 8 characters and contain at least one uppercase letter, one lowercase letter, and one number."})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email address is already in use."})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during registration."})
	default:
		c.JSON(http.StatusCreated, gin.H{
			"message": "User created successfully!",
			"userId":  userID,
		})
	}
}

// loginRequest is the POST /api/users/login body
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/users/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body."})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password must be provided."})
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during login."})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message":  "Login successful!",
			"token":    token,
			"username": user.Username,
		})
	}
}

// Profile handles GET /api/users/profile
func (h *Handler) Profile(c *gin.Context) {
	userID := authenticatedUserID(c)

	user, err := h.users.GetByID(c.Request.Context(), userID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch user profile."})
	default:
		c.JSON(http.StatusOK, gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
		})
	}
}

// ListFavorites handles GET /api/users/favorites
func (h *Handler) ListFavorites(c *gin.Context) {
	userID := authenticatedUserID(c)

	wineIDs, err := h.favorites.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch favorites."})
		return
	}
	c.JSON(http.StatusOK, wineIDs)
}

// AddFavorite handles POST /api/users/favorites/:wineID
func (h *Handler) AddFavorite(c *gin.Context) {
	userID := authenticatedUserID(c)
	wineID := c.Param("wineID")

	err := h.favorites.Add(c.Request.Context(), userID, wineID)
	switch {
	case errors.Is(err, domain.ErrFavoriteExists):
		c.JSON(http.StatusConflict, gin.H{"message": "Wine is already a favorite."})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save favorite."})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Favorite saved successfully."})
	}
}

// RemoveFavorite handles DELETE /api/users/favorites/:wineID
func (h *Handler) RemoveFavorite(c *gin.Context) {
	userID := authenticatedUserID(c)
	wineID := c.Param("wineID")

	err := h.favorites.Remove(c.Request.Context(), userID, wineID)
	switch {
	case errors.Is(err, domain.ErrFavoriteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found."})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete favorite."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Favorite deleted successfully."})
	}
}

// catalogError maps a catalog failure to a response. Only a cold-start
// upstream failure reaches this point; stale data covers everything else.
func (h *Handler) catalogError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream source unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
}

// clampQueryInt parses an integer query param, falling back to def on
// missing/garbage input and clamping to [min, max]. A negative max means
// unbounded.
func clampQueryInt(c *gin.Context, name string, def, min, max int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		n = def
	}
	if n < min {
		n = min
	}
	if max >= 0 && n > max {
		n = max
	}
	return n
}

func trimmedQuery(c *gin.Context, name string) string {
	return strings.TrimSpace(c.Query(name))
}
