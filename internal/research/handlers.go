package research

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tokenscout/tokenscout/internal/chains"
	"github.com/tokenscout/tokenscout/internal/logging"
	"github.com/tokenscout/tokenscout/internal/validation"
)

// Handler provides HTTP handlers for the research API
type Handler struct {
	service *Service
}

// NewHandler creates a new research handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes sets up the research routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/research", h.ResearchToken)
	r.GET("/chains", h.ListChains)
}

// ResearchToken handles GET /research?chain=&address=
func (h *Handler) ResearchToken(c *gin.Context) {
	ctx := c.Request.Context()
	logger := logging.L(ctx)

	slug := c.Query("chain")
	address := strings.TrimSpace(c.Query("address"))

	chain, ok := chains.Get(slug)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_chain",
			"message": "Unsupported chain; see /v1/chains for the supported list",
		})
		return
	}
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_address",
			"message": "address query parameter is required",
		})
		return
	}
	if chain.EVM {
		address = validation.SanitizeEVMAddress(address)
	}
	if err := chain.ValidateAddress(address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_address",
			"message": err.Error(),
		})
		return
	}

	report, err := h.service.Research(ctx, chain, address)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "token_not_found",
				"message": "Token not found on " + chain.Name,
			})
			return
		}
		logger.Error("assessment failed", "chain", chain.Slug, "address", address, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to assess token",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListChains handles GET /chains
func (h *Handler) ListChains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"chains": chains.All(),
	})
}
