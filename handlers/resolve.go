package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"embedgate/services"
	"embedgate/uriutil"
)

type ResolveHandler struct {
	resolver *services.Resolver
}

func NewResolveHandler(resolver *services.Resolver) *ResolveHandler {
	return &ResolveHandler{resolver: resolver}
}

type resolveRequest struct {
	PageURL string `json:"page_url" binding:"required"`
}

// Resolve answers which base URI a page's backend is reachable on.
// Deployment-path ambiguity is settled by probing each candidate's health
// endpoint, most-specific first.
func (h *ResolveHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_url is required"})
		return
	}

	loc, err := uriutil.ParseLocation(req.PageURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidates := h.resolver.Candidates(loc)

	base, err := h.resolver.Resolve(c.Request.Context(), loc)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      err.Error(),
			"candidates": candidates,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"base":       base,
		"candidates": candidates,
	})
}
