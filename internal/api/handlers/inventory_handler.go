package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stocklens/doi-dashboard/internal/domain"
	"github.com/stocklens/doi-dashboard/internal/service"
)

type InventoryHandler struct {
	service *service.DashboardService
}

func NewInventoryHandler(service *service.DashboardService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// ParseFilter builds an InventoryFilter from query params. List params
// accept both repeated values and comma-separated strings:
//
//	?buyers=Alice&buyers=Budi
//	?buyers=Alice,Budi
func ParseFilter(c *gin.Context) domain.InventoryFilter {
	filter := domain.InventoryFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}

	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}

	filter.Buyers = parseListParam(c, "buyers")
	filter.Categories = parseListParam(c, "categories")
	filter.Warehouses = parseListParam(c, "warehouses")

	if status, ok := domain.ParseDOIStatus(c.Query("status")); ok {
		filter.DOIStatus = status
	}

	if sortField := strings.TrimSpace(c.Query("sort_field")); sortField != "" {
		filter.SortField = strings.ToLower(sortField)
	}

	sortDir := strings.ToLower(strings.TrimSpace(c.Query("sort_direction")))
	if sortDir != "desc" {
		sortDir = "asc"
	}
	filter.SortDir = sortDir

	return filter
}

func parseListParam(c *gin.Context, param string) []string {
	raw := c.QueryArray(param)
	if len(raw) == 0 {
		if single := strings.TrimSpace(c.Query(param)); single != "" {
			raw = []string{single}
		}
	}

	seen := make(map[string]struct{})
	var values []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			values = append(values, part)
		}
	}
	return values
}

func (h *InventoryHandler) GetItems(c *gin.Context) {
	filter := ParseFilter(c)
	items, total, err := h.service.GetItems(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     items,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

func (h *InventoryHandler) GetFilterOptions(c *gin.Context) {
	options, err := h.service.GetFilterOptions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch filter options", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, options)
}

// Upload always refuses: the demo serves a fixed sample snapshot and the
// upload path is intentionally disabled.
func (h *InventoryHandler) Upload(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"error": "upload is disabled; the dashboard serves the built-in sample dataset",
	})
}
