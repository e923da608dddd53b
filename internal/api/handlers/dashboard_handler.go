package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stocklens/doi-dashboard/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	filter := ParseFilter(c)
	dashboard, err := h.service.GetDashboard(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compose dashboard", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	filter := ParseFilter(c)
	summary, err := h.service.GetSummary(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetStatusCounts(c *gin.Context) {
	filter := ParseFilter(c)
	counts, err := h.service.GetStatusCounts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch status counts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status_counts": counts})
}

func (h *DashboardHandler) GetInsights(c *gin.Context) {
	filter := ParseFilter(c)
	insightList, err := h.service.GetInsights(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate insights", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insightList})
}

func (h *DashboardHandler) GetDOIHistogram(c *gin.Context) {
	filter := ParseFilter(c)
	bins, _ := strconv.Atoi(c.DefaultQuery("bins", "30"))

	histogram, err := h.service.GetDOIHistogram(c.Request.Context(), filter, bins)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch histogram", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bins": histogram})
}

func (h *DashboardHandler) GetTopOverstock(c *gin.Context) {
	filter := ParseFilter(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	ranked, err := h.service.GetTopOverstock(c.Request.Context(), filter, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch top overstock", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": ranked})
}

func (h *DashboardHandler) GetTopRevenue(c *gin.Context) {
	filter := ParseFilter(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	ranked, err := h.service.GetTopRevenue(c.Request.Context(), filter, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch top revenue", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": ranked})
}

func (h *DashboardHandler) GetAvgDOIByBuyer(c *gin.Context) {
	filter := ParseFilter(c)
	groups, err := h.service.GetAvgDOIByBuyer(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch buyer breakdown", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *DashboardHandler) GetValueByCategory(c *gin.Context) {
	filter := ParseFilter(c)
	groups, err := h.service.GetValueByCategory(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch category breakdown", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *DashboardHandler) GetExpiryTimeline(c *gin.Context) {
	filter := ParseFilter(c)
	days, _ := strconv.Atoi(c.DefaultQuery("days", "90"))

	timeline, err := h.service.GetExpiryTimeline(c.Request.Context(), filter, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch expiry timeline", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeline": timeline})
}

func (h *DashboardHandler) GetDOIScatter(c *gin.Context) {
	filter := ParseFilter(c)
	points, err := h.service.GetDOIScatter(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch scatter data", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}
