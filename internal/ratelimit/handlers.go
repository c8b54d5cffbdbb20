package ratelimit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HandleRateLimitStatus returns the limits that apply to the requesting IP
//
// @Summary	Rate limit status for the caller
// @Tags		system
// @Produce	json
// @Success	200	{object}	map[string]interface{}
// @Router		/ratelimit [get]
func (rl *RateLimiter) HandleRateLimitStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		r := rl.IPRate()

		status := gin.H{
			"ip": c.ClientIP(),
			"limits": gin.H{
				"ip_per_minute": gin.H{
					"limit":  r.Limit,
					"burst":  r.Burst,
					"period": "1 minute",
				},
			},
			"backend":   "memory",
			"timestamp": time.Now().Format(time.RFC3339),
		}
		if rl.redisClient.IsEnabled() {
			status["backend"] = "redis"
		}

		c.JSON(http.StatusOK, status)
	}
}
