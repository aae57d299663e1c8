package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports connectivity to the two backing stores: postgres (catalog
// and budgets) and redis (import locks). Statuses only — never credentials
// or connection internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		banco := "conectado"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			banco = "erro"
		}

		redisStatus := "conectado"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "erro"
		}

		status := http.StatusOK
		if banco != "conectado" || redisStatus != "conectado" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"servico": "obra-vista",
			"banco":   banco,
			"redis":   redisStatus,
		})
	}
}
