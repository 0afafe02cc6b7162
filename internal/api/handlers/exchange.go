package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/exchange"
	"github.com/visionify/partner-api/internal/pricing"
)

// HandleGetExchangeRates handles GET /v1/exchange-rates. When the live
// provider is unreachable the static rates from the pricing table are
// returned instead, flagged as stale.
func HandleGetExchangeRates(client *exchange.Client, table *pricing.Table, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rates, err := client.Fetch(c.Request.Context())
		if err != nil {
			logger.Warn("Falling back to static exchange rates", zap.Error(err))
			c.JSON(http.StatusOK, gin.H{
				"base":      table.BaseCurrency,
				"rates":     table.CurrencyRates,
				"updatedAt": time.Time{},
				"stale":     true,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"base":      rates.Base,
			"rates":     rates.Rates,
			"updatedAt": rates.UpdatedAt,
			"stale":     false,
		})
	}
}
