package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	obsmiddleware "github.com/smallbiznis/gstbilling/internal/observability/logger"
)

// corsConfig allows the listed browser origins; "*" or an empty list opens
// the API to any origin without credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", obsmiddleware.HeaderRequestID}
	cfg.ExposeHeaders = []string{"Content-Disposition", obsmiddleware.HeaderRequestID}
	cfg.MaxAge = 12 * time.Hour

	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowed
	cfg.AllowCredentials = true
	return cfg
}
