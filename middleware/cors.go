package middleware

import (
	"strings"
	"time"

	"drought-watch-api/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS builds the CORS policy from the comma-separated origin list in
// the config. Whitespace around entries is ignored. An empty list or a lone
// "*" opens the API to any origin, without credentials; an explicit list
// allows credentials for the named origins only.
func SetupCORS(cfg config.CORSConfig) gin.HandlerFunc {
	var origins []string
	for _, o := range strings.Split(cfg.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	policy := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		policy.AllowAllOrigins = true
	} else {
		policy.AllowOrigins = origins
		policy.AllowCredentials = true
	}
	return cors.New(policy)
}
