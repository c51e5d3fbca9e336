package cookie

import (
	"net/http"
	"strings"
	"time"

	"hotel-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookieName = "admin_token"
	// every operator route, including the admin streams, lives below this prefix
	adminPath = "/api/admin"
)

// SetTokenCookie stores the operator session. The cookie never reaches the
// public booking routes.
func SetTokenCookie(c *gin.Context, cfg config.CookieConfig, accessToken string, expiry time.Duration) {
	http.SetCookie(c.Writer, sessionCookie(cfg, accessToken, int(expiry.Seconds())))
}

func ClearTokenCookie(c *gin.Context, cfg config.CookieConfig) {
	http.SetCookie(c.Writer, sessionCookie(cfg, "", -1))
}

func GetAccessToken(c *gin.Context) string {
	token, err := c.Cookie(AccessTokenCookieName)
	if err != nil {
		return ""
	}
	return token
}

func sessionCookie(cfg config.CookieConfig, value string, maxAge int) *http.Cookie {
	sameSite := parseSameSite(cfg.SameSite)
	return &http.Cookie{
		Name:     AccessTokenCookieName,
		Value:    value,
		Path:     adminPath,
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		// browsers drop SameSite=None cookies that are not Secure
		Secure:   cfg.Secure || sameSite == http.SameSiteNoneMode,
		SameSite: sameSite,
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
