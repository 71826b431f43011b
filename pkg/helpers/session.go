package helpers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionTransport decides where a session token travels. The same transport
// is used when a token is handed out and when it is read back.
type SessionTransport interface {
	// Attach delivers a freshly issued token to the client.
	Attach(c *gin.Context, token string, exp time.Time)
	// Extract returns the token carried by the request, if any.
	Extract(c *gin.Context) (string, bool)
	// Clear tells the client to forget its token.
	Clear(c *gin.Context)
	// InBody reports whether the token must be returned in the response body.
	InBody() bool
}

// CookieTransport keeps the token in an HTTP-only cookie.
type CookieTransport struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// NewCookieTransport uses SameSite=Strict for production and Lax elsewhere.
func NewCookieTransport(name, domain string, secure, production bool) *CookieTransport {
	sameSite := http.SameSiteLaxMode
	if production {
		sameSite = http.SameSiteStrictMode
	}
	if name == "" {
		name = "token"
	}
	return &CookieTransport{Name: name, Domain: domain, Secure: secure, SameSite: sameSite}
}

func (m *CookieTransport) Attach(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *CookieTransport) Extract(c *gin.Context) (string, bool) {
	token, err := c.Cookie(m.Name)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (m *CookieTransport) Clear(c *gin.Context) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, "", -1, "/", m.Domain, m.Secure, true)
}

func (m *CookieTransport) InBody() bool { return false }

// BearerTransport reads "Authorization: Bearer <token>" and returns tokens in the body.
type BearerTransport struct{}

func (BearerTransport) Attach(*gin.Context, string, time.Time) {}

func (BearerTransport) Extract(c *gin.Context) (string, bool) {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (BearerTransport) Clear(*gin.Context) {}

func (BearerTransport) InBody() bool { return true }

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
