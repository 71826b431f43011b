package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2025-01-01":                time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		"2025-01-01T10:30":          time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC),
		"2025-01-01T10:30:00Z":      time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC),
		"2025-01-01T12:30:00+02:00": time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
		assert.Equal(t, time.UTC, got.Location())
	}

	for _, bad := range []string{"", "  ", "tomorrow", "2025-13-01", "01/02/2025"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CompareHashAndPassword(hash, "secret1"))
	assert.False(t, CompareHashAndPassword(hash, "secret2"))
}

func TestCookieTransport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tr := NewCookieTransport("", "", true, true)
	assert.Equal(t, "token", tr.Name)
	assert.Equal(t, http.SameSiteStrictMode, tr.SameSite)
	assert.False(t, tr.InBody())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
	tr.Attach(c, "abc", time.Now().Add(DefaultTokenTTL))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.InDelta(t, DefaultTokenTTL.Seconds(), float64(cookies[0].MaxAge), 5)

	assert.Equal(t, http.SameSiteLaxMode, NewCookieTransport("token", "", false, false).SameSite)
}

func TestCookieTransport_Clear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)

	NewCookieTransport("token", "", false, false).Clear(c)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestBearerTransport_Extract(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for header, want := range map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Bearer ":      "",
		"Token abc":    "",
		"":             "",
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Authorization", header)

		got, ok := BearerTransport{}.Extract(c)
		assert.Equal(t, want, got, header)
		assert.Equal(t, want != "", ok, header)
	}
}
