package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetWritesFixedAttributes(t *testing.T) {
	for _, secure := range []bool{false, true} {
		rec := httptest.NewRecorder()
		NewCarrier(secure, 0).Set(rec, "abc.def.ghi")

		header := rec.Header().Get("Set-Cookie")
		assert.True(t, strings.HasPrefix(header, "token=abc.def.ghi"), header)
		assert.Contains(t, header, "Path=/")
		assert.Contains(t, header, "Max-Age=86400")
		assert.Contains(t, header, "HttpOnly")
		assert.Contains(t, header, "SameSite=Lax")
		assert.Equal(t, secure, strings.Contains(header, "Secure"), header)
	}
}

func TestClearMatchesSetAndIsIdempotent(t *testing.T) {
	carrier := NewCarrier(true, 0)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		carrier.Clear(rec)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "token", c.Name)
		assert.Empty(t, c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
	}
}

func TestTokenReadsOnlyTheCookie(t *testing.T) {
	carrier := NewCarrier(false, 0)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/student", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	assert.Empty(t, carrier.Token(req))

	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", carrier.Token(req))
}

func TestSetFollowsMaxAge(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCarrier(false, 2*time.Hour).Set(rec, "abc")
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=7200")
}
