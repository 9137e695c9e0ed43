package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldpulse/fieldpulse/internal/auth"
	"github.com/fieldpulse/fieldpulse/web/handlers"
)

func newAuthHandler(t *testing.T) (*handlers.AuthHandler, *auth.UserStore) {
	t.Helper()
	users := auth.NewUserStore(t.TempDir() + "/users.json")
	sessions := auth.NewSessionManager("test-secret")
	h, err := handlers.NewAuthHandler(users, sessions, "../templates/*.html")
	require.NoError(t, err)
	return h, users
}

func postForm(h http.HandlerFunc, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestLogin_RendersForm(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "username")
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	h, users := newAuthHandler(t)
	_, err := users.Add("admin", "adminpass", auth.RoleAdmin)
	require.NoError(t, err)

	rec := postForm(h.Login, "/login", url.Values{
		"username": {"admin"},
		"password": {"nope"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Credentials")
}

func TestLogin_SuccessRedirectsToDashboard(t *testing.T) {
	h, users := newAuthHandler(t)
	_, err := users.Add("admin", "adminpass", auth.RoleAdmin)
	require.NoError(t, err)

	rec := postForm(h.Login, "/login", url.Values{
		"username": {"admin"},
		"password": {"adminpass"},
	})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Result().Cookies(), "login should set a session cookie")
}

func TestRegister_CreatesUserThenRejectsDuplicate(t *testing.T) {
	h, users := newAuthHandler(t)

	form := url.Values{
		"username": {"fieldrep"},
		"password": {"secret"},
		"role":     {auth.RoleCustomerAdmin},
	}

	rec := postForm(h.Register, "/register", form)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	exists, err := users.Has("fieldrep")
	require.NoError(t, err)
	assert.True(t, exists)

	rec = postForm(h.Register, "/register", form)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestIndex_NotFoundOffRoot(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.Index(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
