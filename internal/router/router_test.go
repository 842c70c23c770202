package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"partshare/internal/db"
	"partshare/internal/models"
	"partshare/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Post{}, &models.Like{}))
	db.DB = gdb

	// 清掉上一个用例留下的共享信息流缓存
	utils.GetCache().Delete("posts:feed")

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("partshare_session", store))
	RegisterRoutes(r)
	return r
}

// client keeps the session cookie between requests, one logical browser per instance
type client struct {
	t       *testing.T
	r       *gin.Engine
	cookies []*http.Cookie
}

func newClient(t *testing.T, r *gin.Engine) *client {
	return &client{t: t, r: r}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return w
}

func (c *client) signup(username string) {
	c.t.Helper()
	w := c.do("POST", "/api/auth/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (c *client) createPost(title string) uint {
	c.t.Helper()
	w := c.do("POST", "/api/posts", gin.H{
		"title":  title,
		"markup": "<div>" + title + "</div>",
		"style":  "div{margin:0}",
	})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	post := decode(c.t, w)["post"].(map[string]interface{})
	return uint(post["id"].(float64))
}

func TestAuthFlow(t *testing.T) {
	r := setupRouter(t)
	c := newClient(t, r)

	w := c.do("GET", "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["is_authenticated"])

	c.signup("alice")

	w = c.do("GET", "/api/auth/me", nil)
	body := decode(t, w)
	assert.Equal(t, true, body["is_authenticated"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	// the password hash never leaves the server
	_, leaked := user["password"]
	assert.False(t, leaked)

	w = c.do("POST", "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do("GET", "/api/auth/me", nil)
	assert.Equal(t, false, decode(t, w)["is_authenticated"])

	// login by username, then by email
	w = c.do("POST", "/api/auth/login", gin.H{"username": "alice", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = c.do("POST", "/api/auth/login", gin.H{"username": "alice@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do("POST", "/api/auth/login", gin.H{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	r := setupRouter(t)
	newClient(t, r).signup("alice")

	w := newClient(t, r).do("POST", "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := setupRouter(t)
	anon := newClient(t, r)

	cases := []struct{ method, path string }{
		{"GET", "/api/posts/my"},
		{"GET", "/api/posts/liked"},
		{"POST", "/api/posts"},
		{"PUT", "/api/posts/1"},
		{"DELETE", "/api/posts/1"},
		{"POST", "/api/posts/1/like"},
		{"POST", "/api/auth/logout"},
	}
	for _, tc := range cases {
		w := anon.do(tc.method, tc.path, gin.H{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCreatePostValidation(t *testing.T) {
	r := setupRouter(t)
	c := newClient(t, r)
	c.signup("alice")

	w := c.do("POST", "/api/posts", gin.H{"markup": "<div/>"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do("POST", "/api/posts", gin.H{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePostResponse(t *testing.T) {
	r := setupRouter(t)
	c := newClient(t, r)
	c.signup("alice")

	w := c.do("POST", "/api/posts", gin.H{
		"title":    "Neon Button",
		"markup":   "<button>Go</button>",
		"style":    "button{color:cyan}",
		"settings": gin.H{"grid": true, "zoom": 1.5},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	post := decode(t, w)["post"].(map[string]interface{})
	assert.Equal(t, "Neon Button", post["title"])
	assert.Equal(t, "alice", post["author"])
	assert.EqualValues(t, 0, post["like_count"])
	assert.EqualValues(t, 0, post["fork_count"])
	assert.Equal(t, false, post["is_liked"])
	settings := post["settings"].(map[string]interface{})
	assert.Equal(t, true, settings["grid"])
}

func TestSettingsAcceptsEncodedForm(t *testing.T) {
	r := setupRouter(t)
	c := newClient(t, r)
	c.signup("alice")

	// settings supplied as a pre-encoded JSON string comes back structured
	w := c.do("POST", "/api/posts", gin.H{
		"title":    "Encoded",
		"settings": `{"grid":false,"theme":"dark"}`,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	post := decode(t, w)["post"].(map[string]interface{})
	settings := post["settings"].(map[string]interface{})
	assert.Equal(t, "dark", settings["theme"])
}

func TestLikeToggleAndFeedScenario(t *testing.T) {
	r := setupRouter(t)

	alice := newClient(t, r)
	alice.signup("alice")
	bob := newClient(t, r)
	bob.signup("bob")

	postID := alice.createPost("Hi")

	// bob likes
	w := bob.do("POST", fmt.Sprintf("/api/posts/%d/like", postID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "liked", body["action"])
	assert.EqualValues(t, 1, body["like_count"])

	// feed carries bob's is_liked flag, not alice's
	w = bob.do("GET", "/api/posts", nil)
	feed := decodeList(t, w)
	require.Len(t, feed, 1)
	assert.Equal(t, true, feed[0]["is_liked"])

	w = alice.do("GET", "/api/posts", nil)
	feed = decodeList(t, w)
	assert.Equal(t, false, feed[0]["is_liked"])

	// bob unlikes
	w = bob.do("POST", fmt.Sprintf("/api/posts/%d/like", postID), nil)
	body = decode(t, w)
	assert.Equal(t, "unliked", body["action"])
	assert.EqualValues(t, 0, body["like_count"])

	// alice deletes; the post leaves every listing but stays addressable
	w = alice.do("DELETE", fmt.Sprintf("/api/posts/%d", postID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = alice.do("GET", "/api/posts", nil)
	assert.Empty(t, decodeList(t, w))

	w = alice.do("GET", "/api/posts/my", nil)
	assert.Empty(t, decodeList(t, w))

	w = alice.do("GET", fmt.Sprintf("/api/posts/%d", postID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLikeUnknownPost(t *testing.T) {
	r := setupRouter(t)
	c := newClient(t, r)
	c.signup("alice")

	w := c.do("POST", "/api/posts/9999/like", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAuthorization(t *testing.T) {
	r := setupRouter(t)

	alice := newClient(t, r)
	alice.signup("alice")
	bob := newClient(t, r)
	bob.signup("bob")

	postID := alice.createPost("original")

	w := bob.do("PUT", fmt.Sprintf("/api/posts/%d", postID), gin.H{"title": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = bob.do("DELETE", fmt.Sprintf("/api/posts/%d", postID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = alice.do("PUT", fmt.Sprintf("/api/posts/%d", postID), gin.H{"title": "revised"})
	require.Equal(t, http.StatusOK, w.Code)
	post := decode(t, w)["post"].(map[string]interface{})
	assert.Equal(t, "revised", post["title"])

	w = alice.do("PUT", "/api/posts/9999", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnonymousFork(t *testing.T) {
	r := setupRouter(t)

	alice := newClient(t, r)
	alice.signup("alice")
	postID := alice.createPost("forkable")

	anon := newClient(t, r)
	w := anon.do("POST", fmt.Sprintf("/api/posts/%d/fork", postID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["fork_count"])

	w = anon.do("POST", "/api/posts/9999/fork", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikedListing(t *testing.T) {
	r := setupRouter(t)

	alice := newClient(t, r)
	alice.signup("alice")
	first := alice.createPost("first")
	second := alice.createPost("second")

	bob := newClient(t, r)
	bob.signup("bob")
	bob.do("POST", fmt.Sprintf("/api/posts/%d/like", first), nil)
	bob.do("POST", fmt.Sprintf("/api/posts/%d/like", second), nil)

	w := bob.do("GET", "/api/posts/liked", nil)
	require.Equal(t, http.StatusOK, w.Code)
	liked := decodeList(t, w)
	require.Len(t, liked, 2)
	// most recently liked first
	assert.Equal(t, "second", liked[0]["title"])
	assert.Equal(t, "first", liked[1]["title"])
	assert.Equal(t, true, liked[0]["is_liked"])
}
