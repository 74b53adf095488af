package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/techinsight/blog/caching"
	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/web/entity"
	"github.com/techinsight/blog/web/locale"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHost = "http://blog.test"

// client drives the engine and keeps the session cookie between requests.
type client struct {
	t      *testing.T
	engine *gin.Engine
	jar    http.CookieJar
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, database.InitDB(t.TempDir()))
	require.NoError(t, locale.InitLocalizer(i18nFS, "en-US"))
	caching.Default().Flush()
	t.Cleanup(caching.Default().Flush)

	engine, err := NewServer().initRouter()
	require.NoError(t, err)
	return engine
}

func newClient(t *testing.T, engine *gin.Engine) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, engine: engine, jar: jar}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	u, err := url.Parse(testHost + path)
	require.NoError(c.t, err)
	for _, ck := range c.jar.Cookies(u) {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	c.jar.SetCookies(u, w.Result().Cookies())
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, form)
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, location, w.Header().Get("Location"))
}

func (c *client) register(username string) {
	c.t.Helper()
	w := c.post("/register", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"secret"},
	})
	assertRedirect(c.t, w, "/login")
}

func (c *client) loginUser(username string) {
	c.t.Helper()
	w := c.post("/user/login", url.Values{"username": {username}, "password": {"secret"}})
	assertRedirect(c.t, w, "/user/dashboard")
}

func (c *client) loginAdmin() {
	c.t.Helper()
	w := c.post("/admin/login", url.Values{"username": {"admin"}, "password": {"admin123"}})
	assertRedirect(c.t, w, "/admin")
}

func TestTemplatesParse(t *testing.T) {
	tpl, err := NewServer().getHtmlTemplate(templateFuncs())
	require.NoError(t, err)
	for _, name := range []string{
		"login_choice.html", "register.html", "admin_login.html", "user_login.html",
		"blog.html", "post.html", "404.html", "new_post.html", "edit_post.html",
		"profile.html", "edit_profile.html", "admin_profile.html", "admin_edit_profile.html",
		"admin_dashboard.html", "admin_users.html", "admin_posts.html", "admin_categories.html",
	} {
		assert.NotNil(t, tpl.Lookup(name), name)
	}
}

func TestAnonymousRedirects(t *testing.T) {
	c := newClient(t, newEngine(t))

	assertRedirect(t, c.get("/"), "/login")
	assertRedirect(t, c.get("/blog"), "/user/login")
	assertRedirect(t, c.get("/admin"), "/admin/login")
	assertRedirect(t, c.get("/new"), "/login")
	assertRedirect(t, c.get("/profile"), "/user/login")

	w := c.get("/user/login")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please log in as a user to access this page.")
}

func TestRegisterAndLogin(t *testing.T) {
	c := newClient(t, newEngine(t))

	c.register("alice")
	w := c.get("/login")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Registration successful! Please login.")

	w = c.post("/register", url.Values{
		"username": {"alice"},
		"email":    {"other@example.com"},
		"password": {"secret"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username or email already exists!")

	w = c.post("/user/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password!")

	c.loginUser("alice")
	assertRedirect(t, c.get("/user/dashboard"), "/blog")
	assertRedirect(t, c.get("/"), "/blog")

	w = c.get("/blog")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Login successful!")

	assertRedirect(t, c.get("/user/logout"), "/user/login")
	assertRedirect(t, c.get("/blog"), "/user/login")
}

func TestAdminCannotLoginAsUser(t *testing.T) {
	c := newClient(t, newEngine(t))

	w := c.post("/user/login", url.Values{"username": {"admin"}, "password": {"admin123"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password!")

	c.loginAdmin()
	w = c.get("/admin")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Admin login successful!")

	assertRedirect(t, c.get("/"), "/admin")
	// the listing is for regular users
	assertRedirect(t, c.get("/blog"), "/user/login")

	for _, path := range []string{"/admin/users", "/admin/posts", "/admin/categories", "/admin/profile"} {
		assert.Equal(t, http.StatusOK, c.get(path).Code, path)
	}
}

func TestPostLifecycle(t *testing.T) {
	engine := newEngine(t)
	alice := newClient(t, engine)
	alice.register("alice")
	alice.loginUser("alice")
	bob := newClient(t, engine)
	bob.register("bob")
	bob.loginUser("bob")

	w := alice.post("/new", url.Values{
		"title":    {"Hello Gin"},
		"content":  {"Routing and middleware in one place."},
		"category": {"web-dev"},
		"tags":     {"go, gin"},
	})
	assertRedirect(t, w, "/post/1")

	w = alice.get("/post/1")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Post created successfully!")
	assert.Contains(t, body, "Hello Gin")
	assert.Contains(t, body, "Web Development")
	assert.Contains(t, body, "/edit/1")

	// other users see the post without the edit controls
	w = bob.get("/post/1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "/edit/1")

	assertRedirect(t, bob.get("/edit/1"), "/post/1")
	assert.Contains(t, bob.get("/post/1").Body.String(), "You can only edit your own posts!")
	assertRedirect(t, bob.get("/delete/1"), "/post/1")

	assertRedirect(t, bob.post("/comment/1", url.Values{"content": {"Nice write-up"}}), "/post/1")
	w = alice.get("/post/1")
	assert.Contains(t, w.Body.String(), "Nice write-up")

	w = alice.post("/edit/1", url.Values{
		"title":    {"Hello Gin, again"},
		"content":  {"Updated body."},
		"category": {"web-dev"},
		"tags":     {"go"},
	})
	assertRedirect(t, w, "/post/1")
	assert.Contains(t, alice.get("/post/1").Body.String(), "Hello Gin, again")

	w = alice.get("/blog?tag=go")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello Gin, again")

	admin := newClient(t, engine)
	admin.loginAdmin()
	assertRedirect(t, admin.get("/delete/1"), "/")

	assert.Equal(t, http.StatusNotFound, alice.get("/post/1").Code)
	var comments []map[string]any
	require.NoError(t, database.GetStore().Load(database.Comments, &comments))
	assert.Empty(t, comments)
}

func TestAPI(t *testing.T) {
	engine := newEngine(t)
	c := newClient(t, engine)
	c.register("alice")
	c.loginUser("alice")

	for _, title := range []string{"Kubernetes basics", "Kubernetes networking", "Cooking pasta"} {
		w := c.post("/new", url.Values{"title": {title}, "content": {"Some content about " + title}})
		require.Equal(t, http.StatusFound, w.Code)
	}
	c.get("/post/2")
	c.get("/post/2")
	c.get("/post/1")

	w := c.get("/api/posts/trending")
	require.Equal(t, http.StatusOK, w.Code)
	var trending []entity.PostCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trending))
	require.Len(t, trending, 2)
	assert.Equal(t, 2, trending[0].Id)
	assert.Equal(t, 2, trending[0].Views)
	assert.Equal(t, 1, trending[0].ReadingTime)

	w = c.get("/api/search?q=kubernetes")
	require.Equal(t, http.StatusOK, w.Code)
	var results []entity.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "/post/1", results[0].Url)

	w = c.get("/api/search?q=k")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	anonymous := newClient(t, engine)
	assertRedirect(t, anonymous.get("/api/search?q=kubernetes"), "/user/login")
}

func TestNotFound(t *testing.T) {
	c := newClient(t, newEngine(t))

	w := c.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "The page you are looking for does not exist.")

	assert.Equal(t, http.StatusNotFound, c.get("/post/42").Code)
	assert.Equal(t, http.StatusNotFound, c.get("/post/abc").Code)
}

func TestAdminCategories(t *testing.T) {
	c := newClient(t, newEngine(t))
	c.loginAdmin()

	w := c.post("/admin/categories", url.Values{"name": {"Cloud Native"}, "description": {"Containers"}})
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Category added successfully!")
	assert.Contains(t, body, "cloud-native")

	assertRedirect(t, c.get("/admin/delete_category/999"), "/admin/categories")
	assert.Contains(t, c.get("/admin/categories").Body.String(), "Category not found!")

	w = c.get("/admin/api/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"appVersion"`)
}
