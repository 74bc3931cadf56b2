// Package backend runs an in-process stand-in for the portal REST API, built on echo,
// for tests of the client, services and CLI.
package backend

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
	"github.com/zdaf-zdaf/group-platform/internal/testutil"
)

// User is an account known to the stub backend.
type User struct {
	ID        int64
	Username  string
	Password  string
	Role      string
	Email     string
	StudentID string
	Faculty   string
}

type failure struct {
	status int
	body   string
}

// Backend is a running stub API server.
type Backend struct {
	srv *httptest.Server

	mu        sync.Mutex
	nextID    int64
	users     map[string]*User
	notices   map[int64]*model.Notice
	reads     map[string]map[int64]bool
	materials map[int64]*model.Material
	files     map[int64][]byte
	sets      map[int64]*model.QuestionSet
	questions map[int64]*model.ForumQuestion
	likes     map[int64]map[string]bool
	subs      []model.Submission
	failures  map[string]failure
	hits      map[string]int
	revoked   bool
	tokenTTL  time.Duration
}

// New starts a stub backend seeded with student1 and teacher1 (password "password").
// The server is closed when the test ends.
func New(t testutil.TestingTB) *Backend {
	t.Helper()
	b := &Backend{
		users:     map[string]*User{},
		notices:   map[int64]*model.Notice{},
		reads:     map[string]map[int64]bool{},
		materials: map[int64]*model.Material{},
		files:     map[int64][]byte{},
		sets:      map[int64]*model.QuestionSet{},
		questions: map[int64]*model.ForumQuestion{},
		likes:     map[int64]map[string]bool{},
		failures:  map[string]failure{},
		hits:      map[string]int{},
		tokenTTL:  time.Hour,
	}
	b.AddUser(User{Username: "student1", Password: "password", Role: "student", Email: "s1@example.com"})
	b.AddUser(User{Username: "teacher1", Password: "password", Role: "teacher", Email: "t1@example.com"})

	b.srv = httptest.NewServer(b.router())
	if tc, ok := any(t).(interface{ Cleanup(func()) }); ok {
		tc.Cleanup(b.srv.Close)
	}
	return b
}

// URL returns the API base URL, ending in "/api/".
func (b *Backend) URL() string { return b.srv.URL + "/api/" }

// Close stops the server.
func (b *Backend) Close() { b.srv.Close() }

// AddUser registers an account and returns its id.
func (b *Backend) AddUser(u User) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	u.ID = b.nextID
	b.users[u.Username] = &u
	return u.ID
}

// User returns a copy of the named account.
func (b *Backend) User(username string) (User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[username]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// AddNotice stores a notice and returns its id.
func (b *Backend) AddNotice(n model.Notice) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	n.ID = b.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	b.notices[n.ID] = &n
	return n.ID
}

// AddSubmission stores a graded submission.
func (b *Backend) AddSubmission(s model.Submission) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// IsRead reports whether username has read notice id.
func (b *Backend) IsRead(username string, id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads[username][id]
}

// Fail makes every request matching method and path (e.g. "/api/notices/") answer
// with status and body until Recover is called.
func (b *Backend) Fail(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, body: body}
}

// Recover removes all injected failures.
func (b *Backend) Recover() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]failure{}
}

// RevokeTokens makes every authenticated request fail with 401.
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked = true
}

// SetTokenTTL changes the lifetime of tokens issued from now on.
func (b *Backend) SetTokenTTL(ttl time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokenTTL = ttl
}

// Hits returns how many requests reached method and path.
func (b *Backend) Hits(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[method+" "+path]
}

func (b *Backend) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := "internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = fmt.Sprintf("%v", he.Message)
		}
		_ = c.JSON(code, map[string]string{"detail": msg})
	}
	e.Pre(b.record)

	api := e.Group("/api")
	api.GET("/csrf/", b.csrf)
	api.POST("/auth/login/", b.login)
	api.POST("/auth/register/", b.register)

	authed := api.Group("", b.authenticate)
	authed.GET("/auth/user", b.userInfo)
	authed.PATCH("/auth/user/profile/", b.updateProfile)

	authed.GET("/notices/", b.listNotices)
	authed.POST("/notices/", b.createNotice, teacherOnly)
	authed.GET("/notices/unread_count/", b.unreadCount)
	authed.POST("/notices/mark_all_read/", b.markAllRead)
	authed.GET("/notices/:id/", b.getNotice)
	authed.PUT("/notices/:id/", b.updateNotice, teacherOnly)
	authed.DELETE("/notices/:id/", b.deleteNotice, teacherOnly)
	authed.POST("/notices/:id/mark_as_read/", b.markRead)

	authed.GET("/materials/", b.listMaterials)
	authed.POST("/materials/", b.createMaterial, teacherOnly)
	authed.PUT("/materials/:id/", b.updateMaterial, teacherOnly)
	authed.DELETE("/materials/:id/", b.deleteMaterial, teacherOnly)
	authed.GET("/materials/:id/download/", b.downloadMaterial)

	authed.GET("/experiments/sets/", b.listSets)
	authed.POST("/experiments/sets/", b.createSet, teacherOnly)
	authed.GET("/experiments/sets/:id/", b.getSet)
	authed.PUT("/experiments/sets/:id/", b.updateSet, teacherOnly)
	authed.DELETE("/experiments/sets/:id/", b.deleteSet, teacherOnly)
	authed.GET("/experiments/submissions/", b.listSubmissions)

	authed.GET("/forum/questions/", b.listQuestions)
	authed.POST("/forum/questions/", b.createQuestion)
	authed.DELETE("/forum/questions/:id/", b.deleteQuestion)
	authed.PATCH("/forum/questions/:id/toggle-sticky/", b.toggleSticky, teacherOnly)
	authed.PATCH("/forum/questions/:id/toggle-like/", b.toggleLike)
	authed.POST("/forum/questions/:id/comments/", b.addComment)
	authed.DELETE("/forum/comments/:id/", b.deleteComment)
	return e
}

// record counts the hit and serves an injected failure when one matches.
func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Method + " " + c.Request().URL.Path
		b.mu.Lock()
		b.hits[key]++
		f, failing := b.failures[key]
		b.mu.Unlock()
		if failing {
			return c.Blob(f.status, echo.MIMEApplicationJSON, []byte(f.body))
		}
		return next(c)
	}
}

func (b *Backend) csrf(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: "csrftoken", Value: "stub-csrf-token", Path: "/"})
	return c.NoContent(http.StatusNoContent)
}

func (b *Backend) issueToken(u *User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"token_type": "access",
		"user_id":    u.ID,
		"username":   u.Username,
		"role":       u.Role,
		"iat":        now.Unix(),
		"exp":        now.Add(b.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testutil.TestSigningKey)
}

// authenticate validates the bearer JWT and stores the user in the context.
func (b *Backend) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return testutil.TestSigningKey, nil
		})
		b.mu.Lock()
		revoked := b.revoked
		b.mu.Unlock()
		if err != nil || !tkn.Valid || revoked {
			return echo.NewHTTPError(http.StatusUnauthorized, "Given token not valid for any token type")
		}

		username, _ := claims["username"].(string)
		u, found := b.User(username)
		if !found {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		c.Set("user", u)
		return next(c)
	}
}

func currentUser(c echo.Context) User {
	u, _ := c.Get("user").(User)
	return u
}

func teacherOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentUser(c).Role != "teacher" {
			return echo.NewHTTPError(http.StatusForbidden, "您没有执行该操作的权限。")
		}
		return next(c)
	}
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found.")
	}
	return id, nil
}

func notFound() error {
	return echo.NewHTTPError(http.StatusNotFound, "Not found.")
}
