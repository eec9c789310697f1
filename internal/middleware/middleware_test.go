package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskforge-api/internal/auth"
	"github.com/yukikurage/taskforge-api/internal/authz"
	"github.com/yukikurage/taskforge-api/internal/constants"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type fakeUsers map[uuid.UUID]*models.User

func (f fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeMembers map[[2]uuid.UUID]models.ProjectRole

func (f fakeMembers) FindMembership(_ context.Context, projectID, userID uuid.UUID) (*models.ProjectMember, error) {
	role, ok := f[[2]uuid.UUID{projectID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}, nil
}

type fakeProjects map[uuid.UUID]*models.Project

func (f fakeProjects) GetProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, services.ErrProjectNotFound
}

type fakeTasks map[uuid.UUID]*models.Task

func (f fakeTasks) GetTask(_ context.Context, projectID, taskID uuid.UUID) (*models.Task, error) {
	if t, ok := f[taskID]; ok && t.ProjectID == projectID {
		return t, nil
	}
	return nil, services.ErrTaskNotFound
}

type env struct {
	users    fakeUsers
	tokens   *auth.TokenService
	resolver *auth.IdentityResolver
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenService("middleware-secret", "HS256", time.Hour, auth.SystemClock{})
	require.NoError(t, err)

	users := fakeUsers{}
	return &env{
		users:    users,
		tokens:   tokens,
		resolver: auth.NewIdentityResolver(users, tokens, auth.NewBcryptHasher(4), zap.NewNop()),
	}
}

func (e *env) addUser(mutate func(*models.User)) *models.User {
	u := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", IsActive: true, IsVerified: true, SystemRole: models.SystemRoleUser}
	if mutate != nil {
		mutate(u)
	}
	e.users[u.ID] = u
	return u
}

func (e *env) token(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := e.tokens.Issue(u.ID, 0)
	require.NoError(t, err)
	return token
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	e := newEnv(t)
	active := e.addUser(nil)
	inactive := e.addUser(func(u *models.User) { u.IsActive = false })
	ghost := &models.User{ID: uuid.New()}

	r := gin.New()
	r.GET("/me", RequireAuth(e.resolver, zap.NewNop()), func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		require.True(t, ok)
		id, ok := GetUserID(c)
		require.True(t, ok)
		assert.Equal(t, user.ID, id)
		c.String(http.StatusOK, user.ID.String())
	})

	w := serve(r, http.MethodGet, "/me", e.token(t, active))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, active.ID.String(), w.Body.String())

	tests := []struct {
		name   string
		token  string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage", "abc.def.ghi", http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unknown user", e.token(t, ghost), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"inactive", e.token(t, inactive), http.StatusForbidden, "ACCOUNT_INACTIVE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/me", tt.token)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	e := newEnv(t)
	user := e.addUser(nil)

	past := time.Now().Add(-2 * time.Hour)
	issuer, err := auth.NewTokenService("middleware-secret", "HS256", time.Hour, auth.ClockFunc(func() time.Time { return past }))
	require.NoError(t, err)
	token, err := issuer.Issue(user.ID, time.Minute)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", RequireAuth(e.resolver, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cookie.NewStore([]byte("secret"))

	tests := []struct {
		name    string
		header  string
		session string
		want    string
	}{
		{"header", "Bearer abc", "", "abc"},
		{"lowercase scheme", "bearer abc", "", "abc"},
		{"other scheme", "Basic abc", "xyz", ""},
		{"session fallback", "", "xyz", "xyz"},
		{"header wins", "Bearer abc", "xyz", "abc"},
		{"nothing", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			r := gin.New()
			r.Use(sessions.Sessions("s", store))
			r.GET("/", func(c *gin.Context) {
				if tt.session != "" {
					sessions.Default(c).Set(constants.SessionKeyToken, tt.session)
				}
				got = BearerToken(c)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBearerToken_NoSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, BearerToken(c))
}

func TestRequireSystemAdmin(t *testing.T) {
	e := newEnv(t)
	admin := e.addUser(func(u *models.User) { u.SystemRole = models.SystemRoleAdmin })
	user := e.addUser(nil)

	r := gin.New()
	r.GET("/admin", RequireAuth(e.resolver, zap.NewNop()), RequireSystemAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin", e.token(t, admin)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", e.token(t, user)).Code)
}

func TestRequireProjectRole(t *testing.T) {
	e := newEnv(t)
	admin := e.addUser(func(u *models.User) { u.SystemRole = models.SystemRoleAdmin })
	owner := e.addUser(nil)
	viewer := e.addUser(nil)
	outsider := e.addUser(nil)

	project := &models.Project{ID: uuid.New(), Name: "p"}
	orphan := uuid.New()
	members := fakeMembers{
		{project.ID, owner.ID}:  models.ProjectRoleOwner,
		{project.ID, viewer.ID}: models.ProjectRoleViewer,
		// Membership that points at a project which no longer loads
		{orphan, owner.ID}: models.ProjectRoleOwner,
	}
	guard := authz.NewGuard(members)

	r := gin.New()
	r.PATCH("/projects/:project_id", RequireAuth(e.resolver, zap.NewNop()),
		RequireProjectRole(guard, fakeProjects{project.ID: project}, models.ProjectRoleAdmin, zap.NewNop()),
		func(c *gin.Context) {
			p, ok := GetProject(c)
			require.True(t, ok)
			role, ok := GetEffectiveRole(c)
			require.True(t, ok)
			c.String(http.StatusOK, p.ID.String()+" "+string(role))
		})

	tests := []struct {
		name   string
		user   *models.User
		id     string
		status int
		body   string
	}{
		{"owner", owner, project.ID.String(), http.StatusOK, "owner"},
		{"system admin", admin, project.ID.String(), http.StatusOK, "owner"},
		{"viewer", viewer, project.ID.String(), http.StatusForbidden, "INSUFFICIENT_ROLE"},
		{"outsider", outsider, project.ID.String(), http.StatusForbidden, "NOT_A_MEMBER"},
		{"outsider on unknown project", outsider, uuid.NewString(), http.StatusForbidden, "NOT_A_MEMBER"},
		{"admin on unknown project", admin, uuid.NewString(), http.StatusNotFound, "NOT_FOUND"},
		{"member of missing project", owner, orphan.String(), http.StatusNotFound, "NOT_FOUND"},
		{"bad id", owner, "42", http.StatusBadRequest, "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodPatch, "/projects/"+tt.id, e.token(t, tt.user))
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRequireTask(t *testing.T) {
	gin.SetMode(gin.TestMode)
	project := &models.Project{ID: uuid.New()}
	task := &models.Task{ID: uuid.New(), ProjectID: project.ID}
	foreign := &models.Task{ID: uuid.New(), ProjectID: uuid.New()}
	tasks := fakeTasks{task.ID: task, foreign.ID: foreign}

	withProject := func(c *gin.Context) {
		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}

	r := gin.New()
	r.GET("/tasks/:task_id", withProject, RequireTask(tasks, zap.NewNop()), func(c *gin.Context) {
		got, ok := GetTask(c)
		require.True(t, ok)
		c.String(http.StatusOK, got.ID.String())
	})
	r.GET("/bare/:task_id", RequireTask(tasks, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/tasks/"+task.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, task.ID.String(), w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/tasks/"+foreign.ID.String(), "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/tasks/nope", "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodGet, "/bare/"+task.ID.String(), "").Code)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, http.MethodGet, "/ok", "")
	serve(r, http.MethodGet, "/missing", "")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
	assert.Equal(t, "/missing", entries[1].ContextMap()["path"])
}
