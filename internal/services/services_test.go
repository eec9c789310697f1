package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskforge-api/internal/auth"
	"github.com/yukikurage/taskforge-api/internal/authz"
	"github.com/yukikurage/taskforge-api/internal/repository"
	"github.com/yukikurage/taskforge-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testArgon2 = auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	users    repository.UserRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	tokens   *auth.TokenService
	resolver *auth.IdentityResolver
	guard    *authz.Guard

	authService    *AuthService
	userService    *UserService
	projectService *ProjectService
	taskService    *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := zap.NewNop()
	hasher := auth.NewArgon2Hasher(testArgon2)

	tokens, err := auth.NewTokenService("services-secret", "HS256", 30*time.Minute, auth.SystemClock{})
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db, 3)
	tasks := repository.NewTaskRepository(db)
	resolver := auth.NewIdentityResolver(users, tokens, hasher, log)

	return &fixture{
		ctx:            context.Background(),
		db:             db,
		users:          users,
		projects:       projects,
		tasks:          tasks,
		tokens:         tokens,
		resolver:       resolver,
		guard:          authz.NewGuard(projects),
		authService:    NewAuthService(users, resolver, hasher, log),
		userService:    NewUserService(users, hasher, log),
		projectService: NewProjectService(projects, users, log),
		taskService:    NewTaskService(tasks, projects, log),
	}
}

func strPtr(s string) *string { return &s }
