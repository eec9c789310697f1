// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskforge-api/internal/config"
	"github.com/yukikurage/taskforge-api/internal/database"
	"github.com/yukikurage/taskforge-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewDB opens a migrated SQLite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// CreateUser inserts an active, verified user. mutate may adjust the row
// before insert.
func CreateUser(t testing.TB, db *gorm.DB, email string, mutate func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		ID:         uuid.New(),
		Email:      email,
		IsActive:   true,
		IsVerified: true,
		SystemRole: models.SystemRoleUser,
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project with the given members.
func CreateProject(t testing.TB, db *gorm.DB, name string, creator *models.User, members map[*models.User]models.ProjectRole) *models.Project {
	t.Helper()

	project := &models.Project{Name: name, CreatedBy: creator.ID}
	require.NoError(t, db.Create(project).Error)

	for user, role := range members {
		AddMember(t, db, project, user, role)
	}
	return project
}

// AddMember inserts a membership row.
func AddMember(t testing.TB, db *gorm.DB, project *models.Project, user *models.User, role models.ProjectRole) *models.ProjectMember {
	t.Helper()

	member := &models.ProjectMember{ProjectID: project.ID, UserID: user.ID, Role: role}
	require.NoError(t, db.Omit("User").Create(member).Error)
	return member
}

// CreateTask inserts a todo task.
func CreateTask(t testing.TB, db *gorm.DB, project *models.Project, creator *models.User, title string, mutate func(*models.Task)) *models.Task {
	t.Helper()

	task := &models.Task{
		ProjectID: project.ID,
		Title:     title,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		CreatorID: creator.ID,
	}
	if mutate != nil {
		mutate(task)
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
