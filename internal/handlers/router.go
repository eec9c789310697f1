package handlers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskforge-api/internal/auth"
	"github.com/yukikurage/taskforge-api/internal/authz"
	"github.com/yukikurage/taskforge-api/internal/middleware"
	"github.com/yukikurage/taskforge-api/internal/models"
	"github.com/yukikurage/taskforge-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RouterDeps holds everything the HTTP layer needs.
type RouterDeps struct {
	DB             *gorm.DB
	Log            *zap.Logger
	SessionStore   sessions.Store
	CookieName     string
	Resolver       *auth.IdentityResolver
	Guard          *authz.Guard
	AuthService    *services.AuthService
	UserService    *services.UserService
	ProjectService *services.ProjectService
	TaskService    *services.TaskService
}

// NewRouter builds the gin engine with every /api/v1 route registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(sessions.Sessions(deps.CookieName, deps.SessionStore))

	authHandler := NewAuthHandler(deps.AuthService, log)
	userHandler := NewUserHandler(deps.UserService, log)
	projectHandler := NewProjectHandler(deps.ProjectService, log)
	taskHandler := NewTaskHandler(deps.TaskService, log)
	healthHandler := NewHealthHandler(deps.DB, log)

	requireAuth := middleware.RequireAuth(deps.Resolver, log)
	projectRole := func(required models.ProjectRole) gin.HandlerFunc {
		return middleware.RequireProjectRole(deps.Guard, deps.ProjectService, required, log)
	}
	requireTask := middleware.RequireTask(deps.TaskService, log)

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandler.Health)

		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/admin/verify-user", requireAuth, middleware.RequireSystemAdmin(), authHandler.VerifyUser)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/me", userHandler.GetMe)
			users.PATCH("/me", userHandler.UpdateMe)
			users.DELETE("/me", userHandler.DeleteMe)
		}

		admin := api.Group("/admin")
		admin.Use(requireAuth, middleware.RequireSystemAdmin())
		{
			admin.GET("/users", userHandler.ListUsers)
			admin.PATCH("/users/:user_id", userHandler.AdminUpdateUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:project_id", projectRole(models.ProjectRoleViewer), projectHandler.GetProject)
			projects.PATCH("/:project_id", projectRole(models.ProjectRoleAdmin), projectHandler.UpdateProject)
			projects.DELETE("/:project_id", projectRole(models.ProjectRoleAdmin), projectHandler.DeleteProject)

			projects.GET("/:project_id/members", projectRole(models.ProjectRoleViewer), projectHandler.ListMembers)
			projects.POST("/:project_id/members", projectRole(models.ProjectRoleAdmin), projectHandler.AddMember)
			projects.PATCH("/:project_id/members/:user_id", projectRole(models.ProjectRoleAdmin), projectHandler.UpdateMemberRole)
			projects.DELETE("/:project_id/members/:user_id", projectRole(models.ProjectRoleAdmin), projectHandler.RemoveMember)

			projects.GET("/:project_id/tasks", projectRole(models.ProjectRoleViewer), taskHandler.ListTasks)
			projects.POST("/:project_id/tasks", projectRole(models.ProjectRoleMember), taskHandler.CreateTask)
			projects.GET("/:project_id/tasks/:task_id", projectRole(models.ProjectRoleViewer), requireTask, taskHandler.GetTask)
			// Edit rights depend on assignment, checked in the service
			projects.PATCH("/:project_id/tasks/:task_id", projectRole(models.ProjectRoleViewer), requireTask, taskHandler.UpdateTask)
			projects.DELETE("/:project_id/tasks/:task_id", projectRole(models.ProjectRoleAdmin), requireTask, taskHandler.DeleteTask)
		}
	}

	return r
}
