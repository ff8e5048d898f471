package routes

import (
	"net/http"

	"github.com/Aditya0Kumar/trackr-sub000/controllers"
	"github.com/Aditya0Kumar/trackr-sub000/middleware"
	"github.com/Aditya0Kumar/trackr-sub000/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter wires middleware and routes onto a fresh engine. The internal group is only
// mounted when internalToken is set.
func NewRouter(db *gorm.DB, publisher services.ActivityPublisher, settings services.Settings, internalToken string) *gin.Engine {
	directory := services.NewDirectory(db, settings)
	taskService := services.NewTaskService(db, directory, publisher, settings)
	attendanceService := services.NewAttendanceService(db, directory, settings)

	r := gin.New()
	middleware.SetupMiddleware(r)
	RegisterRoutes(r, taskService, attendanceService)
	if internalToken != "" {
		RegisterInternalRoutes(r, directory, internalToken)
	}
	return r
}

func RegisterRoutes(r *gin.Engine, taskService *services.TaskService, attendanceService *services.AttendanceService) {
	RegisterValidators()

	taskController := controllers.NewTaskController(taskService)
	attendanceController := controllers.NewAttendanceController(attendanceService)

	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware())
	{
		private.POST("/tasks", taskController.CreateTask)
		private.GET("/tasks", taskController.ListTasks)
		private.GET("/tasks/:id", taskController.GetTask)
		private.GET("/tasks/:id/activity", taskController.GetActivity)
		private.PUT("/tasks/:id/todo", taskController.UpdateChecklist)
		private.PUT("/tasks/:id/todo/verify", taskController.VerifyTodo)
		private.POST("/tasks/:id/todo/items", taskController.AddTodoItem)
		private.DELETE("/tasks/:id/todo/items/:itemId", taskController.RemoveTodoItem)
		private.PUT("/tasks/:id/status", taskController.UpdateStatus)
		private.PUT("/tasks/:id/assignees", taskController.UpdateAssignees)
		private.POST("/tasks/:id/comments", taskController.AddComment)

		private.POST("/attendance/mark", attendanceController.MarkAttendance)
		private.GET("/attendance", attendanceController.ListAttendance)
		private.GET("/rectifications/attempts", attendanceController.GetAttempts)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

// RegisterInternalRoutes mounts the provisioning API used by the identity system
func RegisterInternalRoutes(r *gin.Engine, directory *services.Directory, token string) {
	RegisterValidators()
	directoryController := controllers.NewDirectoryController(directory)

	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(token))
	{
		internal.POST("/users", directoryController.CreateUser)
		internal.POST("/users/:id/token", directoryController.IssueToken)
		internal.PUT("/workspaces/:id/members", directoryController.SetMember)
	}
}
