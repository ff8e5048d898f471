package controllers

import (
	"net/http"

	"github.com/Aditya0Kumar/trackr-sub000/models"
	"github.com/Aditya0Kumar/trackr-sub000/services"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	tasks *services.TaskService
}

func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

// CreateTask POST /tasks
func (tc *TaskController) CreateTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := tc.tasks.CreateTask(c.Request.Context(), c.GetString("uid"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ListTasks GET /tasks?workspaceId=&status=
func (tc *TaskController) ListTasks(c *gin.Context) {
	var query models.ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	tasks, err := tc.tasks.ListTasks(c.Request.Context(), c.GetString("uid"), query.WorkspaceID, query.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTask GET /tasks/:id
func (tc *TaskController) GetTask(c *gin.Context) {
	task, err := tc.tasks.GetTask(c.Request.Context(), c.Param("id"), c.GetString("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GetActivity GET /tasks/:id/activity?order=newest|oldest
func (tc *TaskController) GetActivity(c *gin.Context) {
	order := c.DefaultQuery("order", "newest")
	if order != "newest" && order != "oldest" {
		invalidRequest(c, "order must be newest or oldest")
		return
	}

	entries, err := tc.tasks.Activity(c.Request.Context(), c.Param("id"), c.GetString("uid"), order == "newest")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activityLog": entries})
}

// UpdateChecklist PUT /tasks/:id/todo, either a single toggle or the full list
func (tc *TaskController) UpdateChecklist(c *gin.Context) {
	var req models.UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var (
		task *models.Task
		err  error
	)
	switch {
	case req.TodoID != "" && req.TodoChecklist != nil:
		invalidRequest(c, "send either todoId or todoChecklist, not both")
		return
	case req.TodoID != "":
		task, err = tc.tasks.ToggleCompletion(c.Request.Context(), c.Param("id"), req.TodoID, c.GetString("uid"))
	case req.TodoChecklist != nil:
		task, err = tc.tasks.UpdateChecklist(c.Request.Context(), c.Param("id"), c.GetString("uid"), req.TodoChecklist)
	default:
		invalidRequest(c, "todoId or todoChecklist is required")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// VerifyTodo PUT /tasks/:id/todo/verify
func (tc *TaskController) VerifyTodo(c *gin.Context) {
	var req models.VerifyTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := tc.tasks.SetVerification(c.Request.Context(), c.Param("id"), req.TodoID, c.GetString("uid"), *req.Verified)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// AddTodoItem POST /tasks/:id/todo/items
func (tc *TaskController) AddTodoItem(c *gin.Context) {
	var req models.NewChecklistItem
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := tc.tasks.AddChecklistItem(c.Request.Context(), c.Param("id"), c.GetString("uid"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// RemoveTodoItem DELETE /tasks/:id/todo/items/:itemId
func (tc *TaskController) RemoveTodoItem(c *gin.Context) {
	task, err := tc.tasks.RemoveChecklistItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), c.GetString("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateStatus PUT /tasks/:id/status
func (tc *TaskController) UpdateStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := tc.tasks.RequestStatusChange(c.Request.Context(), c.Param("id"), c.GetString("uid"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateAssignees PUT /tasks/:id/assignees
func (tc *TaskController) UpdateAssignees(c *gin.Context) {
	var req models.UpdateAssigneesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := tc.tasks.UpdateAssignees(c.Request.Context(), c.Param("id"), c.GetString("uid"), req.AssignedTo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// AddComment POST /tasks/:id/comments
func (tc *TaskController) AddComment(c *gin.Context) {
	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := tc.tasks.AddComment(c.Request.Context(), c.Param("id"), c.GetString("uid"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}
