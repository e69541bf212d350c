package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cuaderno/internal/service"
	"cuaderno/pkg/response"
)

type TaskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/trabajos")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}

// ListTasks returns scheduled jobs
// @Summary      List tasks
// @Tags         trabajos
// @Security     BearerAuth
// @Produce      json
// @Param        estado  query     string  false  "pendiente, en_progreso or completado"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Success      200     {object}  response.Response{data=[]model.Task}
// @Router       /api/trabajos [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	writeList(c, h.taskService.List(c.Query("estado")))
}

// CreateTask schedules a job
// @Summary      Create task
// @Tags         trabajos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.TaskRequest  true  "Task"
// @Success      201      {object}  response.Response{data=model.Task}
// @Failure      400      {object}  response.Response
// @Router       /api/trabajos [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req service.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.taskService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusCreated, res)
}

// UpdateTask replaces a task
// @Summary      Update task
// @Tags         trabajos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Task ID"
// @Param        payload  body      service.TaskRequest  true  "Task"
// @Success      200      {object}  response.Response{data=model.Task}
// @Failure      404      {object}  response.Response
// @Router       /api/trabajos/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req service.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.taskService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusOK, res)
}

// DeleteTask removes a task
// @Summary      Delete task
// @Tags         trabajos
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/trabajos/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := h.taskService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"id": id}))
}
