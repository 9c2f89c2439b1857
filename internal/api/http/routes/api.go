package routes

import (
	"github.com/GoSim-25-26J-441/todo-service/internal/metrics"
	todohttp "github.com/GoSim-25-26J-441/todo-service/internal/todos/http"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/repository"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type APIDeps struct {
	DB      *sqlx.DB
	Events  service.Publisher
	Metrics *metrics.Collector
	Log     *zap.Logger
}

// RegisterAPI mounts the todo endpoints under <rg>/api/todos.
func RegisterAPI(rg *gin.RouterGroup, dep APIDeps) {
	api := rg.Group("/api")

	todoRepo := repository.NewTodoRepository(dep.DB)
	todoService := service.NewTodoService(todoRepo, dep.Events, dep.Metrics, dep.Log)
	todohttp.New(todoService).Register(api.Group("/todos"))
}
