package http

import "github.com/GoSim-25-26J-441/todo-service/internal/todos/service"

// Handler handles HTTP requests for todo items
type Handler struct {
	svc *service.TodoService
}

// New creates a new Handler
func New(svc *service.TodoService) *Handler {
	mustRegisterValidators()
	return &Handler{svc: svc}
}

type createReq struct {
	Title string `json:"title" binding:"required,notblank"`
}

type setDoneReq struct {
	ID   string `json:"id" binding:"required,notblank"`
	Done *bool  `json:"done" binding:"required"`
}

type deleteReq struct {
	ID string `json:"id" binding:"required,notblank"`
}

// Machine-readable error codes returned in the "code" field.
const (
	CodeInvalidBody    = "invalid_body"
	CodeValidation     = "validation_error"
	CodeNotFound       = "not_found"
	CodeStorage        = "storage_error"
	CodeStorageTimeout = "storage_timeout"
)
