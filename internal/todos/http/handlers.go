package http

import (
	"errors"
	"net/http"

	"github.com/GoSim-25-26J-441/todo-service/internal/todos/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if !bindBody(c, &req) {
		return
	}

	item, err := h.svc.Create(c.Request.Context(), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "todo": item})
}

func (h *Handler) setDone(c *gin.Context) {
	var req setDoneReq
	if !bindBody(c, &req) {
		return
	}

	if err := h.svc.SetDone(c.Request.Context(), req.ID, *req.Done); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) delete(c *gin.Context) {
	var req deleteReq
	if !bindBody(c, &req) {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), req.ID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// bindBody decodes and validates the JSON body, answering 400 itself on failure.
func bindBody(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"code":  CodeValidation,
			"field": fe.Field(),
			"error": fe.Field() + " " + describeFieldError(fe),
		})
		return false
	}

	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "code": CodeInvalidBody, "error": "invalid body"})
	return false
}

func writeError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	var storageErr *domain.StorageError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"code":  CodeValidation,
			"field": vErr.Field,
			"error": vErr.Field + " " + vErr.Message,
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "code": CodeNotFound, "error": "todo not found"})
	case errors.As(err, &storageErr) && storageErr.Timeout():
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "code": CodeStorageTimeout, "error": "storage timed out"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "code": CodeStorage, "error": "storage failure"})
	}
}
