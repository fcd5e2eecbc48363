package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/response"
)

// HandleError writes err as the JSON envelope with the status it carries.
func HandleError(c *gin.Context, logger internal.Logger, err error) {
	requestID := c.GetString("request_id")
	appErr := internal.AsAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Errorf("[request_id=%s] %s: %v", requestID, appErr.Message, err)
	} else {
		logger.Infof("[request_id=%s] %d %s", requestID, appErr.Code, appErr.Message)
	}
	c.JSON(appErr.Code, response.FromAppError(appErr))
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	respond(c, logger, http.StatusOK, data, meta)
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}) {
	respond(c, logger, http.StatusCreated, data, nil)
}

func respond(c *gin.Context, logger internal.Logger, status int, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] Success", requestID)
	c.JSON(status, response.Success(data, meta))
}

// HandleNotFound answers a read whose result is not visible to the caller.
func HandleNotFound(c *gin.Context, logger internal.Logger, msg string) {
	logger.Infof("[request_id=%s] 404 %s", c.GetString("request_id"), msg)
	c.JSON(http.StatusNotFound, response.NotFound(msg))
}

// bindForm binds form-encoded or JSON bodies into form.
func bindForm(c *gin.Context, logger internal.Logger, form any) bool {
	if err := c.ShouldBind(form); err != nil {
		HandleError(c, logger, internal.WrapAppError(http.StatusBadRequest, "Invalid request body", err))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
