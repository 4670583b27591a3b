package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body shared by every endpoint.
// Status is "success" for 2xx, "fail" for 4xx and "error" for 5xx.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// GinErrorHandler translates errors into the response envelope.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	env := Envelope{
		Message: appErr.Message,
	}
	if appErr.HTTPCode >= http.StatusInternalServerError {
		env.Status = "error"
		if !h.Debug {
			env.Message = "Internal server error"
		}
	} else {
		env.Status = "fail"
		// Structured per-field detail is only exposed for validation failures.
		if appErr.Code == CodeValidationFailed && appErr.Details != nil {
			env.Errors = appErr.Details
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, env)
}

// HandleError is the shortcut used by handlers and middleware.
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: gin.Mode() != gin.ReleaseMode}
	handler.HandleGinError(c, err)
}

// AsAppError extracts an *AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
