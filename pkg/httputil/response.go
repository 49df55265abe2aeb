package httputil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/medisetu/portal-api/pkg/errors"
)

// ErrorBody is the uniform error response shape: {"error": "..."}.
// Messages are short and human-readable; stack traces and wrapped
// internals never reach the client.
type ErrorBody struct {
	Error string `json:"error"`
}

// RespondWithError maps an application error to a status and body.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		c.JSON(appErr.HTTPStatus(), ErrorBody{Error: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: "Internal server error"})
}

// RespondWithBindError maps a request binding failure to a 400 with the
// offending fields listed.
func RespondWithBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		c.JSON(http.StatusBadRequest, ErrorBody{
			Error: "missing or invalid fields: " + strings.Join(fields, ", "),
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorBody{Error: "invalid request body"})
}
