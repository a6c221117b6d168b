package respond

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"kalender/services"
)

func TestStatus(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("%w: x", services.ErrBadArguments):  http.StatusBadRequest,
		fmt.Errorf("%w: x", services.ErrUnauthorized):  http.StatusUnauthorized,
		fmt.Errorf("%w: x", services.ErrForbidden):     http.StatusForbidden,
		fmt.Errorf("%w: x", services.ErrNotFound):      http.StatusNotFound,
		fmt.Errorf("%w: x", services.ErrAlreadyExists): http.StatusConflict,
		errors.New("disk on fire"):                     http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, Status(err), err.Error())
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("connection refused to 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
	assert.Len(t, c.Errors, 1)
}
