package resp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"hotelbooking/services"
)

func TestErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		body   string
	}{
		{services.ErrMissingFields, http.StatusBadRequest, "Please fill in all fields"},
		{services.ErrWrongPassword, http.StatusUnauthorized, "Wrong password."},
		{services.ErrUserNotFound, http.StatusUnauthorized, "No user corresponding to the given email."},
		{services.ErrEmailInUse, http.StatusConflict, "That email address is already in use!"},
		{fmt.Errorf("hotel h1: %w", services.ErrNotFound), http.StatusNotFound, "Not found"},
		{services.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{fmt.Errorf("r1 is booked: %w", services.ErrInvalidTransition), http.StatusConflict, "r1 is booked"},
		{services.ErrTokenRevoked, http.StatusUnauthorized, "revoked"},
		{errors.New("deadline exceeded"), http.StatusInternalServerError, "Failed to fetch hotels"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Error(c, "fetch hotels", tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), tc.body)
	}
}

// c.Stream needs a writer that implements http.CloseNotifier.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestStream(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a := services.Document{ID: "a", Data: map[string]interface{}{"name": "A"}}
	b := services.Document{ID: "b", Data: map[string]interface{}{"name": "B"}}
	listen := func(ctx context.Context, fn func(services.Snapshot) error) error {
		snaps := []services.Snapshot{
			{
				Docs:    []services.Document{a},
				Changes: []services.Change{{Kind: services.ChangeAdded, Doc: a, OldIndex: -1, NewIndex: 0}},
			},
			{
				Docs:    []services.Document{a, b},
				Changes: []services.Change{{Kind: services.ChangeAdded, Doc: b, OldIndex: -1, NewIndex: 1}},
			},
		}
		for _, s := range snaps {
			if err := fn(s); err != nil {
				return err
			}
		}
		return nil
	}

	router := gin.New()
	router.GET("/stream", func(c *gin.Context) {
		Stream(c, "stream test", listen, func(d services.Document) any { return d.Data })
	})
	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))

	body := w.Body.String()
	assert.Contains(t, body, "event:snapshot")
	assert.Contains(t, body, `[{"name":"A"}]`)
	assert.Contains(t, body, "event:change")
	assert.Contains(t, body, `"type":"added"`)
	assert.Contains(t, body, `"item":{"name":"B"}`)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
}
