package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/furwell/clinic-api/pkg/errors"
)

func recordError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, err)
	return w
}

func TestRespondErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperr.NotFound("reservation", nil), http.StatusNotFound},
		{"pet not found", apperr.PetNotFound(nil), http.StatusNotFound},
		{"duplicate pending", apperr.DuplicatePendingReservation(nil), http.StatusConflict},
		{"slot full", apperr.SlotFull("2026-09-14", "10:30", nil), http.StatusConflict},
		{"invalid date", apperr.InvalidDate("bad date", nil), http.StatusBadRequest},
		{"bad request", apperr.BadRequest("missing field", nil), http.StatusBadRequest},
		{"store unavailable", apperr.StoreUnavailable(nil), http.StatusServiceUnavailable},
		{"internal", apperr.Internal(nil), http.StatusInternalServerError},
		{"plain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := recordError(tt.err)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"error"`)
		})
	}
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-09-14")
	require.NoError(t, err)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, 14, parsed.Day())

	_, err = ParseDate("14/09/2026")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.ErrInvalidDate))

	_, err = ParseDate("")
	require.Error(t, err)
}

func TestTimeSlotPattern(t *testing.T) {
	valid := []string{"00:00", "09:30", "10:30", "23:59"}
	for _, slot := range valid {
		assert.True(t, timeSlotPattern.MatchString(slot), slot)
	}

	invalid := []string{"24:00", "9:30", "10:60", "10-30", "", "10:30:00"}
	for _, slot := range invalid {
		assert.False(t, timeSlotPattern.MatchString(slot), slot)
	}
}

func TestPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(query string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		return c
	}

	offset, limit := Pagination(newCtx(""))
	assert.Zero(t, offset)
	assert.Equal(t, DefaultPageSize, limit)

	offset, limit = Pagination(newCtx("offset=10&limit=20"))
	assert.Equal(t, 10, offset)
	assert.Equal(t, 20, limit)

	// Oversized and negative values fall back to defaults.
	offset, limit = Pagination(newCtx("offset=-3&limit=5000"))
	assert.Zero(t, offset)
	assert.Equal(t, DefaultPageSize, limit)
}
