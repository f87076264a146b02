package handler

import (
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperr "github.com/furwell/clinic-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// DefaultPageSize is the page length used by listing endpoints when the
// client does not ask for one.
const DefaultPageSize = 5

var timeSlotPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterValidations installs custom binding validators on gin's
// validator engine. Call once at startup.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
			return timeSlotPattern.MatchString(fl.Field().String())
		})
	}
}

// ParseDate parses a YYYY-MM-DD date in the server's local zone.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, apperr.InvalidDate("date must be YYYY-MM-DD", err)
	}
	return t, nil
}

// Pagination extracts offset/limit query parameters with defaults.
func Pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > 100 {
		limit = DefaultPageSize
	}
	return offset, limit
}
