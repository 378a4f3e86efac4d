// Package filter defines the optional filter sets accepted by list queries.
//
// Optional predicates are pointer fields: nil means "not specified" and is
// never confused with an empty string or zero.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of minimum_last_changed_date.
const DateLayout = "2006-01-02"

// Pagination defaults.
const (
	DefaultSkip  = 0
	DefaultLimit = 100
)

// ErrInvalidFilter is returned when a filter set fails validation.
var ErrInvalidFilter = errors.New("invalid filter")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Page is offset pagination over a primary-key ordered result set.
type Page struct {
	Skip  int `validate:"min=0"`
	Limit int `validate:"min=1"`
}

// DefaultPage returns skip=0, limit=100.
func DefaultPage() Page {
	return Page{Skip: DefaultSkip, Limit: DefaultLimit}
}

// Players filters the player collection.
type Players struct {
	Page
	MinLastChangedDate *time.Time
	FirstName          *string
	LastName           *string
}

// Performances filters the performance collection.
type Performances struct {
	Page
	MinLastChangedDate *time.Time
}

// Leagues filters the league collection.
type Leagues struct {
	Page
	MinLastChangedDate *time.Time
	LeagueName         *string
}

// Teams filters the team collection.
type Teams struct {
	Page
	MinLastChangedDate *time.Time
	TeamName           *string
	LeagueID           *int
}

// Validate checks a filter set and wraps failures with ErrInvalidFilter.
func Validate(f any) error {
	err := instance().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must be %s %s", strings.ToLower(fe.Field()), describe(fe.Tag()), fe.Param()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidFilter, strings.Join(msgs, "; "))
}

func describe(tag string) string {
	switch tag {
	case "min":
		return ">="
	case "max":
		return "<="
	default:
		return tag
	}
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidFilter, s)
	}
	return t, nil
}

// Ptr returns a pointer to v. Handy for building filters in callers and tests.
func Ptr[T any](v T) *T {
	return &v
}
