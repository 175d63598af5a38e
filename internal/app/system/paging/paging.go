// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the default number of rows in a paged list.
const PageSize = 50

// MaxPageSize caps a caller-supplied limit.
const MaxPageSize = 200

// ParseLimit reads the "limit" query parameter, defaulting to PageSize and
// clamping to [1, MaxPageSize].
func ParseLimit(r *http.Request) int {
	n, err := strconv.Atoi(query.Get(r, "limit"))
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// ParseBefore reads the "before" cursor (an ObjectID hex). A missing or
// malformed cursor means the first page.
func ParseBefore(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(query.Get(r, "before"))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// TrimPage trims rows fetched with limit+1 look-ahead back to limit and
// reports whether another page exists.
func TrimPage[T any](rows *[]T, limit int) bool {
	if len(*rows) > limit {
		*rows = (*rows)[:limit]
		return true
	}
	return false
}

// NextCursor returns the cursor for the page after rows, or "" when there
// is none.
func NextCursor[T any](rows []T, hasMore bool, idFn func(T) primitive.ObjectID) string {
	if !hasMore || len(rows) == 0 {
		return ""
	}
	return idFn(rows[len(rows)-1]).Hex()
}
