package httpjson

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDParam reads an ObjectID route parameter. A malformed id yields
// NilObjectID, which no entity has: the tracker's gate and lookups then
// answer exactly as they would for an id that does not exist.
func IDParam(r *http.Request, key string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, key))
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}
