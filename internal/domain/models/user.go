// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the local record of an account. Identity and credentials live
// with the external provider; this app only keeps what it displays.
type User struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	DisplayName string             `bson:"display_name" json:"display_name"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
