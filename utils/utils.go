package utils

import (
	"net/http"
	"os"

	"github.com/google/uuid"

	"vitrin/globals"
)

// GenerateID returns a fresh random identifier for carts, orders and users.
func GenerateID() string {
	return uuid.NewString()
}

// GetUserIDFromRequest pulls the authenticated user id out of the request
// context; empty string means anonymous.
func GetUserIDFromRequest(r *http.Request) string {
	id, _ := r.Context().Value(globals.UserIDKey).(string)
	return id
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
