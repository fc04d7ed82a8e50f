package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(getEnv("JWT_SECRET", "change_me_in_production"))

// WhatsAppNumber is the operations number the checkout handoff message targets.
var WhatsAppNumber = getEnv("WHATSAPP_NUMBER", "+233533811757")

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
