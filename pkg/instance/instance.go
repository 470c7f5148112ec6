package instance

import "os"

// GetID returns the client instance identifier or a default value.
func GetID() string {
	if id := os.Getenv("BUSMGR_INSTANCE_ID"); id != "" {
		return id
	}
	return "client-0"
}
