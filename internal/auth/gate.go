// Package auth implements the access gate in front of the panel and the
// session tokens that record which view a browser is allowed to see.
package auth

import "github.com/isdelr/emote-panel-be/internal/models"

// Fixed admin credentials. The password is shared by every admin email.
const (
	adminPassword      = "liob"
	adminFallbackEmail = "kaziliob@gmail.com"
)

// AuthenticateUser reports whether key unlocks the user panel. The
// comparison is exact: case-sensitive, no trimming.
func AuthenticateUser(key string, settings models.AppSettings) bool {
	return key == settings.AccessKey
}

// AuthenticateAdmin reports whether email and password unlock the admin
// panel. Both accepted emails (the stored admin email and the fixed fallback)
// take the same fixed password, so the password alone is the real secret.
// This mirrors the existing behavior and is kept behind one function so it
// can be replaced without touching callers.
func AuthenticateAdmin(email, password string, settings models.AppSettings) bool {
	if password != adminPassword {
		return false
	}
	return email == settings.AdminEmail || email == adminFallbackEmail
}

// UserLoginAllowed reports whether the user login form is reachable. While
// maintenance mode is on only the admin form can be used.
func UserLoginAllowed(settings models.AppSettings) bool {
	return !settings.MaintenanceMode
}
