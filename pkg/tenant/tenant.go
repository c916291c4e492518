package tenant

import "regexp"

// DefaultHeader carries the tenant identifier on API requests.
const DefaultHeader = "X-Tenant-ID"

const maxIDLength = 64

var validID = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// ValidID reports whether id can be used as a tenant identifier: 1 to 64
// characters of letters, digits, '_', '-' and '.', starting with a letter or digit.
func ValidID(id string) bool {
	return len(id) > 0 && len(id) <= maxIDLength && validID.MatchString(id)
}
