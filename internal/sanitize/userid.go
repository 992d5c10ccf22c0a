// Package sanitize validates identifiers that end up in filesystem paths and
// remote repository names.
package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidUserID indicates a user id that cannot be used as a path segment.
var ErrInvalidUserID = errors.New("invalid user id")

// MaxUserIDLength bounds user ids so repository names stay within GitHub limits.
const MaxUserIDLength = 64

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// UserID trims and validates a raw user id. Telegram ids are numeric, HTTP
// clients may use any id made of letters, digits, '-' and '_'.
func UserID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidUserID)
	}
	if len(id) > MaxUserIDLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidUserID, MaxUserIDLength)
	}
	if !userIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q contains characters outside [A-Za-z0-9_-]", ErrInvalidUserID, id)
	}
	return id, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName reduces an uploaded file name to a single safe path segment.
// It returns an empty string when nothing usable remains.
func FileName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}
