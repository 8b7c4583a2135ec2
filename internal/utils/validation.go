package utils

import (
	"fmt"
	"net/mail"
	"regexp"
)

// Validators return "" when the value is fine, otherwise a message
// ready to show on the originating form. They never touch any state.

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func ValidateUsername(username string) string {
	if len(username) < 3 || len(username) > 20 {
		return "Username must be between 3 and 20 characters"
	}
	if !usernameRe.MatchString(username) {
		return "Username can only contain letters, numbers, and underscores"
	}
	return ""
}

func ValidatePassword(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}
	return ""
}

func ValidateEmail(email string) string {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "Invalid email format"
	}
	return ""
}

func ValidateName(name string) string {
	if len(name) < 2 || len(name) > 50 {
		return "Name must be between 2 and 50 characters"
	}
	return ""
}

func ValidateRating(rating int) string {
	if rating < 1 || rating > 5 {
		return fmt.Sprintf("Rating must be between 1 and 5, got %d", rating)
	}
	return ""
}
