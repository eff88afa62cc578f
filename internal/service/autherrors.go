package service

import "strings"

// defaultAuthErrorMessage is the fallback for provider errors not covered by
// the translation table.
const defaultAuthErrorMessage = "An unexpected error occurred. Please try again."

// authErrorRule pairs a known provider error phrase with its user-safe
// replacement.
type authErrorRule struct {
	needle  string
	message string
}

// authErrorRules maps raw provider error phrases to stable user-facing
// messages. Raw provider strings are not a stable contract and must never be
// shown verbatim; an exact match wins, then the first case-insensitive
// substring match in table order.
var authErrorRules = []authErrorRule{
	// Signup errors
	{"User already registered", "An account with this email already exists. Please sign in instead."},
	{"Password should be at least 6 characters", "Password must be at least 6 characters long."},
	{"Unable to validate email address: invalid format", "Please enter a valid email address."},

	// Login errors
	{"Invalid login credentials", "Invalid email or password. Please try again."},
	{"Email not confirmed", "Please verify your email address before signing in."},
	{"Too many requests", "Too many login attempts. Please wait a moment and try again."},

	// OAuth errors
	{"OAuth provider error", "Unable to connect to the authentication provider. Please try again."},
}

// translateAuthError maps a raw provider error message to a user-safe string.
func translateAuthError(raw string) string {
	for _, rule := range authErrorRules {
		if raw == rule.needle {
			return rule.message
		}
	}

	lower := strings.ToLower(raw)
	for _, rule := range authErrorRules {
		if strings.Contains(lower, strings.ToLower(rule.needle)) {
			return rule.message
		}
	}

	return defaultAuthErrorMessage
}
