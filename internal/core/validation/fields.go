// Package validation provides pure validation functions for API handlers.
//
// All functions here are free of I/O and side effects. Handlers call them
// before touching the store, returning 400 with the message on failure.
package validation

// =============================================================================
// Account Fields
// =============================================================================

// ValidateRegisterFields validates required fields for account registration.
// Returns the field name and error message if validation fails, empty
// strings otherwise. Email format and password length are checked by
// domain.NewAccount; this only covers presence.
func ValidateRegisterFields(email, password, name string) (field, message string) {
	if email == "" {
		return "email", "email is required"
	}
	if password == "" {
		return "password", "password is required"
	}
	if name == "" {
		return "name", "name is required"
	}
	return "", ""
}

// ValidateLoginFields validates required fields for login.
func ValidateLoginFields(email, password string) (field, message string) {
	if email == "" {
		return "email", "email is required"
	}
	if password == "" {
		return "password", "password is required"
	}
	return "", ""
}

// =============================================================================
// Guest Access Fields
// =============================================================================

// ValidateGuestCode checks that a submitted guest code is a 6-digit number.
func ValidateGuestCode(code string) (field, message string) {
	if code == "" {
		return "code", "code is required"
	}
	if len(code) != 6 {
		return "code", "code must be 6 digits"
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "code", "code must be 6 digits"
		}
	}
	return "", ""
}

// =============================================================================
// Inquiry Fields
// =============================================================================

// ValidateInquiryFields validates required fields for a partner inquiry.
func ValidateInquiryFields(name, email, message string) (field, msg string) {
	if name == "" {
		return "name", "name is required"
	}
	if email == "" {
		return "email", "email is required"
	}
	if message == "" {
		return "message", "message is required"
	}
	return "", ""
}
