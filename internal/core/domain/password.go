package domain

import "strings"

// Password policy constants. The policy is advisory: the server remains
// the authority and may reject a password for other reasons.
const (
	MinPasswordLength = 8

	// PasswordPunctuation is the accepted special character set.
	PasswordPunctuation = "@$!%*?&"
)

// ValidatePassword evaluates the registration password policy and returns
// one human-readable message per unmet rule. An empty slice means the
// candidate satisfies all five rules.
func ValidatePassword(password string) []string {
	var (
		hasUpper   bool
		hasLower   bool
		hasDigit   bool
		hasSpecial bool
	)

	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordPunctuation, r):
			hasSpecial = true
		}
	}

	var errs []string
	if len(password) < MinPasswordLength {
		errs = append(errs, "password must be at least 8 characters long")
	}
	if !hasUpper {
		errs = append(errs, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain at least one number")
	}
	if !hasSpecial {
		errs = append(errs, "password must contain at least one special character (@$!%*?&)")
	}

	return errs
}

// PasswordOK reports whether the candidate satisfies the full policy.
func PasswordOK(password string) bool {
	return len(ValidatePassword(password)) == 0
}
