// Package validation holds the pure input checks used at signup and
// checkout.  None of the functions perform I/O.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s.]+(\.[^@\s.]+)*\.[^@\s.]+$`)
	mobileRe = regexp.MustCompile(`^[0-9]{10}$`)
	cvvRe    = regexp.MustCompile(`^[0-9]{3,4}$`)
	upiRe    = regexp.MustCompile(`^[A-Za-z0-9._-]{2,256}@[A-Za-z]{2,64}$`)
)

const passwordSymbols = "!@#$%^&*"

// MinPasswordLen is the shortest password accepted at signup.
const MinPasswordLen = 8

// PasswordIsStrong reports whether s has at least MinPasswordLen
// characters, an ASCII digit and one of the symbols !@#$%^&*.
func PasswordIsStrong(s string) bool {
	if len(s) < MinPasswordLen {
		return false
	}
	var digit, symbol bool
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return digit && symbol
}

// EmailIsValid checks the local@domain.tld shape.
func EmailIsValid(email string) bool {
	return emailRe.MatchString(email)
}

// MobileIsValid reports whether mobile is exactly ten ASCII digits.
func MobileIsValid(mobile string) bool {
	return mobileRe.MatchString(mobile)
}

// ContactIsValid combines EmailIsValid and MobileIsValid.
func ContactIsValid(email, mobile string) bool {
	return EmailIsValid(email) && MobileIsValid(mobile)
}

// LuhnIsValid validates a card number with the mod-10 checksum.  Spaces
// are ignored; any other non-digit makes the number invalid.  Digits are
// walked from the rightmost one so odd-length numbers are handled
// correctly.
func LuhnIsValid(card string) bool {
	digits := strings.ReplaceAll(card, " ", "")
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// CVVIsValid accepts three or four digits.
func CVVIsValid(cvv string) bool {
	return cvvRe.MatchString(cvv)
}

// ExpiryIsValid accepts an MM/YY card expiry that has not passed at now.
// A card is valid through the last day of its expiry month.
func ExpiryIsValid(expiry string, now time.Time) bool {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year < 0 {
		return false
	}
	endOfMonth := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
	return now.Before(endOfMonth)
}

// UPIIsValid checks the handle@provider shape of a UPI id.
func UPIIsValid(id string) bool {
	return upiRe.MatchString(id)
}
