package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// MaxEmailLen максимальная длина email (RFC 5321)
	MaxEmailLen = 254
	// MaxNameLen максимальная длина отображаемого имени в символах
	MaxNameLen = 100
	// MaxPasswordLen ограничивает стоимость PBKDF2 на один запрос
	MaxPasswordLen = 1024
)

// strict вырезает любую разметку и экранирует оставшиеся спецсимволы
var strict = bluemonday.StrictPolicy()

// NormalizeEmail приводит email к каноническому виду: trim + lower-case
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет уже нормализованный email
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email is not a valid address")
	}

	return nil
}

// SanitizeName убирает разметку из имени и обрезает пробелы
func SanitizeName(name string) string {
	return strings.TrimSpace(strict.Sanitize(strings.TrimSpace(name)))
}

// ValidateName проверяет уже санитизированное имя
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}

	return nil
}

// ValidatePassword проверяет пароль при регистрации
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLen)
	}

	return nil
}
