package crypto

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Параметры PBKDF2. Менять их нельзя без миграции: VerifyPassword
// пересчитывает хеш с теми же значениями, что и SetPassword.
const (
	// PasswordIterations - количество итераций PBKDF2
	PasswordIterations = 25_000
	// PasswordKeyLen - длина производного ключа в байтах
	PasswordKeyLen = 64
	// PasswordSaltSize - размер соли в байтах (128 бит)
	PasswordSaltSize = 16
)

// SetPassword генерирует свежую соль и хеш пароля.
// Оба значения возвращаются в hex.
func SetPassword(password string) (salt, hash string, err error) {
	if password == "" {
		return "", "", fmt.Errorf("password cannot be empty")
	}

	saltBytes := make([]byte, PasswordSaltSize)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}

	salt = hex.EncodeToString(saltBytes)
	return salt, derive(password, salt), nil
}

// VerifyPassword проверяет пароль против сохраненной пары соль/хеш.
// Любые некорректные входные данные дают false, а не ошибку.
func VerifyPassword(password, salt, hash string) bool {
	if password == "" || salt == "" || hash == "" {
		return false
	}

	expected, err := hex.DecodeString(hash)
	if err != nil || len(expected) != PasswordKeyLen {
		return false
	}

	computed, err := hex.DecodeString(derive(password, salt))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// derive считает PBKDF2-SHA512. Соль подается как hex-строка,
// то есть именно в том виде, в котором хранится в записи пользователя.
func derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), PasswordIterations, PasswordKeyLen, sha512.New)
	return hex.EncodeToString(key)
}
