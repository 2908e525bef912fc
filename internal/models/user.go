package models

import "time"

// User представляет зарегистрированного пользователя
// Salt и Hash никогда не покидают сервер: API-типы из pkg/api их не содержат
type User struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`    // UUID пользователя
	Email     string    `json:"email"` // нормализованный email, уникальный
	Name      string    `json:"name"`  // отображаемое имя (санитизировано)
	Salt      string    `json:"salt"`  // hex, 16 случайных байт
	Hash      string    `json:"hash"`  // hex, PBKDF2-SHA512 (64 байта)
}
