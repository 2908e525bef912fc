package storage

import "errors"

// ErrSessionNotFound означает, что пользователь не залогинен на этом устройстве
var ErrSessionNotFound = errors.New("session not found")
