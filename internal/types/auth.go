package types

import "github.com/google/uuid"

type TokenInfo struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Valid    bool      `json:"valid"`
}
