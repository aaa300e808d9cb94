package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestUser_BeforeCreate(t *testing.T) {
	tests := []struct {
		name        string
		user        User
		expectErr   bool
		displayName string
	}{
		{
			name:        "Defaults display name to username",
			user:        User{Username: "  alice  "},
			displayName: "alice",
		},
		{
			name:        "Keeps explicit display name",
			user:        User{Username: "bob", DisplayName: "Bob B."},
			displayName: "Bob B.",
		},
		{
			name:      "Rejects blank username",
			user:      User{Username: "   "},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user
			err := user.BeforeCreate(nil)

			if tt.expectErr {
				assert.ErrorIs(t, err, gorm.ErrInvalidValue)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.displayName, user.DisplayName)
			assert.NotEqual(t, uuid.Nil, user.ID)
		})
	}
}

func TestUser_ToProfile(t *testing.T) {
	user := &User{Username: "admin", DisplayName: "Admin", IsSuperAdmin: true, IsActive: true}
	user.ID = uuid.New()

	profile := user.ToProfile()

	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, "admin", profile.Username)
	assert.True(t, profile.IsSuperAdmin)
	assert.True(t, profile.IsActive)
}

func TestBaseUUIDModel_BeforeCreateKeepsExistingID(t *testing.T) {
	existing := uuid.New()
	base := BaseUUIDModel{ID: existing}

	assert.NoError(t, base.BeforeCreate(nil))
	assert.Equal(t, existing, base.ID)
}
