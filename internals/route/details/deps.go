package details

import (
	"seletivo_backend/internals/configs"
	database "seletivo_backend/internals/databases"
	"seletivo_backend/internals/events"
)

// Deps is what route groups need from main.
type Deps struct {
	DB        *database.Database
	Publisher events.Publisher
	Invite    configs.InviteConfig
	JWTSecret string
}
