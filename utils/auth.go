package utils

import "discord-forum-slack/models"

// Auth provides authorization checks for privileged commands.
type Auth struct {
	syncUserIDs []string
}

// NewAuth creates an Auth instance from the loaded configuration.
func NewAuth(cfg *models.Config) *Auth {
	return &Auth{syncUserIDs: cfg.SyncCommandUserIDs}
}

// CanSync reports whether a user may run the sync command. An empty
// allow-list permits everyone.
func (a *Auth) CanSync(userID string) bool {
	if len(a.syncUserIDs) == 0 {
		return true
	}
	for _, id := range a.syncUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}
