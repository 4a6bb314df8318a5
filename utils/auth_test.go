package utils

import (
	"testing"

	"discord-forum-slack/models"
)

func TestCanSync(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		userID  string
		want    bool
	}{
		{"empty allow-list permits everyone", nil, "42", true},
		{"listed user permitted", []string{"1", "42"}, "42", true},
		{"unlisted user denied", []string{"1", "2"}, "42", false},
		{"empty user id denied against a list", []string{"1"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuth(&models.Config{SyncCommandUserIDs: tt.allowed})
			if got := a.CanSync(tt.userID); got != tt.want {
				t.Errorf("CanSync(%q) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}
