package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamCredentials(t *testing.T) {
	tests := []struct {
		name         string
		teamName     string
		ownerName    string
		wantEmail    string
		wantPassword string
		wantUsername string
	}{
		{
			name:         "Owner name drives the email",
			teamName:     "Red Dragons FC",
			ownerName:    "John Smith",
			wantEmail:    "johnsmith@historical.team",
			wantPassword: "Red Dragons FC",
			wantUsername: "John Smith",
		},
		{
			name:         "Falls back to the team name without an owner",
			teamName:     "Blue Eagles",
			ownerName:    "",
			wantEmail:    "blueeagles@historical.team",
			wantPassword: "Blue Eagles",
			wantUsername: "Blue Eagles",
		},
		{
			name:         "Short team names get padded passwords",
			teamName:     "Red",
			ownerName:    "Jo",
			wantEmail:    "jo@historical.team",
			wantPassword: "Red123",
			wantUsername: "Jo",
		},
		{
			name:         "Special characters never reach the email",
			teamName:     "Team X",
			ownerName:    "J.R. O'Neil 99!",
			wantEmail:    "jroneil99@historical.team",
			wantPassword: "Team X",
			wantUsername: "J.R. O'Neil 99!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, password, username := TeamCredentials(tt.teamName, tt.ownerName)
			assert.Equal(t, tt.wantEmail, email)
			assert.Equal(t, tt.wantPassword, password)
			assert.Equal(t, tt.wantUsername, username)
		})
	}
}

func TestTeamCredentialsDeterministic(t *testing.T) {
	e1, p1, _ := TeamCredentials("Red Dragons FC", "John Smith")
	e2, p2, _ := TeamCredentials("Red Dragons FC", "John Smith")
	assert.Equal(t, e1, e2)
	assert.Equal(t, p1, p2)
}
