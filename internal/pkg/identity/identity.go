package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shamsear/ssleague/internal/pkg/docstore"
)

// Login is the externally visible part of an identity record
type Login struct {
	UID   string
	Email string
}

// CreateParams describes the identity to create for a team
type CreateParams struct {
	Email    string
	Password string
	Username string
	TeamID   string
	TeamName string
}

// Provider creates and resolves login-capable identities. Team imports
// look up by email first so a retried import reuses the identity
// created by the previous attempt instead of minting a duplicate.
type Provider interface {
	FindByEmail(ctx context.Context, email string) (*Login, error)
	CreateLogin(ctx context.Context, params CreateParams) (*Login, error)
}

type docProvider struct {
	store *docstore.Client
}

// NewProvider creates an identity provider backed by the document store
func NewProvider(store *docstore.Client) Provider {
	return &docProvider{store: store}
}

// FindByEmail resolves an existing identity, nil when none exists
func (p *docProvider) FindByEmail(ctx context.Context, email string) (*Login, error) {
	user, err := p.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return &Login{UID: user.UID, Email: user.Email}, nil
}

// CreateLogin creates a new identity record with a hashed password
func (p *docProvider) CreateLogin(ctx context.Context, params CreateParams) (*Login, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("identity: hash password: %w", err)
	}

	now := time.Now()
	user := &docstore.UserDoc{
		UID:          uuid.New().String(),
		Email:        params.Email,
		PasswordHash: string(hash),
		Username:     params.Username,
		Role:         "team",
		TeamID:       params.TeamID,
		TeamName:     params.TeamName,
		IsActive:     true,
		IsApproved:   true,
		IsHistorical: true,
		Source:       "historical_import",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	batch := p.store.NewBatch()
	batch.PutUser(user)
	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("identity: create login %s: %w", params.Email, err)
	}
	return &Login{UID: user.UID, Email: user.Email}, nil
}

// TeamCredentials derives the deterministic login credentials for a
// team so retried imports arrive at the same email address. The
// password is padded to the store's six character minimum.
func TeamCredentials(teamName, ownerName string) (email, password, username string) {
	username = ownerName
	if username == "" {
		username = teamName
	}
	email = stripNonAlnum(strings.ToLower(username)) + "@historical.team"
	password = teamName
	if len(password) < 6 {
		password = password + "123"
	}
	return email, password, username
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
