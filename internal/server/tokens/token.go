// Package tokens keeps one session's OAuth token pair and drives its
// lifecycle against the platform token endpoints.
package tokens

import (
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
)

// Lifetime is how long the platform keeps an access token valid.
const Lifetime = common.TokenLifetimeSeconds * time.Second

// Token is an access/refresh pair. It is only ever replaced as a whole.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// FromResponse builds a Token from a token endpoint answer.
func FromResponse(tr *platform.TokenResponse) *Token {
	issued := time.Unix(tr.CreatedAt, 0).UTC()
	return &Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		IssuedAt:     issued,
		ExpiresAt:    issued.Add(Lifetime),
	}
}

func (t *Token) IssuedAtDisplay() string {
	return t.IssuedAt.UTC().Format(common.DisplayTimeLayout)
}

func (t *Token) ExpiresAtDisplay() string {
	return t.ExpiresAt.UTC().Format(common.DisplayTimeLayout)
}

// Expired reports whether the access token is past its lifetime at now.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
