package domain

import (
	"errors"

	"github.com/openbadge-labs/sprout/pkg/ledger"
)

// ProfileParams is the user input staged for creating the issuer profile.
type ProfileParams struct {
	Name  string `json:"name" mapstructure:"name"`
	URL   string `json:"url,omitempty" mapstructure:"url"`
	Email string `json:"email,omitempty" mapstructure:"email"`
}

// Validate checks required fields.
func (p ProfileParams) Validate() error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	return nil
}

// AchievementParams is the user input staged for creating an achievement
// definition. Name discriminates the derived address, so two achievements
// with different names live at different addresses.
type AchievementParams struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	Criteria    string `json:"criteria,omitempty" mapstructure:"criteria"`
}

// Validate checks required fields.
func (p AchievementParams) Validate() error {
	if p.Name == "" {
		return errors.New("achievement name is required")
	}
	if p.Description == "" {
		return errors.New("achievement description is required")
	}
	return nil
}

// CredentialParams is the user input staged for issuing a credential.
type CredentialParams struct {
	Recipient ledger.Address `json:"recipient" mapstructure:"recipient"`
}

// Validate checks required fields.
func (p CredentialParams) Validate() error {
	if p.Recipient.IsZero() {
		return errors.New("credential recipient is required")
	}
	return nil
}

// PendingParams holds staged creation inputs the user has not yet spent.
// Each field is consumed exactly once by a successful creation write.
type PendingParams struct {
	Profile     *ProfileParams     `json:"profile,omitempty"`
	Achievement *AchievementParams `json:"achievement,omitempty"`
	Credential  *CredentialParams  `json:"credential,omitempty"`
}

// Clone returns a deep copy.
func (p PendingParams) Clone() PendingParams {
	out := PendingParams{}
	if p.Profile != nil {
		v := *p.Profile
		out.Profile = &v
	}
	if p.Achievement != nil {
		v := *p.Achievement
		out.Achievement = &v
	}
	if p.Credential != nil {
		v := *p.Credential
		out.Credential = &v
	}
	return out
}

// Staged reports whether inputs for the given kind are staged. The root
// Account never needs parameters.
func (p PendingParams) Staged(kind Kind) bool {
	switch kind {
	case KindAccount:
		return true
	case KindProfile:
		return p.Profile != nil
	case KindAchievement:
		return p.Achievement != nil
	case KindCredential:
		return p.Credential != nil
	}
	return false
}

// Consume clears the staged input for a kind after it has been spent.
func (p *PendingParams) Consume(kind Kind) {
	switch kind {
	case KindProfile:
		p.Profile = nil
	case KindAchievement:
		p.Achievement = nil
	case KindCredential:
		p.Credential = nil
	}
}
