package domain

import "time"

// SubscriptionStatus reflects the billing state read by the status guard.
// Billing computation itself lives outside this service.
type SubscriptionStatus string

const (
	SubscriptionTrial    SubscriptionStatus = "TRIAL"
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
)

// Company is the tenant a user may belong to.
type Company struct {
	ID                 string
	Name               string
	Slug               string
	SubscriptionStatus SubscriptionStatus
	TrialEndsAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CompanySummary is the slim view stamped onto AuthUser.
type CompanySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Summary projects the slim tenant view.
func (c *Company) Summary() *CompanySummary {
	return &CompanySummary{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// TrialExpired reports whether the trial window has lapsed without an
// active subscription taking over.
func (c *Company) TrialExpired(now time.Time) bool {
	if c.SubscriptionStatus == SubscriptionActive {
		return false
	}
	return c.TrialEndsAt != nil && c.TrialEndsAt.Before(now)
}
