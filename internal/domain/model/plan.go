package model

// PlanID is one of the closed set of sellable tiers.
type PlanID string

const (
	PlanNone         PlanID = "none"
	PlanBasic        PlanID = "basic"
	PlanStarter      PlanID = "starter"
	PlanProfessional PlanID = "professional"
	PlanEnterprise   PlanID = "enterprise"
)

// UnlimitedCreations is the sentinel monthly limit for unmetered tiers.
const UnlimitedCreations = -1

// Rank orders tiers for feature-superset comparison. Higher ranks carry every
// flag of lower ranks.
func (p PlanID) Rank() int {
	switch p {
	case PlanBasic:
		return 1
	case PlanStarter:
		return 2
	case PlanProfessional:
		return 3
	case PlanEnterprise:
		return 4
	default:
		return 0
	}
}

// PlanLimits is the quota and feature set attached to a tier.
type PlanLimits struct {
	Plan              PlanID `yaml:"plan"`
	MonthlyCreations  int    `yaml:"monthly_creations"`
	HDQuality         bool   `yaml:"hd_quality"`
	PremiumAvatars    bool   `yaml:"premium_avatars"`
	AdvancedVoices    bool   `yaml:"advanced_voices"`
	PrioritySupport   bool   `yaml:"priority_support"`
	Analytics         bool   `yaml:"analytics"`
	CustomBackgrounds bool   `yaml:"custom_backgrounds"`
	BulkTools         bool   `yaml:"bulk_tools"`
}

// Unlimited reports whether the tier is unmetered.
func (l PlanLimits) Unlimited() bool { return l.MonthlyCreations == UnlimitedCreations }

// DefaultPlanTable is the shipped plan->limits mapping. Business has moved
// these numbers before, so deployments may override them in config; these are
// the current values.
func DefaultPlanTable() map[PlanID]PlanLimits {
	return map[PlanID]PlanLimits{
		PlanBasic: {
			Plan:             PlanBasic,
			MonthlyCreations: 10,
			HDQuality:        true,
		},
		PlanStarter: {
			Plan:             PlanStarter,
			MonthlyCreations: 30,
			HDQuality:        true,
			Analytics:        true,
		},
		PlanProfessional: {
			Plan:              PlanProfessional,
			MonthlyCreations:  50,
			HDQuality:         true,
			PremiumAvatars:    true,
			AdvancedVoices:    true,
			PrioritySupport:   true,
			Analytics:         true,
			CustomBackgrounds: true,
			BulkTools:         true,
		},
		PlanEnterprise: {
			Plan:              PlanEnterprise,
			MonthlyCreations:  UnlimitedCreations,
			HDQuality:         true,
			PremiumAvatars:    true,
			AdvancedVoices:    true,
			PrioritySupport:   true,
			Analytics:         true,
			CustomBackgrounds: true,
			BulkTools:         true,
		},
		PlanNone: {
			Plan: PlanNone,
		},
	}
}

// EntitlementSource records which precedence tier resolved the entitlement.
type EntitlementSource string

const (
	SourceSuperAdmin   EntitlementSource = "super_admin"
	SourceSubscription EntitlementSource = "subscription"
	SourceGrant        EntitlementSource = "grant"
	SourceNone         EntitlementSource = "none"
)

// Entitlement is the derived decision for an identity. Computed fresh on
// every query, never persisted.
type Entitlement struct {
	Plan   PlanID
	Limits PlanLimits
	Source EntitlementSource
}
