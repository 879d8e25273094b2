package models

const RankingPolicyConfigKey = "ranking_rules"

type ActionTier string

const (
	TierPrimary  ActionTier = "primary"
	TierQuickWin ActionTier = "quick_win"
	TierLevelUp  ActionTier = "level_up"
)

// PriorityRule is the ordered list of category tags used to rank cards for one persona.
type PriorityRule struct {
	Persona   string   `json:"persona"`
	IsDefault bool     `json:"isDefault"`
	Order     []string `json:"order"`
}

// PolicyThresholds splits alternatives into quick wins (monetary impact below
// QuickWinMaxRupees) and level-ups (everything else).
type PolicyThresholds struct {
	QuickWinMaxRupees int64 `json:"quickWinMaxRupees"`
}

// RankingPolicy is the hot-swappable rule overlay.
type RankingPolicy struct {
	Version    int                   `json:"version"`
	Rules      []PriorityRule        `json:"rules"`
	Thresholds PolicyThresholds      `json:"thresholds"`
	Labels     map[ActionTier]string `json:"labels"`
}

// Classify picks the alternative tier for a monetary impact.
func (p RankingPolicy) Classify(rupees int64) ActionTier {
	if rupees < p.Thresholds.QuickWinMaxRupees {
		return TierQuickWin
	}
	return TierLevelUp
}

// DefaultRule returns the rule marked as default, nil when the policy has none.
func (p RankingPolicy) DefaultRule() *PriorityRule {
	for i := range p.Rules {
		if p.Rules[i].IsDefault {
			return &p.Rules[i]
		}
	}
	return nil
}

// Label returns the display label for a tier, falling back to the tier name.
func (p RankingPolicy) Label(tier ActionTier) string {
	if label, ok := p.Labels[tier]; ok && label != "" {
		return label
	}
	return string(tier)
}

// DefaultRankingPolicy is compiled in so ranking keeps working when the config store
// cannot be reached.
func DefaultRankingPolicy() RankingPolicy {
	return RankingPolicy{
		Version: 1,
		Rules: []PriorityRule{
			{
				IsDefault: true,
				Order:     []string{"energy", "transport", "food", "waste", "water", "shopping"},
			},
			{
				Persona: "thrifty_saver",
				Order:   []string{"energy", "water", "shopping", "transport", "food", "waste"},
			},
			{
				Persona: "eco_warrior",
				Order:   []string{"food", "transport", "waste", "energy", "shopping", "water"},
			},
			{
				Persona: "busy_pragmatist",
				Order:   []string{"energy", "shopping", "waste", "water", "transport", "food"},
			},
			{
				Persona: "curious_explorer",
				Order:   []string{"food", "shopping", "transport", "waste", "energy", "water"},
			},
		},
		Thresholds: PolicyThresholds{
			QuickWinMaxRupees: 5000,
		},
		Labels: map[ActionTier]string{
			TierPrimary:  "Your next step",
			TierQuickWin: "Quick win",
			TierLevelUp:  "Level up",
		},
	}
}
