package planner

import "sort"

// Profile answers are kept as small enums so CLI flags map onto them
// directly.
type (
	Energy  string
	Context string
	Goal    string
)

const (
	EnergyLow    Energy = "low"
	EnergySteady Energy = "steady"
	EnergyHigh   Energy = "high"

	ContextMobile Context = "mobile"
	ContextDesk   Context = "desk"

	GoalConsistency Goal = "consistency"
	GoalDepth       Goal = "depth"
	GoalRestart     Goal = "restart"
)

// Profile describes the user's current situation for preset matching.
type Profile struct {
	Energy  Energy  `json:"energy"`
	Context Context `json:"context"`
	Goal    Goal    `json:"goal"`
}

// ParseEnergy validates a raw energy value.
func ParseEnergy(raw string) (Energy, bool) {
	switch Energy(raw) {
	case EnergyLow, EnergySteady, EnergyHigh:
		return Energy(raw), true
	}
	return "", false
}

// ParseContext validates a raw context value.
func ParseContext(raw string) (Context, bool) {
	switch Context(raw) {
	case ContextMobile, ContextDesk:
		return Context(raw), true
	}
	return "", false
}

// ParseGoal validates a raw goal value.
func ParseGoal(raw string) (Goal, bool) {
	switch Goal(raw) {
	case GoalConsistency, GoalDepth, GoalRestart:
		return Goal(raw), true
	}
	return "", false
}

// Recommendation is the matchmaker's top pick with the reasons that
// drove it.
type Recommendation struct {
	Preset     Preset   `json:"preset"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// RecommendPreset scores every preset against the profile and returns
// the best match, or false when the catalog is empty. Confidence is a
// bounded function of the raw score; at most two reasons are reported.
func RecommendPreset(presets []Preset, profile Profile) (Recommendation, bool) {
	type scored struct {
		preset  Preset
		score   int
		reasons []string
	}

	candidates := make([]scored, 0, len(presets))
	for _, preset := range presets {
		score := 0
		var reasons []string

		if profile.Context == ContextMobile {
			if preset.ID == "mobile-commute" {
				score += 4
				reasons = append(reasons, "Optimized for short mobile windows and interruption-heavy days.")
			}
			if preset.Settings.Focus <= 15 {
				score += 2
				reasons = append(reasons, "Short focus blocks reduce friction when you are on the move.")
			}
		}

		if profile.Context == ContextDesk && preset.Settings.Focus >= 25 {
			score++
			reasons = append(reasons, "Longer focus blocks fit stable desk sessions.")
		}

		if profile.Goal == GoalDepth && preset.ID == "deep-work" {
			score += 4
			reasons = append(reasons, "Deep-work cadence maximizes uninterrupted concentration.")
		}

		if profile.Goal == GoalConsistency && preset.ID == "student-revision" {
			score += 3
			reasons = append(reasons, "Balanced cycle supports repeatable daily consistency.")
		}

		if profile.Goal == GoalRestart && preset.ID == "high-energy" {
			score += 4
			reasons = append(reasons, "Fast loops rebuild momentum when starting feels hard.")
		}

		if profile.Energy == EnergyLow && preset.Settings.Focus <= 20 {
			score += 2
			reasons = append(reasons, "Lower energy days benefit from shorter wins.")
		}

		if profile.Energy == EnergySteady && preset.Settings.Focus >= 20 && preset.Settings.Focus <= 30 {
			score += 2
			reasons = append(reasons, "Mid-length sessions match steady cognitive output.")
		}

		if profile.Energy == EnergyHigh && preset.Settings.Focus >= 40 {
			score += 2
			reasons = append(reasons, "High energy can sustain deeper focus intervals.")
		}

		candidates = append(candidates, scored{preset: preset, score: score, reasons: reasons})
	}

	if len(candidates) == 0 {
		return Recommendation{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	top := candidates[0]
	confidence := 55 + top.score*6
	if confidence > 98 {
		confidence = 98
	}
	reasons := top.reasons
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}

	return Recommendation{Preset: top.preset, Confidence: confidence, Reasons: reasons}, true
}
