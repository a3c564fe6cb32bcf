package domain

// Step is the next required action in the onboarding flow, derived purely
// from the chain's existence flags. The chain-order invariant guarantees a
// single "first unsatisfied" link, so steps never tie.
type Step string

const (
	StepNeedAccount     Step = "need_account"
	StepNeedProfile     Step = "need_profile"
	StepNeedAchievement Step = "need_achievement"
	StepNeedCredential  Step = "need_credential"
	StepComplete        Step = "complete"
)

// Kind returns the resource a step asks to create; ok is false for the
// terminal step.
func (s Step) Kind() (Kind, bool) {
	switch s {
	case StepNeedAccount:
		return KindAccount, true
	case StepNeedProfile:
		return KindProfile, true
	case StepNeedAchievement:
		return KindAchievement, true
	case StepNeedCredential:
		return KindCredential, true
	}
	return 0, false
}
