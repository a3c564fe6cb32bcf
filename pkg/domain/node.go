package domain

// ActionType labels what an offered action will do when activated.
type ActionType string

const (
	// ActionProbe re-resolves the chain against the ledger.
	ActionProbe ActionType = "probe"
	// ActionCreate attempts the creation write for Action.Kind.
	ActionCreate ActionType = "create"
	// ActionRetryBalance re-runs only the root balance probe.
	ActionRetryBalance ActionType = "retry_balance"
	// ActionReset invokes the recovery reset.
	ActionReset ActionType = "reset"
	// ActionIssueAnother re-enters the flow at the achievement step
	// without touching the account or profile links.
	ActionIssueAnother ActionType = "issue_another"
)

// Action is one activatable choice offered to the user.
type Action struct {
	Type  ActionType `json:"type"`
	Kind  Kind       `json:"kind"` // meaningful when Type == ActionCreate
	Label string     `json:"label"`
}

// PresentationNode is the display content for the current step. Nodes are
// generated fresh per evaluation and never patched in place, so two
// renders can never corrupt each other's view.
type PresentationNode struct {
	Step    Step     `json:"step"`
	Text    string   `json:"text"`
	Actions []Action `json:"actions"`
}
