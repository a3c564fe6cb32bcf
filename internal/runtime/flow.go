package runtime

import (
	"fmt"
	"strings"

	"github.com/openbadge-labs/sprout/pkg/domain"
)

// NextStep derives the next required step from the chain's existence
// flags. Pure: no I/O, no mutation. The chain-order invariant guarantees
// at most one first unsatisfied link, so the priority order below can
// never tie.
func NextStep(s *domain.Session) domain.Step {
	switch {
	case !s.AccountSatisfied():
		return domain.StepNeedAccount
	case !s.Resource(domain.KindProfile).Present():
		return domain.StepNeedProfile
	case !s.Resource(domain.KindAchievement).Present():
		return domain.StepNeedAchievement
	case !s.Resource(domain.KindCredential).Present():
		return domain.StepNeedCredential
	default:
		return domain.StepComplete
	}
}

// Render produces the display content for a step. Every call allocates a
// fresh node; no shared template is ever patched, so renders of different
// steps or sessions cannot corrupt each other's view.
func Render(step domain.Step, s *domain.Session) *domain.PresentationNode {
	node := &domain.PresentationNode{Step: step}

	switch step {
	case domain.StepNeedAccount:
		acct := s.Resource(domain.KindAccount)
		if acct.Present() {
			node.Text = fmt.Sprintf(
				"## Fund your account\n\nYour account `%s` exists but holds **%d lamports**; at least **%d** are needed to pay for the issuer chain.",
				acct.Address.Short(), acct.Lamports, s.MinBalance)
			node.Actions = append(node.Actions,
				domain.Action{Type: domain.ActionCreate, Kind: domain.KindAccount, Label: "Fund account"},
				domain.Action{Type: domain.ActionRetryBalance, Label: "Re-check balance"},
			)
		} else {
			node.Text = fmt.Sprintf(
				"## Create your account\n\nNo funded account was found for authority `%s`. Create and fund it to begin.",
				s.Authority.Short())
			node.Actions = append(node.Actions,
				domain.Action{Type: domain.ActionCreate, Kind: domain.KindAccount, Label: "Create and fund account"},
			)
		}

	case domain.StepNeedProfile:
		var b strings.Builder
		b.WriteString("## Set up your issuer profile\n\nYour account is funded. Next, publish the issuer profile that will own your achievements.")
		if p := s.Params.Profile; p != nil {
			fmt.Fprintf(&b, "\n\nStaged: **%s**", p.Name)
		}
		node.Text = b.String()
		node.Actions = append(node.Actions,
			domain.Action{Type: domain.ActionCreate, Kind: domain.KindProfile, Label: "Create issuer profile"},
		)

	case domain.StepNeedAchievement:
		var b strings.Builder
		b.WriteString("## Define an achievement\n\nYour issuer profile is live. Define the achievement you want to award.")
		if p := s.Params.Achievement; p != nil {
			fmt.Fprintf(&b, "\n\nStaged: **%s** — %s", p.Name, p.Description)
		}
		node.Text = b.String()
		node.Actions = append(node.Actions,
			domain.Action{Type: domain.ActionCreate, Kind: domain.KindAchievement, Label: "Create achievement"},
		)

	case domain.StepNeedCredential:
		var b strings.Builder
		fmt.Fprintf(&b,
			"## Issue your first credential\n\nAchievement `%s` is on the ledger. Issue a credential to a recipient to finish.",
			s.Resource(domain.KindAchievement).Address.Short())
		if p := s.Params.Credential; p != nil {
			fmt.Fprintf(&b, "\n\nStaged recipient: `%s`", p.Recipient.Short())
		}
		node.Text = b.String()
		node.Actions = append(node.Actions,
			domain.Action{Type: domain.ActionCreate, Kind: domain.KindCredential, Label: "Issue credential"},
		)

	case domain.StepComplete:
		var b strings.Builder
		b.WriteString("## All set\n\nThe full issuer chain is on the ledger:\n\n")
		for _, res := range s.Resources {
			fmt.Fprintf(&b, "- %s: `%s`\n", res.Kind, res.Address.Short())
		}
		node.Text = b.String()
		node.Actions = append(node.Actions,
			domain.Action{Type: domain.ActionIssueAnother, Label: "Create another achievement"},
			domain.Action{Type: domain.ActionReset, Label: "Reset session flags"},
		)
	}

	node.Actions = append(node.Actions,
		domain.Action{Type: domain.ActionProbe, Label: "Refresh from ledger"},
	)
	return node
}
