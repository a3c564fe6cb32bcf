package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	sprout "github.com/openbadge-labs/sprout"
	"github.com/openbadge-labs/sprout/internal/presentation/tui"
	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
)

// RunSession drives the interactive onboarding loop: evaluate, render the
// fresh presentation node, offer its actions, dispatch the chosen one,
// repeat. The ledger stays authoritative: every cycle starts with a probe.
func RunSession(ctx context.Context, eng *sprout.Engine, opts Options) error {
	authority, err := opts.ResolveAuthority()
	if err != nil {
		return err
	}

	if opts.Fresh {
		if err := eng.Sessions().Delete(ctx, opts.SessionID); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}
	if _, err := eng.StartSession(ctx, opts.SessionID, authority); err != nil {
		return err
	}

	render := tui.NewRenderer(opts.Plain)
	if !opts.Plain {
		tui.PrintBanner()
	}
	fmt.Printf("session: %s  authority: %s\n", opts.SessionID, authority.Short())

	reader := bufio.NewReader(os.Stdin)
	for {
		session, node, err := eng.Evaluate(ctx, opts.SessionID)
		if err != nil {
			return err
		}

		fmt.Print(render(node.Text))
		for i, action := range node.Actions {
			fmt.Printf("  [%d] %s\n", i+1, action.Label)
		}
		fmt.Print("choose (q to quit) > ")

		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			return err
		}
		choice := strings.TrimSpace(line)
		if choice == "q" || choice == "quit" {
			return nil
		}

		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(node.Actions) {
			fmt.Println("pick one of the listed numbers")
			continue
		}
		dispatch(ctx, eng, opts.SessionID, session, node.Actions[idx-1], reader)
	}
}

func dispatch(ctx context.Context, eng *sprout.Engine, sessionID string, session *domain.Session, action domain.Action, reader *bufio.Reader) {
	switch action.Type {
	case domain.ActionProbe:
		// The loop re-probes on every cycle; nothing extra to do.

	case domain.ActionRetryBalance:
		if _, err := eng.RefreshBalance(ctx, sessionID); err != nil {
			fmt.Printf("balance check failed: %v\n", err)
		}

	case domain.ActionCreate:
		if err := stageInteractive(ctx, eng, sessionID, session, action.Kind, reader); err != nil {
			fmt.Printf("✗ %v\n", err)
			return
		}
		addr, err := eng.AttemptCreate(ctx, sessionID, action.Kind)
		switch {
		case errors.Is(err, domain.ErrCreationBusy):
			fmt.Println("a creation is already in flight; refresh and try again")
		case err != nil:
			fmt.Printf("✗ %v\n", err)
		default:
			fmt.Printf("✓ %s confirmed at %s\n", action.Kind, addr.Short())
		}

	case domain.ActionIssueAnother:
		if _, err := eng.ForceReset(ctx, sessionID, domain.ResetAchievement); err != nil {
			fmt.Printf("reset failed: %v\n", err)
		}

	case domain.ActionReset:
		if _, err := eng.ForceReset(ctx, sessionID, domain.ResetFlagsOnly); err != nil {
			fmt.Printf("reset failed: %v\n", err)
		}
	}
}

// stageInteractive prompts for the creation parameters a kind needs,
// unless they are already staged.
func stageInteractive(ctx context.Context, eng *sprout.Engine, sessionID string, session *domain.Session, kind domain.Kind, reader *bufio.Reader) error {
	if session.Params.Staged(kind) {
		return nil
	}

	switch kind {
	case domain.KindProfile:
		params := domain.ProfileParams{
			Name:  prompt(reader, "issuer name"),
			URL:   prompt(reader, "homepage URL (optional)"),
			Email: prompt(reader, "contact email (optional)"),
		}
		return eng.StageProfile(ctx, sessionID, params)

	case domain.KindAchievement:
		params := domain.AchievementParams{
			Name:        prompt(reader, "achievement name"),
			Description: prompt(reader, "description"),
			Criteria:    prompt(reader, "criteria (optional)"),
		}
		return eng.StageAchievement(ctx, sessionID, params)

	case domain.KindCredential:
		raw := prompt(reader, "recipient address (base58)")
		recipient, err := ledger.Parse(raw)
		if err != nil {
			return err
		}
		return eng.StageCredential(ctx, sessionID, domain.CredentialParams{Recipient: recipient})
	}
	return nil
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
