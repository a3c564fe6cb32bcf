package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	sprout "github.com/openbadge-labs/sprout"
	"github.com/openbadge-labs/sprout/pkg/domain"
)

// PrintStatus probes the chain once and prints a resolution table.
func PrintStatus(ctx context.Context, eng *sprout.Engine, sessionID string) error {
	session, err := eng.ProbeChain(ctx, sessionID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE\tADDRESS\tSTATE\tBALANCE")
	for _, res := range session.Resources {
		balance := "-"
		if res.Kind == domain.KindAccount {
			balance = fmt.Sprintf("%d", res.Lamports)
		}
		addr := "-"
		if !res.Address.IsZero() {
			addr = res.Address.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Kind, addr, res.Existence, balance)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nnext step: %s\n", eng.NextStep(session))
	return nil
}
