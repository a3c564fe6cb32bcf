package sprout_test

import (
	"context"
	"fmt"
	"log"

	sprout "github.com/openbadge-labs/sprout"
	"github.com/openbadge-labs/sprout/pkg/adapters/memory"
	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
)

// Example demonstrates driving the onboarding flow against an in-memory
// ledger: create and fund the account, then step through the chain.
func Example() {
	program := ledger.AddressOf([]byte("example-program"))
	authority := ledger.AddressOf([]byte("example-authority"))

	engine := sprout.New(memory.NewLedger(program), program)
	ctx := context.Background()

	if _, err := engine.StartSession(ctx, "demo", authority); err != nil {
		log.Fatal(err)
	}

	// The first evaluation probes the ledger and finds nothing.
	_, node, err := engine.Evaluate(ctx, "demo")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(node.Step)

	// Create and fund the account, then re-evaluate.
	if _, err := engine.AttemptCreate(ctx, "demo", domain.KindAccount); err != nil {
		log.Fatal(err)
	}
	_, node, err = engine.Evaluate(ctx, "demo")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(node.Step)

	// Stage the issuer profile inputs and publish it.
	if err := engine.StageProfile(ctx, "demo", domain.ProfileParams{Name: "Acme Academy"}); err != nil {
		log.Fatal(err)
	}
	if _, err := engine.AttemptCreate(ctx, "demo", domain.KindProfile); err != nil {
		log.Fatal(err)
	}
	_, node, err = engine.Evaluate(ctx, "demo")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(node.Step)

	// Output:
	// need_account
	// need_profile
	// need_achievement
}
