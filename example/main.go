// Example program demonstrating the easytag library API.
//
// Run from the repo root to see what the next release of a package would
// be tagged, without changing anything:
//
//	go run ./example/ minor
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/MyCarrier-DevOps/go-easytag/pkg/sdk"
)

func main() {
	action := "patch"
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	plan, err := sdk.Plan(context.Background(), sdk.Options{
		Path:   ".",
		Action: action,
	})
	if err != nil {
		log.Fatalf("planning release failed (%s): %v", sdk.KindOf(err), err)
	}

	fmt.Printf("=== Next %s release ===\n", plan.Action)
	fmt.Printf("%-16s %s\n", "Branch", plan.Branch)
	fmt.Printf("%-16s %s -> %s\n", "Version", plan.CurrentVersion, plan.NextVersion)
	fmt.Printf("%-16s %s -> %s\n", "Tag", plan.CurrentTag, plan.NextTag)

	for _, branch := range []string{"main", "develop", "feature/login"} {
		tag, err := sdk.TagName(plan.NextVersion, branch)
		if err != nil {
			log.Fatalf("rendering tag for %s: %v", branch, err)
		}
		fmt.Printf("%-16s %s\n", "On "+branch, tag)
	}
}
