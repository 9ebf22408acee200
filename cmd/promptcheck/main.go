// Command promptcheck runs the prompt analyzer locally and prints JSON:
//
//	go run ./cmd/promptcheck analyze "a dog unboxing sneakers" --brand-guidelines
//	go run ./cmd/promptcheck predict "a dog unboxing sneakers" --platform tiktok --seed 7
//	go run ./cmd/promptcheck suggestions campaign-planning
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
