package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"cameo-backend/internal/prompts/analyzer"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "promptcheck",
		Short:         "Analyze cameo video prompts offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(), newPredictCmd(), newSuggestionsCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var (
		brandGuidelines bool
		characterID     string
	)
	cmd := &cobra.Command{
		Use:   "analyze <prompt>",
		Short: "Classify intent and recommend tools for a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := &analyzer.Context{CharacterID: characterID}
			if brandGuidelines {
				ctx.BrandGuidelines = true
			}
			return writeJSON(cmd.OutOrStdout(), analyzer.Analyze(args[0], ctx))
		},
	}
	cmd.Flags().BoolVar(&brandGuidelines, "brand-guidelines", false, "Treat the prompt as having brand guidelines attached")
	cmd.Flags().StringVar(&characterID, "character", "", "Character id to include in the context")
	return cmd
}

func newPredictCmd() *cobra.Command {
	var (
		platform string
		seed     uint64
	)
	cmd := &cobra.Command{
		Use:   "predict <prompt>",
		Short: "Estimate engagement, virality and quality on a platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := analyzer.ParsePlatform(platform)
			if err != nil {
				return err
			}
			var rnd analyzer.RandomSource
			if cmd.Flags().Changed("seed") {
				rnd = rand.New(rand.NewPCG(seed, seed))
			}
			return writeJSON(cmd.OutOrStdout(), analyzer.PredictPerformance(args[0], p, rnd))
		},
	}
	cmd.Flags().StringVar(&platform, "platform", string(analyzer.PlatformTikTok), "Target platform")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the virality draw; omit for a random draw")
	return cmd
}

func newSuggestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "suggestions <context>",
		Short:     "List the tool suggestions for a creative context",
		Args:      cobra.ExactArgs(1),
		ValidArgs: suggestionContextNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := analyzer.ParseSuggestionContext(args[0])
			if err != nil {
				return err
			}
			recs, err := analyzer.ContextualSuggestions(kind)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"context": kind, "suggestions": recs})
		},
	}
}

func suggestionContextNames() []string {
	contexts := analyzer.SuggestionContexts()
	names := make([]string, 0, len(contexts))
	for _, c := range contexts {
		names = append(names, c.String())
	}
	return names
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
