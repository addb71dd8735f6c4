package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// BuildSummary describes one recorded build.
type BuildSummary struct {
	ID          string            `json:"id"`
	Seq         int64             `json:"seq"`
	Sources     []string          `json:"sources"`
	SourceHash  string            `json:"source_hash"`
	IRVersion   string            `json:"ir_version"`
	ToolVersion string            `json:"tool_version"`
	Specs       map[string]string `json:"specs"` // lang -> spec hash
}

// NewBuildsCommand creates the builds command.
func NewBuildsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "builds",
		Short:         "List recorded builds",
		Long:          `List the builds recorded by compile --record, oldest first.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuilds(rootOpts, cmd)
		},
	}
	return cmd
}

func runBuilds(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	ctx := cmd.Context()

	st, err := openStoreForRead(opts)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	defer st.Close()

	builds, err := st.ListBuilds(ctx)
	if err != nil {
		return outputStoreError(formatter, err)
	}

	summaries := make([]BuildSummary, 0, len(builds))
	for _, b := range builds {
		specs, err := st.SpecsForBuild(ctx, b.ID)
		if err != nil {
			return outputStoreError(formatter, err)
		}
		s := BuildSummary{
			ID:          b.ID,
			Seq:         b.Seq,
			Sources:     b.Sources,
			SourceHash:  b.SourceHash,
			IRVersion:   b.IRVersion,
			ToolVersion: b.ToolVersion,
			Specs:       make(map[string]string, len(specs)),
		}
		for _, ss := range specs {
			s.Specs[ss.Lang] = ss.SpecHash
		}
		summaries = append(summaries, s)
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No builds recorded")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tBUILD\tFILES\tLANGS\tSOURCE HASH")
	for _, s := range summaries {
		langs := make([]string, 0, len(s.Specs))
		for _, lang := range slices.Sorted(maps.Keys(s.Specs)) {
			langs = append(langs, langLabel(lang))
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", s.Seq, s.ID, len(s.Sources), strings.Join(langs, ","), shortHash(s.SourceHash))
	}
	return tw.Flush()
}

// shortHash abbreviates a hex hash for tables.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
