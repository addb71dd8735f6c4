package cli

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

// DiffResult is the JSON payload of the diff command.
type DiffResult struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Lang      string `json:"lang"`
	Identical bool   `json:"identical"`
	Diff      string `json:"diff,omitempty"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "diff <from-build> <to-build>",
		Short: "Compare the specs of two recorded builds",
		Long: `Print a unified diff between the spec documents of two builds.

Either build may be given as "latest". Use --lang to compare the specs
of a target language; the global namespace specs are compared otherwise.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(rootOpts, args[0], args[1], lang, cmd)
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "target language")

	return cmd
}

func runDiff(opts *RootOptions, fromRef, toRef, lang string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	ctx := cmd.Context()

	st, err := openStoreForRead(opts)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	defer st.Close()

	fromBuild, fromSpec, err := loadStoredSpec(ctx, st, fromRef, lang)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	toBuild, toSpec, err := loadStoredSpec(ctx, st, toRef, lang)
	if err != nil {
		return outputStoreError(formatter, err)
	}

	result := DiffResult{From: fromBuild.ID, To: toBuild.ID, Lang: lang}
	if fromSpec.SpecHash == toSpec.SpecHash {
		result.Identical = true
	} else {
		a, err := fromSpec.Indented()
		if err != nil {
			return outputStoreError(formatter, err)
		}
		b, err := toSpec.Indented()
		if err != nil {
			return outputStoreError(formatter, err)
		}
		result.Diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(a)),
			B:        difflib.SplitLines(string(b)),
			FromFile: fmt.Sprintf("build %d (%s)", fromBuild.Seq, fromBuild.ID),
			ToFile:   fmt.Sprintf("build %d (%s)", toBuild.Seq, toBuild.ID),
			Context:  3,
		})
		if err != nil {
			return outputStoreError(formatter, err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	if result.Identical {
		formatter.Printf("No differences (%s)\n", langLabel(lang))
		return nil
	}
	fmt.Fprint(formatter.Writer, result.Diff)
	return nil
}
