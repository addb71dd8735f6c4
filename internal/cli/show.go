package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// ShowResult is the JSON payload of the show command.
type ShowResult struct {
	BuildID   string          `json:"build_id"`
	Seq       int64           `json:"seq"`
	Lang      string          `json:"lang"`
	Namespace string          `json:"namespace"`
	SpecHash  string          `json:"spec_hash"`
	Document  json.RawMessage `json:"document"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "show [build-id|latest]",
		Short: "Print a recorded spec document",
		Long: `Print the canonical spec document recorded for a build.

The build defaults to the latest one. Use --lang to pick the spec of a
target language; the global namespace spec is shown otherwise.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := LatestRef
			if len(args) == 1 {
				ref = args[0]
			}
			return runShow(rootOpts, ref, lang, cmd)
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "target language")

	return cmd
}

func runShow(opts *RootOptions, ref, lang string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	st, err := openStoreForRead(opts)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	defer st.Close()

	b, ss, err := loadStoredSpec(cmd.Context(), st, ref, lang)
	if err != nil {
		return outputStoreError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ShowResult{
			BuildID:   b.ID,
			Seq:       b.Seq,
			Lang:      ss.Lang,
			Namespace: ss.Namespace,
			SpecHash:  ss.SpecHash,
			Document:  json.RawMessage(ss.Document),
		})
	}

	data, err := ss.Indented()
	if err != nil {
		return outputStoreError(formatter, err)
	}
	formatter.VerboseLog("build %s (seq %d), lang %s, hash %s", b.ID, b.Seq, langLabel(ss.Lang), ss.SpecHash)
	_, err = formatter.Writer.Write(data)
	return err
}
