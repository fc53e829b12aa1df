package main

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-access/codec"
)

func newContextCmd(c *cli) *cobra.Command {
	var fetch bool
	cmd := &cobra.Command{
		Use:   "context <uri>...",
		Short: "Print a JSON-LD document referencing remote contexts",
		Long: `context prints {"@context": ...} for the given URIs, in order. With --fetch
each context is also loaded through the context cache and summarized on stderr.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			var (
				document string
				err      error
			)
			if len(args) == 1 {
				document, err = codec.BuildRemoteContextDocument(args[0])
			} else {
				document, err = codec.BuildRemoteContextDocuments(args)
			}
			if err != nil {
				return err
			}
			if fetch {
				for _, uri := range args {
					doc, err := a.loader.LoadDocumentContext(cmd.Context(), uri)
					if err != nil {
						return err
					}
					raw, err := json.Marshal(doc.Document)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s, %d terms\n", uri, humanize.Bytes(uint64(len(raw))), termCount(doc.Document))
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), document)
			return err
		},
	}
	cmd.Flags().BoolVar(&fetch, "fetch", false, "load each context and report its size")
	return cmd
}

// termCount counts the term definitions of an inline @context object.
func termCount(document any) int {
	m, ok := document.(map[string]any)
	if !ok {
		return 0
	}
	ctx, ok := m["@context"].(map[string]any)
	if !ok {
		return 0
	}
	return len(ctx)
}
