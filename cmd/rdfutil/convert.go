package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-access/codec"
	"github.com/geoknoesis/rdf-access/rdf"
)

func newConvertCmd(c *cli) *cobra.Command {
	var (
		from     string
		to       string
		output   string
		contexts []string
		prefixes map[string]string
	)
	cmd := &cobra.Command{
		Use:   "convert <input|->",
		Short: "Convert an RDF document to another format",
		Example: `  rdfutil convert project.ttl --to application/ld+json \
    --context https://www.w3.org/ns/solid/oidc-context.jsonld`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			graph, err := a.decodeInput(cmd.Context(), args[0], from, cmd.InOrStdin())
			if err != nil {
				return err
			}
			outType := to
			if outType == "" {
				outType = a.cfg.Codec.OutputType
			}

			var text string
			if len(contexts) > 0 {
				if codec.LangForMediaType(outType) != rdf.FormatJSONLD {
					return fmt.Errorf("%w: --context requires JSON-LD output", rdf.ErrConfig)
				}
				document, err := codec.BuildRemoteContextDocuments(contexts)
				if err != nil {
					return err
				}
				text, err = a.codec.EncodeJSONLD(cmd.Context(), graph, document)
				if err != nil {
					return err
				}
			} else {
				enc := a.codec
				if len(prefixes) > 0 {
					enc = codec.New(codec.WithLogger(a.logger), codec.WithPrefixes(prefixes),
						codec.WithDocumentLoader(a.loader), codec.WithPrettyJSON(a.cfg.Codec.Pretty))
				}
				text, err = enc.Encode(graph, outType)
				if err != nil {
					return err
				}
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
				return err
			}
			a.logger.Info("converted",
				"input", args[0],
				"output", output,
				"format", codec.LangForMediaType(outType),
				"triples", graph.Len(),
				"size", humanize.Bytes(uint64(len(text))))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input media type (default: from the file extension or content)")
	cmd.Flags().StringVar(&to, "to", "", "output media type (default: codec.output_type)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringSliceVar(&contexts, "context", nil, "remote JSON-LD context to compact against; repeatable")
	cmd.Flags().StringToStringVar(&prefixes, "prefix", nil, "namespace prefix for Turtle and RDF/XML output, as name=IRI")
	return cmd
}
