package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdf-access/access"
	"github.com/geoknoesis/rdf-access/rdf"
)

// description is the YAML view of one resource.
type description struct {
	Subject    string             `yaml:"subject"`
	Properties map[string][]propertyValue `yaml:"properties"`
}

type propertyValue struct {
	IRI      string `yaml:"iri,omitempty"`
	Blank    string `yaml:"blank,omitempty"`
	Value    any    `yaml:"value,omitempty"`
	Datatype string `yaml:"datatype,omitempty"`
	Lang     string `yaml:"lang,omitempty"`
}

func newDescribeCmd(c *cli) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "describe <input|-> <subject>",
		Short: "Print every property of a resource as YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			graph, err := a.decodeInput(cmd.Context(), args[0], from, cmd.InOrStdin())
			if err != nil {
				return err
			}
			base, err := a.baseFor(args[0])
			if err != nil {
				return err
			}
			subject, err := resolveArg(base, args[1])
			if err != nil {
				return err
			}
			desc, err := describe(access.GetResource(graph, subject))
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(desc); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input media type")
	return cmd
}

// describe reads each property through the typed reader matching its
// datatype so that YAML carries native integers, booleans and timestamps.
func describe(r *access.Resource) (description, error) {
	desc := description{Subject: r.Subject().String(), Properties: map[string][]propertyValue{}}
	for _, property := range r.Properties() {
		values, err := describeProperty(r, property)
		if err != nil {
			return description{}, err
		}
		desc.Properties[property.Value] = values
	}
	return desc, nil
}

func describeProperty(r *access.Resource, property rdf.IRI) ([]propertyValue, error) {
	objects := r.Objects(property)
	values := make([]propertyValue, 0, len(objects))
	for _, object := range objects {
		switch term := object.(type) {
		case rdf.IRI:
			values = append(values, propertyValue{IRI: term.Value})
		case rdf.BlankNode:
			values = append(values, propertyValue{Blank: term.ID})
		case rdf.Literal:
			v, err := literalValue(r, property, term)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
	}
	return values, nil
}

// literalValue converts single-valued integer, boolean and dateTime
// properties to native values.
func literalValue(r *access.Resource, property rdf.IRI, lit rdf.Literal) (propertyValue, error) {
	v := propertyValue{Value: lit.Lexical, Lang: lit.Lang}
	if lit.Lang == "" && lit.Datatype.Value != rdf.XSDString {
		v.Datatype = lit.Datatype.Value
	}
	if len(r.Objects(property)) != 1 {
		return v, nil
	}
	var (
		native any
		err    error
	)
	switch lit.Datatype.Value {
	case rdf.XSDInteger:
		native, err = r.RequiredIntegerObject(property)
	case rdf.XSDBoolean:
		native, err = r.RequiredBooleanObject(property)
	case rdf.XSDDateTime:
		native, err = r.RequiredDateTimeObject(property)
	default:
		return v, nil
	}
	if err != nil {
		// Ill-typed lexical forms are shown as written.
		return v, nil
	}
	v.Value = native
	v.Datatype = ""
	return v, nil
}
