package main

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-access/access"
	"github.com/geoknoesis/rdf-access/rdf"
)

func newGetCmd(c *cli) *cobra.Command {
	var (
		from     string
		kind     string
		required bool
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "get <input|-> <subject> <property>",
		Short: "Print the typed value of a property",
		Long: `get reads one property of one resource. The subject and property may be
relative to the base URI. Absent values print nothing unless --required is
set, in which case they are an error.`,
		Example: `  rdfutil get project.ttl '#project' http://testable.example/ns/testable#id --type integer --required`,
		Args:    cobra.ExactArgs(3),
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
			property, err := resolveArg(base, args[2])
			if err != nil {
				return err
			}
			r := access.GetResource(graph, subject)
			return printProperty(cmd.OutOrStdout(), r, rdf.IRI{Value: property.String()}, kind, required, all)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input media type")
	cmd.Flags().StringVar(&kind, "type", "any", "value type: any, uri, string, integer, datetime, boolean")
	cmd.Flags().BoolVar(&required, "required", false, "fail when the property is absent")
	cmd.Flags().BoolVar(&all, "all", false, "print every value (any, uri and string types only)")
	return cmd
}

// resolveArg resolves a command-line IRI against base.
func resolveArg(base *url.URL, arg string) (*url.URL, error) {
	return rdf.ParseIRI(rdf.ResolveIRI(base.String(), arg))
}

func printProperty(w io.Writer, r *access.Resource, property rdf.IRI, kind string, required, all bool) error {
	if all {
		return printAll(w, r, property, kind, required)
	}
	var (
		value string
		ok    bool
		err   error
	)
	switch kind {
	case "any":
		var object rdf.Term
		object, ok = r.Object(property)
		if ok {
			value = object.String()
		}
	case "uri":
		value, ok, err = typedValue(r.URIObject(property))((*url.URL).String)
	case "string":
		value, ok, err = typedValue(r.StringObject(property))(identity)
	case "integer":
		value, ok, err = typedValue(r.IntegerObject(property))(formatInt)
	case "datetime":
		value, ok, err = typedValue(r.DateTimeObject(property))(formatTime)
	case "boolean":
		value, ok, err = typedValue(r.BooleanObject(property))(strconv.FormatBool)
	default:
		return fmt.Errorf("%w: unknown value type %q", rdf.ErrConfig, kind)
	}
	if err != nil {
		return err
	}
	if !ok {
		if required {
			return requiredError(r, property, kind)
		}
		return nil
	}
	_, err = fmt.Fprintln(w, value)
	return err
}

func printAll(w io.Writer, r *access.Resource, property rdf.IRI, kind string, required bool) error {
	var values []string
	switch kind {
	case "any":
		for _, object := range r.Objects(property) {
			values = append(values, object.String())
		}
	case "uri":
		uris, err := r.URIObjects(property)
		if err != nil {
			return err
		}
		for _, u := range uris {
			values = append(values, u.String())
		}
	case "string":
		strs, err := r.StringObjects(property)
		if err != nil {
			return err
		}
		values = strs
	default:
		return fmt.Errorf("%w: --all does not support type %q", rdf.ErrConfig, kind)
	}
	if len(values) == 0 && required {
		return requiredError(r, property, kind)
	}
	for _, value := range values {
		if _, err := fmt.Fprintln(w, value); err != nil {
			return err
		}
	}
	return nil
}

func requiredError(r *access.Resource, property rdf.IRI, kind string) error {
	var err error
	switch kind {
	case "uri":
		_, err = r.RequiredURIObject(property)
	case "string":
		_, err = r.RequiredStringObject(property)
	case "integer":
		_, err = r.RequiredIntegerObject(property)
	case "datetime":
		_, err = r.RequiredDateTimeObject(property)
	case "boolean":
		_, err = r.RequiredBooleanObject(property)
	default:
		_, err = r.RequiredObject(property)
	}
	return err
}

func typedValue[T any](value T, ok bool, err error) func(func(T) string) (string, bool, error) {
	return func(render func(T) string) (string, bool, error) {
		if err != nil || !ok {
			return "", ok, err
		}
		return render(value), true, nil
	}
}

func identity(s string) string { return s }

func formatInt(n int64) string { return strconv.FormatInt(n, 10) }

func formatTime(t time.Time) string { return t.Format(time.RFC3339Nano) }
