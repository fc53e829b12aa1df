package rdf

import "fmt"

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// String returns a readable name for the kind.
func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "IRI"
	case TermBlankNode:
		return "blank node"
	case TermLiteral:
		return "literal"
	default:
		return fmt.Sprintf("TermKind(%d)", uint8(k))
	}
}

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI. Literals stored in a Graph always have one.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" && l.Datatype.Value != XSDString {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// NewLiteral returns a literal with the given datatype.
func NewLiteral(lexical string, datatype string) Literal {
	return Literal{Lexical: lexical, Datatype: IRI{Value: datatype}}
}

// NewLangLiteral returns a language-tagged string literal.
func NewLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Datatype: IRI{Value: RDFLangString}, Lang: lang}
}

// normalizeLiteral fills in the implicit datatype of simple and language-tagged literals.
func normalizeLiteral(l Literal) Literal {
	if l.Datatype.Value != "" {
		return l
	}
	if l.Lang != "" {
		l.Datatype = IRI{Value: RDFLangString}
		return l
	}
	l.Datatype = IRI{Value: XSDString}
	return l
}

// normalizeTerm normalizes literal terms; other terms are returned unchanged.
func normalizeTerm(t Term) Term {
	if lit, ok := t.(Literal); ok {
		return normalizeLiteral(lit)
	}
	return t
}

// Triple is an RDF triple.
type Triple struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// String renders the triple in N-Triples syntax without the trailing dot.
func (t Triple) String() string {
	return renderTerm(t.S) + " " + renderIRI(t.P) + " " + renderTerm(t.O)
}

// IsZero reports whether the triple has no subject/predicate/object.
func (t Triple) IsZero() bool {
	return t.S == nil && t.P.Value == "" && t.O == nil
}
