package rdf

import "testing"

func TestValidateIRI(t *testing.T) {
	valid := []string{
		"http://example.org/resource",
		"https://example.org/path?query=value#fragment",
		"urn:isbn:0451450523",
		"mailto:someone@example.org",
		"http://example.org/caf%C3%A9",
		"http://例え.jp/パス",
	}
	for _, value := range valid {
		if err := ValidateIRI(value); err != nil {
			t.Fatalf("expected %q to be valid: %v", value, err)
		}
	}
	invalid := []string{
		"",
		"relative/path",
		"#fragment",
		"1http://example.org/",
		"http://example.org/with space",
		"http://example.org/<tag>",
		"http://example.org/\x01",
		"http://example.org/%zz",
	}
	for _, value := range invalid {
		if err := ValidateIRI(value); err == nil {
			t.Fatalf("expected %q to be invalid", value)
		}
	}
}

func TestParseIRI(t *testing.T) {
	u, err := ParseIRI("https://example.org/ctx.jsonld")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Host != "example.org" || u.Scheme != "https" {
		t.Fatalf("unexpected URL %v", u)
	}
	if _, err := ParseIRI("ctx.jsonld"); err == nil {
		t.Fatal("expected relative IRI to fail")
	}
}
