package projection

import (
	"reflect"
	"testing"
)

type plainSource map[string]any

func (s plainSource) Fields() map[string]any { return s }

type relatedSource struct {
	fields map[string]any
	extras map[string]any
}

func (s relatedSource) Fields() map[string]any { return s.fields }

func (s relatedSource) ContextField(name string, _ Context) (any, bool) {
	v, ok := s.extras[name]
	return v, ok
}

func TestProject_FullWhenNoFilters(t *testing.T) {
	src := plainSource{"bio": "hi", "picture_url": "http://x", "account": "a1"}
	got := Project(src, Options{})
	if !reflect.DeepEqual(got, map[string]any{"bio": "hi", "picture_url": "http://x", "account": "a1"}) {
		t.Fatalf("unexpected projection: %v", got)
	}
}

func TestProject_AllowListExactSubset(t *testing.T) {
	src := plainSource{"bio": "hi", "picture_url": "http://x", "account": "a1"}
	got := Project(src, Options{Fields: []string{"bio", "account"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(got), got)
	}
	if got["bio"] != "hi" || got["account"] != "a1" {
		t.Fatalf("unexpected values: %v", got)
	}
}

func TestProject_UnknownRequestedNamesDropped(t *testing.T) {
	src := plainSource{"bio": "hi"}
	got := Project(src, Options{Fields: []string{"bio", "no_such_field"}})
	if len(got) != 1 {
		t.Fatalf("expected unknown name to be dropped, got %v", got)
	}
}

func TestProject_EmptyAllowListProjectsNothing(t *testing.T) {
	src := plainSource{"bio": "hi"}
	got := Project(src, Options{Fields: []string{}})
	if len(got) != 0 {
		t.Fatalf("expected empty projection, got %v", got)
	}
}

func TestProject_DenyWinsOverAllow(t *testing.T) {
	src := plainSource{"bio": "hi", "account": "a1", "picture_url": "u"}
	got := Project(src, Options{
		Fields:  []string{"bio", "account"},
		Exclude: []string{"account"},
	})
	if _, ok := got["account"]; ok {
		t.Fatalf("excluded field present: %v", got)
	}
	if got["bio"] != "hi" {
		t.Fatalf("allowed field missing: %v", got)
	}
}

func TestProject_ExtrasOnlyWhenRequested(t *testing.T) {
	src := relatedSource{
		fields: map[string]any{"bio": "hi"},
		extras: map[string]any{"first_name": "Jane", "last_name": "Doe"},
	}

	got := Project(src, Options{})
	if _, ok := got["first_name"]; ok {
		t.Fatalf("extra included without context: %v", got)
	}

	got = Project(src, Options{Context: Context{"requested_fields": []string{"first_name"}}})
	if got["first_name"] != "Jane" {
		t.Fatalf("requested extra missing: %v", got)
	}
	if _, ok := got["last_name"]; ok {
		t.Fatalf("unrequested extra included: %v", got)
	}
}

func TestProject_UnknownExtraIgnored(t *testing.T) {
	src := relatedSource{fields: map[string]any{"bio": "hi"}}
	got := Project(src, Options{Context: Context{"requested_fields": []string{"nope"}}})
	if _, ok := got["nope"]; ok {
		t.Fatalf("unknown extra included: %v", got)
	}
}

func TestProject_DenyWinsOverExtras(t *testing.T) {
	src := relatedSource{
		fields: map[string]any{"bio": "hi"},
		extras: map[string]any{"first_name": "Jane"},
	}
	got := Project(src, Options{
		Context: Context{"requested_fields": []string{"first_name"}},
		Exclude: []string{"first_name"},
	})
	if _, ok := got["first_name"]; ok {
		t.Fatalf("excluded extra present: %v", got)
	}
}

func TestContext_NestedIsolated(t *testing.T) {
	parent := Context{
		"requested_fields": []string{"profile"},
		"profile":          Context{"requested_fields": []string{"first_name"}},
	}

	nested := parent.Nested("profile")
	if !reflect.DeepEqual(nested.RequestedFields(), []string{"first_name"}) {
		t.Fatalf("unexpected nested requested fields: %v", nested.RequestedFields())
	}
	if nested.Nested("profile") != nil {
		t.Fatalf("nested context should not inherit parent keys")
	}
}

func TestContext_MissingOrWrongTypes(t *testing.T) {
	var nilCtx Context
	if nilCtx.RequestedFields() != nil {
		t.Fatalf("nil context should have no requested fields")
	}
	c := Context{"requested_fields": "not-a-slice"}
	if c.RequestedFields() != nil {
		t.Fatalf("wrong-typed requested_fields should be ignored")
	}
}
