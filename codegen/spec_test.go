package codegen

import (
	"errors"
	"testing"
)

func TestValidType(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"int", true},
		{"String", true},
		{"java.util.List", true},
		{"byte[]", true},
		{"int[][]", true},
		{"List<String>", true},
		{"Map<String, Integer>", true},
		{"List<?>", true},
		{"List<? extends Number>", true},
		{"Comparator<? super T>", true},
		{"Map<String, List<Integer>>", true},
		{"List<String>[]", true},
		{"", false},
		{"1abc", false},
		{"List<", false},
		{"List<>", false},
		{"Map<String,>", false},
		{"a..b", false},
		{"List<String>>", false},
		{"int[", false},
	}
	for _, tt := range tests {
		if got := ValidType(tt.text); got != tt.want {
			t.Errorf("ValidType(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestValidIdentifier(t *testing.T) {
	for _, s := range []string{"a", "_x", "value1", "camelCase"} {
		if !ValidIdentifier(s) {
			t.Errorf("ValidIdentifier(%q) = false", s)
		}
	}
	for _, s := range []string{"", "1a", "a-b", "class", "int", "a b"} {
		if ValidIdentifier(s) {
			t.Errorf("ValidIdentifier(%q) = true", s)
		}
	}
	if !ValidTypeParameterName("?") || !ValidTypeParameterName("T") || ValidTypeParameterName("T?") {
		t.Error("type parameter names")
	}
}

func TestParseAccess(t *testing.T) {
	tests := map[string]Access{
		"":          AccessDefault,
		"default":   AccessDefault,
		"package":   AccessDefault,
		"private":   AccessPrivate,
		"Protected": AccessProtected,
		" public ":  AccessPublic,
	}
	for text, want := range tests {
		got, err := ParseAccess(text)
		if err != nil || got != want {
			t.Errorf("ParseAccess(%q) = %q, %v", text, got, err)
		}
	}
	if _, err := ParseAccess("friend"); !errors.Is(err, ErrInvalidSpecification) {
		t.Errorf("ParseAccess(friend) error = %v", err)
	}
}

func TestSpecValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"valid field", FieldSpec{Type: "int", Name: "count"}.Validate()},
		{"field keyword name", FieldSpec{Type: "int", Name: "class"}.Validate()},
		{"field bad type", FieldSpec{Type: "List<", Name: "xs"}.Validate()},
		{"valid method", MethodSpec{ReturnType: "void", Name: "run"}.Validate()},
		{"method bad parameter", MethodSpec{ReturnType: "void", Name: "run", Parameters: []ParameterSpec{{Type: "int", Name: "1"}}}.Validate()},
		{"method duplicate parameter", MethodSpec{ReturnType: "void", Name: "run", Parameters: []ParameterSpec{{Type: "int", Name: "a"}, {Type: "long", Name: "a"}}}.Validate()},
		{"method bad bound", MethodSpec{ReturnType: "T", Name: "get", TypeParameters: []TypeParameterSpec{{Name: "T", Bound: "Comparable<T> & "}}}.Validate()},
		{"method bad throws", MethodSpec{ReturnType: "void", Name: "run", Throws: []string{"java.io."}}.Validate()},
		{"valid import", ImportSpec{QualifiedName: "java.util . List"}.Validate()},
		{"wildcard import", ImportSpec{QualifiedName: "java.util.*"}.Validate()},
		{"bad import", ImportSpec{QualifiedName: "java.util."}.Validate()},
	}
	valid := map[string]bool{"valid field": true, "valid method": true, "valid import": true, "wildcard import": true}
	for _, tt := range tests {
		if valid[tt.name] {
			if tt.err != nil {
				t.Errorf("%s: unexpected error %v", tt.name, tt.err)
			}
			continue
		}
		if !errors.Is(tt.err, ErrInvalidSpecification) {
			t.Errorf("%s: error = %v, want ErrInvalidSpecification", tt.name, tt.err)
		}
	}
}

func TestSuggestParameterName(t *testing.T) {
	tests := map[string]string{
		"String":               "string",
		"java.util.List<Long>": "list",
		"URI":                  "uri",
		"byte[]":               "b",
		"int":                  "i",
		"":                     "arg",
	}
	for typ, want := range tests {
		if got := SuggestParameterName(typ); got != want {
			t.Errorf("SuggestParameterName(%q) = %q, want %q", typ, got, want)
		}
	}
}
