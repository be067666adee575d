package keys

import (
	"regexp"
	"testing"
	"unicode"
)

const body = `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[50,51]},"properties":{}}]}`

func TestDeterminism_SameInputsSameKey(t *testing.T) {
	k1 := Key("combine", []byte(body))
	k2 := Key("combine", []byte(body))
	if k1 != k2 {
		t.Fatalf("determinism failed:\n k1=%s\n k2=%s", k1, k2)
	}
}

func TestNormalization_WhitespaceVariantsProduceSameKey(t *testing.T) {
	spaced := `
	{ "type" : "FeatureCollection",
	  "features" : [ { "type":"Feature", "geometry": {"type":"Point","coordinates":[ 50, 51 ]}, "properties":{} } ] }
	`
	k1 := Key("combine", []byte(body))
	k2 := Key(" combine ", []byte(spaced))
	if k1 != k2 {
		t.Fatalf("normalized keys differ:\n k1=%s\n k2=%s", k1, k2)
	}
	if !regexp.MustCompile(`^geocombine:v1:[A-Za-z0-9_\-]+:n=\d+:h=[0-9a-f]{16}$`).MatchString(k1) {
		t.Fatalf("unexpected key shape: %s", k1)
	}
}

func TestDifference_OrderAndOpMatter(t *testing.T) {
	a := `{"type":"FeatureCollection","features":[1,2]}`
	b := `{"type":"FeatureCollection","features":[2,1]}`
	if Key("combine", []byte(a)) == Key("combine", []byte(b)) {
		t.Fatal("different feature order must produce different keys")
	}
	if Key("combine", []byte(a)) == Key("families", []byte(a)) {
		t.Fatal("different ops must produce different keys")
	}
}

func TestInvalidJSON_StillKeyed(t *testing.T) {
	k1 := Key("combine", []byte(" {not json "))
	k2 := Key("combine", []byte("{not json"))
	if k1 != k2 {
		t.Fatalf("trimmed invalid bodies should share a key: %s vs %s", k1, k2)
	}
}

func TestSanitize_OpIsASCII(t *testing.T) {
	k := Key("göteborg:op x", []byte("{}"))
	for _, r := range k {
		if r > unicode.MaxASCII {
			t.Fatalf("non-ASCII rune leaked into key: %q in %s", r, k)
		}
	}
	if !regexp.MustCompile(`^geocombine:v1:g-teborg-op_x:`).MatchString(k) {
		t.Fatalf("unexpected sanitized op in %s", k)
	}
}
