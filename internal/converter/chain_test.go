package converter

import (
	"reflect"
	"testing"
)

func TestParseChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    []string
		wantErr bool
	}{
		{input: "a", want: []string{"a"}},
		{input: "a -> b -> c", want: []string{"a", "b", "c"}},
		{input: "gml-to-json->json-to-gml", want: []string{"gml-to-json", "json-to-gml"}},
		{input: "  v1.2_x  ->  y ", want: []string{"v1.2_x", "y"}},
		{input: "", wantErr: true},
		{input: "a ->", wantErr: true},
		{input: "-> a", wantErr: true},
		{input: "a b", wantErr: true},
		{input: "a - b", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseChain(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseChain(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if !tc.wantErr && !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseChain(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
