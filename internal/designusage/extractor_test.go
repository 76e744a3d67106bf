package designusage

import (
	"reflect"
	"testing"
)

func TestExtractDesignIDs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want []int64
	}{
		{
			name: "top level reference",
			raw:  `{"library_design_id": 7}`,
			want: []int64{7},
		},
		{
			name: "front and back sides",
			raw:  `{"sides": {"front": {"library_design_id": 3}, "back": {"design_library_item_id": 9}}}`,
			want: []int64{3, 9},
		},
		{
			name: "alternate field spelling",
			raw:  `{"sides": {"front": {"design_library_item_id": 12}}}`,
			want: []int64{12},
		},
		{
			name: "duplicates collapse",
			raw:  `{"library_design_id": 4, "sides": {"front": {"library_design_id": 4}, "back": {"library_design_id": 4}}}`,
			want: []int64{4},
		},
		{
			name: "stringified document unwraps once",
			raw:  `"{\"sides\": {\"front\": {\"library_design_id\": 21}}}"`,
			want: []int64{21},
		},
		{
			name: "numeric string id",
			raw:  `{"library_design_id": "15"}`,
			want: []int64{15},
		},
		{
			name: "sorted output",
			raw:  `{"sides": {"front": {"library_design_id": 30}, "back": {"library_design_id": 2}}}`,
			want: []int64{2, 30},
		},
		{
			name: "zero and negative ids ignored",
			raw:  `{"library_design_id": 0, "sides": {"front": {"library_design_id": -5}}}`,
			want: nil,
		},
		{
			name: "fractional id ignored",
			raw:  `{"library_design_id": 3.5}`,
			want: nil,
		},
		{
			name: "non numeric string ignored",
			raw:  `{"library_design_id": "front-art"}`,
			want: nil,
		},
		{
			name: "malformed json",
			raw:  `{"sides": {`,
			want: nil,
		},
		{
			name: "array document",
			raw:  `[1, 2, 3]`,
			want: nil,
		},
		{
			name: "empty document",
			raw:  ``,
			want: nil,
		},
		{
			name: "unknown side keys ignored",
			raw:  `{"sides": {"sleeve": {"library_design_id": 8}}}`,
			want: nil,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractDesignIDs([]byte(tc.raw))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractDesignIDs(%s) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
