package lastresults

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{input: "1", want: []int{1}},
		{input: "1,3,5", want: []int{1, 3, 5}},
		{input: "1-3", want: []int{1, 2, 3}},
		{input: "1,3-5,7", want: []int{1, 3, 4, 5, 7}},
		{input: "1 3  5", want: []int{1, 3, 5}},
		{input: "5,1,5,2-3,3", want: []int{5, 1, 2, 3}},
		{input: "", wantErr: true},
		{input: " , ", wantErr: true},
		{input: "0", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "5-3", wantErr: true},
		{input: "1-", wantErr: true},
		{input: "1-2000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNumbers(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNumber) {
					t.Fatalf("expected ErrInvalidNumber, got %v (result %v)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseNumbers(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseNumberArgs(t *testing.T) {
	got, err := ParseNumberArgs([]string{"2", "4-5"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{2, 4, 5}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if _, err := ParseNumberArgs(nil); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("expected ErrInvalidNumber for no args, got %v", err)
	}
}
