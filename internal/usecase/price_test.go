package usecase

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr error
	}{
		{in: "299.99", want: 299.99},
		{in: "1,234.50", want: 1234.50},
		{in: "1,000,000", want: 1000000},
		{in: " 42 ", want: 42},
		{in: "0", want: 0},
		{in: "10.5", want: 10.5},
		{in: "", wantErr: e.ErrInvalidPrice},
		{in: "   ", wantErr: e.ErrInvalidPrice},
		{in: "abc", wantErr: e.ErrInvalidPrice},
		{in: "-1", wantErr: e.ErrInvalidPrice},
		{in: "1000000001", wantErr: e.ErrInvalidPrice},
		{in: "10.999", wantErr: e.ErrPricePrecision},
	}

	for _, tc := range tests {
		got, err := ParsePrice(tc.in)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ParsePrice(%q) error = %v, want %v", tc.in, err, tc.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePrice(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
