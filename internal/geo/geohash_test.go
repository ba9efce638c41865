package geo

import (
	"testing"
)

func TestEncodeDeterministic(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want string
	}{
		{"jutland", 57.64911, 10.40744, "u4pru"},
		{"copenhagen", 55.6761, 12.5683, "u3buy"},
		{"equator origin", 0, 0, "s0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.lat, tt.lng)
			if got != tt.want {
				t.Errorf("Encode(%v, %v) = %q, want %q", tt.lat, tt.lng, got, tt.want)
			}
			// Same input always yields the same cell
			if again := Encode(tt.lat, tt.lng); again != got {
				t.Errorf("Encode not deterministic: %q vs %q", got, again)
			}
		})
	}
}

func TestEncodeNearbySameCell(t *testing.T) {
	// Two points a few hundred meters apart share a 5-char cell.
	a := Encode(57.64911, 10.40744)
	b := Encode(57.64950, 10.40800)
	if a != b {
		t.Errorf("nearby points encoded to different cells: %q vs %q", a, b)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid", 35.6892, 51.389, false},
		{"lat too high", 91, 0, true},
		{"lat too low", -90.1, 0, true},
		{"lng too high", 0, 180.5, true},
		{"lng too low", 0, -181, true},
		{"boundary", 90, -180, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.lat, tt.lng)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v, %v) error = %v, wantErr %v", tt.lat, tt.lng, err, tt.wantErr)
			}
		})
	}
}
