package errors

import (
	"strings"
	"testing"

	"github.com/matzehuels/beaconnet/pkg/model"
)

func TestValidateBeaconID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "A", false},
		{"valid with dash", "sun-1", false},
		{"valid uuid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},

		{"empty", "", true},
		{"reserved", model.NoID, true},
		{"too long", strings.Repeat("x", 300), true},
		{"space", "a b", true},
		{"tab", "a\tb", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBeaconID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBeaconID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateBeaconID(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateBeaconName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Alpha Centauri", false},
		{"empty", "", false},
		{"reserved", model.NoName, true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateBeaconName(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateBeaconName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCost(t *testing.T) {
	if err := ValidateCost(0); err != nil {
		t.Errorf("ValidateCost(0) = %v", err)
	}
	if err := ValidateCost(-1); err == nil {
		t.Error("ValidateCost(-1) = nil, want error")
	}
}

func TestValidateOutputBase(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"out/network", false},
		{"", true},
		{"   ", true},
		{"foo\x00bar", true},
	}
	for _, tt := range tests {
		if err := ValidateOutputBase(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateOutputBase(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
