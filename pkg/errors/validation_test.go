package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "cpu", false},
		{"with underscore", "mem_ctrl", false},
		{"with dash", "l2-cache", false},
		{"uuid style", "0b7f5f2e-4a9d-4c3e-9f9f-2b1a6a1f0c1d", false},
		{"empty", "", true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"control char", "a\tb", true},
		{"too long", strings.Repeat("a", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateDesignName(t *testing.T) {
	tests := []struct {
		name       string
		designName string
		wantErr    bool
	}{
		{"simple", "riscv-soc", false},
		{"with version", "soc_v2.1", false},
		{"empty", "", true},
		{"leading dot", ".hidden", true},
		{"spaces", "my design", true},
		{"slash", "a/b", true},
		{"too long", strings.Repeat("x", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDesignName(tt.designName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDesignName(%q) error = %v, wantErr %v", tt.designName, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDesign) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidDesign)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "designs/soc.json", false},
		{"absolute", "/tmp/out.svg", false},
		{"empty", "", true},
		{"traversal", "../secrets", true},
		{"backslash", "out\\file", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("d/", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
