package core

import (
	"testing"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same fingerprint",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp1 := Fingerprint(tt.content)
			fp2 := Fingerprint(tt.content)

			if fp1 != fp2 {
				t.Errorf("Fingerprint() produced different values for same content: %d vs %d", fp1, fp2)
			}
		})
	}
}

func TestFingerprintDistinct(t *testing.T) {
	if Fingerprint("alpha") == Fingerprint("beta") {
		t.Error("Fingerprint() produced the same value for different content")
	}
}
