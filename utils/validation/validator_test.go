package validation

import (
	"strings"
	"testing"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"valid korek number", "07501234567", true},
		{"valid asiacell number", "07701234567", true},
		{"valid zain number", "07801234567", true},
		{"missing leading zero", "7501234567", false},
		{"wrong prefix", "0850123456", false},
		{"too long", "075012345678", false},
		{"too short", "0750123456", false},
		{"empty", "", false},
		{"letters", "07abc123456", false},
		{"arabic-indic digits rejected", "07٥٠١٢٣٤٥٦٧", false},
		{"spaces", "0750 123 456", false},
		{"plus prefix", "+9647501234567", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePhone(tt.phone); got != tt.want {
				t.Errorf("ValidatePhone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestValidateRating(t *testing.T) {
	valid := []int{1, 2, 3, 4, 5}
	for _, r := range valid {
		if !ValidateRating(r) {
			t.Errorf("ValidateRating(%d) = false, want true", r)
		}
	}

	invalid := []int{0, 6, -1, 100}
	for _, r := range invalid {
		if ValidateRating(r) {
			t.Errorf("ValidateRating(%d) = true, want false", r)
		}
	}
}

func TestValidateCommentLength(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    bool
	}{
		{"too short", "short", false},
		{"nine chars", strings.Repeat("a", 9), false},
		{"exactly ten chars", strings.Repeat("a", 10), true},
		{"exactly five hundred chars", strings.Repeat("a", 500), true},
		{"five hundred and one chars", strings.Repeat("a", 501), false},
		{"empty", "", false},
		{"kurdish text counted in runes", "مامۆستایەکی زۆر باشە", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCommentLength(tt.comment); got != tt.want {
				t.Errorf("ValidateCommentLength(len=%d) = %v, want %v",
					len([]rune(tt.comment)), got, tt.want)
			}
		})
	}
}

func TestValidateCommentLengthCountsRunesNotBytes(t *testing.T) {
	// 10 Kurdish characters is well over 10 bytes but must pass
	comment := "بۆچوونەکەم"
	if len(comment) <= 10 {
		t.Fatalf("test string should be multi-byte, got %d bytes", len(comment))
	}
	if !ValidateCommentLength(comment) {
		t.Errorf("ValidateCommentLength(%q) = false, want true", comment)
	}
}
