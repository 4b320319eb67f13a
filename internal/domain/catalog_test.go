package domain

import "testing"

func TestAnswer_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Answer
		want bool
	}{
		{AnswerA, true},
		{AnswerB, true},
		{"a", false},
		{"C", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.in.IsValid(); got != tt.want {
			t.Errorf("Answer(%q).IsValid() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSignCategory_IsValid(t *testing.T) {
	t.Parallel()

	for _, c := range []SignCategory{SignCategoryMandatory, SignCategoryWarning, SignCategoryInformatory, SignCategoryProhibition} {
		if !c.IsValid() {
			t.Errorf("%q should be valid", c)
		}
	}
	if SignCategory("scenic").IsValid() {
		t.Error("unknown category reported valid")
	}
}

func TestMediaType_IsValid(t *testing.T) {
	t.Parallel()

	if !MediaImage.IsValid() || !MediaVideo.IsValid() {
		t.Fatal("known media types should be valid")
	}
	if MediaType("audio").IsValid() {
		t.Error("audio should be invalid")
	}
}
