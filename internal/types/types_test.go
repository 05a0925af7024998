package types

import "testing"

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  ScoreLevel
	}{
		{100, LevelExcellent},
		{90, LevelExcellent},
		{89.9, LevelGood},
		{75, LevelGood},
		{74, LevelFair},
		{60, LevelFair},
		{59, LevelNeedsWork},
		{40, LevelNeedsWork},
		{39, LevelCritical},
		{0, LevelCritical},
	}

	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestLevelForScoreCoversFullRange(t *testing.T) {
	for s := 0; s <= 100; s++ {
		got := LevelForScore(float64(s))
		var want ScoreLevel
		switch {
		case s >= 90:
			want = LevelExcellent
		case s >= 75:
			want = LevelGood
		case s >= 60:
			want = LevelFair
		case s >= 40:
			want = LevelNeedsWork
		default:
			want = LevelCritical
		}
		if got != want {
			t.Fatalf("score %d: got %q, want %q", s, got, want)
		}
	}
}

func TestCVDataCloneIsDeep(t *testing.T) {
	orig := CVData{
		Experience: []Experience{{ID: "exp-0", Description: []string{"a"}}},
		Skills:     []Skill{{Category: "Go", Items: []string{"x"}}},
	}

	c := orig.Clone()
	c.Experience[0].Description[0] = "changed"
	c.Skills[0].Items = append(c.Skills[0].Items, "y")

	if orig.Experience[0].Description[0] != "a" {
		t.Error("clone shares experience description storage")
	}
	if len(orig.Skills[0].Items) != 1 {
		t.Error("clone shares skill items storage")
	}
}

func TestCoverLetterText(t *testing.T) {
	cl := CoverLetter{Salutation: "Dear Ada,", Content: "Body.", Closing: "Regards,"}
	want := "Dear Ada,\n\nBody.\n\nRegards,"
	if got := cl.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}

	empty := EmptyCoverLetter()
	if empty.Salutation != DefaultSalutation || empty.Closing != DefaultClosing {
		t.Errorf("EmptyCoverLetter() = %+v", empty)
	}
}

func TestModificationTypeValid(t *testing.T) {
	for _, mt := range []ModificationType{ModificationResume, ModificationCoverLetter, ModificationBoth, ModificationInvalid} {
		if !mt.Valid() {
			t.Errorf("%q should be valid", mt)
		}
	}
	if ModificationType("other").Valid() {
		t.Error("unknown type reported valid")
	}
}
