package search

import "testing"

func TestPartialRatioSubstring(t *testing.T) {
	if got := partialRatio("有給休暇", "第32条 有給休暇は10日付与される"); got != 100 {
		t.Fatalf("substring should score 100, got %v", got)
	}
}

func TestPartialRatioEmpty(t *testing.T) {
	if got := partialRatio("", "text"); got != 0 {
		t.Fatalf("empty needle should score 0, got %v", got)
	}
	if got := partialRatio("text", ""); got != 0 {
		t.Fatalf("empty hay should score 0, got %v", got)
	}
}

func TestPartialRatioApproximateMatch(t *testing.T) {
	got := partialRatio("abcd", "xxabcfyy")
	if got < 50 || got >= 100 {
		t.Fatalf("one-edit window should land between 50 and 100, got %v", got)
	}
}

func TestPartialRatioDisjoint(t *testing.T) {
	got := partialRatio("有給休暇", "alpha beta gamma delta")
	if got > 30 {
		t.Fatalf("disjoint scripts should score low, got %v", got)
	}
}

func TestPartialRatioSymmetricLengths(t *testing.T) {
	// The shorter side slides over the longer one regardless of argument
	// order, so a long needle against a short hay still scores.
	if got := partialRatio("第32条 有給休暇は10日付与される", "有給休暇"); got != 100 {
		t.Fatalf("swapped lengths should still find containment, got %v", got)
	}
}
