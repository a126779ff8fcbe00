package search

import (
	"testing"

	"github.com/harunao/regulation-assistant/internal/core/domain"
)

func leavePage() domain.PageRecord {
	return domain.PageRecord{
		FileName: "就業規則.pdf",
		FilePath: "docs/就業規則.pdf",
		PageNo:   12,
		Text:     "第1条（目的）この規則は、従業員の労働条件を定める。第32条 有給休暇は入社6か月後から10日付与される。",
	}
}

func TestScoreLeaveQueryOutranksUnrelated(t *testing.T) {
	engine := newTestEngine()
	page := leavePage()

	leaveIntent := engine.Analyze("有給休暇は何日もらえますか", nil)
	leave := engine.Score(page, leaveIntent)
	if !containsTerm(leave.MatchedTerms, "有給休暇") {
		t.Fatalf("matched terms missing 有給休暇: %v", leave.MatchedTerms)
	}
	if leave.RelevanceReason == "" {
		t.Fatal("expected a non-empty relevance reason")
	}

	unrelated := engine.Score(page, engine.Analyze("退職の手続き", nil))
	if leave.Score <= unrelated.Score {
		t.Fatalf("leave query %v must outrank unrelated query %v", leave.Score, unrelated.Score)
	}
}

func TestScoreOccurrenceBonus(t *testing.T) {
	engine := newTestEngine()
	intent := engine.Analyze("有給休暇", nil)

	once := engine.Score(domain.PageRecord{
		FileName: "就業規則.pdf",
		Text:     "有給休暇は10日付与される。",
	}, intent)
	thrice := engine.Score(domain.PageRecord{
		FileName: "就業規則.pdf",
		Text:     "有給休暇は10日付与される。有給休暇の繰越は翌年度まで。有給休暇の買上げは行わない。",
	}, intent)

	if thrice.Score <= once.Score {
		t.Fatalf("repeated occurrences should score higher: %v vs %v", thrice.Score, once.Score)
	}
}

func TestScoreSectionBonus(t *testing.T) {
	engine := newTestEngine()
	intent := engine.Analyze("有給休暇", nil)

	plain := domain.PageRecord{FileName: "就業規則.pdf", Text: "有給休暇は10日付与される。"}
	labeled := plain
	labeled.Section = "第32条 有給休暇"

	withSection := engine.Score(labeled, intent)
	withoutSection := engine.Score(plain, intent)
	if withSection.Score <= withoutSection.Score {
		t.Fatalf("section label match should add weight: %v vs %v", withSection.Score, withoutSection.Score)
	}
}

func TestScoreTopicAffinity(t *testing.T) {
	engine := newTestEngine()
	intent := engine.Analyze("育休の取得条件", nil)

	text := "第10条 育児休業の対象者は、1歳に満たない子を養育する従業員とする。"
	matching := engine.Score(domain.PageRecord{FileName: "育児介護休業規程.pdf", Text: text}, intent)
	conflicting := engine.Score(domain.PageRecord{FileName: "パートタイマー就業規則.pdf", Text: text}, intent)

	if matching.Score <= conflicting.Score {
		t.Fatalf("topic-matching file should outrank conflicting file: %v vs %v", matching.Score, conflicting.Score)
	}
}

func TestScoreFrequencyPenaltyConfigurable(t *testing.T) {
	penalized := DefaultWeights()
	penalized.FrequencyThreshold = 1

	neutral := penalized
	neutral.FrequencyPenalty = 0

	page := domain.PageRecord{FileName: "就業規則.pdf", Text: "残業 残業"}
	intent := NewEngine(Config{}).Analyze("残業", nil)

	got := NewEngine(Config{Weights: &penalized}).Score(page, intent).Score
	want := NewEngine(Config{Weights: &neutral}).Score(page, intent).Score
	if got >= want {
		t.Fatalf("frequency penalty not applied: %v vs %v", got, want)
	}
}

func TestScoreDeterministic(t *testing.T) {
	engine := newTestEngine()
	page := leavePage()
	intent := engine.Analyze("有給休暇の繰越について", nil)

	first := engine.Score(page, intent)
	for i := 0; i < 5; i++ {
		again := engine.Score(page, intent)
		if again.Score != first.Score {
			t.Fatalf("score varies across runs: %v vs %v", again.Score, first.Score)
		}
	}
}

func TestScoreNeverNegative(t *testing.T) {
	engine := newTestEngine()
	intent := engine.Analyze("育休", nil)

	// Late unmatched article in a conflicting file pulls every penalty at once.
	page := domain.PageRecord{
		FileName: "パートタイマー就業規則.pdf",
		Text:     "第60条 本規則の改廃は取締役会の決議による。",
	}
	if got := engine.Score(page, intent); got.Score < 0 {
		t.Fatalf("score must clamp at zero, got %v", got.Score)
	}
}

func TestScoreNoOverlapStaysLow(t *testing.T) {
	engine := newTestEngine()
	intent := engine.Analyze("有給休暇", nil)
	got := engine.Score(domain.PageRecord{FileName: "就業規則.pdf", Text: "lorem ipsum dolor sit amet"}, intent)
	if got.Score >= 50 {
		t.Fatalf("disjoint page scored too high: %v", got.Score)
	}
}
