package search

import "testing"

func TestExtractArticleInfoArabicNumber(t *testing.T) {
	info := extractArticleInfo("第32条 年次有給休暇は入社6か月後から付与する。")
	if info.number != 32 {
		t.Fatalf("number = %d, want 32", info.number)
	}
	if info.role != roleLeave {
		t.Fatalf("role = %d, want roleLeave", info.role)
	}
}

func TestExtractArticleInfoKanjiNumber(t *testing.T) {
	info := extractArticleInfo("第三十二条 有給休暇の付与日数を定める。")
	if info.number != 32 {
		t.Fatalf("number = %d, want 32", info.number)
	}
}

func TestExtractArticleInfoRoles(t *testing.T) {
	cases := []struct {
		text string
		want articleRole
	}{
		{"第1条（目的）この規則は労働条件を定める。", rolePurpose},
		{"第2条（対象者）この規則は全従業員に適用する。", roleTarget},
		{"第15条 育児休業を取得できる者の範囲。", roleFamilyLeave},
		{"第20条 休職の申請手続は次のとおりとする。", roleProcedure},
		{"第8条 試用期間は3か月とする。", rolePeriod},
		{"本規則の改廃は取締役会が行う。", roleGeneral},
	}
	for _, tc := range cases {
		if got := extractArticleInfo(tc.text); got.role != tc.want {
			t.Fatalf("extractArticleInfo(%q).role = %d, want %d", tc.text, got.role, tc.want)
		}
	}
}

func TestExtractArticleInfoNoMarker(t *testing.T) {
	info := extractArticleInfo("附則 この規則は令和6年4月1日から施行する。")
	if info.number != 0 {
		t.Fatalf("number = %d, want 0", info.number)
	}
}

func TestKanjiNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"一", 1},
		{"三", 3},
		{"十", 10},
		{"十五", 15},
		{"二十", 20},
		{"二十三", 23},
		{"九十九", 99},
		{"条", 0},
	}
	for _, tc := range cases {
		if got := kanjiNumber(tc.in); got != tc.want {
			t.Fatalf("kanjiNumber(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
