package pagesplit

import "testing"

func TestDetectSection(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"第32条 有給休暇は入社6か月後から付与する。", "第32条"},
		{"第三章 服務規律\nその他の定め", "第三章"},
		{"第１０条 賃金の計算期間", "第１０条"},
		{"前文 この規則の趣旨について", ""},
	}
	for _, tc := range cases {
		if got := DetectSection(tc.text); got != tc.want {
			t.Fatalf("DetectSection(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestDetectSectionScanWindow(t *testing.T) {
	var head string
	for i := 0; i < 300; i++ {
		head += "あ"
	}
	if got := DetectSection(head + "第5条"); got != "" {
		t.Fatalf("marker outside scan window must not match, got %q", got)
	}
}

func TestCleanText(t *testing.T) {
	in := "第1条\r\n\r\n\r\n目的を定める。\x00\r\n  \r\nおわり  "
	want := "第1条\n\n目的を定める。\n\nおわり"
	if got := CleanText(in); got != want {
		t.Fatalf("CleanText = %q, want %q", got, want)
	}
}

func TestSplitPagesFormFeed(t *testing.T) {
	pages := SplitPages("第1条 目的\f第2条 適用範囲\f\f")
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d: %v", len(pages), pages)
	}
	if pages[1] != "第2条 適用範囲" {
		t.Fatalf("page 2 = %q", pages[1])
	}
}

func TestSplitPagesNoFormFeed(t *testing.T) {
	pages := SplitPages("単一ページの規程")
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
}
