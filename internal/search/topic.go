package search

import "strings"

// Topical families of the regulation corpus: a query that clearly belongs
// to one family should prefer pages from the matching source file and
// avoid pages from a conflicting one.
type queryTopic int

const (
	topicUnknown queryTopic = iota
	topicGeneral
	topicChildcare
	topicPartTime
	topicLaborAgreement
)

var fileTopicKeywords = []struct {
	topic    queryTopic
	fileMark string
	markers  []string
}{
	{topicChildcare, "育児介護", []string{"育児", "介護", "産前", "産後", "出産", "子育て", "看護", "家族"}},
	{topicPartTime, "パート", []string{"パート", "アルバイト", "非正規", "時給", "短時間"}},
	{topicLaborAgreement, "労使協定", []string{"協定", "労使", "36協定", "労働者代表"}},
}

var generalTopicMarkers = []string{
	"有給", "有休", "年休", "給与", "給料", "賃金", "勤務時間",
	"残業", "遅刻", "早退", "欠勤", "退職", "解雇", "懲戒",
}

func identifyQueryTopic(normalizedQuery string) queryTopic {
	// 育休 alone is enough to pin the childcare/nursing-care family.
	if strings.Contains(normalizedQuery, "育休") || strings.Contains(normalizedQuery, "育児休") {
		return topicChildcare
	}
	for _, family := range fileTopicKeywords {
		for _, marker := range family.markers {
			if strings.Contains(normalizedQuery, marker) {
				return family.topic
			}
		}
	}
	for _, marker := range generalTopicMarkers {
		if strings.Contains(normalizedQuery, marker) {
			return topicGeneral
		}
	}
	return topicUnknown
}

// topicAffinity scores how the page's source file name relates to the
// query's topical family: affinity when they agree, conflict when the file
// belongs to a different special regulation, zero when ambiguous.
func topicAffinity(topic queryTopic, fileName string, w *Weights) float64 {
	switch topic {
	case topicChildcare:
		if strings.Contains(fileName, "育児介護") {
			return w.TopicAffinity
		}
		if strings.Contains(fileName, "パート") {
			return w.TopicConflict
		}
	case topicPartTime:
		if strings.Contains(fileName, "パート") {
			return w.TopicAffinity
		}
		return w.TopicConflict * 2 / 3
	case topicLaborAgreement:
		if strings.Contains(fileName, "労使協定") || strings.Contains(fileName, "協定") {
			return w.TopicAffinity
		}
	case topicGeneral:
		// General employment questions should avoid the special regulations.
		if strings.Contains(fileName, "育児介護") || strings.Contains(fileName, "パート") {
			return w.TopicConflict / 3
		}
		return w.TopicAffinity * 2 / 3
	}
	return 0
}
