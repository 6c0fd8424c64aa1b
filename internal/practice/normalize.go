package practice

import "strconv"

// Normalize flattens a nested document into the two derived sequences: the
// globally-numbered single-view sequence and the marker-interleaved
// multi-view sequence. Pure; the input document is not mutated beyond
// question-number assignment on the returned copies.
func Normalize(doc ContentDocument) (single []StructuredItem, multi []FlatItem) {
	single = []StructuredItem{}
	multi = []FlatItem{}
	num := 1
	for _, entry := range doc.Topics {
		topic := entry.Topic
		qCount := len(topic.Questions)

		if topic.TopicName != "" {
			csCount := 0
			if topic.CaseStudy != "" {
				csCount = 1
			}
			multi = append(multi, FlatItem{
				Kind:  FlatTopic,
				Topic: &TopicMarker{Title: topic.TopicName, CaseStudyCount: csCount},
			})
		}

		var cs *CaseStudyRef
		if topic.CaseStudy != "" {
			title := topic.TopicName
			if title == "" {
				title = entry.Key
			}
			cs = &CaseStudyRef{
				Title:          title,
				Description:    topic.CaseStudy,
				QuestionsCount: qCount,
			}
			multi = append(multi, FlatItem{Kind: FlatCaseStudy, CaseStudy: cs})
		}

		for _, q := range topic.Questions {
			if q.QuestionNumber == "" {
				q.QuestionNumber = strconv.Itoa(num)
				num++
			}

			parent := ItemParent{Topic: topic.TopicName}
			if cs != nil {
				ref := *cs
				parent.CaseStudy = &ref
			}
			single = append(single, StructuredItem{Question: q, Parent: parent})

			fq := q
			multi = append(multi, FlatItem{Kind: FlatQuestion, Question: &fq})
		}
	}
	return single, multi
}
