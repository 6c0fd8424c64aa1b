package practice

import (
	"encoding/json"
	"strings"
)

// StringList tolerates source data that stores a field as either a bare
// string or an array of strings. Anything else decodes to an empty list.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	*l = nil
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one != "" {
			*l = StringList{one}
		}
		return nil
	}
	var many []interface{}
	if err := json.Unmarshal(b, &many); err != nil {
		return nil
	}
	out := make(StringList, 0, len(many))
	for _, v := range many {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

type Question struct {
	QuestionNumber string     `json:"question_number,omitempty"`
	QuestionText   string     `json:"question"`
	Options        StringList `json:"options"`
	Answer         StringList `json:"answer"`
	Explanation    string     `json:"explanation,omitempty"`
	WhyIncorrect   string     `json:"why_incorrect,omitempty"`
	References     StringList `json:"references,omitempty"`
}

// ReferencesText flattens the references list to newline-joined prose.
func (q Question) ReferencesText() string {
	return strings.Join(q.References, "\n")
}

type Topic struct {
	TopicName string     `json:"topic_name,omitempty"`
	CaseStudy string     `json:"case_study,omitempty"`
	Questions []Question `json:"questions"`
}

func (t *Topic) UnmarshalJSON(b []byte) error {
	var raw struct {
		TopicName string          `json:"topic_name"`
		CaseStudy string          `json:"case_study"`
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		*t = Topic{}
		return nil
	}
	t.TopicName = raw.TopicName
	t.CaseStudy = raw.CaseStudy
	t.Questions = nil
	if len(raw.Questions) > 0 {
		var qs []Question
		if err := json.Unmarshal(raw.Questions, &qs); err == nil {
			t.Questions = qs
		}
	}
	return nil
}

// TopicEntry pairs a topic with its source key. The key is the fallback
// title when a topic carrying a case study has no name of its own.
type TopicEntry struct {
	Key   string
	Topic Topic
}

// TopicList preserves the insertion order of the source object's keys.
// Question numbering and flattening order both depend on it, so the
// usual map decode is not an option.
type TopicList []TopicEntry

func (tl *TopicList) UnmarshalJSON(b []byte) error {
	*tl = nil
	dec := json.NewDecoder(strings.NewReader(string(b)))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		// null, array, scalar: treat as "no topics"
		return nil
	}
	out := TopicList{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil
		}
		var t Topic
		_ = json.Unmarshal(raw, &t)
		out = append(out, TopicEntry{Key: key, Topic: t})
	}
	*tl = out
	return nil
}

func (tl TopicList) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range tl {
		if i > 0 {
			sb.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Topic)
		if err != nil {
			return nil, err
		}
		sb.Write(k)
		sb.WriteByte(':')
		sb.Write(v)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// ContentDocument is the root object for one practice file. Immutable for
// the session once fetched; replaced wholesale on a file change.
type ContentDocument struct {
	FileName string    `json:"file_name"`
	Topics   TopicList `json:"topics"`
}

// CaseStudyRef describes the case-study header attached to every question
// under a topic that carries one, so the header can render regardless of
// where navigation enters the topic.
type CaseStudyRef struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	QuestionsCount int    `json:"questions_count"`
}

type ItemParent struct {
	Topic     string        `json:"topic,omitempty"`
	CaseStudy *CaseStudyRef `json:"case_study,omitempty"`
}

// StructuredItem is one element of the single-view sequence.
type StructuredItem struct {
	Question Question   `json:"question"`
	Parent   ItemParent `json:"parent"`
}

type FlatKind string

const (
	FlatTopic     FlatKind = "topic"
	FlatCaseStudy FlatKind = "case_study"
	FlatQuestion  FlatKind = "question"
)

// TopicMarker is the synthetic multi-view entry announcing a named topic.
type TopicMarker struct {
	Title          string `json:"title"`
	CaseStudyCount int    `json:"case_study_count"`
}

// FlatItem is one element of the multi-view sequence: a topic marker, a
// case-study marker, or a question, in document order.
type FlatItem struct {
	Kind      FlatKind      `json:"kind"`
	Topic     *TopicMarker  `json:"topic,omitempty"`
	CaseStudy *CaseStudyRef `json:"case_study,omitempty"`
	Question  *Question     `json:"question,omitempty"`
}
