package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/certempire/certportal/internal/auth"
	"github.com/certempire/certportal/internal/content"
	"github.com/certempire/certportal/internal/practice"
	"github.com/certempire/certportal/internal/purchases"

	"github.com/go-chi/chi/v5"
)

type optionView struct {
	Letter  string `json:"letter"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type questionView struct {
	QuestionNumber string              `json:"question_number"`
	QuestionText   string              `json:"question"`
	Options        []optionView        `json:"options"`
	Explanation    string              `json:"explanation,omitempty"`
	WhyIncorrect   string              `json:"why_incorrect,omitempty"`
	References     string              `json:"references,omitempty"`
	Parent         practice.ItemParent `json:"parent"`
}

type flatItemView struct {
	Kind      practice.FlatKind      `json:"kind"`
	Topic     *practice.TopicMarker  `json:"topic,omitempty"`
	CaseStudy *practice.CaseStudyRef `json:"case_study,omitempty"`
	Question  *questionView          `json:"question,omitempty"`
}

type practiceFilePayload struct {
	FileName       string         `json:"file_name"`
	TotalQuestions int            `json:"total_questions"`
	PageSize       int            `json:"page_size"`
	Questions      []questionView `json:"questions"`
	Items          []flatItemView `json:"items"`
}

func viewQuestion(q practice.Question, parent practice.ItemParent) questionView {
	opts := make([]optionView, 0, len(q.Options))
	for i, opt := range q.Options {
		opts = append(opts, optionView{
			Letter:  practice.OptionLetter(i),
			Text:    practice.StripOptionPrefix(opt),
			Correct: practice.IsCorrectOption(q.Answer, opt, i),
		})
	}
	return questionView{
		QuestionNumber: q.QuestionNumber,
		QuestionText:   q.QuestionText,
		Options:        opts,
		Explanation:    q.Explanation,
		WhyIncorrect:   q.WhyIncorrect,
		References:     q.ReferencesText(),
		Parent:         parent,
	}
}

// GET /practice/files/{fileID}
func GetPracticeFileHandler(src content.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID := chi.URLParam(r, "fileID")
		doc, err := src.Fetch(r.Context(), fileID)
		if err != nil {
			switch {
			case errors.Is(err, content.ErrNotFound), errors.Is(err, content.ErrNoData):
				http.Error(w, "could not load questions for this file", http.StatusNotFound)
			default:
				http.Error(w, "content fetch failed", http.StatusBadGateway)
			}
			return
		}
		single, multi := practice.Normalize(doc)
		payload := practiceFilePayload{
			FileName:       doc.FileName,
			TotalQuestions: len(single),
			PageSize:       practice.DefaultPageSize,
			Questions:      make([]questionView, 0, len(single)),
			Items:          make([]flatItemView, 0, len(multi)),
		}
		for _, it := range single {
			payload.Questions = append(payload.Questions, viewQuestion(it.Question, it.Parent))
		}
		for _, it := range multi {
			fv := flatItemView{Kind: it.Kind, Topic: it.Topic, CaseStudy: it.CaseStudy}
			if it.Question != nil {
				qv := viewQuestion(*it.Question, practice.ItemParent{})
				fv.Question = &qv
			}
			payload.Items = append(payload.Items, fv)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// GET /practice/files (the purchased-files list backing downloads/practice)
func ListPracticeFilesHandler(store *purchases.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		files, err := store.ListForUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "could not list files", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(files)
	}
}
