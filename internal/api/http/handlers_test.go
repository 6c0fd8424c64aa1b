package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	portalapi "github.com/certempire/certportal/internal/api/http"
	"github.com/certempire/certportal/internal/auth"
	"github.com/certempire/certportal/internal/content"
	"github.com/certempire/certportal/internal/db"
	"github.com/certempire/certportal/internal/practice"
	"github.com/certempire/certportal/internal/purchases"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type stubSource struct {
	doc practice.ContentDocument
	err error
}

func (s stubSource) Fetch(context.Context, string) (practice.ContentDocument, error) {
	return s.doc, s.err
}

func asUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithSubject(r.Context(), userID)))
		})
	}
}

func practiceDoc() practice.ContentDocument {
	return practice.ContentDocument{
		FileName: "MB-330.pdf",
		Topics: practice.TopicList{
			{Key: "t1", Topic: practice.Topic{
				TopicName: "Topic A",
				CaseStudy: "shared context",
				Questions: []practice.Question{
					{QuestionText: "pick one", Options: practice.StringList{"A. first", "B. second"}, Answer: practice.StringList{"B"}},
				},
			}},
		},
	}
}

func TestGetPracticeFileHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/practice/files/{fileID}", portalapi.GetPracticeFileHandler(stubSource{doc: practiceDoc()}))

	req := httptest.NewRequest(http.MethodGet, "/practice/files/f1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		FileName       string `json:"file_name"`
		TotalQuestions int    `json:"total_questions"`
		PageSize       int    `json:"page_size"`
		Questions      []struct {
			QuestionNumber string `json:"question_number"`
			Options        []struct {
				Letter  string `json:"letter"`
				Text    string `json:"text"`
				Correct bool   `json:"correct"`
			} `json:"options"`
		} `json:"questions"`
		Items []struct {
			Kind string `json:"kind"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.FileName != "MB-330.pdf" || payload.TotalQuestions != 1 || payload.PageSize != practice.DefaultPageSize {
		t.Fatalf("payload head = %+v", payload)
	}
	// topic marker, case-study marker, question
	if len(payload.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(payload.Items))
	}
	q := payload.Questions[0]
	if q.QuestionNumber != "1" {
		t.Errorf("question number = %q", q.QuestionNumber)
	}
	if q.Options[0].Text != "first" || q.Options[0].Correct {
		t.Errorf("option 0 = %+v", q.Options[0])
	}
	if q.Options[1].Letter != "B" || !q.Options[1].Correct {
		t.Errorf("option 1 = %+v", q.Options[1])
	}
}

func TestGetPracticeFileHandlerNoData(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/practice/files/{fileID}", portalapi.GetPracticeFileHandler(stubSource{err: content.ErrNoData}))

	req := httptest.NewRequest(http.MethodGet, "/practice/files/f1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetPracticeFileHandlerFetchFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/practice/files/{fileID}", portalapi.GetPracticeFileHandler(stubSource{err: errors.New("conn refused")}))

	req := httptest.NewRequest(http.MethodGet, "/practice/files/f1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestProgressRoundTrip(t *testing.T) {
	store := practice.NewInMemoryStore()
	r := chi.NewRouter()
	r.Use(asUser("u1"))
	r.Get("/practice/files/{fileID}/progress", portalapi.GetProgressHandler(store))
	r.Put("/practice/files/{fileID}/progress", portalapi.PutProgressHandler(store))
	r.Get("/practice/resume", portalapi.ResumeHandler(store))

	// no progress yet
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/practice/files/f1/progress", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty get status = %d", rec.Code)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"product_name":               "MB-330.pdf",
		"last_viewed_question_index": 34,
		"total_questions":            150,
	})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/practice/files/f1/progress", bytes.NewReader(body)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/practice/files/f1/progress", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var cp practice.Checkpoint
	if err := json.Unmarshal(rec.Body.Bytes(), &cp); err != nil {
		t.Fatal(err)
	}
	if cp.UserID != "u1" || cp.FileID != "f1" || cp.LastViewedQuestionIndex != 34 || cp.TotalQuestions != 150 {
		t.Fatalf("checkpoint = %+v", cp)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/practice/resume", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("resume status = %d", rec.Code)
	}
}

func TestPutProgressRejectsNegativeIndex(t *testing.T) {
	store := practice.NewInMemoryStore()
	r := chi.NewRouter()
	r.Use(asUser("u1"))
	r.Put("/practice/files/{fileID}/progress", portalapi.PutProgressHandler(store))

	body := []byte(`{"last_viewed_question_index": -1, "total_questions": 10}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/practice/files/f1/progress", bytes.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func webhookStore(t *testing.T) *purchases.Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:webhook_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	dbh.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbh.Close() })
	if _, err := dbh.Exec(`INSERT INTO users (id, email) VALUES ('u1', 'buyer@example.com')`); err != nil {
		t.Fatal(err)
	}
	if _, err := dbh.Exec(`INSERT INTO files (id, filename, parsed_json, created_at) VALUES ('f1', 'MB-330.pdf', '{}', 1)`); err != nil {
		t.Fatal(err)
	}
	return purchases.NewStore(dbh)
}

func TestPurchaseWebhook(t *testing.T) {
	store := webhookStore(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("hook-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	h := portalapi.PurchaseWebhookHandler(store, string(hash))

	post := func(secret string, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/purchase", bytes.NewReader([]byte(body)))
		if secret != "" {
			req.Header.Set("X-Webhook-Secret", secret)
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	if rec := post("wrong", `{"email":"buyer@example.com","file_id":"f1"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad secret status = %d", rec.Code)
	}
	if rec := post("hook-secret", `{"email":"buyer@example.com"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing file_id status = %d", rec.Code)
	}
	if rec := post("hook-secret", `{"email":"ghost@example.com","file_id":"f1"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown email status = %d", rec.Code)
	}
	if rec := post("hook-secret", `{"email":"buyer@example.com","file_id":"f1"}`); rec.Code != http.StatusOK {
		t.Fatalf("record status = %d: %s", rec.Code, rec.Body.String())
	}

	files, err := store.ListForUser(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].FileID != "f1" {
		t.Fatalf("purchases = %+v", files)
	}
}

func TestPurchaseWebhookDisabledWithoutHash(t *testing.T) {
	h := portalapi.PurchaseWebhookHandler(nil, "")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/purchase", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
