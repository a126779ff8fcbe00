package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/harunao/regulation-assistant/internal/core/domain"
	"github.com/harunao/regulation-assistant/internal/core/ports"
	"github.com/harunao/regulation-assistant/internal/observability/metrics"
)

type Router struct {
	ingestor ports.DocumentIngestor
	answerer ports.QuestionAnswerer
	reader   ports.DocumentReader

	service string
	metrics *metrics.HTTPServerMetrics
	limiter *rate.Limiter
}

type RouterOptions struct {
	Service string
	Metrics *metrics.HTTPServerMetrics
	// Limiter applies to the /v1/ surface; nil disables traffic control.
	Limiter *rate.Limiter
}

func NewRouter(
	ingestor ports.DocumentIngestor,
	answerer ports.QuestionAnswerer,
	reader ports.DocumentReader,
	opts RouterOptions,
) *Router {
	if opts.Service == "" {
		opts.Service = "api"
	}
	return &Router{
		ingestor: ingestor,
		answerer: answerer,
		reader:   reader,
		service:  opts.Service,
		metrics:  opts.Metrics,
		limiter:  opts.Limiter,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/ask", rt.ask)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rt.rateLimitMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question       string   `json:"question"`
		ConversationID string   `json:"conversation_id"`
		TopK           int      `json:"top_k"`
		Strict         bool     `json:"strict"`
		Files          []string `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	start := time.Now()
	answer, err := rt.answerer.Ask(r.Context(), req.Question, domain.AskOptions{
		ConversationID: req.ConversationID,
		TopK:           req.TopK,
		Strict:         req.Strict,
		Files:          req.Files,
	})
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	if rt.metrics != nil {
		var topScore float64
		if answer.Source != nil {
			topScore = answer.Source.Score
		}
		rt.metrics.RecordSearch(rt.service, answer.Intent, len(answer.Alternatives), topScore, time.Since(start))
	}

	writeJSON(w, http.StatusOK, answer)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
