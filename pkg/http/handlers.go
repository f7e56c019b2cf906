package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"link-redirector/pkg/logging"
	"link-redirector/pkg/middleware"
	"link-redirector/pkg/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RedirectPrefix is the path under which short codes are served.
const RedirectPrefix = "/i/"

// MaxCreateBodyBytes caps the size of a POST /procesar body.
const MaxCreateBodyBytes = 64 << 10

const (
	healthBody   = "Microservice active"
	notFoundBody = "<h3>Link not found</h3>"
)

type Handler struct {
	linkService   *service.LinkService
	publicBaseURL string
}

// NewHandler builds the handlers. publicBaseURL may be empty, in which case
// short URLs are built from the inbound request.
func NewHandler(linkService *service.LinkService, publicBaseURL string) *Handler {
	return &Handler{
		linkService:   linkService,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

type createLinkResponse struct {
	OK        bool   `json:"ok"`
	ShortCode string `json:"hash_minimo,omitempty"`
	ShortURL  string `json:"url_corta,omitempty"`
	Error     string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxCreateBodyBytes)

	var req service.CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusBadRequest, createLinkResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, createLinkResponse{Error: "invalid request body"})
		return
	}

	res, err := h.linkService.CreateLink(r.Context(), &req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, createLinkResponse{Error: verr.Message})
			return
		}
		writeJSON(w, http.StatusInternalServerError, createLinkResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, createLinkResponse{
		OK:        true,
		ShortCode: res.ShortCode,
		ShortURL:  h.baseURL(r) + RedirectPrefix + res.ShortCode,
	})
}

func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	target, err := h.linkService.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(notFoundBody))
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(healthBody))
}

func (h *Handler) baseURL(r *http.Request) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	} else if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host
}

func useCommon(r *chi.Mux, logger *logging.Logger) {
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.AccessLog(logger))
	r.Use(chimw.Recoverer)
}

// SetupRoutes registers the full service: link creation, redirects and health.
func SetupRoutes(r *chi.Mux, handler *Handler, logger *logging.Logger) {
	useCommon(r, logger)
	r.Get("/", handler.HealthCheck)
	r.Post("/procesar", handler.CreateLink)
	r.Get(RedirectPrefix+"{code}", handler.Redirect)
}

// SetupRedirectRoutes registers only the read path.
func SetupRedirectRoutes(r *chi.Mux, handler *Handler, logger *logging.Logger) {
	useCommon(r, logger)
	r.Get("/", handler.HealthCheck)
	r.Get(RedirectPrefix+"{code}", handler.Redirect)
}
