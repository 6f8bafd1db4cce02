package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campus/records/internal/auth"
	"campus/records/internal/config"
	"campus/records/internal/kv"
	"campus/records/internal/records"
)

type Server struct {
	cfg       config.Config
	service   *records.Service
	store     kv.Store
	ratingMax uint8
}

func NewServer(cfg config.Config, service *records.Service, store kv.Store) *Server {
	ratingMax := uint8(5)
	if cfg.RatingMax > 0 && cfg.RatingMax < 256 {
		ratingMax = uint8(cfg.RatingMax)
	}
	return &Server{cfg: cfg, service: service, store: store, ratingMax: ratingMax}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/teachers", s.handleActivateTeacher)
		r.Delete("/teachers/{identity}", s.handleDeactivateTeacher)
		r.Post("/students", s.handleActivateStudent)
		r.Delete("/students/{identity}", s.handleDeactivateStudent)
		r.Post("/recruiters", s.handleActivateRecruiter)
		r.Delete("/recruiters/{identity}", s.handleDeactivateRecruiter)

		r.Get("/teachers/{code}", s.handleGetTeacher)
		r.Get("/teachers/{code}/subjects/{subject}/passwords", s.handleGetPasswords)
		r.Get("/teachers/{code}/subjects/{subject}/reviews", s.handleGetReviews)
		r.Post("/reviews", s.handleSubmitReview)

		r.Post("/gradesheets", s.handlePublishGradeSheet)
		r.Get("/gradesheets/me/{semester}", s.handleGradeSheetAsStudent)
		r.Get("/gradesheets/{rollNumber}/{semester}", s.handleGradeSheetAsRecruiter)
	})

	return r
}

// Auth

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerFromContext(ctx context.Context) string {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	if claims == nil {
		return ""
	}
	return claims.Identity
}

// Models

type activateTeacherRequest struct {
	Identity string   `json:"identity"`
	Code     string   `json:"code"`
	Subjects []string `json:"subjects"`
	Counts   []int    `json:"counts"`
}

type activateStudentRequest struct {
	Identity   string `json:"identity"`
	RollNumber string `json:"rollNumber"`
}

type activateRecruiterRequest struct {
	Identity string `json:"identity"`
}

type submitReviewRequest struct {
	Code     string `json:"code"`
	Subject  string `json:"subject"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
	Password int64  `json:"password"`
}

type publishGradeSheetRequest struct {
	RollNumber string `json:"rollNumber"`
	Semester   int64  `json:"semester"`
	Reference  string `json:"reference"`
}

type teacherResponse struct {
	Code     string   `json:"code"`
	Subjects []string `json:"subjects"`
}

type reviewResponse struct {
	Rating   uint8  `json:"rating"`
	Comments string `json:"comments"`
}

type gradeSheetResponse struct {
	RollNumber string `json:"rollNumber,omitempty"`
	Semester   uint32 `json:"semester"`
	Reference  string `json:"reference"`
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "store_unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleActivateTeacher(w http.ResponseWriter, r *http.Request) {
	var req activateTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Identity == "" || req.Code == "" || len(req.Subjects) == 0 {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	if len(req.Subjects) != len(req.Counts) {
		writeError(w, http.StatusBadRequest, "subject_count_mismatch")
		return
	}
	for _, count := range req.Counts {
		if count < 0 {
			writeError(w, http.StatusBadRequest, "invalid_count")
			return
		}
	}
	caller := callerFromContext(r.Context())
	if err := s.service.ActivateTeacher(r.Context(), caller, req.Identity, req.Code, req.Subjects, req.Counts); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeactivateTeacher(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing_identity")
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.service.DeactivateTeacher(r.Context(), caller, identity); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivateStudent(w http.ResponseWriter, r *http.Request) {
	var req activateStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Identity == "" || req.RollNumber == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.service.ActivateStudent(r.Context(), caller, req.Identity, req.RollNumber); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeactivateStudent(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing_identity")
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.service.DeactivateStudent(r.Context(), caller, identity); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivateRecruiter(w http.ResponseWriter, r *http.Request) {
	var req activateRecruiterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Identity == "" {
		writeError(w, http.StatusBadRequest, "missing_identity")
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.service.ActivateRecruiter(r.Context(), caller, req.Identity); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeactivateRecruiter(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing_identity")
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.service.DeactivateRecruiter(r.Context(), caller, identity); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTeacher(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	caller := callerFromContext(r.Context())
	record, err := s.service.GetTeacher(r.Context(), caller, code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teacherResponse{Code: record.Code, Subjects: record.Subjects})
}

func (s *Server) handleGetPasswords(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	subject := chi.URLParam(r, "subject")
	caller := callerFromContext(r.Context())
	pool, err := s.service.GetPasswords(r.Context(), caller, code, subject)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]uint32{"passwords": pool})
}

func (s *Server) handleGetReviews(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	subject := chi.URLParam(r, "subject")
	caller := callerFromContext(r.Context())
	reviews, err := s.service.ListReviews(r.Context(), caller, code, subject)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp = append(resp, reviewResponse{Rating: review.Rating, Comments: review.Comments})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Code == "" || req.Subject == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	if req.Rating < 1 || req.Rating > int(s.ratingMax) {
		writeError(w, http.StatusBadRequest, "invalid_rating")
		return
	}
	if req.Password < 0 || req.Password >= 100000 {
		writeError(w, http.StatusBadRequest, "invalid_password_format")
		return
	}
	caller := callerFromContext(r.Context())
	err := s.service.SubmitReview(r.Context(), caller, req.Code, req.Subject, uint8(req.Rating), req.Comments, uint32(req.Password))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePublishGradeSheet(w http.ResponseWriter, r *http.Request) {
	var req publishGradeSheetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.RollNumber == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	if req.Semester < 0 || req.Semester > int64(^uint32(0)) {
		writeError(w, http.StatusBadRequest, "invalid_semester")
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.service.PublishGradeSheet(r.Context(), caller, req.RollNumber, uint32(req.Semester), req.Reference); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGradeSheetAsStudent(w http.ResponseWriter, r *http.Request) {
	semester, err := parseSemester(chi.URLParam(r, "semester"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_semester")
		return
	}
	caller := callerFromContext(r.Context())
	reference, err := s.service.GradeSheetAsStudent(r.Context(), caller, semester)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gradeSheetResponse{Semester: semester, Reference: reference})
}

func (s *Server) handleGradeSheetAsRecruiter(w http.ResponseWriter, r *http.Request) {
	rollNumber := chi.URLParam(r, "rollNumber")
	semester, err := parseSemester(chi.URLParam(r, "semester"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_semester")
		return
	}
	caller := callerFromContext(r.Context())
	reference, err := s.service.GradeSheetAsRecruiter(r.Context(), caller, rollNumber, semester)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gradeSheetResponse{RollNumber: rollNumber, Semester: semester, Reference: reference})
}

// Utilities

func parseSemester(raw string) (uint32, error) {
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(parsed), nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, records.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, records.ErrAlreadyActive):
		writeError(w, http.StatusConflict, "already_active")
	case errors.Is(err, records.ErrNotActive):
		writeError(w, http.StatusNotFound, "not_active")
	case errors.Is(err, records.ErrAlreadyRedeemed):
		writeError(w, http.StatusConflict, "already_redeemed")
	case errors.Is(err, records.ErrInvalidCredential):
		writeError(w, http.StatusForbidden, "invalid_password")
	case errors.Is(err, records.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, records.ErrInvalidSemester):
		writeError(w, http.StatusBadRequest, "invalid_semester")
	default:
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
