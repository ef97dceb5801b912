package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shiwanibaghel76/dairybook/internal/customers"
	"github.com/shiwanibaghel76/dairybook/internal/entries"
	"github.com/shiwanibaghel76/dairybook/internal/export"
	"github.com/shiwanibaghel76/dairybook/internal/metrics"
	"github.com/shiwanibaghel76/dairybook/internal/pricing"
	"github.com/shiwanibaghel76/dairybook/internal/reports"
	"github.com/shiwanibaghel76/dairybook/internal/settings"
)

type server struct {
	log       *zap.Logger
	settings  *settings.Repo
	customers *customers.Repo
	entries   *entries.Repo
	metrics   *metrics.Metrics
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", s.handleSettingsGet)
		r.Put("/settings", s.handleSettingsUpdate)

		r.Get("/customers", s.handleCustomersList)
		r.Post("/customers", s.handleCustomerCreate)
		r.Put("/customers/{id}", s.handleCustomerUpdate)
		r.Delete("/customers/{id}", s.handleCustomerDelete)

		r.Get("/entries", s.handleEntriesList)
		r.Post("/entries", s.handleEntryCreate)

		r.Get("/reports", s.handleReports)

		r.Get("/export/entries.csv", s.handleExportEntriesCSV)
		r.Get("/export/entries.xlsx", s.handleExportEntriesXLSX)
		r.Get("/export/daily.csv", s.handleExportDailyCSV)
		r.Get("/export/daily.xlsx", s.handleExportDailyXLSX)

		r.Post("/pricing/preview", s.handlePricingPreview)
		r.Post("/pricing/snf", s.handleSNFEstimate)
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type settingsResponse struct {
	BaseFat  float64 `json:"base_fat"`
	BaseSNF  float64 `json:"base_snf"`
	BaseRate float64 `json:"base_rate"`
	FatRate  float64 `json:"fat_rate"`
	SNFRate  float64 `json:"snf_rate"`
}

type settingsPayload struct {
	BaseFat  *float64 `json:"base_fat"`
	BaseSNF  *float64 `json:"base_snf"`
	BaseRate *float64 `json:"base_rate"`
	FatRate  *float64 `json:"fat_rate"`
	SNFRate  *float64 `json:"snf_rate"`
}

func settingsToResponse(s pricing.Settings) settingsResponse {
	return settingsResponse{
		BaseFat:  s.BaseFat,
		BaseSNF:  s.BaseSNF,
		BaseRate: s.BaseRate,
		FatRate:  s.FatRate,
		SNFRate:  s.SNFRate,
	}
}

func (s *server) handleSettingsGet(w http.ResponseWriter, _ *http.Request) {
	current, err := s.settings.Get()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settingsToResponse(current))
}

func (s *server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var p settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.badRequest(w, "invalid json body")
		return
	}
	if p.BaseFat == nil || p.BaseSNF == nil || p.BaseRate == nil || p.FatRate == nil || p.SNFRate == nil {
		s.badRequest(w, "all five coefficients are required")
		return
	}

	next := pricing.Settings{
		BaseFat:  *p.BaseFat,
		BaseSNF:  *p.BaseSNF,
		BaseRate: *p.BaseRate,
		FatRate:  *p.FatRate,
		SNFRate:  *p.SNFRate,
	}
	if err := s.settings.Update(next); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settingsToResponse(next))
}

type customerPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

func (s *server) handleCustomersList(w http.ResponseWriter, _ *http.Request) {
	list, err := s.customers.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *server) handleCustomerCreate(w http.ResponseWriter, r *http.Request) {
	var p customerPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.badRequest(w, "invalid json body")
		return
	}

	id, err := s.customers.Upsert(customers.Customer{
		Name:    p.Name,
		Phone:   p.Phone,
		Address: p.Address,
		Notes:   p.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *server) handleCustomerUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.badRequest(w, "invalid customer id")
		return
	}

	var p customerPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.badRequest(w, "invalid json body")
		return
	}

	if _, err := s.customers.Upsert(customers.Customer{
		ID:      id,
		Name:    p.Name,
		Phone:   p.Phone,
		Address: p.Address,
		Notes:   p.Notes,
	}); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (s *server) handleCustomerDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.badRequest(w, "invalid customer id")
		return
	}

	if err := s.customers.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleEntryCreate(w http.ResponseWriter, r *http.Request) {
	var in entries.NewEntry
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.badRequest(w, "invalid json body")
		return
	}

	entry, err := s.entries.Add(in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.EntryRecorded()
	s.writeJSON(w, http.StatusCreated, entry)
}

func entryFilterFromQuery(r *http.Request) (entries.Filter, error) {
	var f entries.Filter
	if raw := strings.TrimSpace(r.URL.Query().Get("customer_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return entries.Filter{}, fmt.Errorf("customer_id must be an integer")
		}
		f.CustomerID = id
	}
	f.From = r.URL.Query().Get("from")
	f.To = r.URL.Query().Get("to")
	return f, nil
}

func (s *server) handleEntriesList(w http.ResponseWriter, r *http.Request) {
	f, err := entryFilterFromQuery(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}

	list, err := s.entries.Query(f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

type reportsResponse struct {
	Summary reports.Summary    `json:"summary"`
	Daily   []reports.DailyRow `json:"daily"`
}

func (s *server) handleReports(w http.ResponseWriter, r *http.Request) {
	f, err := entryFilterFromQuery(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}

	list, err := s.entries.Query(f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reportsResponse{
		Summary: reports.Summarize(list),
		Daily:   reports.Daily(list),
	})
}

func (s *server) handleExportEntriesCSV(w http.ResponseWriter, r *http.Request) {
	f, err := entryFilterFromQuery(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}

	list, err := s.entries.Query(f)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="entries.csv"`)
	if err := export.WriteEntriesCSV(w, list); err != nil {
		s.log.Error("write entries csv", zap.Error(err))
	}
}

func (s *server) handleExportEntriesXLSX(w http.ResponseWriter, r *http.Request) {
	f, err := entryFilterFromQuery(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}

	list, err := s.entries.Query(f)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := export.EntriesWorkbook(list)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="entries.xlsx"`)
	_, _ = w.Write(data)
}

func (s *server) handleExportDailyCSV(w http.ResponseWriter, r *http.Request) {
	f, err := entryFilterFromQuery(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}

	list, err := s.entries.Query(f)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="daily.csv"`)
	if err := export.WriteDailyCSV(w, reports.Daily(list)); err != nil {
		s.log.Error("write daily csv", zap.Error(err))
	}
}

func (s *server) handleExportDailyXLSX(w http.ResponseWriter, r *http.Request) {
	f, err := entryFilterFromQuery(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}

	list, err := s.entries.Query(f)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := export.DailyWorkbook(reports.Daily(list))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="daily.xlsx"`)
	_, _ = w.Write(data)
}

type previewPayload struct {
	Fat       *float64 `json:"fat"`
	SNF       *float64 `json:"snf"`
	QtyLiters *float64 `json:"qty_liters"`
}

type previewResponse struct {
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

func (s *server) handlePricingPreview(w http.ResponseWriter, r *http.Request) {
	var p previewPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.badRequest(w, "invalid json body")
		return
	}
	if p.Fat == nil || p.SNF == nil {
		s.badRequest(w, "fat and snf are required")
		return
	}
	qty := 0.0
	if p.QtyLiters != nil {
		qty = *p.QtyLiters
	}

	current, err := s.settings.Get()
	if err != nil {
		s.writeError(w, err)
		return
	}

	rate, amount := pricing.RateAndAmount(*p.Fat, *p.SNF, qty, current)
	s.writeJSON(w, http.StatusOK, previewResponse{Rate: rate, Amount: amount})
}

type snfPayload struct {
	Lactometer *float64 `json:"lactometer_reading"`
	TempC      *float64 `json:"temp_c"`
	Fat        *float64 `json:"fat"`
}

type snfResponse struct {
	SNF float64 `json:"snf"`
}

func (s *server) handleSNFEstimate(w http.ResponseWriter, r *http.Request) {
	var p snfPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.badRequest(w, "invalid json body")
		return
	}
	if p.Lactometer == nil || p.Fat == nil {
		s.badRequest(w, "lactometer_reading and fat are required")
		return
	}
	// Omitted temperature means the reading was taken at the 27 °C
	// reference, so the correction term is zero.
	tempC := 27.0
	if p.TempC != nil {
		tempC = *p.TempC
	}

	s.writeJSON(w, http.StatusOK, snfResponse{SNF: pricing.EstimateSNF(*p.Lactometer, tempC, *p.Fat)})
}
