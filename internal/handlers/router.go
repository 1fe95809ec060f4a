package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zaiko-app/zaikogo/internal/buildinfo"
	"github.com/zaiko-app/zaikogo/internal/middleware"
	"github.com/zaiko-app/zaikogo/internal/services/csvimport"
	"github.com/zaiko-app/zaikogo/internal/services/forecast"
	"github.com/zaiko-app/zaikogo/internal/services/report"
	"github.com/zaiko-app/zaikogo/internal/store"
)

// Router wraps the mux router and the services it dispatches to.
type Router struct {
	*mux.Router
	store     *store.Store
	imports   *csvimport.Service
	forecast  *forecast.Service
	reports   *report.Service
	uploadDir string
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(st *store.Store, imports *csvimport.Service, fc *forecast.Service, rep *report.Service, uploadDir string) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		store:     st,
		imports:   imports,
		forecast:  fc,
		reports:   rep,
		uploadDir: uploadDir,
	}

	r.Use(middleware.RequestLogger)

	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Product CRUD
	api.HandleFunc("/products", r.listProducts).Methods("GET")
	api.HandleFunc("/products", r.createProduct).Methods("POST")
	api.HandleFunc("/products/bulk-update", r.bulkRenameField).Methods("POST")
	api.HandleFunc("/products/bulk-category-update", r.bulkSetCategory).Methods("POST")
	api.HandleFunc("/products/bulk-dealer-update", r.bulkSetDealer).Methods("POST")
	api.HandleFunc("/products/bulk-delete", r.bulkDeleteProducts).Methods("POST")
	api.HandleFunc("/products/csv-upload", r.uploadProductNames).Methods("POST")
	api.HandleFunc("/products/{id:[0-9]+}", r.updateProduct).Methods("PUT")
	api.HandleFunc("/products/{id:[0-9]+}", r.deleteProduct).Methods("DELETE")
	api.HandleFunc("/products/{id:[0-9]+}/stock", r.adjustStock).Methods("POST")

	// Reference values
	api.HandleFunc("/dealers", r.listDealers).Methods("GET")
	api.HandleFunc("/categories", r.listCategories).Methods("GET")
	api.HandleFunc("/manufacturers", r.listManufacturers).Methods("GET")

	// Settings bulk editing
	api.HandleFunc("/settings/bulk-update", r.bulkUpdateSettings).Methods("POST")

	// Duplicate diagnostics
	api.HandleFunc("/debug/duplicate-products", r.listDuplicates).Methods("GET")
	api.HandleFunc("/debug/clean-duplicates", r.cleanDuplicates).Methods("POST")

	// CSV / PDF
	api.HandleFunc("/csv/upload", r.uploadCSV).Methods("POST")
	api.HandleFunc("/csv/export", r.exportCSV).Methods("GET")
	api.HandleFunc("/pdf/export", r.exportPDF).Methods("GET")

	// Forecasting
	api.HandleFunc("/ml/train", r.trainModel).Methods("POST")
	api.HandleFunc("/ml/recommendations", r.getRecommendations).Methods("GET")

	// Alerts
	api.HandleFunc("/alerts", r.getAlerts).Methods("GET")

	return r
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"started": buildinfo.StartTime,
		"commit":  buildinfo.CommitHash,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a short human-readable failure; internal detail never
// leaks past the error message itself.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func respondMessage(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}
