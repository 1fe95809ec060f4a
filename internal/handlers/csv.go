package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/zaiko-app/zaikogo/internal/services/csvimport"
)

const maxUploadBytes = 32 << 20

// uploadCSV ingests an inventory CSV through the reconciliation pipeline.
// The upload boundary rejects anything that is not a .csv before the core is
// reached.
func (r *Router) uploadCSV(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	file, header, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "ファイルが選択されていません")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		respondError(w, http.StatusBadRequest, "CSVファイルのみ対応しています")
		return
	}

	dealer := req.FormValue("dealer")

	// Spool the upload to disk before processing, then discard it.
	if err := os.MkdirAll(r.uploadDir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "アップロードの保存に失敗しました")
		return
	}
	tmpPath := filepath.Join(r.uploadDir, "upload_"+uuid.NewString()+".csv")
	tmp, err := os.Create(tmpPath)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "アップロードの保存に失敗しました")
		return
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		respondError(w, http.StatusInternalServerError, "アップロードの保存に失敗しました")
		return
	}
	tmp.Close()
	defer os.Remove(tmpPath)

	raw, err := os.ReadFile(tmpPath)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "アップロードの読み込みに失敗しました")
		return
	}

	result, err := r.imports.Import(raw, header.Filename, dealer)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondMessage(w, result.Message)
}

// uploadProductNames registers products from a bare name-list CSV.
func (r *Router) uploadProductNames(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	file, header, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "ファイルが選択されていません")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		respondError(w, http.StatusBadRequest, "CSVファイルのみ対応しています")
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "アップロードの読み込みに失敗しました")
		return
	}

	msg, err := r.imports.ImportProductNames(raw, csvimport.NameImportDefaults{
		Category:     req.FormValue("default_category"),
		Dealer:       req.FormValue("default_dealer"),
		Manufacturer: req.FormValue("default_manufacturer"),
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondMessage(w, msg)
}

func (r *Router) exportCSV(w http.ResponseWriter, req *http.Request) {
	path, err := r.imports.ExportCSV(req.URL.Query().Get("dealer"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"file_path": path,
	})
}

func (r *Router) exportPDF(w http.ResponseWriter, req *http.Request) {
	path, err := r.reports.GenerateInventoryPDF(req.URL.Query().Get("dealer"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"file_path": path,
	})
}
