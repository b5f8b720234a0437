package ui

import (
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gqaudit/domain/core"
)

type reportEntry struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Modified string `json:"modified"`
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := a.listReports()
	if err != nil {
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}
	a.render(w, "index.html", map[string]interface{}{
		"Reports":    entries,
		"HasArchive": a.archive != nil,
	})
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// Path traversal guard: artifacts are flat files under reportDir.
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".md") {
		http.Error(w, "invalid report name", http.StatusBadRequest)
		return
	}

	data, err := os.ReadFile(filepath.Join(a.reportDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to read report", http.StatusInternalServerError)
		return
	}

	a.render(w, "report.html", map[string]interface{}{
		"Name": name,
		"Body": template.HTML(renderMarkdown(data)),
	})
}

func (a *App) handleListReports(w http.ResponseWriter, r *http.Request) {
	entries, err := a.listReports()
	if err != nil {
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if a.archive == nil {
		http.Error(w, "run archive is not configured", http.StatusNotFound)
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	records, err := a.archive.ListRecent(r.Context(), limit)
	if err != nil {
		a.log.Error("archive list failed: %v", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if a.archive == nil {
		http.Error(w, "run archive is not configured", http.StatusNotFound)
		return
	}
	record, err := a.archive.GetByRunID(r.Context(), core.RunID(chi.URLParam(r, "id")))
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		a.log.Error("archive get failed: %v", err)
		http.Error(w, "failed to get run", http.StatusInternalServerError)
		return
	}
	writeJSON(w, record)
}

func (a *App) listReports() ([]reportEntry, error) {
	dirEntries, err := os.ReadDir(a.reportDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []reportEntry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		kind := "run"
		if strings.HasPrefix(de.Name(), "calibration_") {
			kind = "calibration"
		}
		entry := reportEntry{Name: de.Name(), Kind: kind}
		if info, err := de.Info(); err == nil {
			entry.Modified = core.NewTimestamp(info.ModTime()).String()
		}
		entries = append(entries, entry)
	}
	// Newest first
	sort.Slice(entries, func(i, j int) bool { return entries[i].Modified > entries[j].Modified })
	return entries, nil
}

func (a *App) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, name, data); err != nil {
		a.log.Error("template %s failed: %v", name, err)
	}
}

func renderMarkdown(src []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML(src, p, renderer))
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
