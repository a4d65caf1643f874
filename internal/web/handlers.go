package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/bookinv/internal/inventory"
	"github.com/JonMunkholm/bookinv/internal/logging"
	"github.com/JonMunkholm/bookinv/internal/spreadsheet"
	"github.com/JonMunkholm/bookinv/internal/web/templates"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// multipartOverhead is allowed on top of the file size for form framing.
const multipartOverhead = 1 << 20

// searchColumns is the filter order offered by the page: All first, then
// the searchable fields.
var searchColumns = append([]inventory.Column{inventory.ColumnAll}, inventory.FieldColumns...)

// queryResult is a resolved listQuery.
type queryResult struct {
	view inventory.View
	text string
	col  inventory.Column
	sort inventory.Column
	desc bool
}

// runQuery searches, then sorts when a sort column was given.
func (s *Server) runQuery(r *http.Request) (queryResult, error) {
	qs := r.URL.Query()
	q := listQuery{
		Q:      qs.Get("q"),
		Column: qs.Get("column"),
		Sort:   qs.Get("sort"),
		Dir:    qs.Get("dir"),
	}
	if err := s.validator.validate(q); err != nil {
		return queryResult{}, err
	}

	col, err := inventory.ParseColumn(q.Column)
	if err != nil {
		return queryResult{}, err
	}

	view, err := s.service.Search(r.Context(), q.Q, col)
	if err != nil {
		return queryResult{}, err
	}

	res := queryResult{view: view, text: q.Q, col: col, desc: q.Dir == "desc"}
	if q.Sort != "" {
		res.sort, err = inventory.ParseColumn(q.Sort)
		if err != nil {
			return queryResult{}, err
		}
		res.view.Books, err = inventory.SortBy(view.Books, res.sort, res.desc)
		if err != nil {
			return queryResult{}, err
		}
	}
	return res, nil
}

// handleListBooks serves both /api/books and /api/search.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	res, err := s.runQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, res.view)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	fields, err := s.decodeBook(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	id, err := s.service.Add(r.Context(), fields)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/books/%d", id))
	writeJSONStatus(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	book, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, book)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	fields, err := s.decodeBook(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.service.Update(r.Context(), id, fields); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, inventory.Book{ID: id, Fields: fields})
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// summaryResponse pairs the figures with their display lines.
type summaryResponse struct {
	inventory.Summary
	Lines []inventory.SummaryLine `json:"lines"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.service.Summary(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, summaryResponse{Summary: sum, Lines: sum.Lines()})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.draining.Load() {
		s.respondError(w, r, errShuttingDown)
		return
	}

	if err := s.imports.Acquire(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	defer s.imports.Release()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig), strings.Contains(err.Error(), "request body too large"):
			err = fmt.Errorf("%w: exceeds %d bytes", spreadsheet.ErrTooLarge, s.cfg.Import.MaxFileSize)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			err = errNoFile
		}
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	rows, err := s.reader.Read(header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result := s.service.Import(r.Context(), rows)
	logging.FromContext(r.Context()).Info("import finished",
		"file", header.Filename,
		"batch_id", result.BatchID,
		"attempted", result.Attempted,
		"inserted", result.Inserted,
		"skipped", len(result.Skipped),
	)
	writeJSON(w, result)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	res, err := s.runQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = templates.Page(templates.PageData{
		View:    res.view,
		Query:   res.text,
		Column:  res.col,
		Sort:    res.sort,
		Desc:    res.desc,
		Columns: searchColumns,
	}).Render(r.Context(), w)
	if err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.draining.Load() {
		status = "draining"
	}
	writeJSON(w, map[string]any{
		"status":  status,
		"imports": s.imports.Status(),
	})
}

// decodeBook reads a bookRequest body, validates it and coerces the values.
func (s *Server) decodeBook(w http.ResponseWriter, r *http.Request) (inventory.Fields, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var req bookRequest
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return inventory.Fields{}, fmt.Errorf("%w: empty body", errInvalidBody)
		}
		return inventory.Fields{}, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if err := s.validator.validate(req); err != nil {
		return inventory.Fields{}, err
	}
	return req.fields(), nil
}

func bookID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, chi.URLParam(r, "id"))
	}
	return id, nil
}
