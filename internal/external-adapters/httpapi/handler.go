// Package httpapi exposes the analysis pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces"
)

// Form field names of POST /api/analyze
const (
	FieldUploadType = "uploadType"
	FieldFiles      = "files"
	FieldSignature  = "signature"
	FieldSHA256     = "sha256"
)

var (
	errTooLarge = errors.New("upload too large")
	errSpool    = errors.New("spool failure")
)

// Analyzer runs the pipeline for one upload
type Analyzer interface {
	Analyze(ctx context.Context, upload *entities.Upload) (*entities.Report, error)
}

// Options bounds what a single request may upload
type Options struct {
	SpoolDir       string // Where uploads are spooled; empty uses os.TempDir
	MaxUploadBytes int64  // Per-file limit
	MaxFiles       int    // Files per request
}

// Handler serves the analysis API
type Handler struct {
	analyzer Analyzer
	options  Options
	logger   interfaces.Logger
	mux      *http.ServeMux
}

// NewHandler creates the HTTP handler
func NewHandler(analyzer Analyzer, options Options, logger interfaces.Logger) *Handler {
	if options.MaxUploadBytes <= 0 {
		options.MaxUploadBytes = 50 << 20
	}
	if options.MaxFiles <= 0 {
		options.MaxFiles = 50
	}

	h := &Handler{
		analyzer: analyzer,
		options:  options,
		logger:   interfaces.OrNoOp(logger),
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("POST /api/analyze", h.handleAnalyze)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	limit := h.options.MaxUploadBytes*int64(h.options.MaxFiles+1) + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	upload, err := h.readUpload(r)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, errTooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, errSpool):
			status = http.StatusInternalServerError
		}
		h.logger.Warn("rejected upload", interfaces.Err(err))
		writeError(w, status, err.Error())
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), upload)
	if err != nil {
		if entities.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("analysis failed", interfaces.Err(err))
		writeError(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// readUpload streams the multipart body into spool files. On error every
// spooled file is removed again.
func (h *Handler) readUpload(r *http.Request) (upload *entities.Upload, err error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, errors.Wrap(err, "expected a multipart/form-data body")
	}

	upload = &entities.Upload{}
	var sha string
	defer func() {
		if err != nil {
			removeSpooled(upload)
		}
	}()

	for {
		part, partErr := reader.NextPart()
		if errors.Is(partErr, io.EOF) {
			break
		}
		if partErr != nil {
			return upload, errors.Wrap(partErr, "malformed multipart body")
		}

		switch part.FormName() {
		case FieldUploadType:
			upload.Type, err = readField(part)
		case FieldSHA256:
			sha, err = readField(part)
		case FieldFiles:
			if len(upload.Files) >= h.options.MaxFiles {
				return upload, errors.Newf("Too many files: at most %d allowed", h.options.MaxFiles)
			}
			var path string
			path, err = h.spool(part)
			if path != "" {
				upload.Files = append(upload.Files, entities.UploadFile{OriginalName: part.FileName(), Path: path})
			}
		case FieldSignature:
			if upload.Signature != "" {
				return upload, errors.New("only one signature may be uploaded")
			}
			upload.Signature, err = h.spool(part)
		}
		_ = part.Close()
		if err != nil {
			return upload, err
		}
	}

	if sha != "" && len(upload.Files) == 1 {
		upload.Files[0].SHA256 = sha
	}
	return upload, nil
}

// spool copies one file part to a temporary file, enforcing the size limit
func (h *Handler) spool(part *multipart.Part) (string, error) {
	f, err := os.CreateTemp(h.options.SpoolDir, "upload-*")
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "failed to spool upload"), errSpool)
	}

	n, err := io.Copy(f, io.LimitReader(part, h.options.MaxUploadBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return f.Name(), errors.Mark(errors.Wrap(err, "request body too large"), errTooLarge)
		}
		return f.Name(), errors.Mark(errors.Wrap(err, "failed to spool upload"), errSpool)
	case n > h.options.MaxUploadBytes:
		return f.Name(), errors.Mark(errors.Newf("File %s exceeds %d bytes", part.FileName(), h.options.MaxUploadBytes), errTooLarge)
	case closeErr != nil:
		return f.Name(), errors.Mark(errors.Wrap(closeErr, "failed to spool upload"), errSpool)
	}
	return f.Name(), nil
}

func readField(part *multipart.Part) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, 1024))
	if err != nil {
		return "", errors.Wrap(err, "failed to read form field")
	}
	return strings.TrimSpace(string(data)), nil
}

func removeSpooled(upload *entities.Upload) {
	if upload == nil {
		return
	}
	for _, f := range upload.Files {
		_ = os.Remove(f.Path)
	}
	if upload.Signature != "" {
		_ = os.Remove(upload.Signature)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
