package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/rankplot/pkg/buildinfo"
	"github.com/matzehuels/rankplot/pkg/errors"
	"github.com/matzehuels/rankplot/pkg/pipeline"
)

// RenderRequest is the body of POST /api/v1/render.
type RenderRequest struct {
	// Data is the chart document. JSON documents are embedded as-is; TOML
	// documents are passed as a JSON string.
	Data json.RawMessage `json:"data"`

	// DocFormat is "json" (default) or "toml".
	DocFormat string `json:"doc_format,omitempty"`

	// Format is the output format, "svg" by default.
	Format string `json:"format,omitempty"`

	// Options carries figure, plot and render options.
	Options pipeline.Options `json:"options"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req RenderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput), "request body too large")
			return
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	opts, err := req.pipelineOptions()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Logger = s.logger.With("request_id", RequestIDFromContext(r.Context()))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := opts.Formats[0]
	data := result.Artifacts[format]
	cacheState := "miss"
	if result.CacheInfo.Hit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// pipelineOptions turns the request into pipeline options.
func (req *RenderRequest) pipelineOptions() (pipeline.Options, error) {
	opts := req.Options
	if len(req.Data) == 0 || string(req.Data) == "null" {
		return opts, errors.New(errors.ErrCodeInvalidInput, "data is required")
	}

	opts.DocFormat = req.DocFormat
	if opts.DocFormat == "" {
		opts.DocFormat = pipeline.DocJSON
	}
	switch opts.DocFormat {
	case pipeline.DocJSON:
		opts.Document = req.Data
	case pipeline.DocTOML:
		var text string
		if err := json.Unmarshal(req.Data, &text); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "toml data must be a JSON string")
		}
		opts.Document = []byte(text)
	default:
		return opts, pipeline.ValidateDocFormat(opts.DocFormat)
	}

	format := req.Format
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}
	return opts, nil
}

// fail writes err as a JSON error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.IsClientError(err) {
		status = http.StatusBadRequest
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("render failed", "id", RequestIDFromContext(r.Context()), "error", err)
	}
	writeJSON(w, status, ErrorResponse{
		Code:      string(code),
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: msg})
}
