package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/binford2k/denmark/pkg/buildinfo"
	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/pipeline"
	"github.com/binford2k/denmark/pkg/smell"
)

type handlers struct {
	runner  *pipeline.Runner
	timeout time.Duration
	logger  *log.Logger
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// PluginsResponse is the /v1/plugins response.
type PluginsResponse struct {
	Plugins []smell.Info `json:"plugins"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string       `json:"error"`
	Code  derrors.Code `json:"code,omitempty"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthStatus{
		Status:  "healthy",
		Service: "denmark",
		Version: buildinfo.Version,
	})
}

func (h *handlers) plugins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reg := h.runner.Registry(listParam(q["enable"]), listParam(q["disable"]))
	h.writeJSON(w, http.StatusOK, PluginsResponse{Plugins: reg.List()})
}

func (h *handlers) evaluateQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.evaluate(w, r, pipeline.Options{
		Ecosystem:     q.Get("ecosystem"),
		Module:        q.Get("module"),
		Enable:        listParam(q["enable"]),
		Disable:       listParam(q["disable"]),
		Parallel:      q.Get("parallel") == "true",
		RepositoryURL: q.Get("repository_url"),
		MinSeverity:   q.Get("min_severity"),
	})
}

func (h *handlers) evaluateJSON(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		h.writeError(w, derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}
	h.evaluate(w, r, opts)
}

func (h *handlers) evaluate(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.runner.Execute(ctx, opts)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result.Report)
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	switch derrors.GetCode(err) {
	case derrors.ErrCodeInvalidInput, derrors.ErrCodeInvalidFormat, derrors.ErrCodeInvalidPath,
		derrors.ErrCodeUnsupportedProvider, derrors.ErrCodeUnsupportedEcosystem:
		return http.StatusBadRequest
	case derrors.ErrCodeModuleNotFound, derrors.ErrCodeNotFound:
		return http.StatusNotFound
	case derrors.ErrCodeExternalService:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	h.writeJSON(w, status, ErrorResponse{Error: derrors.UserMessage(err), Code: derrors.GetCode(err)})
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// listParam flattens repeated and comma-separated query values.
func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
