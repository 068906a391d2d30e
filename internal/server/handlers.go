package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tracevar/tracevar/pkg/integrations"
	"github.com/tracevar/tracevar/pkg/integrations/classify"
	"github.com/tracevar/tracevar/pkg/lineage"
	"github.com/tracevar/tracevar/pkg/pipeline"
	"github.com/tracevar/tracevar/pkg/styles"
)

// lineageRequest is the query payload from the front end.
type lineageRequest struct {
	Dataset  string `json:"dataset"`
	Variable string `json:"variable"`
	Refresh  bool   `json:"refresh,omitempty"`
}

// lineageResponse is the render-adapter input: positioned, styled nodes and
// routed, styled edges plus graph metadata.
type lineageResponse struct {
	Summary      string              `json:"summary,omitempty"`
	Gaps         []string            `json:"gaps,omitempty"`
	Nodes        []styles.StyledNode `json:"nodes"`
	Edges        []styles.StyledEdge `json:"edges"`
	Width        float64             `json:"width"`
	Height       float64             `json:"height"`
	FlippedEdges int                 `json:"flipped_edges,omitempty"`
	GraphHash    string              `json:"graph_hash"`
	Cached       bool                `json:"cached"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleLineage runs the fetch → layout → style pipeline for one query.
//
// Status mapping: 400 for a bad request, 422 when the backend returned a
// structurally invalid graph (retrying won't help), 502 when the backend is
// unreachable or errored (retrying may help).
func (s *Server) handleLineage(w http.ResponseWriter, r *http.Request) {
	var req lineageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Dataset == "" || req.Variable == "" {
		writeError(w, http.StatusBadRequest, "dataset and variable are required")
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Dataset:  req.Dataset,
		Variable: req.Variable,
		Refresh:  req.Refresh,
		Logger:   s.logger,
	})
	if err != nil {
		s.logger.Error("lineage query failed",
			"dataset", req.Dataset,
			"variable", req.Variable,
			"err", err,
			"request", RequestID(r.Context()))
		switch {
		case errors.Is(err, lineage.ErrDuplicateNodeID), errors.Is(err, lineage.ErrDanglingEdge):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, integrations.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, lineageResponse{
		Summary:      result.Graph.Summary,
		Gaps:         result.Graph.Gaps,
		Nodes:        result.Nodes,
		Edges:        result.Edges,
		Width:        result.Layout.Width,
		Height:       result.Layout.Height,
		FlippedEdges: result.Layout.FlippedEdges,
		GraphHash:    result.GraphHash,
		Cached:       result.CacheInfo.FetchHit,
	})
}

// classifyResponse is the UI-facing view of a classification run.
type classifyResponse struct {
	Records []classify.DatasetRecord `json:"records"`
}

// handleClassify proxies uploaded documents to the classification backend
// and flattens the result into group-tagged dataset records.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if s.classify == nil {
		writeError(w, http.StatusServiceUnavailable, "classification backend not configured")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form upload")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	var uploads []classify.Upload
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable upload: "+fh.Filename)
			return
		}
		defer f.Close()
		uploads = append(uploads, classify.Upload{Filename: fh.Filename, Content: f})
	}

	resp, err := s.classify.Classify(r.Context(), uploads)
	if err != nil {
		s.logger.Error("classification failed", "files", len(uploads), "err", err,
			"request", RequestID(r.Context()))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	records, err := classify.TransformResponse(resp)
	if err != nil {
		// The backend broke its contract; surface loudly instead of guessing.
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{Records: records})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
