// Package classify provides the client for the document classification
// endpoint of the analysis service, plus the view transform that turns its
// response into lineage-group records.
package classify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/tracevar/tracevar/pkg/integrations"
	"github.com/tracevar/tracevar/pkg/lineage"
)

// typeGroups is the exhaustive mapping from backend document types to
// lineage groups. An unmapped type is a contract violation by the backend
// and is surfaced as an error, never silently tolerated.
var typeGroups = map[string]lineage.Group{
	"adam_metadata": lineage.GroupADaM,
	"sdtm_metadata": lineage.GroupSDTM,
	"acrf_document": lineage.GroupACRF,
	"tlf_document":  lineage.GroupTLF,
}

// Response is the classification backend's wire format.
type Response struct {
	Files []FileResult `json:"files"`
}

// FileResult describes one classified upload.
type FileResult struct {
	Filename string   `json:"filename"`
	Type     string   `json:"type"`
	Datasets []string `json:"datasets"`
}

// DatasetRecord is the UI-facing view of one dataset found in a classified
// document.
type DatasetRecord struct {
	Dataset  string        `json:"dataset"`
	Filename string        `json:"filename"`
	Group    lineage.Group `json:"group"`
}

// Upload is one file to classify.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Client provides access to the classification API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a classification client for the service at baseURL.
// Classification responses are not cached; uploads are one-shot.
func NewClient(baseURL string) *Client {
	return &Client{
		Client:  integrations.NewClient(nil, nil),
		baseURL: baseURL,
	}
}

// Classify forwards a batch of files to the classification backend.
func (c *Client) Classify(ctx context.Context, uploads []Upload) (*Response, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, u := range uploads {
		part, err := mw.CreateFormFile("files", filepath.Base(u.Filename))
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, u.Content); err != nil {
			return nil, fmt.Errorf("read %s: %w", u.Filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var resp Response
	if err := c.PostRaw(ctx, c.baseURL+"/classify", mw.FormDataContentType(), &body, &resp); err != nil {
		return nil, fmt.Errorf("classify %d files: %w", len(uploads), err)
	}
	return &resp, nil
}

// TransformResponse flattens a classification response into one record per
// dataset, tagged with the lineage group derived from the document type.
// A type outside the known mapping fails the whole transform.
func TransformResponse(resp *Response) ([]DatasetRecord, error) {
	var records []DatasetRecord
	for _, f := range resp.Files {
		group, ok := typeGroups[f.Type]
		if !ok {
			return nil, fmt.Errorf("classification returned unknown document type %q for %s", f.Type, f.Filename)
		}
		for _, ds := range f.Datasets {
			records = append(records, DatasetRecord{
				Dataset:  ds,
				Filename: f.Filename,
				Group:    group,
			})
		}
	}
	return records, nil
}
