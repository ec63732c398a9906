package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lumipallolabs/spacemap/internal/geom"
)

// Error codes carried in error bodies so clients can recover the sentinels
const (
	CodeNoRoot      = "no_root"
	CodeUnknownNode = "unknown_node"
	CodeBadRequest  = "bad_request"
	CodeInternal    = "internal"
)

// ErrorBody is the JSON body of every non-2xx response
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ScanRequest is the body of POST /api/scan
type ScanRequest struct {
	Path string `json:"path"`
}

// RevealRequest is the body of POST /api/reveal
type RevealRequest struct {
	Path string `json:"path"`
}

// MimeRequest is the body of POST /api/mime
type MimeRequest struct {
	Path string `json:"path"`
}

// MimeResponse is the body of a successful POST /api/mime
type MimeResponse struct {
	Mime string `json:"mime"`
}

// LayoutResponse is the body of a successful POST /api/layout.
// Rects is null when nothing is visible.
type LayoutResponse struct {
	Rects []geom.Rect `json:"rects"`
}

// Code maps an error to its wire code
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNoRoot):
		return CodeNoRoot
	case errors.Is(err, ErrUnknownNode):
		return CodeUnknownNode
	case errors.Is(err, ErrBadRequest):
		return CodeBadRequest
	}
	return CodeInternal
}

// Remote forwards provider calls to a spacemap server
type Remote struct {
	base   string
	client *http.Client
}

// NewRemote creates a client for the server at baseURL
func NewRemote(baseURL string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	return &Remote{base: strings.TrimRight(baseURL, "/"), client: client}
}

// scanReply mirrors TreeInfo with the root id optional, so a reply that
// names no root is told apart from root 0
type scanReply struct {
	RootID    *int   `json:"root_id"`
	Path      string `json:"path"`
	FileCount int    `json:"file_count"`
	DirCount  int    `json:"dir_count"`
}

// Scan asks the server to scan path on its own filesystem
func (r *Remote) Scan(ctx context.Context, path string) (TreeInfo, error) {
	var reply scanReply
	if err := r.post(ctx, "/api/scan", ScanRequest{Path: path}, &reply); err != nil {
		return TreeInfo{}, fmt.Errorf("scan %s: %w", path, err)
	}
	if reply.RootID == nil || *reply.RootID < 0 {
		return TreeInfo{}, fmt.Errorf("scan %s: %w", path, ErrNoRoot)
	}
	return TreeInfo{
		RootID:    *reply.RootID,
		Path:      reply.Path,
		FileCount: reply.FileCount,
		DirCount:  reply.DirCount,
	}, nil
}

// Layout fetches pre-squarified rects from the server
func (r *Remote) Layout(ctx context.Context, req LayoutRequest) ([]geom.Rect, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp LayoutResponse
	if err := r.post(ctx, "/api/layout", req, &resp); err != nil {
		return nil, fmt.Errorf("layout %d: %w", req.NodeID, err)
	}
	return resp.Rects, nil
}

// Reveal asks the server to open path in its file manager
func (r *Remote) Reveal(ctx context.Context, path string) error {
	if err := r.post(ctx, "/api/reveal", RevealRequest{Path: path}, nil); err != nil {
		return fmt.Errorf("reveal %s: %w", path, err)
	}
	return nil
}

// Mime asks the server for the content type of a file on its filesystem
func (r *Remote) Mime(ctx context.Context, path string) (string, error) {
	var resp MimeResponse
	if err := r.post(ctx, "/api/mime", MimeRequest{Path: path}, &resp); err != nil {
		return "", fmt.Errorf("mime %s: %w", path, err)
	}
	return resp.Mime, nil
}

func (r *Remote) post(ctx context.Context, route string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.base+route, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error response back into a sentinel where possible
func decodeError(resp *http.Response) error {
	var eb ErrorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Error == "" {
		eb.Error = strings.TrimSpace(string(raw))
	}
	switch eb.Code {
	case CodeNoRoot:
		return ErrNoRoot
	case CodeUnknownNode:
		return ErrUnknownNode
	case CodeBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, eb.Error)
	}
	return fmt.Errorf("server returned %s: %s", resp.Status, eb.Error)
}

var _ Provider = (*Remote)(nil)
