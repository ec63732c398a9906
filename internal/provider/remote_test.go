package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/spacemap/internal/geom"
)

func TestRemoteLayout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/layout", r.URL.Path)
		var req LayoutRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.NodeID)
		assert.True(t, req.HideFreeSpace)

		_ = json.NewEncoder(w).Encode(LayoutResponse{Rects: []geom.Rect{
			{W: req.Width, H: req.Height, NodeID: req.NodeID, ParentID: 0},
		}})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL+"/", nil)
	rects, err := r.Layout(context.Background(), LayoutRequest{NodeID: 3, Width: 80, Height: 60, HideFreeSpace: true})
	require.NoError(t, err)
	require.Len(t, rects, 1)
	assert.Equal(t, 80.0, rects[0].W)
	assert.Equal(t, 3, rects[0].NodeID)
}

func TestRemoteScanRootID(t *testing.T) {
	var reply atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(reply.Load().(string)))
	}))
	defer srv.Close()
	r := NewRemote(srv.URL, nil)
	ctx := context.Background()

	reply.Store(`{"path":"/x"}`)
	_, err := r.Scan(ctx, "/x")
	assert.ErrorIs(t, err, ErrNoRoot, "a reply naming no root is not root 0")

	reply.Store(`{"root_id":null,"path":"/x"}`)
	_, err = r.Scan(ctx, "/x")
	assert.ErrorIs(t, err, ErrNoRoot)

	reply.Store(`{"root_id":0,"path":"/x","file_count":2,"dir_count":1}`)
	info, err := r.Scan(ctx, "/x")
	require.NoError(t, err)
	assert.Equal(t, TreeInfo{RootID: 0, Path: "/x", FileCount: 2, DirCount: 1}, info)
}

func TestRemoteMime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mime", r.URL.Path)
		var req MimeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "/srv/data.bin", req.Path)
		_ = json.NewEncoder(w).Encode(MimeResponse{Mime: "application/octet-stream"})
	}))
	defer srv.Close()

	m, err := NewRemote(srv.URL, nil).Mime(context.Background(), "/srv/data.bin")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", m)
}

func TestRemoteNullRects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rects":null}`))
	}))
	defer srv.Close()

	rects, err := NewRemote(srv.URL, nil).Layout(context.Background(), LayoutRequest{Width: 1, Height: 1})
	require.NoError(t, err)
	assert.Nil(t, rects)
}

func TestRemoteErrorCodes(t *testing.T) {
	var code atomic.Value
	code.Store(CodeUnknownNode)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ErrorBody{Error: "boom", Code: code.Load().(string)})
	}))
	defer srv.Close()
	r := NewRemote(srv.URL, nil)
	ctx := context.Background()

	_, err := r.Layout(ctx, LayoutRequest{NodeID: 1, Width: 1, Height: 1})
	assert.ErrorIs(t, err, ErrUnknownNode)

	code.Store(CodeNoRoot)
	_, err = r.Scan(ctx, "/x")
	assert.ErrorIs(t, err, ErrNoRoot)

	code.Store(CodeBadRequest)
	assert.ErrorIs(t, r.Reveal(ctx, "/x"), ErrBadRequest)

	code.Store("")
	err = r.Reveal(ctx, "/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "boom")
}

func TestRemoteRejectsBadRequestLocally(t *testing.T) {
	r := NewRemote("http://127.0.0.1:0", nil)
	_, err := r.Layout(context.Background(), LayoutRequest{NodeID: -1})
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestCode(t *testing.T) {
	assert.Equal(t, CodeNoRoot, Code(ErrNoRoot))
	assert.Equal(t, CodeUnknownNode, Code(ErrUnknownNode))
	assert.Equal(t, CodeInternal, Code(assert.AnError))
}
