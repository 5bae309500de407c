package video

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vibezone/internal/core/videos"
)

// fakeFeed implements videos.Feed for testing
type fakeFeed struct {
	fetchFunc func(ctx context.Context, limit, page int) (*videos.Page, error)
	gotLimit  int
	gotPage   int
}

func (f *fakeFeed) FetchPage(ctx context.Context, limit, page int) (*videos.Page, error) {
	f.gotLimit, f.gotPage = limit, page
	if f.fetchFunc != nil {
		return f.fetchFunc(ctx, limit, page)
	}
	return &videos.Page{
		Items: []*videos.Video{
			{ID: "v1", Caption: "hello", Author: videos.Author{ID: "u1", Name: "alice"}},
		},
		HasMore:  true,
		NextPage: page + 1,
	}, nil
}

func TestListVideosHandler_Success(t *testing.T) {
	feed := &fakeFeed{}
	handler := NewListVideosHandler(feed)

	req := httptest.NewRequest(http.MethodGet, "/api/videos?limit=5&page=2", nil)
	w := httptest.NewRecorder()
	handler.HandleListVideos(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, feed.gotLimit)
	assert.Equal(t, 2, feed.gotPage)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, true, body["hasMore"])
	assert.Equal(t, float64(3), body["nextPage"])

	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	author := items[0].(map[string]interface{})["author"].(map[string]interface{})
	assert.Equal(t, "alice", author["name"])
}

func TestListVideosHandler_DefaultsPassThrough(t *testing.T) {
	feed := &fakeFeed{}
	handler := NewListVideosHandler(feed)

	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	w := httptest.NewRecorder()
	handler.HandleListVideos(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, feed.gotLimit, "normalization belongs to the feed service")
	assert.Equal(t, 0, feed.gotPage)
}

func TestListVideosHandler_InvalidParams(t *testing.T) {
	for _, query := range []string{"limit=ten", "page=first"} {
		t.Run(query, func(t *testing.T) {
			handler := NewListVideosHandler(&fakeFeed{})

			req := httptest.NewRequest(http.MethodGet, "/api/videos?"+query, nil)
			w := httptest.NewRecorder()
			handler.HandleListVideos(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListVideosHandler_EmptyFeed(t *testing.T) {
	feed := &fakeFeed{fetchFunc: func(ctx context.Context, limit, page int) (*videos.Page, error) {
		return &videos.Page{Items: []*videos.Video{}}, nil
	}}
	handler := NewListVideosHandler(feed)

	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	w := httptest.NewRecorder()
	handler.HandleListVideos(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"hasMore":false}`, w.Body.String())
}

func TestListVideosHandler_MethodNotAllowed(t *testing.T) {
	handler := NewListVideosHandler(&fakeFeed{})

	req := httptest.NewRequest(http.MethodPost, "/api/videos", nil)
	w := httptest.NewRecorder()
	handler.HandleListVideos(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
