package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() Request {
	return Request{
		UserData: UserProfile{ID: "u1", PriceSensitivity: 0.5, PreferredCategories: []string{"programming"}},
		ProductData: []Product{
			{ID: "c1", Name: "Go", Category: "programming", Price: 20, Popularity: 3},
			{ID: "c2", Name: "Rust", Category: "programming", Price: 30, Popularity: 1},
		},
		UserInteractions: []Interaction{{ProductID: "c1", Liked: true}},
		NRecommendations: 2,
	}
}

func TestHTTPClient_Recommend_Success(t *testing.T) {
	var received Request

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, recommendPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"recommendations": []map[string]interface{}{
				{"product_id": "c2", "name": "Rust", "confidence_score": 0.9, "price": 30, "rating": 4.5},
			},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL+"/", time.Second, zerolog.Nop())

	items, err := client.Recommend(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c2", items[0].ProductID)
	assert.InDelta(t, 0.9, items[0].ConfidenceScore, 1e-9)

	assert.Equal(t, "u1", received.UserData.ID)
	assert.Equal(t, 2, received.NRecommendations)
	assert.Len(t, received.ProductData, 2)
}

func TestHTTPClient_Recommend_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Error status from service",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"status":"error","message":"boom"}`))
			},
		},
		{
			name: "Non-success status field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"error"}`))
			},
		},
		{
			name: "Invalid JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
		{
			name: "Slow service exceeds timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(300 * time.Millisecond)
				_, _ = w.Write([]byte(`{"status":"success","recommendations":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewHTTPClient(server.URL, 100*time.Millisecond, zerolog.Nop())

			items, err := client.Recommend(context.Background(), sampleRequest())
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Nil(t, items)
		})
	}
}

func TestHTTPClient_Recommend_Unreachable(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1", 200*time.Millisecond, zerolog.Nop())

	_, err := client.Recommend(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDisabled(t *testing.T) {
	items, err := Disabled{}.Recommend(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, items)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "recommend:abc:5", CacheKey("abc", 5))
}
