package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lostfound-matching/internal/finder"
	"lostfound-matching/internal/generator"
	"lostfound-matching/internal/models"
	testutil "lostfound-matching/internal/testing"
)

func newTestServer(t *testing.T) (*Server, *testutil.MemRepo) {
	t.Helper()
	repo := testutil.NewMemRepo()
	f := finder.New(repo, nil, finder.DefaultConfig(), nil)
	g, err := generator.New(repo, f, generator.WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(g.Release)
	return NewServer(repo, f, g, nil), repo
}

func seedWalletPair(repo *testutil.MemRepo) {
	repo.AddItem(models.Item{
		ID:           "L1",
		Kind:         models.KindLost,
		Category:     models.CategoryBags,
		Title:        "Black leather wallet",
		Description:  "Lost near the train station",
		Tags:         []string{"wallet", "leather"},
		LocationName: "Riverside Station",
		Status:       models.ItemActive,
	})
	repo.AddItem(models.Item{
		ID:           "F1",
		Kind:         models.KindFound,
		Category:     models.CategoryBags,
		Title:        "Black leather wallet",
		Description:  "Lost near the train station",
		Tags:         []string{"wallet", "leather"},
		LocationName: "Riverside Station",
		Status:       models.ItemActive,
	})
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestItemMatchesEndpoint(t *testing.T) {
	s, repo := newTestServer(t)
	seedWalletPair(repo)

	rec := doRequest(t, s, http.MethodGet, "/items/L1/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ItemID  string `json:"item_id"`
		Kind    string `json:"kind"`
		Matches []struct {
			FoundItemID string  `json:"found_item_id"`
			Similarity  float64 `json:"similarity"`
			Quality     struct {
				Tier       string `json:"tier"`
				Confidence string `json:"confidence"`
			} `json:"quality"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "L1", body.ItemID)
	assert.Equal(t, "lost", body.Kind)
	require.Len(t, body.Matches, 1)
	assert.Equal(t, "F1", body.Matches[0].FoundItemID)
	assert.Equal(t, "excellent", body.Matches[0].Quality.Tier)
	assert.Equal(t, "90%+", body.Matches[0].Quality.Confidence)

	// The found direction serves the mirrored scan.
	rec = doRequest(t, s, http.MethodGet, "/items/F1/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestItemMatchesEndpoint_UnknownItem(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/items/ghost/matches", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateEndpoint_Idempotent(t *testing.T) {
	s, repo := newTestServer(t)
	seedWalletPair(repo)

	rec := doRequest(t, s, http.MethodPost, "/matches/generate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Persisted int `json:"persisted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Persisted)

	rec = doRequest(t, s, http.MethodPost, "/matches/generate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Persisted)
	assert.Equal(t, 1, repo.MatchCount())
}

func TestMatchDetailEndpoint(t *testing.T) {
	s, repo := newTestServer(t)
	seedWalletPair(repo)
	saved, err := repo.CreateMatchCtx(context.Background(), models.Match{
		LostItemID:  "L1",
		FoundItemID: "F1",
		Similarity:  0.72,
	})
	require.NoError(t, err)

	rec := doRequest(t, s, http.MethodGet, "/matches/"+saved.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		LostItem struct {
			ID string `json:"id"`
		} `json:"lost_item"`
		Quality struct {
			Tier string `json:"tier"`
		} `json:"quality"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "L1", body.LostItem.ID)
	assert.Equal(t, "good", body.Quality.Tier)

	rec = doRequest(t, s, http.MethodGet, "/matches/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	s, repo := newTestServer(t)
	seedWalletPair(repo)
	saved, err := repo.CreateMatchCtx(context.Background(), models.Match{
		LostItemID:  "L1",
		FoundItemID: "F1",
		Similarity:  0.98,
	})
	require.NoError(t, err)

	rec := doRequest(t, s, http.MethodPost, "/matches/"+saved.ID+"/status",
		`{"status":"confirmed","notes":"owner described the contents"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/matches/"+saved.ID+"/status", `{"status":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/matches/"+saved.ID+"/status", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/matches/ghost/status", `{"status":"rejected"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQualityEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/quality?similarity=0.85", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Tier string `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "excellent", body.Tier)

	for _, q := range []string{"similarity=1.5", "similarity=-0.1", "similarity=abc", ""} {
		rec := doRequest(t, s, http.MethodGet, "/quality?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
