package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dumessi/pricing-agent-ocr/database"
	"github.com/Dumessi/pricing-agent-ocr/matching"
	"github.com/Dumessi/pricing-agent-ocr/server/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	materialDB, err := database.NewMaterialDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { materialDB.Close() })

	synonymDB, err := database.NewSynonymDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { synonymDB.Close() })

	ctx := context.Background()
	price := 85.0
	require.NoError(t, materialDB.Upsert(ctx, &matching.MaterialRecord{
		Code: "M002", Name: "球阀DN50", Specification: "DN50", Unit: "个",
		FactoryPrice: &price, Status: true,
	}))

	pipeline := matching.NewMatchPipeline(materialDB, synonymDB, matching.DefaultPipelineConfig())
	handler := NewMatchHandler(services.NewMatchService(pipeline, 4))

	router := gin.New()
	router.POST("/api/match", handler.HandleMatch)
	router.POST("/api/match/batch", handler.HandleMatchBatch)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleMatch(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "/api/match", gin.H{"text": "球阀DN50"})
	require.Equal(t, http.StatusOK, w.Code)

	var result matching.MatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, matching.MatchTypeExact, result.MatchType)
	assert.Equal(t, "M002", result.MatchedCode)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestHandleMatchMissingText(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "/api/match", gin.H{"specification": "DN50"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMatchBatch(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "/api/match/batch", gin.H{
		"items": []gin.H{
			{"text": "球阀DN50"},
			{"text": "不存在的物料XXYYZZ"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total   int                    `json:"total"`
		Results []matching.MatchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "M002", resp.Results[0].MatchedCode)
	assert.Equal(t, matching.MatchTypeNone, resp.Results[1].MatchType)
}

func TestHandleMatchBatchEmptyItems(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "/api/match/batch", gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
