package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rillyayidan/SmartHome-API/internal/bundle"
	"github.com/rillyayidan/SmartHome-API/internal/model"
	"github.com/rillyayidan/SmartHome-API/internal/service"
)

// Two linear models over bedrooms and building area. For 3 bedrooms and
// 120 m2 they predict 1.1e9 and 1.2e9.
const testArtifact = `{
	"selected_features": ["Bedrooms", "Building Area"],
	"models": [
		{"name": "ridge", "type": "linear", "intercept": 500000000, "coefficients": [0, 5000000]},
		{"name": "lasso", "type": "linear", "intercept": 600000000, "coefficients": [0, 5000000]}
	],
	"scaler": {"type": "identity"},
	"feature_importance": [{"feature": "Building Area", "importance": 0.9}]
}`

type fakeAIClient struct {
	result *model.PropertyInput
	err    error
}

func (f *fakeAIClient) ExtractProperty(ctx context.Context, description string) (*model.PropertyInput, error) {
	return f.result, f.err
}

func (f *fakeAIClient) IsEnabled() bool { return true }
func (f *fakeAIClient) Name() string    { return "fake" }

type fakeHistory struct {
	entries []model.PredictionLogEntry
	limit   int
}

func (f *fakeHistory) RecentPredictions(ctx context.Context, limit int) ([]model.PredictionLogEntry, error) {
	f.limit = limit
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func loadTestBundle(t *testing.T, artifact string) *bundle.Bundle {
	t.Helper()
	b, err := bundle.Parse([]byte(artifact), bundle.Options{})
	if err != nil {
		t.Fatalf("bundle.Parse() error = %v", err)
	}
	return b
}

func setupRouter(svc *service.PredictionService, parser *service.DescriptionParser, history PredictionHistory) *gin.Engine {
	gin.SetMode(gin.TestMode)

	predictHandler := NewPredictHandler(svc, parser)
	metadataHandler := NewMetadataHandler(svc, BuildInfo{Version: "1.2.3", BuildTime: "today", GitCommit: "abc"})
	metadataHandler.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	historyHandler := NewHistoryHandler(history)

	router := gin.New()
	router.GET("/", metadataHandler.Root)
	router.GET("/health", metadataHandler.Health)
	router.GET("/version", metadataHandler.Version)
	router.NoRoute(metadataHandler.NotFound)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/predict", predictHandler.Predict)
		apiV1.POST("/batch-predict", predictHandler.BatchPredict)
		apiV1.POST("/predict/describe", predictHandler.Describe)
		apiV1.GET("/model-info", metadataHandler.ModelInfo)
		apiV1.GET("/zones", metadataHandler.Zones)
		apiV1.GET("/predictions/recent", historyHandler.Recent)
	}

	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestPredict(t *testing.T) {
	svc := service.NewPredictionService(loadTestBundle(t, testArtifact), service.ServiceOptions{})
	router := setupRouter(svc, service.NewDescriptionParser(nil), nil)

	w := doRequest(router, http.MethodPost, "/api/v1/predict",
		`{"location": "Tembalang", "bedrooms": "3", "building_area": "120 m2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var res model.PredictionResult
	decode(t, w, &res)

	if res.PredictedPrice != 1.15e9 {
		t.Errorf("predicted_price = %v, want 1.15e9", res.PredictedPrice)
	}
	if res.PredictedPriceFormatted != "Rp 1.150.000.000" {
		t.Errorf("formatted = %q", res.PredictedPriceFormatted)
	}
	if res.Zone != "East" {
		t.Errorf("zone = %q, want East", res.Zone)
	}
	if res.PropertyCategory != service.CategoryMiddle {
		t.Errorf("category = %q", res.PropertyCategory)
	}
	if res.ConfidenceInterval == nil {
		t.Error("two disagreeing models should give a confidence interval")
	}
	if res.PredictionID == "" {
		t.Error("prediction_id is empty")
	}
	if res.PreprocessingInfo == nil || res.PreprocessingInfo.FeaturesShape != [2]int{1, 2} {
		t.Errorf("preprocessing_info = %+v", res.PreprocessingInfo)
	}
}

func TestPredict_BadRequests(t *testing.T) {
	svc := service.NewPredictionService(loadTestBundle(t, testArtifact), service.ServiceOptions{})
	router := setupRouter(svc, service.NewDescriptionParser(nil), nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"location": `},
		{"missing location", `{"bedrooms": 3}`},
		{"location not a string", `{"location": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/v1/predict", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if !strings.Contains(w.Body.String(), "Invalid request") {
				t.Errorf("body = %s", w.Body.String())
			}
		})
	}
}

func TestPredict_ModelsNotLoaded(t *testing.T) {
	svc := service.NewPredictionService(nil, service.ServiceOptions{})
	router := setupRouter(svc, service.NewDescriptionParser(nil), nil)

	for _, path := range []string{"/api/v1/predict", "/api/v1/batch-predict"} {
		body := `{"location": "Genuk"}`
		if strings.HasSuffix(path, "batch-predict") {
			body = `{"properties": [{"location": "Genuk"}]}`
		}
		w := doRequest(router, http.MethodPost, path, body)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, w.Code)
		}
	}

	w := doRequest(router, http.MethodGet, "/api/v1/model-info", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("model-info status = %d, want 503", w.Code)
	}
}

func TestPredict_RegressorFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	artifact := fmt.Sprintf(`{
		"selected_features": ["Bedrooms"],
		"models": [{"name": "remote", "type": "remote", "url": %q}],
		"scaler": {"type": "identity"}
	}`, srv.URL)

	svc := service.NewPredictionService(loadTestBundle(t, artifact), service.ServiceOptions{})
	router := setupRouter(svc, service.NewDescriptionParser(nil), nil)

	w := doRequest(router, http.MethodPost, "/api/v1/predict", `{"location": "Genuk"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Prediction error: ") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestBatchPredict(t *testing.T) {
	svc := service.NewPredictionService(loadTestBundle(t, testArtifact), service.ServiceOptions{MaxBatch: 3})
	router := setupRouter(svc, service.NewDescriptionParser(nil), nil)

	w := doRequest(router, http.MethodPost, "/api/v1/batch-predict",
		`{"properties": [{"location": "Tembalang", "building_area": 120}, {"location": "Ngaliyan", "building_area": 100}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp model.BatchPredictionResponse
	decode(t, w, &resp)
	if resp.TotalProperties != 2 || resp.SuccessfulPredictions != 2 || resp.FailedPredictions != 0 {
		t.Errorf("counts = %+v", resp)
	}
	if len(resp.Results) != 2 || resp.Results[1].Index != 1 || resp.Results[1].Zone != "West" {
		t.Errorf("results = %+v", resp.Results)
	}

	w = doRequest(router, http.MethodPost, "/api/v1/batch-predict",
		`{"properties": [{"location": "a"}, {"location": "b"}, {"location": "c"}, {"location": "d"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized batch status = %d, want 400", w.Code)
	}
	if strings.Contains(w.Body.String(), "results") {
		t.Errorf("oversized batch must not return results: %s", w.Body.String())
	}
}

func TestDescribe(t *testing.T) {
	b := loadTestBundle(t, testArtifact)

	tests := []struct {
		name       string
		loaded     bool
		client     service.AIClient
		body       string
		wantStatus int
	}{
		{
			name:       "success",
			loaded:     true,
			client:     &fakeAIClient{result: &model.PropertyInput{Location: "Tembalang", BuildingArea: model.Number(120)}},
			body:       `{"description": "Rumah 2 lantai di Tembalang, LB 120"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "extraction disabled",
			loaded:     true,
			client:     nil,
			body:       `{"description": "Rumah di Tembalang"}`,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "no location",
			loaded:     true,
			client:     &fakeAIClient{result: &model.PropertyInput{Location: "  "}},
			body:       `{"description": "Rumah bagus"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "provider failure",
			loaded:     true,
			client:     &fakeAIClient{err: errors.New("quota exceeded")},
			body:       `{"description": "Rumah di Tembalang"}`,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "blank description",
			loaded:     true,
			client:     &fakeAIClient{},
			body:       `{"description": "   "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "models not loaded",
			loaded:     false,
			client:     &fakeAIClient{result: &model.PropertyInput{Location: "Tembalang"}},
			body:       `{"description": "Rumah di Tembalang"}`,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loaded *bundle.Bundle
			if tt.loaded {
				loaded = b
			}
			svc := service.NewPredictionService(loaded, service.ServiceOptions{})
			router := setupRouter(svc, service.NewDescriptionParser(tt.client), nil)

			w := doRequest(router, http.MethodPost, "/api/v1/predict/describe", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var resp model.DescribeResponse
				decode(t, w, &resp)
				if resp.Provider != "fake" || resp.Extracted.Location != "Tembalang" {
					t.Errorf("response = %+v", resp)
				}
				if resp.Prediction == nil || resp.Prediction.PredictedPrice != 1.15e9 {
					t.Errorf("prediction = %+v", resp.Prediction)
				}
			}
		})
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		loaded     bool
		wantStatus string
	}{
		{"loaded", true, "healthy"},
		{"not loaded", false, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b *bundle.Bundle
			if tt.loaded {
				b = loadTestBundle(t, testArtifact)
			}
			router := setupRouter(service.NewPredictionService(b, service.ServiceOptions{}), service.NewDescriptionParser(nil), nil)

			w := doRequest(router, http.MethodGet, "/health", "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}

			var resp model.HealthResponse
			decode(t, w, &resp)
			if resp.Status != tt.wantStatus || resp.ModelsLoaded != tt.loaded {
				t.Errorf("health = %+v", resp)
			}
			if resp.Timestamp != "2025-01-02T03:04:05Z" {
				t.Errorf("timestamp = %q", resp.Timestamp)
			}
			if resp.Version != "1.2.3" {
				t.Errorf("version = %q", resp.Version)
			}
		})
	}
}

func TestMetadataEndpoints(t *testing.T) {
	svc := service.NewPredictionService(loadTestBundle(t, testArtifact), service.ServiceOptions{})
	router := setupRouter(svc, service.NewDescriptionParser(nil), nil)

	w := doRequest(router, http.MethodGet, "/api/v1/model-info", "")
	if w.Code != http.StatusOK {
		t.Fatalf("model-info status = %d", w.Code)
	}
	var info model.ModelInfoResponse
	decode(t, w, &info)
	if len(info.Models) != 2 || info.Models[0] != "ridge" || info.TotalFeatures != 2 {
		t.Errorf("model-info = %+v", info)
	}
	if len(info.FeatureImportance) != 1 || info.FeatureImportance[0].Feature != "Building Area" {
		t.Errorf("feature_importance = %+v", info.FeatureImportance)
	}

	w = doRequest(router, http.MethodGet, "/api/v1/zones", "")
	var zones model.ZonesResponse
	decode(t, w, &zones)
	if zones.TotalZones != 6 || len(zones.Zones["South"]) == 0 {
		t.Errorf("zones = %+v", zones)
	}

	w = doRequest(router, http.MethodGet, "/version", "")
	var version map[string]string
	decode(t, w, &version)
	if version["version"] != "1.2.3" || version["git_commit"] != "abc" {
		t.Errorf("version = %v", version)
	}

	w = doRequest(router, http.MethodGet, "/", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/v1/predict") {
		t.Errorf("root = %d %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", w.Code)
	}
}

func TestRecentPredictions(t *testing.T) {
	svc := service.NewPredictionService(nil, service.ServiceOptions{})

	t.Run("disabled", func(t *testing.T) {
		router := setupRouter(svc, service.NewDescriptionParser(nil), nil)
		w := doRequest(router, http.MethodGet, "/api/v1/predictions/recent", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})

	history := &fakeHistory{entries: []model.PredictionLogEntry{
		{PredictionID: "b", Zone: "East"},
		{PredictionID: "a", Zone: "West"},
	}}
	router := setupRouter(svc, service.NewDescriptionParser(nil), history)

	tests := []struct {
		query      string
		wantStatus int
		wantLimit  int
	}{
		{"", http.StatusOK, 20},
		{"?limit=1", http.StatusOK, 1},
		{"?limit=500", http.StatusOK, 100},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run("limit"+tt.query, func(t *testing.T) {
			history.limit = 0
			w := doRequest(router, http.MethodGet, "/api/v1/predictions/recent"+tt.query, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if history.limit != tt.wantLimit {
				t.Errorf("limit passed = %d, want %d", history.limit, tt.wantLimit)
			}
		})
	}
}
