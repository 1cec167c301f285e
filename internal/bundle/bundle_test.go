package bundle

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleArtifact = `{
	"selected_features": ["Bedrooms", "Land Area"],
	"models": [
		{"name": "linear", "type": "linear", "intercept": 100, "coefficients": [10, 2]},
		{"name": "gbm", "type": "tree_ensemble", "base_score": 50, "trees": [
			{"nodes": [
				{"feature": 0, "threshold": 3, "left": 1, "right": 2},
				{"leaf": true, "value": 1},
				{"leaf": true, "value": 5}
			]}
		]}
	],
	"model_weights": [0.5, 0.5],
	"scaler": {"type": "standard", "mean": [0, 0], "scale": [1, 0]},
	"feature_importance": [{"feature": "Land Area", "importance": 0.7}],
	"evaluation_results": {"linear": {"r2": 0.81}}
}`

func TestParse_BuildsModels(t *testing.T) {
	b, err := Parse([]byte(sampleArtifact), Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := b.ModelNames(); len(got) != 2 || got[0] != "linear" || got[1] != "gbm" {
		t.Fatalf("ModelNames = %v", got)
	}
	if b.Ensemble != nil {
		t.Error("expected no ensemble model")
	}

	scaled, err := b.Scaler.Transform([]float64{4, 150})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	// zero scale is treated as 1
	if scaled[0] != 4 || scaled[1] != 150 {
		t.Errorf("scaled = %v", scaled)
	}

	lin, err := b.Models[0].Regressor.Predict(context.Background(), scaled)
	if err != nil {
		t.Fatalf("linear Predict: %v", err)
	}
	if lin != 100+40+300 {
		t.Errorf("linear = %v, want 440", lin)
	}

	tree, err := b.Models[1].Regressor.Predict(context.Background(), scaled)
	if err != nil {
		t.Fatalf("tree Predict: %v", err)
	}
	if tree != 55 {
		t.Errorf("tree = %v, want 55", tree)
	}

	tree, _ = b.Models[1].Regressor.Predict(context.Background(), []float64{2, 0})
	if tree != 51 {
		t.Errorf("tree left branch = %v, want 51", tree)
	}
}

func TestParse_RejectsInvalidArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "no models",
			input:   `{"selected_features":["a"],"models":[],"scaler":{"type":"identity"}}`,
			wantErr: "at least one model",
		},
		{
			name:    "no features",
			input:   `{"selected_features":[],"models":[{"name":"m","type":"linear","coefficients":[]}],"scaler":{"type":"identity"}}`,
			wantErr: "selected_features",
		},
		{
			name:    "coefficient mismatch",
			input:   `{"selected_features":["a","b"],"models":[{"name":"m","type":"linear","coefficients":[1]}],"scaler":{"type":"identity"}}`,
			wantErr: "coefficients",
		},
		{
			name:    "weights mismatch",
			input:   `{"selected_features":["a"],"models":[{"name":"m","type":"linear","coefficients":[1]}],"model_weights":[0.5,0.5],"scaler":{"type":"identity"}}`,
			wantErr: "model weights",
		},
		{
			name:    "zero weights",
			input:   `{"selected_features":["a"],"models":[{"name":"m","type":"linear","coefficients":[1]}],"model_weights":[0],"scaler":{"type":"identity"}}`,
			wantErr: "sum to zero",
		},
		{
			name:    "duplicate model",
			input:   `{"selected_features":["a"],"models":[{"name":"m","type":"linear","coefficients":[1]},{"name":"m","type":"linear","coefficients":[1]}],"scaler":{"type":"identity"}}`,
			wantErr: "duplicate model",
		},
		{
			name:    "unknown type",
			input:   `{"selected_features":["a"],"models":[{"name":"m","type":"svm"}],"scaler":{"type":"identity"}}`,
			wantErr: "unknown type",
		},
		{
			name:    "backward tree edge",
			input:   `{"selected_features":["a"],"models":[{"name":"m","type":"tree_ensemble","trees":[{"nodes":[{"feature":0,"threshold":1,"left":0,"right":1},{"leaf":true}]}]}],"scaler":{"type":"identity"}}`,
			wantErr: "invalid children",
		},
		{
			name:    "scaler length",
			input:   `{"selected_features":["a"],"models":[{"name":"m","type":"linear","coefficients":[1]}],"scaler":{"type":"minmax","min":[0,0],"scale":[1]}}`,
			wantErr: "minmax scaler",
		},
		{
			name:    "missing scaler",
			input:   `{"selected_features":["a"],"models":[{"name":"m","type":"linear","coefficients":[1]}]}`,
			wantErr: "scaler is required",
		},
		{
			name:    "malformed json",
			input:   `{"selected_features":`,
			wantErr: "decode artifact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var art artifact
			if err := json.Unmarshal([]byte(tt.input), &art); err == nil {
				if verr := art.validate(); verr != nil && !strings.Contains(verr.Error(), tt.wantErr) {
					t.Errorf("validate error %q does not mention %q", verr.Error(), tt.wantErr)
				}
			}

			_, err := Parse([]byte(tt.input), Options{})
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMinMaxScaler(t *testing.T) {
	s, err := newMinMaxScaler([]float64{-1, 0}, []float64{0.5, 2}, 2)
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Transform([]float64{4, 3})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 1 || out[1] != 6 {
		t.Errorf("out = %v", out)
	}
	if _, err := s.Transform([]float64{1}); err == nil {
		t.Error("expected length error")
	}
}

func TestRemoteRegressor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bare":
			w.Write([]byte("1250000000\n"))
		case "/object":
			w.Write([]byte(`{"prediction": 975000000}`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	for path, want := range map[string]float64{"/bare": 1.25e9, "/object": 9.75e8} {
		r, err := newRemote(srv.URL+path, srv.Client())
		if err != nil {
			t.Fatal(err)
		}
		got, err := r.Predict(context.Background(), []float64{1, 2})
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("%s = %v, want %v", path, got, want)
		}
	}

	r, _ := newRemote(srv.URL+"/fail", srv.Client())
	if _, err := r.Predict(context.Background(), []float64{1}); err == nil {
		t.Error("expected error for non-2xx")
	}

	if _, err := newRemote("ftp://example", nil); err == nil {
		t.Error("expected error for non-http url")
	}
}

func TestRemoteRegressor_StopsOnCanceledContext(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("1"))
	}))
	defer srv.Close()

	r, err := newRemote(srv.URL, srv.Client())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Predict(ctx, []float64{1}); err == nil {
		t.Error("expected error for canceled context")
	}
	if hits != 0 {
		t.Errorf("server was called %d times", hits)
	}
}

func TestEnsureArtifact_DownloadsWhenMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleArtifact))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "models", "bundle.json")

	if err := EnsureArtifact(path, srv.URL, srv.Client()); err != nil {
		t.Fatalf("EnsureArtifact: %v", err)
	}

	b, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(b.SelectedFeatures) != 2 {
		t.Errorf("features = %v", b.SelectedFeatures)
	}
}

func TestEnsureArtifact_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := os.WriteFile(path, []byte("local"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := EnsureArtifact(path, "http://127.0.0.1:1/unreachable", nil); err != nil {
		t.Fatalf("EnsureArtifact: %v", err)
	}

	byt, _ := os.ReadFile(path)
	if string(byt) != "local" {
		t.Errorf("file was overwritten: %q", byt)
	}
}

func TestDownload_FailureLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := Download(srv.URL, path, srv.Client()); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file, stat err = %v", err)
	}
}
