package predict

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"solarcast/internal/types"
)

// twoLeafModel splits on feature 0 at 10: left leaf 1.5, right leaf 2.5,
// base score 0.5, missing values go left.
const twoLeafModel = `{
  "learner": {
    "feature_names": ["a", "b"],
    "learner_model_param": {"base_score": "0.5"},
    "gradient_booster": {
      "model": {
        "trees": [
          {
            "left_children": [1, -1, -1],
            "right_children": [2, -1, -1],
            "split_indices": [0, 0, 0],
            "split_conditions": [10, 1.5, 2.5],
            "default_left": [1, 0, 0]
          }
        ]
      }
    }
  }
}`

func writeModelFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write model file: %v", err)
	}
	return path
}

func TestLoadTreeModel_JSON(t *testing.T) {
	path := writeModelFile(t, "model.json", twoLeafModel)

	model, err := LoadTreeModel(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := model.FeatureNames(); len(got) != 2 || got[0] != "a" {
		t.Errorf("feature names = %v, want [a b]", got)
	}
}

func TestLoadTreeModel_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json.zst")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatalf("failed to create zstd writer: %v", err)
	}
	if _, err := enc.Write([]byte(twoLeafModel)); err != nil {
		t.Fatalf("failed to write compressed model: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to close zstd writer: %v", err)
	}
	f.Close()

	model, err := LoadTreeModel(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(model.FeatureNames()) != 2 {
		t.Errorf("feature names = %v, want 2 entries", model.FeatureNames())
	}
}

func TestLoadTreeModel_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"empty path", func(t *testing.T) string { return "" }},
		{"wrong extension", func(t *testing.T) string { return writeModelFile(t, "model.txt", twoLeafModel) }},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.json") }},
		{"invalid json", func(t *testing.T) string { return writeModelFile(t, "model.json", "{broken") }},
		{"no trees", func(t *testing.T) string {
			return writeModelFile(t, "model.json", `{"learner":{"gradient_booster":{"model":{"trees":[]}}}}`)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTreeModel(tt.path(t))
			var appErr *types.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected *types.AppError, got %T (%v)", err, err)
			}
			if appErr.Code != types.ErrCodeModelLoad {
				t.Errorf("code = %q, want %q", appErr.Code, types.ErrCodeModelLoad)
			}
		})
	}
}

func TestTreeModel_Predict(t *testing.T) {
	model, err := parseTreeModel([]byte(twoLeafModel))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frame := &Frame{
		Columns: []string{"a", "b"},
		Rows: [][]float64{
			{5, 0},          // left leaf: 1.5 + 0.5
			{20, 0},         // right leaf: 2.5 + 0.5
			{math.NaN(), 0}, // default left: 1.5 + 0.5
		},
	}

	got, err := model.Predict(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{2.0, 3.0, 2.0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("prediction[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTreeModel_PredictRejectsSchemaMismatch(t *testing.T) {
	model, err := parseTreeModel([]byte(twoLeafModel))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		columns []string
	}{
		{"wrong count", []string{"a"}},
		{"wrong order", []string{"b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.Predict(&Frame{Columns: tt.columns, Rows: [][]float64{{1, 2}}})
			var appErr *types.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected *types.AppError, got %T", err)
			}
			if appErr.Code != types.ErrCodeModelLoad {
				t.Errorf("code = %q, want %q", appErr.Code, types.ErrCodeModelLoad)
			}
		})
	}
}
