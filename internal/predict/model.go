package predict

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"solarcast/internal/types"
)

// Predictor produces one power value per feature row.
type Predictor interface {
	Predict(frame *Frame) ([]float64, error)
}

// TreeModel is a pretrained gradient-boosted tree ensemble loaded from an
// XGBoost JSON dump, optionally zstd-compressed.
type TreeModel struct {
	featureNames []string
	baseScore    float64
	trees        []tree
}

type tree struct {
	LeftChildren    []int32   `json:"left_children"`
	RightChildren   []int32   `json:"right_children"`
	SplitIndices    []uint32  `json:"split_indices"`
	SplitConditions []float64 `json:"split_conditions"`
	DefaultLeft     []int32   `json:"default_left"`
}

// modelFile mirrors the subset of the XGBoost JSON schema the loader needs.
type modelFile struct {
	Learner struct {
		FeatureNames      []string `json:"feature_names"`
		LearnerModelParam struct {
			BaseScore string `json:"base_score"`
		} `json:"learner_model_param"`
		GradientBooster struct {
			Model struct {
				Trees []tree `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
	} `json:"learner"`
}

// LoadTreeModel reads a model artifact from disk. Accepted extensions are
// .json and .json.zst.
func LoadTreeModel(path string) (*TreeModel, error) {
	if path == "" {
		return nil, types.NewAppError(types.ErrCodeModelLoad, "model path is empty", nil)
	}

	compressed := strings.HasSuffix(path, ".json.zst")
	if !compressed && !strings.HasSuffix(path, ".json") {
		return nil, types.NewAppErrorWithDetails(types.ErrCodeModelLoad,
			"model file must be .json or .json.zst", nil,
			map[string]any{"path": path})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeModelLoad, "failed to open model file", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if compressed {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeModelLoad, "failed to open zstd stream", err)
		}
		defer dec.Close()
		reader = dec
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeModelLoad, "failed to read model file", err)
	}
	return parseTreeModel(raw)
}

func parseTreeModel(raw []byte) (*TreeModel, error) {
	var file modelFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, types.NewAppError(types.ErrCodeModelLoad, "model file is not valid JSON", err)
	}
	if len(file.Learner.GradientBooster.Model.Trees) == 0 {
		return nil, types.NewAppError(types.ErrCodeModelLoad, "model file contains no trees", nil)
	}

	baseScore := 0.0
	if s := file.Learner.LearnerModelParam.BaseScore; s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeModelLoad, "model base_score is not numeric", err)
		}
		baseScore = v
	}

	for i, tr := range file.Learner.GradientBooster.Model.Trees {
		n := len(tr.LeftChildren)
		if len(tr.RightChildren) != n || len(tr.SplitIndices) != n ||
			len(tr.SplitConditions) != n || len(tr.DefaultLeft) != n {
			return nil, types.NewAppError(types.ErrCodeModelLoad,
				fmt.Sprintf("tree %d has inconsistent node arrays", i), nil)
		}
	}

	return &TreeModel{
		featureNames: file.Learner.FeatureNames,
		baseScore:    baseScore,
		trees:        file.Learner.GradientBooster.Model.Trees,
	}, nil
}

// FeatureNames returns the feature schema the model was trained on.
func (m *TreeModel) FeatureNames() []string {
	return m.featureNames
}

// Predict scores every row of the frame. The frame's column order must
// exactly match the model's training schema.
func (m *TreeModel) Predict(frame *Frame) ([]float64, error) {
	if len(m.featureNames) > 0 {
		if err := checkSchema(m.featureNames, frame.Columns); err != nil {
			return nil, err
		}
	}

	out := make([]float64, len(frame.Rows))
	for i, row := range frame.Rows {
		sum := m.baseScore
		for t := range m.trees {
			sum += m.trees[t].score(row)
		}
		out[i] = sum
	}
	return out, nil
}

// score walks a single tree down to a leaf. Missing values (NaN) follow the
// tree's default direction.
func (t *tree) score(features []float64) float64 {
	node := int32(0)
	for t.LeftChildren[node] != -1 {
		v := features[t.SplitIndices[node]]
		switch {
		case math.IsNaN(v):
			if t.DefaultLeft[node] == 1 {
				node = t.LeftChildren[node]
			} else {
				node = t.RightChildren[node]
			}
		case v < t.SplitConditions[node]:
			node = t.LeftChildren[node]
		default:
			node = t.RightChildren[node]
		}
	}
	return t.SplitConditions[node]
}

func checkSchema(want, got []string) error {
	if len(want) != len(got) {
		return types.NewAppErrorWithDetails(types.ErrCodeModelLoad,
			"feature count does not match model schema", nil,
			map[string]any{"model_features": len(want), "frame_features": len(got)})
	}
	for i := range want {
		if want[i] != got[i] {
			return types.NewAppErrorWithDetails(types.ErrCodeModelLoad,
				"feature order does not match model schema", nil,
				map[string]any{"position": i, "model_feature": want[i], "frame_feature": got[i]})
		}
	}
	return nil
}
