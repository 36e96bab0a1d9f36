package report

import (
	"encoding/json"
	"fmt"
	"strconv"

	"idt-crispr-bot/internal/model"
)

// Candidate keys per logical field, in priority order.
var (
	sequenceKeys  = []string{"Sequence", "sequence", "GuideSequence"}
	onTargetKeys  = []string{"OnTargetScore", "onTargetScore"}
	offTargetKeys = []string{"OffTargetScore", "offTargetScore"}
	positionKeys  = []string{"Position", "position"}
	strandKeys    = []string{"Strand", "strand"}
	designIDKeys  = []string{"DesignId", "designId"}
)

// guideList extracts the guide records of a design or predesign payload: a
// top-level array, else the Guides key, else the Results key.
func guideList(payload any) []model.Guide {
	switch v := payload.(type) {
	case []any:
		return normalizeAll(v)
	case map[string]any:
		for _, key := range []string{"Guides", "Results"} {
			if items, ok := v[key]; ok {
				list, _ := items.([]any)
				return normalizeAll(list)
			}
		}
	}
	return nil
}

// checkerList extracts checker results: a top-level array, else the Results
// key, else the object itself as the single result.
func checkerList(payload any) []model.Guide {
	switch v := payload.(type) {
	case []any:
		return normalizeAll(v)
	case map[string]any:
		if items, ok := v["Results"]; ok {
			list, _ := items.([]any)
			return normalizeAll(list)
		}
		return []model.Guide{normalizeGuide(v)}
	}
	return nil
}

func normalizeAll(items []any) []model.Guide {
	out := make([]model.Guide, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case map[string]any:
			out = append(out, normalizeGuide(v))
		case string:
			out = append(out, model.Guide{Sequence: v})
		default:
			out = append(out, model.Guide{})
		}
	}
	return out
}

// normalizeGuide resolves each field of a raw record through its candidate keys.
func normalizeGuide(m map[string]any) model.Guide {
	return model.Guide{
		Sequence:       lookupText(m, sequenceKeys),
		OnTargetScore:  lookupScore(m, onTargetKeys),
		OffTargetScore: lookupScore(m, offTargetKeys),
		Position:       lookupText(m, positionKeys),
		Strand:         lookupText(m, strandKeys),
		DesignID:       lookupText(m, designIDKeys),
	}
}

func lookup(m map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupText(m map[string]any, keys []string) string {
	v, ok := lookup(m, keys)
	if !ok {
		return ""
	}
	return formatValue(v)
}

func lookupScore(m map[string]any, keys []string) model.Score {
	v, ok := lookup(m, keys)
	if !ok {
		return model.Score{}
	}
	switch n := v.(type) {
	case float64:
		return model.NumericScore(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return model.NumericScore(f)
		}
	case int:
		return model.NumericScore(float64(n))
	}
	return model.Score{Raw: formatValue(v)}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
