package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fndome/zxb/internal/ir"
)

const (
	// QdrantLimit is the fixed result-count bound written to search requests.
	QdrantLimit = 10

	// DefaultHNSWEf is the search breadth NewQdrant starts from.
	DefaultHNSWEf = 128
)

// Qdrant emits a vector-search request document.
//
// The condition tree is ignored. The document always has the shape
//
//	{
//	  "limit": 10,
//	  "params": {
//	    "hnsw_ef": <HNSWEf>
//	  },
//	  "vector": []
//	}
//
// with keys in canonical order and a placeholder empty vector.
//
// ScoreThreshold and WithVector are accepted but not yet written to the
// document.
type Qdrant struct {
	HNSWEf         int
	ScoreThreshold float64
	WithVector     bool
}

// NewQdrant returns a Qdrant backend with the default search breadth.
func NewQdrant() Qdrant {
	return Qdrant{HNSWEf: DefaultHNSWEf}
}

func (Qdrant) Name() string { return "qdrant" }

func (b Qdrant) Generate(q *ir.Query) (Result, error) {
	doc := map[string]any{
		"vector": []any{},
		"limit":  QdrantLimit,
		"params": map[string]any{
			"hnsw_ef": b.HNSWEf,
		},
	}

	canonical, err := ir.MarshalCanonical(doc)
	if err != nil {
		return nil, fmt.Errorf("qdrant: marshal search request: %w", err)
	}

	var body bytes.Buffer
	if err := json.Indent(&body, canonical, "", "  "); err != nil {
		return nil, fmt.Errorf("qdrant: indent search request: %w", err)
	}
	return &Document{Body: body.Bytes()}, nil
}
