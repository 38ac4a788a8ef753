package docpager

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func Test_BuildResult(t *testing.T) {
	tests := []struct {
		name          string
		docs          int
		total         int64
		page          int
		limit         int
		totalPages    int64
		hasNext       bool
		hasPrev       bool
		prevPage      *int
		nextPage      *int
		pagingCounter int64
	}{
		{"first of two", 2, 3, 1, 2, 2, true, false, nil, intPtr(2), 1},
		{"last of two", 1, 3, 2, 2, 2, false, true, intPtr(1), nil, 3},
		{"middle page", 10, 35, 2, 10, 4, true, true, intPtr(1), intPtr(3), 11},
		{"exact fit", 10, 10, 1, 10, 1, false, false, nil, nil, 1},
		{"empty collection", 0, 0, 1, 10, 0, false, false, nil, nil, 1},
		{"unlimited", 3, 3, 1, NoLimit, 0, false, false, nil, nil, 1},
		{"unlimited on later page", 0, 3, 3, NoLimit, 0, false, true, nil, nil, 1},
		{"page past the end", 0, 3, 5, 2, 2, false, true, intPtr(4), nil, 9},
		{"single page never links", 1, 1, 1, 10, 1, false, false, nil, nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := BuildResult(make([]int, tt.docs), tt.total, tt.page, tt.limit, nil)

			assert.Len(t, r.Docs, tt.docs)
			assert.Equal(t, tt.total, r.TotalDocs)
			assert.Equal(t, tt.limit, r.Limit)
			assert.Equal(t, tt.page, r.Page)
			assert.Equal(t, tt.totalPages, r.TotalPages)
			assert.Equal(t, tt.hasNext, r.HasNextPage)
			assert.Equal(t, tt.hasPrev, r.HasPrevPage)
			assert.Equal(t, tt.prevPage, r.PrevPage)
			assert.Equal(t, tt.nextPage, r.NextPage)
			assert.Equal(t, tt.pagingCounter, r.PagingCounter)
		})
	}
}

// Test_BuildResult_Properties sweeps page/limit/total combinations and checks
// the metadata against its defining formulas.
func Test_BuildResult_Properties(t *testing.T) {
	for total := int64(0); total <= 25; total++ {
		for limit := -1; limit <= 7; limit++ {
			for page := 1; page <= 6; page++ {
				l := NormalizeLimit(limit)
				r := BuildResult[int](nil, total, page, l, nil)

				if l >= 1 {
					require.Equal(t, int64(math.Ceil(float64(total)/float64(l))), r.TotalPages)
					require.Equal(t, int64((page-1)*l+1), r.PagingCounter)
				} else {
					require.Zero(t, r.TotalPages)
					require.False(t, r.HasNextPage)
				}

				require.Equal(t, page > 1, r.HasPrevPage)
				require.Equal(t, r.TotalPages > 1 && int64(page) < r.TotalPages && l > 0, r.NextPage != nil)
				require.Equal(t, r.TotalPages > 1 && page > 1, r.PrevPage != nil)
				if r.NextPage != nil {
					require.Equal(t, page+1, *r.NextPage)
				}
				if r.PrevPage != nil {
					require.Equal(t, page-1, *r.PrevPage)
				}
			}
		}
	}
}

func Test_Result_Map_Labels(t *testing.T) {
	labels := ResolveLabels(Labels{
		FieldDocs:          "items",
		FieldTotalDocs:     "count",
		FieldPagingCounter: LabelDisabled,
		FieldPrevPage:      LabelDisabled,
	})
	r := BuildResult([]string{"a", "b"}, 3, 1, 2, labels)

	m := r.Map()
	require.Len(t, m, 8)
	require.Equal(t, []string{"a", "b"}, m["items"])
	require.Equal(t, int64(3), m["count"])
	require.Equal(t, 2, m["nextPage"])
	require.NotContains(t, m, "docs")
	require.NotContains(t, m, "totalDocs")
	require.NotContains(t, m, "pagingCounter")
	require.NotContains(t, m, "prevPage")

	require.False(t, r.Has(FieldPagingCounter))
	require.True(t, r.Has(FieldDocs))
	key, ok := r.Key(FieldDocs)
	require.True(t, ok)
	require.Equal(t, "items", key)

	// typed fields stay populated regardless of labels
	require.Equal(t, int64(1), r.PagingCounter)
}

func Test_Result_NullVersusOmitted(t *testing.T) {
	r := BuildResult([]int{1}, 1, 1, 10, ResolveLabels(Labels{FieldNextPage: LabelDisabled}))

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	prev, ok := decoded["prevPage"]
	require.True(t, ok, "prevPage must be present as null")
	require.Nil(t, prev)

	_, ok = decoded["nextPage"]
	require.False(t, ok, "nextPage must be omitted")
}

func Test_Result_MarshalBSON(t *testing.T) {
	r := BuildResult([]bson.M{{"email": "a@x.com"}}, 3, 1, 1, ResolveLabels(Labels{
		FieldDocs:     "records",
		FieldLimit:    LabelDisabled,
		FieldPrevPage: "previous",
	}))

	raw, err := bson.Marshal(r)
	require.NoError(t, err)

	var decoded bson.D
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	keys := make([]string, 0, len(decoded))
	for _, e := range decoded {
		keys = append(keys, e.Key)
	}
	require.Equal(t, []string{
		"records", "totalDocs", "hasNextPage", "hasPrevPage", "page",
		"totalPages", "previous", "nextPage", "pagingCounter",
	}, keys)
}

func Test_BuildResult_NilDocs(t *testing.T) {
	r := BuildResult[int](nil, 0, 1, 10, nil)
	require.NotNil(t, r.Docs)
	require.Equal(t, DefaultLabelMap(), r.Labels())

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"docs":[]`)
}

func intPtr(v int) *int {
	return &v
}

func Test_BuildResult_ExtremeValues(t *testing.T) {
	r := BuildResult([]int{}, math.MaxInt64, math.MaxInt, 1000, nil)

	assert.Equal(t, MaxPage(1000), r.Page)
	assert.Equal(t, int64(math.MaxInt64/1000+1), r.TotalPages)
	assert.True(t, r.HasNextPage)
	assert.Positive(t, r.PagingCounter)
	assert.Equal(t, int64(r.Page-1)*1000+1, r.PagingCounter)

	r = BuildResult([]int{}, math.MaxInt64, 2, math.MaxInt, nil)
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, int64(1), r.PagingCounter)
	assert.False(t, r.HasNextPage)
}
