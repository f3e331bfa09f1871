package data_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pitabwire/locset/data"
)

func TestMergePatch(t *testing.T) {
	testCases := []struct {
		name        string
		content     data.JSONMap
		patch       map[string]any
		want        data.JSONMap
		wantChanged bool
	}{
		{
			name:        "scalars overwrite",
			content:     data.JSONMap{"title": "old", "body": "keep"},
			patch:       map[string]any{"title": "new"},
			want:        data.JSONMap{"title": "new", "body": "keep"},
			wantChanged: true,
		},
		{
			name:        "arrays replace wholesale",
			content:     data.JSONMap{"tags": []any{"a", "b"}},
			patch:       map[string]any{"tags": []any{"x"}},
			want:        data.JSONMap{"tags": []any{"x"}},
			wantChanged: true,
		},
		{
			name:    "nested objects merge",
			content: data.JSONMap{"meta": map[string]any{"author": "ann", "year": "2021"}},
			patch:   map[string]any{"meta": map[string]any{"year": "2026"}},
			want: data.JSONMap{
				"meta": map[string]any{"author": "ann", "year": "2026"},
			},
			wantChanged: true,
		},
		{
			name:        "new fields are added",
			content:     data.JSONMap{"title": "old"},
			patch:       map[string]any{"subtitle": "fresh"},
			want:        data.JSONMap{"title": "old", "subtitle": "fresh"},
			wantChanged: true,
		},
		{
			name:        "empty patch changes nothing",
			content:     data.JSONMap{"title": "old"},
			patch:       nil,
			want:        data.JSONMap{"title": "old"},
			wantChanged: false,
		},
		{
			name:        "identical patch reports unchanged",
			content:     data.JSONMap{"title": "same"},
			patch:       map[string]any{"title": "same"},
			want:        data.JSONMap{"title": "same"},
			wantChanged: false,
		},
		{
			name:        "nil content grows from patch",
			content:     nil,
			patch:       map[string]any{"title": "new"},
			want:        data.JSONMap{"title": "new"},
			wantChanged: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			merged, changed, err := data.MergePatch(tc.content, tc.patch)
			require.NoError(t, err)
			require.Equal(t, tc.wantChanged, changed)
			require.Equal(t, tc.want, merged)
		})
	}
}

func TestMergePatchLeavesInputUntouched(t *testing.T) {
	content := data.JSONMap{"tags": []any{"a", "b"}}

	_, _, err := data.MergePatch(content, map[string]any{"tags": []any{"x"}})
	require.NoError(t, err)

	require.Equal(t, []any{"a", "b"}, content["tags"])
}
