package vidgrade_test

import (
	"testing"

	"github.com/fwojciec/vidgrade"
	"github.com/stretchr/testify/assert"
)

func TestTextInRange(t *testing.T) {
	t.Parallel()

	segments := []vidgrade.Segment{
		{Start: 0, End: 1.5, Text: "你知道吗"},
		{Start: 1.5, End: 4, Text: "这款面霜"},
		{Start: 10, End: 14, Text: "立即购买"},
	}

	assert.Equal(t, "你知道吗 这款面霜", vidgrade.TextInRange(segments, 0, 3))
	assert.Equal(t, "立即购买", vidgrade.TextInRange(segments, 9, 14))
	assert.Equal(t, "这款面霜", vidgrade.TextInRange(segments, 4, 4), "touching boundary counts as overlap")
	assert.Empty(t, vidgrade.TextInRange(segments, 5, 9))
	assert.Empty(t, vidgrade.TextInRange(nil, 0, 3))
}

func TestFeatures_TotalDuration(t *testing.T) {
	t.Parallel()

	shots := []vidgrade.Shot{{Start: 0, End: 2}, {Start: 2, End: 5.5}}

	assert.InDelta(t, 30.0, vidgrade.Features{Duration: 30, Shots: shots}.TotalDuration(), 0.001)
	assert.InDelta(t, 5.5, vidgrade.Features{Shots: shots}.TotalDuration(), 0.001)
	assert.InDelta(t, 0.0, vidgrade.Features{}.TotalDuration(), 0.001)
}

func TestFeatures_TranscriptText(t *testing.T) {
	t.Parallel()

	f := vidgrade.Features{Transcript: []vidgrade.Segment{{Text: "一"}, {Text: "二"}}}

	assert.Equal(t, "一 二", f.TranscriptText())
	assert.Empty(t, vidgrade.Features{}.TranscriptText())
}

func TestSelectKeyFrames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{0, 2, 4}, vidgrade.SelectKeyFrames([]int{0, 1, 2, 3, 4}))
	assert.Equal(t, []int{0, 2, 3}, vidgrade.SelectKeyFrames([]int{0, 1, 2, 3}))
	assert.Equal(t, []int{7, 8}, vidgrade.SelectKeyFrames([]int{7, 8}))
	assert.Empty(t, vidgrade.SelectKeyFrames([]string{}))
}
