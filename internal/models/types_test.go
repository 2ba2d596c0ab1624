package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightsUseGeneratorKeys(t *testing.T) {
	raw := `{"summary":"s","strengths":["a","b"],"growthAreas":["c","d"],
		"recommendations":[{"id":1,"options":["x","y","z"],"actionStep":"go"}],
		"interDomainInsight":"i","personalNote":"p","growthTrajectory":"g"}`
	var in AIInsights
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	assert.Equal(t, []string{"c", "d"}, in.GrowthAreas)
	require.Len(t, in.Recommendations, 1)
	assert.Equal(t, "go", in.Recommendations[0].ActionStep)
	assert.Equal(t, "i", in.InterDomainInsight)
	assert.Equal(t, "p", in.PersonalNote)
	assert.Equal(t, "g", in.GrowthTrajectory)

	out, err := json.Marshal(in)
	require.NoError(t, err)
	for _, key := range []string{`"growthAreas"`, `"actionStep"`, `"interDomainInsight"`, `"personalNote"`, `"growthTrajectory"`} {
		assert.Contains(t, string(out), key)
	}
}

func TestNewResponseSetKeepsLastAnswer(t *testing.T) {
	set := NewResponseSet([]Response{{QuestionID: 1, Value: 2}, {QuestionID: 1, Value: 5}, {QuestionID: 2, Value: 3}})
	assert.Equal(t, ResponseSet{1: 5, 2: 3}, set)
}
