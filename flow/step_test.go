package flow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepChainIsLinear(t *testing.T) {
	order := []Step{StepInputTopic, StepSelectVideo, StepSelectAssessment, StepViewPlan}
	require.Len(t, order, TotalSteps)

	for i, s := range order {
		assert.Equal(t, i, s.Index())

		next, ok := s.Next()
		if i == len(order)-1 {
			assert.False(t, ok, "终点步骤没有下一步")
		} else {
			require.True(t, ok)
			assert.Equal(t, order[i+1], next)
		}

		prev, ok := s.Prev()
		if i == 0 {
			assert.False(t, ok, "起点步骤不能回退")
		} else {
			require.True(t, ok)
			assert.Equal(t, order[i-1], prev)
		}
	}
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "input_topic", StepInputTopic.String())
	assert.Equal(t, "view_plan", StepViewPlan.String())
	assert.Equal(t, "step(9)", Step(9).String())
}

func TestStepMarshalsAsName(t *testing.T) {
	b, err := json.Marshal(StepSelectAssessment)
	require.NoError(t, err)
	assert.Equal(t, `"select_assessment"`, string(b))
}
