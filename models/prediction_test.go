package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLegacyWinners(t *testing.T) {
	legacy := -1
	winner := 7

	predictions := []GroupPrediction{
		{
			GroupID: "A",
			Games: []GamePrediction{
				{ID: 1, Winner: &legacy},
				{ID: 2, Winner: &winner},
				{ID: 3, Winner: nil},
			},
		},
		{
			GroupID: "SEMIS",
			Games:   []GamePrediction{{ID: 29, Winner: &legacy}},
		},
	}

	NormalizeLegacyWinners(predictions)

	assert.Nil(t, predictions[0].Games[0].Winner)
	require.NotNil(t, predictions[0].Games[1].Winner)
	assert.Equal(t, 7, *predictions[0].Games[1].Winner)
	assert.Nil(t, predictions[0].Games[2].Winner)
	assert.Nil(t, predictions[1].Games[0].Winner)
}
