package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUpdateData_IsEmpty(t *testing.T) {
	var nilUpdate *UpdateData
	assert.True(t, nilUpdate.IsEmpty())
	assert.True(t, (&UpdateData{}).IsEmpty())
	assert.False(t, (&UpdateData{Inc: map[string]any{"views": 1}}).IsEmpty())
}

func TestUpdateData_MarshalsOnlyUsedOperators(t *testing.T) {
	raw, err := bson.Marshal(&UpdateData{
		Set:  map[string]any{"name": "x"},
		Pull: map[string]any{"activities": bson.M{"business_id": int64(3)}},
	})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "$set")
	assert.Contains(t, doc, "$pull")
	assert.NotContains(t, doc, "$inc")
	assert.NotContains(t, doc, "$push")
	assert.NotContains(t, doc, "$unset")
}
