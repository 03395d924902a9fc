package recorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStockDoc_FlatKeys(t *testing.T) {
	raw, err := bson.Marshal(toStockDoc(sampleSubmission("AAPL")))
	require.NoError(t, err)

	elems, err := bson.Raw(raw).Elements()
	require.NoError(t, err)
	var keys []string
	for _, e := range elems {
		keys = append(keys, e.Key())
	}
	assert.Equal(t, []string{
		"_id", "stock", "year", "quarter",
		"field1Text", "field1Percent",
		"field2Text", "field2Percent",
		"field3Text", "field3Percent",
		"data", "created_at",
	}, keys)

	assert.Equal(t, 12.5, bson.Raw(raw).Lookup("field1Percent").Double())
	assert.Equal(t, bson.TypeNull, bson.Raw(raw).Lookup("field2Percent").Type)
	assert.Equal(t, "AAPL", bson.Raw(raw).Lookup("stock").StringValue())
}

func TestStockDoc_RoundTrip(t *testing.T) {
	sub := sampleSubmission("AAPL")

	raw, err := bson.Marshal(toStockDoc(sub))
	require.NoError(t, err)
	var doc stockDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	got := doc.submission()

	assertSameSubmission(t, sub, got)
	assert.Equal(t, uint64(1<<40), got.Data[1].Volume)
	require.NotNil(t, got.Annotations[2].Percent)
	assert.Equal(t, 0.0, *got.Annotations[2].Percent)
	assert.Nil(t, got.Annotations[1].Percent)
	assert.Zero(t, got.Data[1].Date.Nanosecond())
}

func TestStockDoc_DecodesLegacyRecord(t *testing.T) {
	oid := primitive.NewObjectID()
	day := time.Date(2023, 4, 3, 4, 0, 0, 0, time.UTC)
	legacy := bson.D{
		{Key: "_id", Value: oid},
		{Key: "stock", Value: "AAPL"},
		{Key: "year", Value: 2023.0},
		{Key: "quarter", Value: 2.0},
		{Key: "field1Text", Value: "breakout"},
		{Key: "field1Percent", Value: 5.5},
		{Key: "field2Text", Value: ""},
		{Key: "field3Text", Value: "stop"},
		{Key: "field3Percent", Value: nil},
		{Key: "data", Value: bson.A{
			bson.D{
				{Key: "date", Value: primitive.NewDateTimeFromTime(day)},
				{Key: "open", Value: 165.19},
				{Key: "high", Value: 166.29},
				{Key: "low", Value: 164.22},
				{Key: "close", Value: 166.17},
				{Key: "adjClose", Value: 165.2},
				{Key: "volume", Value: 46278300.0},
			},
		}},
		{Key: "__v", Value: int32(0)},
	}
	raw, err := bson.Marshal(legacy)
	require.NoError(t, err)

	var doc stockDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	sub := doc.submission()

	assert.Equal(t, oid.Hex(), sub.ID)
	assert.Equal(t, 2023, sub.Year)
	assert.Equal(t, 2, sub.Quarter)
	assert.Equal(t, "breakout", sub.Annotations[0].Text)
	require.NotNil(t, sub.Annotations[0].Percent)
	assert.Equal(t, 5.5, *sub.Annotations[0].Percent)
	assert.Nil(t, sub.Annotations[1].Percent)
	assert.Nil(t, sub.Annotations[2].Percent)
	require.Len(t, sub.Data, 1)
	assert.True(t, day.Equal(sub.Data[0].Date))
	assert.Equal(t, uint64(46278300), sub.Data[0].Volume)
	assert.True(t, sub.CreatedAt.IsZero())
}

func TestIDFilter(t *testing.T) {
	assert.Equal(t, bson.M{"_id": "3f2a-uuid"}, idFilter("3f2a-uuid"))

	oid := primitive.NewObjectID()
	f := idFilter(oid.Hex())
	in := f["_id"].(bson.M)["$in"].(bson.A)
	assert.Equal(t, bson.A{oid.Hex(), oid}, in)
}
