package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"livwell/models"
)

func TestDecimalCodecRoundTrip(t *testing.T) {
	reg := DecimalRegistry()
	order := models.Order{
		ID:       "order-1",
		Subtotal: decimal.RequireFromString("184.98"),
		Discount: decimal.RequireFromString("36.996"),
		Shipping: decimal.RequireFromString("5.99"),
		Total:    decimal.RequireFromString("153.974"),
		Items: []models.CartItem{
			{ID: "l1", JuiceID: "1", Quantity: 2, Price: decimal.RequireFromString("69.99")},
		},
	}

	data, err := bson.MarshalWithRegistry(reg, order)
	require.NoError(t, err)

	raw := bson.Raw(data)
	assert.Equal(t, bson.TypeDecimal128, raw.Lookup("total").Type)

	var decoded models.Order
	require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &decoded))
	assert.True(t, decoded.Total.Equal(order.Total))
	assert.True(t, decoded.Discount.Equal(order.Discount))
	assert.True(t, decoded.Items[0].Price.Equal(order.Items[0].Price))
}

func TestDecimalCodecLegacyTypes(t *testing.T) {
	reg := DecimalRegistry()
	d128, err := primitive.ParseDecimal128("1.5")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"decimal128", d128, "1.5"},
		{"string", "2.25", "2.25"},
		{"double", 3.5, "3.5"},
		{"int32", int32(4), "4"},
		{"int64", int64(5), "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := bson.Marshal(bson.M{"price": tt.value})
			require.NoError(t, err)

			var out struct {
				Price decimal.Decimal `bson:"price"`
			}
			require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &out))
			assert.True(t, out.Price.Equal(decimal.RequireFromString(tt.want)), out.Price.String())
		})
	}

	data, err := bson.Marshal(bson.M{"price": true})
	require.NoError(t, err)
	var out struct {
		Price decimal.Decimal `bson:"price"`
	}
	assert.Error(t, bson.UnmarshalWithRegistry(reg, data, &out))
}
