package shared

import (
	"encoding/json"
	"testing"

	"github.com/shopdesk/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItemRequestNormalizesAliases(t *testing.T) {
	cases := []struct {
		name string
		body string
		want service.OrderLineInput
	}{
		{
			name: "variant id",
			body: `{"variantId":7,"quantity":2}`,
			want: service.OrderLineInput{VariantID: 7, Quantity: 2},
		},
		{
			name: "product variant id alias",
			body: `{"productVariantId":8,"quantity":1}`,
			want: service.OrderLineInput{VariantID: 8, Quantity: 1},
		},
		{
			name: "explicit variant id wins over alias",
			body: `{"variantId":7,"productVariantId":8,"quantity":1}`,
			want: service.OrderLineInput{VariantID: 7, Quantity: 1},
		},
		{
			name: "nested variant id",
			body: `{"productId":3,"variant":{"id":9},"quantity":1}`,
			want: service.OrderLineInput{VariantID: 9, ProductID: 3, Quantity: 1},
		},
		{
			name: "nested color and size",
			body: `{"productId":3,"variant":{"colorId":4,"sizeId":5},"quantity":3}`,
			want: service.OrderLineInput{ProductID: 3, ColorID: 4, SizeID: 5, Quantity: 3},
		},
		{
			name: "flat attributes win over nested",
			body: `{"productId":3,"colorId":1,"sizeId":2,"variant":{"colorId":4,"sizeId":5},"quantity":1}`,
			want: service.OrderLineInput{ProductID: 3, ColorID: 1, SizeID: 2, Quantity: 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req OrderItemRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			assert.Equal(t, tc.want, req.ToServiceLine())
		})
	}
}

func TestCreateOrderRequestToService(t *testing.T) {
	var req CreateOrderRequest
	body := `{
		"items":[{"productVariantId":4,"quantity":1},{"productId":2,"variant":{"colorId":6,"sizeId":7},"quantity":2}],
		"paymentMethod":" COD ",
		"voucherCode":" sale10 ",
		"total":"280000"
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	input := req.ToService()
	require.Len(t, input.Items, 2)
	assert.Equal(t, uint(4), input.Items[0].VariantID)
	assert.Equal(t, uint(6), input.Items[1].ColorID)
	assert.Equal(t, "COD", input.PaymentMethod)
	assert.Equal(t, "sale10", input.VoucherCode)
	assert.Nil(t, input.Shipping)
	require.NotNil(t, input.Total)
	assert.Equal(t, "280000", input.Total.String())
}
