package service

import "github.com/shopdesk/internal/constants"

// allowedTransitions 订单正向流转表；HOAN_THANH 与 DA_HUY 为终态，取消不受此表限制，见 CancelOrder
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPendingConfirm: {
		constants.OrderStatusAwaitShipment: true,
		constants.OrderStatusCanceled:      true,
	},
	constants.OrderStatusAwaitShipment: {
		constants.OrderStatusShipping: true,
		constants.OrderStatusCanceled: true,
	},
	constants.OrderStatusShipping: {
		constants.OrderStatusDelivered: true,
	},
	constants.OrderStatusDelivered: {
		constants.OrderStatusCompleted: true,
	},
}

var orderStatuses = []string{
	constants.OrderStatusPendingConfirm,
	constants.OrderStatusAwaitShipment,
	constants.OrderStatusShipping,
	constants.OrderStatusDelivered,
	constants.OrderStatusCompleted,
	constants.OrderStatusCanceled,
}

var paymentMethods = []string{
	constants.PaymentMethodCash,
	constants.PaymentMethodBankTransfer,
	constants.PaymentMethodCOD,
	constants.PaymentMethodMixed,
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// isOrderTerminal 终态订单不再接受状态变更
func isOrderTerminal(status string) bool {
	return status == constants.OrderStatusCompleted || status == constants.OrderStatusCanceled
}
