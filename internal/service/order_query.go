package service

import (
	"strings"

	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"
)

// ListOrders 后台订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.OrderStatus = strings.ToUpper(strings.TrimSpace(filter.OrderStatus))
	filter.PaymentStatus = strings.ToUpper(strings.TrimSpace(filter.PaymentStatus))
	return s.orderRepo.List(filter)
}

// GetOrder 订单详情
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListMyOrders 客户自己的订单
func (s *OrderService) ListMyOrders(customerID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.CustomerID = customerID
	return s.ListOrders(filter)
}

// GetMyOrder 客户订单详情（不属于本人视为不存在）
func (s *OrderService) GetMyOrder(id, customerID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndCustomer(id, customerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByCustomer 后台查看某客户的订单
func (s *OrderService) ListOrdersByCustomer(customerID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	account, err := s.accountRepo.GetByID(customerID)
	if err != nil {
		return nil, 0, err
	}
	if account == nil {
		return nil, 0, ErrCustomerNotFound
	}
	filter.CustomerID = customerID
	return s.ListOrders(filter)
}
