package mocks

import (
	context "context"

	domain "gourmet-ordering/order-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// OrderPublisher is a mock type for the OrderPublisher type
type OrderPublisher struct {
	mock.Mock
}

// PublishOrder provides a mock function with given fields: ctx, event
func (_m *OrderPublisher) PublishOrder(ctx context.Context, event domain.OrderEvent) error {
	ret := _m.Called(ctx, event)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, domain.OrderEvent) error); ok {
		r0 = rf(ctx, event)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewOrderPublisher creates a new instance of OrderPublisher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewOrderPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderPublisher {
	m := &OrderPublisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
