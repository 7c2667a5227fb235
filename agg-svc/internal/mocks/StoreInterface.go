package mocks

import (
	context "context"
	time "time"

	domain "gourmet-ordering/agg-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// StoreInterface is a mock type for the StoreInterface type
type StoreInterface struct {
	mock.Mock
}

// RecordOrder provides a mock function with given fields: ctx, lines, at
func (_m *StoreInterface) RecordOrder(ctx context.Context, lines []domain.OrderLine, at time.Time) error {
	ret := _m.Called(ctx, lines, at)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, []domain.OrderLine, time.Time) error); ok {
		r0 = rf(ctx, lines, at)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewStoreInterface creates a new instance of StoreInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
