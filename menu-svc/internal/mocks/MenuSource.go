package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// MenuSource is a mock type for the MenuSource type
type MenuSource struct {
	mock.Mock
}

// Fetch provides a mock function with given fields: ctx
func (_m *MenuSource) Fetch(ctx context.Context) ([]byte, error) {
	ret := _m.Called(ctx)

	var r0 []byte
	if rf, ok := ret.Get(0).(func(context.Context) []byte); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMenuSource creates a new instance of MenuSource. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMenuSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuSource {
	m := &MenuSource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
