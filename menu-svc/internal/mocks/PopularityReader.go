package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// PopularityReader is a mock type for the PopularityReader type
type PopularityReader struct {
	mock.Mock
}

// TopItemIDs provides a mock function with given fields: ctx, limit
func (_m *PopularityReader) TopItemIDs(ctx context.Context, limit int) ([]string, error) {
	ret := _m.Called(ctx, limit)

	var r0 []string
	if rf, ok := ret.Get(0).(func(context.Context, int) []string); ok {
		r0 = rf(ctx, limit)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewPopularityReader creates a new instance of PopularityReader. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPopularityReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *PopularityReader {
	m := &PopularityReader{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
