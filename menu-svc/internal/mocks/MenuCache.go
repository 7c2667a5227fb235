package mocks

import (
	context "context"

	domain "gourmet-ordering/menu-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// MenuCache is a mock type for the MenuCache type
type MenuCache struct {
	mock.Mock
}

// Load provides a mock function with given fields: ctx
func (_m *MenuCache) Load(ctx context.Context) ([]domain.Category, error) {
	ret := _m.Called(ctx)

	var r0 []domain.Category
	if rf, ok := ret.Get(0).(func(context.Context) []domain.Category); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Category)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Store provides a mock function with given fields: ctx, categories
func (_m *MenuCache) Store(ctx context.Context, categories []domain.Category) error {
	ret := _m.Called(ctx, categories)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, []domain.Category) error); ok {
		r0 = rf(ctx, categories)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMenuCache creates a new instance of MenuCache. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMenuCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuCache {
	m := &MenuCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
