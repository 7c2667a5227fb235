package mocks

import (
	context "context"

	domain "gourmet-ordering/menu-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// MenuServiceInterface is a mock type for the MenuServiceInterface type
type MenuServiceInterface struct {
	mock.Mock
}

// Categories provides a mock function with given fields: ctx
func (_m *MenuServiceInterface) Categories(ctx context.Context) ([]domain.Category, error) {
	ret := _m.Called(ctx)

	var r0 []domain.Category
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Category)
	}

	return r0, ret.Error(1)
}

// Refresh provides a mock function with given fields: ctx
func (_m *MenuServiceInterface) Refresh(ctx context.Context) ([]domain.Category, error) {
	ret := _m.Called(ctx)

	var r0 []domain.Category
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Category)
	}

	return r0, ret.Error(1)
}

// Category provides a mock function with given fields: ctx, key, selected
func (_m *MenuServiceInterface) Category(ctx context.Context, key string, selected []string) (*domain.CategoryDetail, error) {
	ret := _m.Called(ctx, key, selected)

	var r0 *domain.CategoryDetail
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.CategoryDetail)
	}

	return r0, ret.Error(1)
}

// Popular provides a mock function with given fields: ctx, limit
func (_m *MenuServiceInterface) Popular(ctx context.Context, limit int) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, limit)

	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}

	return r0, ret.Error(1)
}

// NewMenuServiceInterface creates a new instance of MenuServiceInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMenuServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuServiceInterface {
	m := &MenuServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
