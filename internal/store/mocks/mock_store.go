package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pranav-027/delimited-files-excel-converter/internal/store"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *MockStore) GetOnce(ctx context.Context, name string) (*store.Retrieval, error) {
	args := m.Called(ctx, name)
	if ret := args.Get(0); ret != nil {
		return ret.(*store.Retrieval), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if names := args.Get(0); names != nil {
		return names.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ArchiveAll(ctx context.Context) (*store.Archive, error) {
	args := m.Called(ctx)
	if arc := args.Get(0); arc != nil {
		return arc.(*store.Archive), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
