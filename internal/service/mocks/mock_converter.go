package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pranav-027/delimited-files-excel-converter/internal/model"
)

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) ConvertBatch(ctx context.Context, inputs []model.FileInput) []model.ConversionOutcome {
	args := m.Called(ctx, inputs)
	if out := args.Get(0); out != nil {
		return out.([]model.ConversionOutcome)
	}
	return nil
}
