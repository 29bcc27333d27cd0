package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNormalizer struct{ mock.Mock }

func (m *MockNormalizer) Handle(ctx context.Context, cmd commands.NormalizeOrdersCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

type MockOverCap struct{ mock.Mock }

func (m *MockOverCap) Handle(ctx context.Context, q queries.GetOverCapPartnersQuery) ([]queries.GetOverCapPartnersQueryResponse, error) {
	args := m.Called(ctx, q)
	res, _ := args.Get(0).([]queries.GetOverCapPartnersQueryResponse)
	return res, args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatusNormalizationJob_RunsBatchesUntilShortBatch(t *testing.T) {
	// Given
	normalizer := new(MockNormalizer)
	normalizer.On("Handle", mock.Anything, mock.Anything).Return(100, nil).Twice()
	normalizer.On("Handle", mock.Anything, mock.Anything).Return(7, nil).Once()
	job := jobs.NewStatusNormalizationJob(normalizer, "", discard())

	// When
	total := job.RunOnce(context.Background())

	// Then
	assert.Equal(t, 207, total)
	normalizer.AssertNumberOfCalls(t, "Handle", 3)
}

func TestStatusNormalizationJob_StopsOnError(t *testing.T) {
	normalizer := new(MockNormalizer)
	normalizer.On("Handle", mock.Anything, mock.Anything).Return(100, nil).Once()
	normalizer.On("Handle", mock.Anything, mock.Anything).Return(0, errors.New("db down")).Once()
	job := jobs.NewStatusNormalizationJob(normalizer, "", discard())

	total := job.RunOnce(context.Background())

	assert.Equal(t, 100, total)
	normalizer.AssertNumberOfCalls(t, "Handle", 2)
}

func TestActiveOrderCapAuditJob_ReportsOverCapPartners(t *testing.T) {
	// Given
	reader := new(MockOverCap)
	reader.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetOverCapPartnersQueryResponse{
		{PartnerID: kernel.NewUUID(), ActiveOrders: 4},
		{PartnerID: kernel.NewUUID(), ActiveOrders: 5},
	}, nil)
	job := jobs.NewActiveOrderCapAuditJob(reader, "", discard())

	// When
	found := job.RunOnce(context.Background())

	// Then
	assert.Equal(t, 2, found)
}

func TestActiveOrderCapAuditJob_QueryFailure(t *testing.T) {
	reader := new(MockOverCap)
	reader.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	job := jobs.NewActiveOrderCapAuditJob(reader, "", discard())

	assert.Equal(t, 0, job.RunOnce(context.Background()))
}

func TestJobManager_InvalidSchedule(t *testing.T) {
	// Given
	manager := jobs.NewJobManager(new(MockNormalizer), new(MockOverCap), jobs.Schedules{
		CapAudit: "every now and then",
	}, discard())

	// When
	err := manager.StartAll()

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cap audit")
}

func TestJobManager_StartAndStop(t *testing.T) {
	manager := jobs.NewJobManager(new(MockNormalizer), new(MockOverCap), jobs.Schedules{
		StatusNormalization: "0 0 3 * * *",
		CapAudit:            "0 0 4 * * *",
	}, discard())

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}
