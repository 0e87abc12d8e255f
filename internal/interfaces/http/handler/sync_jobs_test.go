package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/erp/grabfood/internal/infrastructure/scheduler"
	"github.com/erp/grabfood/internal/interfaces/http/dto"
)

type mockSyncJobHistory struct {
	mock.Mock
}

func (m *mockSyncJobHistory) GetJobHistoryByMerchant(merchantID string, limit int) []*scheduler.OrderSyncJob {
	args := m.Called(merchantID, limit)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*scheduler.OrderSyncJob)
}

func TestListSyncJobs(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("default limit", func(t *testing.T) {
		history := new(mockSyncJobHistory)
		job := scheduler.NewOrderSyncJob("M-1", day, 2)
		job.Status = scheduler.OrderSyncJobStatusPartial
		job.Created = 3
		job.Failed = 1
		history.On("GetJobHistoryByMerchant", "M-1", 50).Return([]*scheduler.OrderSyncJob{job})
		h := NewSyncJobHandler(history)

		w := serve(http.MethodGet, "/sync-jobs", "/sync-jobs?merchant_id=M-1", nil, nil, h.ListSyncJobs)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(w)["data"].([]any)
		require.Len(t, data, 1)
		entry := data[0].(map[string]any)
		assert.Equal(t, "M-1", entry["merchant_id"])
		assert.Equal(t, "2024-05-01", entry["date"])
		assert.Equal(t, "PARTIAL", entry["status"])
		assert.Equal(t, float64(3), entry["created"])
		history.AssertExpectations(t)
	})

	t.Run("explicit limit across merchants", func(t *testing.T) {
		history := new(mockSyncJobHistory)
		history.On("GetJobHistoryByMerchant", "", 5).Return([]*scheduler.OrderSyncJob{})
		h := NewSyncJobHandler(history)

		w := serve(http.MethodGet, "/sync-jobs", "/sync-jobs?limit=5", nil, nil, h.ListSyncJobs)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode(w)["data"])
		history.AssertExpectations(t)
	})

	t.Run("limit out of range", func(t *testing.T) {
		history := new(mockSyncJobHistory)
		h := NewSyncJobHandler(history)
		for _, limit := range []string{"0", "-1", "501", "many"} {
			w := serve(http.MethodGet, "/sync-jobs", "/sync-jobs?limit="+limit, nil, nil, h.ListSyncJobs)
			assert.Equal(t, http.StatusBadRequest, w.Code, "limit %s", limit)
			assert.Equal(t, dto.ErrCodeBadRequest, errorCode(w))
		}
		history.AssertNotCalled(t, "GetJobHistoryByMerchant", mock.Anything, mock.Anything)
	})

	t.Run("pull disabled", func(t *testing.T) {
		h := NewSyncJobHandler(nil)

		w := serve(http.MethodGet, "/sync-jobs", "/sync-jobs", nil, nil, h.ListSyncJobs)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []any{}, decode(w)["data"])
	})
}
