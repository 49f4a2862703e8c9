package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	httperr "github.com/Aebel-Shajan/activity-tracker/internal/core/errors"
	storagemocks "github.com/Aebel-Shajan/activity-tracker/internal/mocks/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, sink *storagemocks.RecordSink) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService(NewNormalizer(time.UTC), sink, 1)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func postRecords(r *gin.Engine, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestImportHandler_Success(t *testing.T) {
	sink := storagemocks.NewRecordSink(t)
	sink.EXPECT().
		SaveRecords(mock.Anything, mock.MatchedBy(func(records []v1.ActivityRecord) bool {
			return len(records) == 1 && records[0].App == "com.apple.Safari"
		})).
		Return(1, nil).
		Once()

	body, _ := json.Marshal([]v1.RawRecord{
		rawRecord("com.apple.Safari", "2025-03-04T09:00:00Z", "2025-03-04T09:10:00Z", 600),
		rawRecord("com.apple.Notes", "garbage", "2025-03-04T09:10:00Z", 600),
	})

	resp := postRecords(newTestRouter(t, sink), body)
	require.Equal(t, http.StatusAccepted, resp.Code)

	var result ImportResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Equal(t, "accepted", result.Status)
	require.Equal(t, 1, result.Accepted)
	require.Equal(t, 1, result.Stored)
	require.Len(t, result.Rejected, 1)
	require.Equal(t, 1, result.Rejected[0].Index)
}

func TestImportHandler_EmptyArray(t *testing.T) {
	sink := storagemocks.NewRecordSink(t)

	resp := postRecords(newTestRouter(t, sink), []byte(`[]`))
	require.Equal(t, http.StatusAccepted, resp.Code)
}

func TestImportHandler_InvalidJSON(t *testing.T) {
	sink := storagemocks.NewRecordSink(t)

	for _, body := range []string{"not json", `{"app": "x"}`} {
		resp := postRecords(newTestRouter(t, sink), []byte(body))
		require.Equal(t, http.StatusBadRequest, resp.Code)

		var errResp httperr.ErrorResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
		require.Equal(t, httperr.HttpInvalidJsonError, errResp.ErrorType)
	}
}

func TestImportHandler_AllRecordsInvalid(t *testing.T) {
	sink := storagemocks.NewRecordSink(t)

	body, _ := json.Marshal([]v1.RawRecord{rawRecord("", "x", "y", 1)})
	resp := postRecords(newTestRouter(t, sink), body)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpInvalidRecordsError, errResp.ErrorType)
	require.NotNil(t, errResp.Details)
}

func TestImportHandler_StorageError(t *testing.T) {
	sink := storagemocks.NewRecordSink(t)
	sink.EXPECT().
		SaveRecords(mock.Anything, mock.Anything).
		Return(0, errors.New("database connection failed")).
		Once()

	body, _ := json.Marshal([]v1.RawRecord{
		rawRecord("com.apple.Safari", "2025-03-04T09:00:00Z", "2025-03-04T09:10:00Z", 600),
	})
	resp := postRecords(newTestRouter(t, sink), body)
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpInternalError, errResp.ErrorType)
}

func TestImportHandler_BodyTooLarge(t *testing.T) {
	sink := storagemocks.NewRecordSink(t)

	body := "[" + strings.Repeat(" ", 1024*1024+16) + "]"
	resp := postRecords(newTestRouter(t, sink), []byte(body))
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}

func TestImportHandler_OnStored(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body, _ := json.Marshal([]v1.RawRecord{
		rawRecord("com.apple.Safari", "2025-03-04T09:00:00Z", "2025-03-04T09:10:00Z", 600),
	})

	cases := []struct {
		name      string
		stored    int
		saveErr   error
		wantCode  int
		wantCalls int
	}{
		{name: "new records trigger the hook", stored: 1, wantCode: http.StatusAccepted, wantCalls: 1},
		{name: "all duplicates skip the hook", stored: 0, wantCode: http.StatusAccepted, wantCalls: 0},
		{name: "storage failure skips the hook", saveErr: errors.New("boom"), wantCode: http.StatusInternalServerError, wantCalls: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := storagemocks.NewRecordSink(t)
			sink.EXPECT().
				SaveRecords(mock.Anything, mock.Anything).
				Return(tc.stored, tc.saveErr).
				Once()

			calls := 0
			svc := NewService(NewNormalizer(time.UTC), sink, 1)
			svc.OnStored(func(ctx context.Context) {
				require.NoError(t, ctx.Err())
				calls++
			})
			r := gin.New()
			svc.RegisterRoutes(r)

			resp := postRecords(r, body)
			require.Equal(t, tc.wantCode, resp.Code)
			require.Equal(t, tc.wantCalls, calls)
		})
	}
}
