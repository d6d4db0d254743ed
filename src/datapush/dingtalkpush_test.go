package datapush

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RideInsight/src/processor"
)

func sampleResult() *processor.Result {
	return &processor.Result{
		Cleaned: make([]processor.TripRecord, 140),
		FilterStats: processor.FilterStats{
			Input:                 150,
			DroppedMissingStation: 4,
			DroppedBadDuration:    6,
			Output:                140,
		},
		ByRiderType: []processor.CategoryStat{
			{MemberCasual: "casual", Count: 60, MeanMinutes: 23.3, MedianMinutes: 20},
			{MemberCasual: "member", Count: 80, MeanMinutes: 11.2, MedianMinutes: 10},
		},
	}
}

func TestPushBatchSummary(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, "")
	require.NoError(t, n.PushBatchSummary(sampleResult(), "output/ride_summary.xlsx", 3*time.Second))

	assert.Equal(t, "markdown", got["msgtype"])
	md := got["markdown"].(map[string]interface{})
	text := md["text"].(string)
	assert.Contains(t, text, "清洗后行数: **140**")
	assert.Contains(t, text, "casual: 60次")
	assert.Contains(t, text, "output/ride_summary.xlsx")
}

func TestPushBatchSummarySigned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 加签机器人要求timestamp与sign成对出现
		q := r.URL.Query()
		assert.NotEmpty(t, q.Get("timestamp"))
		assert.NotEmpty(t, q.Get("sign"))
		w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, "SECxxxx")
	require.NoError(t, n.PushBatchSummary(sampleResult(), "summary.xlsx", time.Second))
}

func TestPushBatchSummaryRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errcode":310000,"errmsg":"keywords not in content"}`))
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, "")
	err := n.PushBatchSummary(sampleResult(), "summary.xlsx", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "310000")
}
