package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("test"))
	r.Get("/results/{sessionId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hi"))
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("test", "GET", "/results/{sessionId}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results/abc", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues("test", "GET", "/results/{sessionId}", "418"))
	if after != before+1 {
		t.Fatalf("expected request counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(gatewayCalls.WithLabelValues("evaluate_answer", "success"))
	ObserveGatewayCall("evaluate_answer", "success", 10*time.Millisecond)
	if got := testutil.ToFloat64(gatewayCalls.WithLabelValues("evaluate_answer", "success")); got != before+1 {
		t.Fatalf("expected gateway counter to increase, got %v", got)
	}

	fb := testutil.ToFloat64(fallbackQuestions)
	FallbackQuestionUsed()
	if testutil.ToFloat64(fallbackQuestions) != fb+1 {
		t.Fatal("expected fallback counter to increase")
	}

	done := testutil.ToFloat64(interviews.WithLabelValues("completed"))
	InterviewCompleted()
	InterviewFailed()
	AnswerTimedOut()
	if testutil.ToFloat64(interviews.WithLabelValues("completed")) != done+1 {
		t.Fatal("expected completed counter to increase")
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveGatewayCall("analyze_resume", "failure", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "prepcoach_gateway_calls_total") {
		t.Fatalf("expected gateway metric in exposition")
	}
}

func TestMiddlewareTracksUpgradedStreams(t *testing.T) {
	upgrader := websocket.Upgrader{}
	release := make(chan struct{})

	r := chi.NewRouter()
	r.Use(Middleware("stream-test"))
	r.Get("/stream", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		<-release
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	switched := httpRequests.WithLabelValues("stream-test", "GET", "/stream", "101")
	before := testutil.ToFloat64(switched)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/stream", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(activeStreams.WithLabelValues("stream-test")) == 1
	}, time.Second, 10*time.Millisecond)

	close(release)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(activeStreams.WithLabelValues("stream-test")) == 0 &&
			testutil.ToFloat64(switched) == before+1
	}, time.Second, 10*time.Millisecond)

	if n := testutil.CollectAndCount(streamDuration); n != 1 {
		t.Fatalf("expected one stream duration series, got %d", n)
	}
	if got := testutil.ToFloat64(httpRequests.WithLabelValues("stream-test", "GET", "/stream", "200")); got != 0 {
		t.Fatalf("stream must not be recorded as a plain 200 request, got %v", got)
	}
}
