package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_calls_total",
		Help:      "AI gateway calls by operation and outcome",
	}, []string{"operation", "outcome"})

	gatewayLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_call_duration_seconds",
		Help:      "Duration of AI gateway calls in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45},
	}, []string{"operation"})

	fallbackQuestions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_questions_total",
		Help:      "Question slots filled from the fallback bank",
	})

	interviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interviews_total",
		Help:      "Interviews that reached the completed phase, by outcome",
	}, []string{"outcome"})

	answersTimedOut = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answers_timed_out_total",
		Help:      "Answers recorded because the countdown expired",
	})
)

func ObserveGatewayCall(operation, outcome string, elapsed time.Duration) {
	gatewayCalls.WithLabelValues(operation, outcome).Inc()
	gatewayLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func FallbackQuestionUsed() { fallbackQuestions.Inc() }

func InterviewCompleted() { interviews.WithLabelValues("completed").Inc() }

func InterviewFailed() { interviews.WithLabelValues("failed").Inc() }

func AnswerTimedOut() { answersTimedOut.Inc() }
