package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spearid"

// Metrics holds the Prometheus collectors of the quiz service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	QuestionSets      *prometheus.CounterVec
	QuestionsPerSet   prometheus.Histogram
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	Answers           *prometheus.CounterVec
	ScorePercentage   prometheus.Histogram
	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QuestionSets: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quiz",
				Name:      "question_sets_total",
				Help:      "Question set builds by outcome",
			},
			[]string{"result"}, // ok, empty, error
		),
		QuestionsPerSet: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "questions_per_set",
			Help:      "Number of questions in each built set",
			Buckets:   []float64{0, 1, 3, 5, 8, 12, 20, 50},
		}),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "sessions_started_total",
			Help:      "Quiz sessions started",
		}),
		SessionsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "sessions_completed_total",
			Help:      "Quiz sessions played to the results page",
		}),
		Answers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quiz",
				Name:      "answers_total",
				Help:      "Recorded answers by correctness",
			},
			[]string{"correct"},
		),
		ScorePercentage: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "score_percentage",
			Help:      "Final score percentage of completed sessions",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "code", "method"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "code", "method"},
		),
	}
}

// ObserveBuild records one question set build.
func (m *Metrics) ObserveBuild(questions int, err error) {
	if m == nil {
		return
	}
	switch {
	case err != nil:
		m.QuestionSets.WithLabelValues("error").Inc()
		return
	case questions == 0:
		m.QuestionSets.WithLabelValues("empty").Inc()
	default:
		m.QuestionSets.WithLabelValues("ok").Inc()
	}
	m.QuestionsPerSet.Observe(float64(questions))
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
}

func (m *Metrics) AnswerRecorded(correct bool) {
	if m == nil {
		return
	}
	label := "false"
	if correct {
		label = "true"
	}
	m.Answers.WithLabelValues(label).Inc()
}

func (m *Metrics) SessionCompleted(percentage int) {
	if m == nil {
		return
	}
	m.SessionsCompleted.Inc()
	m.ScorePercentage.Observe(float64(percentage))
}

// InstrumentHandler wraps a plain HTTP route with request count and latency.
// Do not wrap websocket routes; the hijacked connection outlives the handler.
func (m *Metrics) InstrumentHandler(route string, h http.Handler) http.Handler {
	if m == nil {
		return h
	}
	labels := prometheus.Labels{"route": route}
	return promhttp.InstrumentHandlerDuration(
		m.RequestDuration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(m.RequestCounter.MustCurryWith(labels), h),
	)
}
