package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ranking_attempts_started_total",
		Help: "Quiz attempts started by quiz",
	}, []string{"quiz"})

	drags = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ranking_drags_total",
		Help: "Drag gestures applied by outcome",
	}, []string{"outcome"})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ranking_submissions_total",
		Help: "Scored submissions by policy",
	}, []string{"policy"})

	scores = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ranking_score",
		Help:    "Submitted scores by policy",
		Buckets: prometheus.LinearBuckets(0, 2, 11),
	}, []string{"policy"})

	remoteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ranking_remote_submit_failures_total",
		Help: "Score submissions the remote collaborator did not acknowledge",
	})
)

func AttemptStarted(quizID string) {
	attemptsStarted.WithLabelValues(quizID).Inc()
}

func Drag(outcome string) {
	drags.WithLabelValues(outcome).Inc()
}

// Submission records a scored attempt.
func Submission(policy string, total int) {
	submissions.WithLabelValues(policy).Inc()
	scores.WithLabelValues(policy).Observe(float64(total))
}

func RemoteFailure() {
	remoteFailures.Inc()
}
