package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/clusterlens/clusterlens-mcp/internal/kube"
	"github.com/clusterlens/clusterlens-mcp/internal/metrics"
)

// promFake implements the two promv1.API methods the handlers exercise; the
// embedded interface panics on anything else.
type promFake struct {
	promv1.API

	// value served for every metric of every pod.
	value float64
	// failPods fails every query whose selector mentions the pod name.
	failPods map[string]error
}

func (f *promFake) Query(_ context.Context, query string, _ time.Time, _ ...promv1.Option) (model.Value, promv1.Warnings, error) {
	for pod, err := range f.failPods {
		if strings.Contains(query, pod) {
			return nil, nil, err
		}
	}
	return model.Vector{{Value: model.SampleValue(f.value), Timestamp: model.Now()}}, nil, nil
}

func (f *promFake) QueryRange(_ context.Context, query string, _ promv1.Range, _ ...promv1.Option) (model.Value, promv1.Warnings, error) {
	for pod, err := range f.failPods {
		if strings.Contains(query, pod) {
			return nil, nil, err
		}
	}
	pairs := []model.SamplePair{{Value: model.SampleValue(f.value), Timestamp: model.Now()}}
	return model.Matrix{{Values: pairs}}, nil, nil
}

func metricsDeps(api promv1.API, pods ...*corev1.Pod) *Deps {
	objects := []runtime.Object{testService("checkout", map[string]string{"app": "checkout"})}
	for _, p := range pods {
		objects = append(objects, p)
	}

	return &Deps{
		Kube:    kube.NewWithClientset(fake.NewSimpleClientset(objects...), "shop"),
		Metrics: metrics.NewWithAPI(api, "shop"),
	}
}

func TestToolGetMetrics(t *testing.T) {
	d := metricsDeps(&promFake{value: 42},
		testPod("checkout-abc", map[string]string{"app": "checkout"}, corev1.PodRunning),
		testPod("checkout-def", map[string]string{"app": "checkout"}, corev1.PodRunning),
	)
	handler := ToolGetMetrics(d)

	_, out, err := handler(context.Background(), nil, MetricsInput{ServiceName: "checkout"})
	require.NoError(t, err)

	require.Len(t, out.Pods, 2)
	// Fan-out results come back sorted by pod name regardless of completion order.
	assert.Equal(t, "checkout-abc", out.Pods[0].Pod)
	assert.Equal(t, "checkout-def", out.Pods[1].Pod)
	require.NotNil(t, out.Pods[0].Metrics["container_threads"])
	assert.Equal(t, 42.0, *out.Pods[0].Metrics["container_threads"])
	assert.Empty(t, out.Errors)
}

func TestToolGetMetricsPartialFailure(t *testing.T) {
	d := metricsDeps(&promFake{
		value:    42,
		failPods: map[string]error{"checkout-def": errors.New("connection refused")},
	},
		testPod("checkout-abc", map[string]string{"app": "checkout"}, corev1.PodRunning),
		testPod("checkout-def", map[string]string{"app": "checkout"}, corev1.PodRunning),
	)
	handler := ToolGetMetrics(d)

	_, out, err := handler(context.Background(), nil, MetricsInput{ServiceName: "checkout"})
	require.NoError(t, err)

	// The healthy pod's metrics survive; the failed pod is reported, not hidden.
	require.Len(t, out.Pods, 1)
	assert.Equal(t, "checkout-abc", out.Pods[0].Pod)
	assert.Contains(t, out.Errors["checkout-def"], "unreachable")
}

func TestToolGetMetricsForSinglePod(t *testing.T) {
	d := metricsDeps(&promFake{value: 7})
	handler := ToolGetMetrics(d)

	_, out, err := handler(context.Background(), nil, MetricsInput{PodName: "checkout-abc"})
	require.NoError(t, err)
	require.Len(t, out.Pods, 1)
	assert.Equal(t, "checkout-abc", out.Pods[0].Pod)
	assert.Empty(t, out.Service)
}

func TestToolGetMetricsUnknownService(t *testing.T) {
	d := metricsDeps(&promFake{value: 1})
	handler := ToolGetMetrics(d)

	_, _, err := handler(context.Background(), nil, MetricsInput{ServiceName: "ghost"})
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeNotFound, coded.Code)
}

func TestToolGetMetricsInputValidation(t *testing.T) {
	d := metricsDeps(&promFake{})
	handler := ToolGetMetrics(d)

	for _, input := range []MetricsInput{{}, {PodName: "p", ServiceName: "s"}} {
		_, _, err := handler(context.Background(), nil, input)
		var coded *CodedError
		require.ErrorAs(t, err, &coded)
		assert.Equal(t, ErrCodeInvalidInput, coded.Code)
	}
}

func TestToolGetMetricsRange(t *testing.T) {
	d := metricsDeps(&promFake{value: 0.5},
		testPod("checkout-abc", map[string]string{"app": "checkout"}, corev1.PodRunning),
	)
	handler := ToolGetMetricsRange(d)

	_, out, err := handler(context.Background(), nil, MetricsRangeInput{ServiceName: "checkout", RangeMinutes: 15})
	require.NoError(t, err)

	require.Len(t, out.Pods, 1)
	assert.Equal(t, 15, out.Pods[0].RangeMinutes)
	assert.Equal(t, []float64{0.5}, out.Pods[0].Metrics["container_cpu_usage_seconds_total"])
}

func TestToolTriagePod(t *testing.T) {
	d := metricsDeps(&promFake{value: 0})
	handler := ToolTriagePod(d)

	_, out, err := handler(context.Background(), nil, TriagePodInput{PodName: "checkout-abc"})
	require.NoError(t, err)
	require.NotNil(t, out.Triage)
	assert.Equal(t, "checkout-abc", out.Triage.Pod)
	assert.False(t, out.Triage.IsAnomalous)
}

func TestToolTriagePodRequiresName(t *testing.T) {
	d := metricsDeps(&promFake{})
	handler := ToolTriagePod(d)

	_, _, err := handler(context.Background(), nil, TriagePodInput{})
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
}
