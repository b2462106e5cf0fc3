package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/clusterlens/clusterlens-mcp/internal/kube"
)

func testPod(name string, labels map[string]string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "shop", Labels: labels},
		Status:     corev1.PodStatus{Phase: phase},
	}
}

func testService(name string, selector map[string]string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "shop"},
		Spec:       corev1.ServiceSpec{Selector: selector},
	}
}

func TestToolClusterOverview(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		testPod("checkout-abc", map[string]string{"app": "checkout"}, corev1.PodRunning),
		testPod("frontend-def", map[string]string{"app": "frontend"}, corev1.PodRunning),
		testService("checkout", map[string]string{"app": "checkout"}),
		testService("frontend", map[string]string{"app": "frontend"}),
	)
	d := &Deps{Kube: kube.NewWithClientset(clientset, "shop")}
	handler := ToolClusterOverview(d)

	_, out, err := handler(context.Background(), nil, ClusterOverviewInput{})
	require.NoError(t, err)
	assert.Equal(t, "shop", out.Namespace)
	assert.ElementsMatch(t, []string{"checkout-abc", "frontend-def"}, out.Pods)
	assert.ElementsMatch(t, []string{"checkout", "frontend"}, out.Services)
}

func TestToolPodsFromService(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		testPod("checkout-abc", map[string]string{"app": "checkout"}, corev1.PodRunning),
		testPod("checkout-def", map[string]string{"app": "checkout"}, corev1.PodPending),
		testPod("frontend-xyz", map[string]string{"app": "frontend"}, corev1.PodRunning),
		testService("checkout", map[string]string{"app": "checkout"}),
	)
	d := &Deps{Kube: kube.NewWithClientset(clientset, "shop")}
	handler := ToolPodsFromService(d)

	_, out, err := handler(context.Background(), nil, PodsFromServiceInput{ServiceName: "checkout"})
	require.NoError(t, err)
	assert.Equal(t, "app=checkout", out.Selector)
	require.Len(t, out.Pods, 2)
	assert.ElementsMatch(t,
		[]kube.PodInfo{
			{Name: "checkout-abc", Status: "Running"},
			{Name: "checkout-def", Status: "Pending"},
		},
		out.Pods)
}

func TestToolPodsFromServiceNotFound(t *testing.T) {
	d := &Deps{Kube: kube.NewWithClientset(fake.NewSimpleClientset(), "shop")}
	handler := ToolPodsFromService(d)

	_, _, err := handler(context.Background(), nil, PodsFromServiceInput{ServiceName: "ghost"})
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeNotFound, coded.Code)
}

func TestToolPodsFromServiceRequiresName(t *testing.T) {
	d := &Deps{Kube: kube.NewWithClientset(fake.NewSimpleClientset(), "shop")}
	handler := ToolPodsFromService(d)

	_, _, err := handler(context.Background(), nil, PodsFromServiceInput{})
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
}
