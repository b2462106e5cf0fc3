package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func podWithStatus(name string, status corev1.PodStatus) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "shop"},
		Status:     status,
	}
}

func TestProblematicPods(t *testing.T) {
	healthy := podWithStatus("healthy", corev1.PodStatus{
		Phase: corev1.PodRunning,
		ContainerStatuses: []corev1.ContainerStatus{
			{Name: "app", State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
		},
	})
	waiting := podWithStatus("pulling", corev1.PodStatus{
		Phase: corev1.PodPending,
		ContainerStatuses: []corev1.ContainerStatus{
			{
				Name:  "app",
				State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"}},
			},
		},
	})
	crashed := podWithStatus("crashed", corev1.PodStatus{
		Phase: corev1.PodRunning,
		ContainerStatuses: []corev1.ContainerStatus{
			{
				Name:         "app",
				State:        corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{ExitCode: 137, Reason: "OOMKilled"}},
				RestartCount: 1,
			},
		},
	})
	looping := podWithStatus("looping", corev1.PodStatus{
		Phase: corev1.PodRunning,
		ContainerStatuses: []corev1.ContainerStatus{
			{
				Name:         "app",
				State:        corev1.ContainerState{Running: &corev1.ContainerStateRunning{}},
				RestartCount: 7,
				LastTerminationState: corev1.ContainerState{
					Terminated: &corev1.ContainerStateTerminated{Reason: "Error"},
				},
			},
		},
	})
	pending := podWithStatus("unscheduled", corev1.PodStatus{Phase: corev1.PodPending})

	c := NewWithClientset(fake.NewSimpleClientset(healthy, waiting, crashed, looping, pending), "shop")

	report, err := c.ProblematicPods(context.Background())
	require.NoError(t, err)

	byName := make(map[string]ProblemPod, len(report))
	for _, p := range report {
		byName[p.Name] = p
	}
	require.Len(t, byName, 4)
	assert.NotContains(t, byName, "healthy")

	assert.Equal(t, "Waiting", byName["pulling"].Issues[0].IssueType)
	assert.Equal(t, "ImagePullBackOff", byName["pulling"].Issues[0].Reason)

	assert.Equal(t, "Terminated With Error", byName["crashed"].Issues[0].IssueType)
	assert.Equal(t, int32(137), byName["crashed"].Issues[0].ExitCode)

	assert.Equal(t, "High Restarts", byName["looping"].Issues[0].IssueType)
	assert.Equal(t, "Error", byName["looping"].Issues[0].Reason)
	assert.Equal(t, int32(7), byName["looping"].Issues[0].RestartCount)

	assert.Equal(t, "Pod Pending", byName["unscheduled"].Issues[0].IssueType)
}

func TestProblematicPodsAllHealthy(t *testing.T) {
	healthy := podWithStatus("healthy", corev1.PodStatus{
		Phase: corev1.PodRunning,
		ContainerStatuses: []corev1.ContainerStatus{
			{Name: "app", State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
		},
	})
	c := NewWithClientset(fake.NewSimpleClientset(healthy), "shop")

	report, err := c.ProblematicPods(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report)
}
