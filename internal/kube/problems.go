package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// restartThreshold is the restart count above which a container is flagged
// as a likely crash loop. A single transient restart is not worth flagging.
const restartThreshold = 3

// ContainerIssue describes one problem detected on a container.
type ContainerIssue struct {
	ContainerName string `json:"container_name"`
	IssueType     string `json:"issue_type"`
	Reason        string `json:"reason,omitempty"`
	Message       string `json:"message,omitempty"`
	ExitCode      int32  `json:"exit_code,omitempty"`
	RestartCount  int32  `json:"restart_count"`
}

// ProblemPod is a pod with at least one detected issue.
type ProblemPod struct {
	Name      string           `json:"pod_name"`
	Namespace string           `json:"namespace"`
	Phase     string           `json:"pod_phase"`
	Issues    []ContainerIssue `json:"container_issues"`
}

// ProblematicPods scans the namespace for pods in trouble: containers stuck
// waiting, terminated with a non-zero exit code, restarting frequently, or
// pods pending without scheduled containers.
func (c *Client) ProblematicPods(ctx context.Context) ([]ProblemPod, error) {
	pods, err := c.clientset.CoreV1().Pods(c.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing pods in %q: %w", c.namespace, err)
	}

	var report []ProblemPod
	for _, pod := range pods.Items {
		issues := podIssues(&pod)
		if len(issues) == 0 {
			continue
		}
		report = append(report, ProblemPod{
			Name:      pod.Name,
			Namespace: pod.Namespace,
			Phase:     string(pod.Status.Phase),
			Issues:    issues,
		})
	}
	return report, nil
}

func podIssues(pod *corev1.Pod) []ContainerIssue {
	// A pod without container statuses may be stuck before scheduling.
	if len(pod.Status.ContainerStatuses) == 0 {
		if pod.Status.Phase == corev1.PodPending {
			message := pod.Status.Message
			if message == "" {
				message = "Waiting for scheduling or resources."
			}
			return []ContainerIssue{{
				ContainerName: "N/A",
				IssueType:     "Pod Pending",
				Reason:        pod.Status.Reason,
				Message:       message,
			}}
		}
		return nil
	}

	var issues []ContainerIssue
	for _, container := range pod.Status.ContainerStatuses {
		switch {
		case container.State.Waiting != nil:
			issues = append(issues, ContainerIssue{
				ContainerName: container.Name,
				IssueType:     "Waiting",
				Reason:        container.State.Waiting.Reason,
				Message:       container.State.Waiting.Message,
				RestartCount:  container.RestartCount,
			})

		case container.State.Terminated != nil && container.State.Terminated.ExitCode != 0:
			issues = append(issues, ContainerIssue{
				ContainerName: container.Name,
				IssueType:     "Terminated With Error",
				Reason:        container.State.Terminated.Reason,
				Message:       container.State.Terminated.Message,
				ExitCode:      container.State.Terminated.ExitCode,
				RestartCount:  container.RestartCount,
			})

		case container.RestartCount > restartThreshold:
			// A crash-looping container is often Running between crashes;
			// the last termination carries the better reason.
			reason := "High Restart Count"
			if container.LastTerminationState.Terminated != nil && container.LastTerminationState.Terminated.Reason != "" {
				reason = container.LastTerminationState.Terminated.Reason
			}
			issues = append(issues, ContainerIssue{
				ContainerName: container.Name,
				IssueType:     "High Restarts",
				Reason:        reason,
				Message:       "Container is restarting frequently, indicating a potential crash loop.",
				RestartCount:  container.RestartCount,
			})
		}
	}
	return issues
}
