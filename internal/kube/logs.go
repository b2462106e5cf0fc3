package kube

import (
	"context"
	"fmt"
	"io"
	"strings"

	corev1 "k8s.io/api/core/v1"
)

// importantKeywords mark log lines worth surfacing when the caller asks for
// important entries only. Matched case-insensitively.
var importantKeywords = []string{
	"ERROR", "WARN", "CRITICAL", "FATAL", "PANIC",
	"EXCEPTION", "FAILURE", "FAILED", "TIMEOUT",
	"REFUSED", "DENIED", "UNREACHABLE", "RESTART",
	"CRASH", "KILLED", "OOM", "5xx", "500", "503", "502",
	"4xx", "401", "403", "404", "CONNECTION", "DISK",
}

// PodLogs tails the last tail lines of a pod's logs. With importantOnly the
// result keeps only lines containing an important keyword; when no line
// matches, the full tail is returned with a notice so the caller still sees
// something actionable.
func (c *Client) PodLogs(ctx context.Context, pod string, tail int, importantOnly bool) (string, error) {
	tailLines := int64(tail)
	req := c.clientset.CoreV1().Pods(c.namespace).GetLogs(pod, &corev1.PodLogOptions{
		TailLines: &tailLines,
	})

	stream, err := req.Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("streaming logs for pod %q: %w", pod, err)
	}
	defer stream.Close()

	raw, err := io.ReadAll(stream)
	if err != nil {
		return "", fmt.Errorf("reading logs for pod %q: %w", pod, err)
	}

	logs := string(raw)
	if !importantOnly {
		return logs, nil
	}
	return FilterImportant(logs), nil
}

// FilterImportant keeps the log lines that contain an important keyword.
func FilterImportant(logs string) string {
	lines := strings.Split(logs, "\n")

	var filtered []string
	for _, line := range lines {
		upper := strings.ToUpper(line)
		for _, keyword := range importantKeywords {
			if strings.Contains(upper, keyword) {
				filtered = append(filtered, line)
				break
			}
		}
	}

	if len(filtered) == 0 {
		return "No important log entries found, full log entries are appended\n" + logs
	}
	return fmt.Sprintf("Found %d important log entries:\n\n%s", len(filtered), strings.Join(filtered, "\n"))
}
