// Package kube is the Kubernetes collaborator: pod/service inventory, log
// tailing, pod health scanning, and the identity resolution that maps a
// logical service name to the label selector every other backend correlates
// on.
package kube

import (
	"context"
	"fmt"
	"log/slog"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// PodInfo is a pod's name and current phase.
type PodInfo struct {
	Name   string `json:"pod_name"`
	Status string `json:"pod_status"`
}

// Client wraps a Kubernetes clientset scoped to one namespace.
type Client struct {
	clientset kubernetes.Interface
	namespace string
}

// NewClient builds a client from the in-cluster service account when
// running inside a pod, falling back to the local kubeconfig.
func NewClient(namespace string) (*Client, error) {
	cfg, err := rest.InClusterConfig()
	if err != nil {
		rules := clientcmd.NewDefaultClientConfigLoadingRules()
		cfg, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("loading kubernetes config: %w", err)
		}
	}

	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating kubernetes clientset: %w", err)
	}

	slog.Info("kubernetes client ready", slog.String("namespace", namespace))
	return &Client{clientset: clientset, namespace: namespace}, nil
}

// NewWithClientset wraps an existing clientset. Tests use this with the
// client-go fake.
func NewWithClientset(clientset kubernetes.Interface, namespace string) *Client {
	return &Client{clientset: clientset, namespace: namespace}
}

// Namespace returns the namespace this client is scoped to.
func (c *Client) Namespace() string {
	return c.namespace
}

// ListPods returns the names of all pods in the namespace.
func (c *Client) ListPods(ctx context.Context) ([]string, error) {
	pods, err := c.clientset.CoreV1().Pods(c.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing pods in %q: %w", c.namespace, err)
	}
	names := make([]string, 0, len(pods.Items))
	for _, pod := range pods.Items {
		names = append(names, pod.Name)
	}
	return names, nil
}

// ListServices returns the names of all services in the namespace.
func (c *Client) ListServices(ctx context.Context) ([]string, error) {
	services, err := c.clientset.CoreV1().Services(c.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing services in %q: %w", c.namespace, err)
	}
	names := make([]string, 0, len(services.Items))
	for _, svc := range services.Items {
		names = append(names, svc.Name)
	}
	return names, nil
}

// PodsForService returns the pods selected by the named service, resolved
// through the service's label selector.
func (c *Client) PodsForService(ctx context.Context, service string) ([]PodInfo, error) {
	selector, err := c.ResolveSelector(ctx, service)
	if err != nil {
		return nil, err
	}

	pods, err := c.clientset.CoreV1().Pods(c.namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, fmt.Errorf("listing pods for service %q: %w", service, err)
	}

	infos := make([]PodInfo, 0, len(pods.Items))
	for _, pod := range pods.Items {
		infos = append(infos, PodInfo{Name: pod.Name, Status: string(pod.Status.Phase)})
	}
	return infos, nil
}
