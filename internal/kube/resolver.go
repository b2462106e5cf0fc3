package kube

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

// ServiceNotFoundError reports that identity resolution found no matching
// Service object (or one that cannot select pods) in the configured
// namespace. Not retried.
type ServiceNotFoundError struct {
	Service   string
	Namespace string
	Reason    string
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service %q not found in namespace %q: %s", e.Service, e.Namespace, e.Reason)
}

// Resolver maps a logical service name to the Kubernetes label selector that
// identifies its pods. All cross-backend correlation (pods, metrics, logs
// for a service) depends on this single resolution step.
type Resolver interface {
	ResolveSelector(ctx context.Context, service string) (string, error)
}

var _ Resolver = (*Client)(nil)

// ResolveSelector reads the live Service object and renders its spec
// selector as a label selector string. It is a pure mapping and holds no
// state: every call reads the cluster.
func (c *Client) ResolveSelector(ctx context.Context, service string) (string, error) {
	svc, err := c.clientset.CoreV1().Services(c.namespace).Get(ctx, service, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return "", &ServiceNotFoundError{Service: service, Namespace: c.namespace, Reason: "no such service object"}
	}
	if err != nil {
		return "", fmt.Errorf("reading service %q: %w", service, err)
	}

	if len(svc.Spec.Selector) == 0 {
		return "", &ServiceNotFoundError{Service: service, Namespace: c.namespace, Reason: "service has no selector configured"}
	}

	return labels.SelectorFromSet(labels.Set(svc.Spec.Selector)).String(), nil
}
