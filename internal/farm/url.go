package farm

import (
	"strings"
)

// ChatCompletionsPath is the path suffix every Farm endpoint must end with.
const ChatCompletionsPath = "/chat/completions"

const deploymentsSegment = "/deployments/"

// splitSuffix separates the path part of raw from its query and fragment,
// which are returned with their leading '?' or '#'.
func splitSuffix(raw string) (base, suffix string) {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i], raw[i:]
	}
	return raw, ""
}

// NormalizeURL returns the chat completions URL for a deployment URL. Trailing
// slashes are stripped and ChatCompletionsPath is appended unless the path
// already ends with it. A query string or fragment, if any, is kept.
// NormalizeURL is idempotent.
func NormalizeURL(raw string) string {
	base, suffix := splitSuffix(raw)
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, ChatCompletionsPath) {
		base += ChatCompletionsPath
	}
	return base + suffix
}

// EndpointURL builds the normalized endpoint from a base URL and an optional
// deployment name. The deployment is appended only when baseURL is an API
// root: it carries no /deployments/ segment and does not already end with
// ChatCompletionsPath.
func EndpointURL(baseURL, deployment string) string {
	base, suffix := splitSuffix(baseURL)
	base = strings.TrimRight(base, "/")
	if deployment == "" || strings.Contains(base, deploymentsSegment) || strings.HasSuffix(base, ChatCompletionsPath) {
		return NormalizeURL(baseURL)
	}
	return NormalizeURL(base + deploymentsSegment + deployment + suffix)
}

// DeploymentFromURL extracts the deployment name from a URL shaped like
// https://host/api/openai/deployments/{name}/chat/completions.
func DeploymentFromURL(raw string) (string, bool) {
	base, _ := splitSuffix(raw)
	_, after, ok := strings.Cut(base, deploymentsSegment)
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(after, "/")
	if name == "" {
		return "", false
	}
	return name, true
}
