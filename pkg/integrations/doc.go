// Package integrations provides the shared HTTP client used by the
// per-forge API subpackages (github, gitlab, sourceforge, launchpad).
// It layers caching, retry with backoff, and common request headers over
// net/http so the service clients only describe endpoints and response
// shapes.
package integrations
