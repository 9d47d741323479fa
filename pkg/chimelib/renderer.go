package chimelib

// Renderer begins and ends audible rendering of an alert. Implementations
// acknowledge asynchronously through the alert's Render* callbacks; calling
// back synchronously from Activate is permitted.
type Renderer interface {
	// Activate begins rendering the alert.
	Activate(a *Alert)
	// Deactivate requests that rendering stop. The stop is acknowledged
	// through a.RenderStopped (or a.RenderCompleted if rendering had
	// already finished).
	Deactivate(a *Alert, reason StopReason)
}
