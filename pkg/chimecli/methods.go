package chimecli

import (
	"encoding/json"

	"github.com/chimed/chimed/common"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	if len(resp) == 0 {
		return &d, nil
	}
	return &d, json.Unmarshal(resp, &d)
}

// ScheduleOpts carries the optional fields of a schedule request.
type ScheduleOpts struct {
	Token      string
	Type       string
	Recurrence string
}

// Schedule creates a new alert at the given RFC 3339 time, or updates an
// existing one when opts carries a known token.
func (c *Client) Schedule(scheduledTime string, opts *ScheduleOpts) (*common.ScheduleResponse, error) {
	if opts == nil {
		opts = &ScheduleOpts{}
	}
	return invoke[common.ScheduleResponse](c, common.UPDATE_SCHEDULE, &common.ScheduleParams{
		Token:         opts.Token,
		Type:          opts.Type,
		ScheduledTime: scheduledTime,
		Recurrence:    opts.Recurrence,
	})
}

// Snooze reschedules the ringing alert to the given RFC 3339 time.
func (c *Client) Snooze(token, scheduledTime string) (*common.SnoozeResponse, error) {
	return invoke[common.SnoozeResponse](c, common.UPDATE_SNOOZE, &common.SnoozeParams{
		Token:         token,
		ScheduledTime: scheduledTime,
	})
}

// Delete removes the given alerts.
func (c *Client) Delete(tokens ...string) (*common.DeleteResponse, error) {
	return invoke[common.DeleteResponse](c, common.UPDATE_DELETE, &common.DeleteParams{
		Tokens: tokens,
	})
}

// List returns all alerts, optionally filtered by type.
func (c *Client) List(alertType string) (*common.ListResponse, error) {
	return invoke[common.ListResponse](c, common.UPDATE_LIST, &common.ListParams{
		Type: alertType,
	})
}

// Stop stops the currently ringing alert.
func (c *Client) Stop() (*common.StopResponse, error) {
	return invoke[common.StopResponse](c, common.UPDATE_STOP, &common.StopParams{})
}

// Clear wipes every alert.
func (c *Client) Clear() (*common.ClearResponse, error) {
	return invoke[common.ClearResponse](c, common.UPDATE_CLEAR, &common.ClearParams{})
}

// Attach subscribes this connection to the alert event feed; use Listen to
// receive the events.
func (c *Client) Attach() (*common.AttachResponse, error) {
	return invoke[common.AttachResponse](c, common.UPDATE_ATTACH, &common.AttachParams{})
}

// UpdateFocus applies an audio-focus decision. For embedders that
// arbitrate focus themselves.
func (c *Client) UpdateFocus(state string) (*common.FocusResponse, error) {
	return invoke[common.FocusResponse](c, common.UPDATE_FOCUS, &common.FocusParams{
		State: state,
	})
}
