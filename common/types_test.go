package common

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAlertEventRoundTrip(t *testing.T) {
	ev := AlertEvent{Token: "tok", Type: "alarm", State: "STARTED"}
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got AlertEvent
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != ev {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestScheduleParamsOmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(ScheduleParams{Type: "timer", ScheduledTime: "2030-01-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"token"`, `"recurrence"`} {
		if strings.Contains(string(b), key) {
			t.Errorf("expected %s omitted from %s", key, b)
		}
	}
}
