package automation

import (
	"testing"
)

func TestInterpolate(t *testing.T) {
	payload := map[string]interface{}{
		"id":              "64a1f0b2c3d4e5f678901234",
		"subject":         "Cannot log in",
		"status":          "open",
		"priority":        "high",
		"requester_name":  "Sam Doe",
		"requester_email": "sam@example.com",
		"description":     "Password reset loop",
		"created_at":      "2024-03-01T10:00:00Z",
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "single placeholder",
			template: "Re: {{ticket.subject}}",
			want:     "Re: Cannot log in",
		},
		{
			name:     "multiple placeholders",
			template: "Hello {{ticket.requester_name}}, your ticket {{ticket.id}} is {{ticket.status}}",
			want:     "Hello Sam Doe, your ticket 64a1f0b2c3d4e5f678901234 is open",
		},
		{
			name:     "repeated placeholder replaces every occurrence",
			template: "{{ticket.status}} / {{ticket.status}}",
			want:     "open / open",
		},
		{
			name:     "unrecognized placeholder stays verbatim",
			template: "Assignee: {{ticket.assignee_name}}",
			want:     "Assignee: {{ticket.assignee_name}}",
		},
		{
			name:     "no placeholders",
			template: "plain text",
			want:     "plain text",
		},
		{
			name:     "empty template",
			template: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interpolate(tt.template, payload); got != tt.want {
				t.Errorf("Interpolate(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestInterpolateMissingFieldsRenderEmpty(t *testing.T) {
	got := Interpolate("Ticket {{ticket.id}}: {{ticket.subject}}", map[string]interface{}{})
	want := "Ticket : "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInterpolateIsIdempotent(t *testing.T) {
	payload := map[string]interface{}{
		"subject": "Login broken",
		"status":  "open",
	}
	template := "{{ticket.subject}} [{{ticket.status}}] {{ticket.unknown}}"

	once := Interpolate(template, payload)
	twice := Interpolate(once, payload)
	if once != twice {
		t.Errorf("interpolation not idempotent: %q vs %q", once, twice)
	}
}

func TestInterpolateNonStringField(t *testing.T) {
	got := Interpolate("Priority {{ticket.priority}}", map[string]interface{}{"priority": 3})
	if got != "Priority 3" {
		t.Errorf("got %q", got)
	}
}
