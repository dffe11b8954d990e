package meeting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestZoomClient(t *testing.T) (*ZoomClient, *int, *int) {
	t.Helper()

	tokenCalls := 0
	meetingCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		if r.FormValue("grant_type") != "account_credentials" {
			t.Errorf("unexpected grant_type: %q", r.FormValue("grant_type"))
		}
		if r.FormValue("account_id") != "acc-1" {
			t.Errorf("unexpected account_id: %q", r.FormValue("account_id"))
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "client-1" || pass != "secret-1" {
			t.Error("expected basic auth with client credentials")
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/v2/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		meetingCalls++
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("unexpected authorization header: %q", r.Header.Get("Authorization"))
		}
		var req zoomMeetingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding meeting request: %v", err)
		}
		if req.Type != zoomScheduledMeeting {
			t.Errorf("expected scheduled meeting type, got %d", req.Type)
		}
		if len(req.Settings.MeetingInvitees) != 1 || req.Settings.MeetingInvitees[0].Email != "candidate@example.com" {
			t.Errorf("unexpected invitees: %+v", req.Settings.MeetingInvitees)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 99, "join_url": "https://zoom.us/j/99", "password": "pw"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewZoomClient(ZoomConfig{
		AccountID:    "acc-1",
		ClientID:     "client-1",
		ClientSecret: "secret-1",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("creating zoom client: %v", err)
	}
	client.APIURL = server.URL + "/v2"
	client.TokenURL = server.URL + "/oauth/token"

	return client, &tokenCalls, &meetingCalls
}

func TestZoomCreateMeeting(t *testing.T) {
	client, tokenCalls, meetingCalls := newTestZoomClient(t)

	req := &CreateRequest{
		Topic:           "Backend Engineer Technical Interview",
		StartTime:       "2024-06-02T11:00:00",
		DurationMinutes: 60,
		Timezone:        "Asia/Kolkata",
		AttendeeEmail:   "candidate@example.com",
	}

	meeting, err := client.CreateMeeting(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meeting.ID != 99 {
		t.Fatalf("unexpected meeting id: %d", meeting.ID)
	}
	if meeting.JoinURL != "https://zoom.us/j/99" {
		t.Fatalf("unexpected join url: %q", meeting.JoinURL)
	}

	// Token is cached across calls.
	if _, err := client.CreateMeeting(context.Background(), req); err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	if *tokenCalls != 1 {
		t.Fatalf("expected a single token fetch, got %d", *tokenCalls)
	}
	if *meetingCalls != 2 {
		t.Fatalf("expected two meeting calls, got %d", *meetingCalls)
	}
}

func TestZoomCreateMeetingAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/v2/users/me/meetings", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code": 124, "message": "invalid access token"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewZoomClient(ZoomConfig{AccountID: "a", ClientID: "b", ClientSecret: "c"}, zap.NewNop())
	if err != nil {
		t.Fatalf("creating zoom client: %v", err)
	}
	client.APIURL = server.URL + "/v2"
	client.TokenURL = server.URL + "/oauth/token"

	_, err = client.CreateMeeting(context.Background(), &CreateRequest{Topic: "t"})
	if err == nil {
		t.Fatal("expected error from api failure")
	}
}

func TestNewZoomClientValidation(t *testing.T) {
	if _, err := NewZoomClient(ZoomConfig{}, zap.NewNop()); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
