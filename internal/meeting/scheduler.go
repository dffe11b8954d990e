// Package meeting schedules the technical interview: a fixed-policy
// slot computation plus meeting creation through the video-conferencing
// capability.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrCreationFailed marks any failure from the meeting-creation
// capability. No meeting was confirmed created, so there is nothing to
// clean up.
var ErrCreationFailed = errors.New("meeting creation failed")

// Scheduling policy: interviews land on the next calendar day at 11:00
// India Standard Time, inside the 9 AM - 5 PM business window the
// confirmation emails promise.
const (
	timezoneName    = "Asia/Kolkata"
	interviewHour   = 11
	durationMinutes = 60
)

// Slot is the scheduled interview returned to the workflow.
type Slot struct {
	StartTime       time.Time
	DurationMinutes int
	AttendeeEmail   string
	Timezone        string
	JoinInfo        string
}

// CreateRequest is what the meeting capability needs to create a meeting.
type CreateRequest struct {
	Topic           string
	StartTime       string
	DurationMinutes int
	Timezone        string
	AttendeeEmail   string
}

// Meeting is the vendor-provided meeting metadata.
type Meeting struct {
	ID       int64  `json:"id"`
	JoinURL  string `json:"join_url"`
	Password string `json:"password"`
}

// Creator is the generic "create meeting" capability.
type Creator interface {
	CreateMeeting(ctx context.Context, req *CreateRequest) (*Meeting, error)
}

// Scheduler computes the slot and drives the Creator.
type Scheduler struct {
	creator  Creator
	logger   *zap.Logger
	location *time.Location

	now func() time.Time
}

func NewScheduler(creator Creator, logger *zap.Logger) (*Scheduler, error) {
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", timezoneName, err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		creator:  creator,
		logger:   logger,
		location: location,
		now:      time.Now,
	}, nil
}

// Schedule books a 60-minute interview at 11:00 IST on the day after
// the call, whatever the current time is. This is a fixed policy, not a
// negotiated slot: there is no conflict detection against existing
// calendar entries.
func (s *Scheduler) Schedule(ctx context.Context, candidateEmail, role string) (*Slot, error) {
	candidateEmail = strings.TrimSpace(candidateEmail)
	if candidateEmail == "" {
		return nil, errors.New("candidate email is required")
	}
	if strings.TrimSpace(role) == "" {
		return nil, errors.New("role is required")
	}

	tomorrow := s.now().In(s.location).AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), interviewHour, 0, 0, 0, s.location)

	req := &CreateRequest{
		Topic:           fmt.Sprintf("%s Technical Interview", role),
		StartTime:       start.Format("2006-01-02T15:04:05"),
		DurationMinutes: durationMinutes,
		Timezone:        timezoneName,
		AttendeeEmail:   candidateEmail,
	}

	s.logger.Debug("creating interview meeting",
		zap.String("topic", req.Topic),
		zap.String("start_time", req.StartTime),
		zap.String("attendee", candidateEmail),
	)

	created, err := s.creator.CreateMeeting(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreationFailed, err)
	}

	joinInfo := created.JoinURL
	if created.Password != "" {
		joinInfo = fmt.Sprintf("%s (passcode: %s)", created.JoinURL, created.Password)
	}

	s.logger.Info("interview meeting created",
		zap.Int64("meeting_id", created.ID),
		zap.String("start_time", req.StartTime),
	)

	return &Slot{
		StartTime:       start,
		DurationMinutes: durationMinutes,
		AttendeeEmail:   candidateEmail,
		Timezone:        timezoneName,
		JoinInfo:        joinInfo,
	}, nil
}
