package mailtrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"sync/atomic"
	"testing"
	"time"
)

func TestWait_FindsExistingMessage(t *testing.T) {
	api, c := newFakeAPI(t)
	api.json("GET /api/accounts/1/inboxes/3/messages", http.StatusOK, []Message{
		{ID: 2, Subject: "Reset password", ToEmail: "john@example.com"},
		{ID: 1, Subject: "Welcome", ToEmail: "john@example.com"},
	})

	msg, err := c.Account(1).Inbox(3).Messages().Wait(context.Background(),
		WithSubject("Welcome"),
		WithPollInterval(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if msg.ID != 1 {
		t.Errorf("Wait() = message %d, want 1", msg.ID)
	}
	if n := api.count(); n != 1 {
		t.Errorf("polled %d times, want 1", n)
	}
}

func TestWait_PollsUntilArrival(t *testing.T) {
	api, c := newFakeAPI(t)
	var polls atomic.Int32
	api.handle("GET /api/accounts/1/inboxes/3/messages", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if polls.Add(1) < 3 {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":7,"subject":"Order #123 shipped","from_email":"Shop@Example.com","to_email":"a@example.com, b@example.com"}]`))
	})

	msg, err := c.Account(1).Inbox(3).Messages().Wait(context.Background(),
		WithSubjectRegex(regexp.MustCompile(`Order #\d+`)),
		WithFrom("shop@example.com"),
		WithTo("b@example.com"),
		WithPollInterval(5*time.Millisecond),
		WithWaitTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if msg.ID != 7 {
		t.Errorf("Wait() = message %d, want 7", msg.ID)
	}
	if got := polls.Load(); got != 3 {
		t.Errorf("polls = %d, want 3", got)
	}
}

func TestWait_Timeout(t *testing.T) {
	api, c := newFakeAPI(t)
	api.json("GET /api/accounts/1/inboxes/3/messages", http.StatusOK, []Message{})

	_, err := c.Account(1).Inbox(3).Messages().Wait(context.Background(),
		WithPollInterval(5*time.Millisecond),
		WithWaitTimeout(50*time.Millisecond),
	)

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Wait() error = %v, want *TimeoutError", err)
	}
	if timeoutErr.Timeout != 50*time.Millisecond {
		t.Errorf("Timeout = %v", timeoutErr.Timeout)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("TimeoutError should match context.DeadlineExceeded")
	}
}

func TestWait_CallerCancellation(t *testing.T) {
	api, c := newFakeAPI(t)
	api.json("GET /api/accounts/1/inboxes/3/messages", http.StatusOK, []Message{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := c.Account(1).Inbox(3).Messages().Wait(ctx, WithPollInterval(5*time.Millisecond))

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		t.Fatalf("Wait() error = %v, want cancellation", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestWait_ListErrorStopsWaiting(t *testing.T) {
	api, c := newFakeAPI(t)
	api.json("GET /api/accounts/1/inboxes/3/messages", http.StatusForbidden, map[string]string{"errors": "Access forbidden"})

	_, err := c.Account(1).Inbox(3).Messages().Wait(context.Background(), WithPollInterval(5*time.Millisecond))
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Wait() error = %v, want ErrForbidden", err)
	}
}

func TestWaitCount(t *testing.T) {
	api, c := newFakeAPI(t)
	api.json("GET /api/accounts/1/inboxes/3/messages", http.StatusOK, []Message{
		{ID: 3, Subject: "Digest"},
		{ID: 2, Subject: "Other"},
		{ID: 1, Subject: "Digest"},
	})
	msgs := c.Account(1).Inbox(3).Messages()
	ctx := context.Background()

	got, err := msgs.WaitCount(ctx, 2, WithSubject("Digest"), WithPollInterval(5*time.Millisecond))
	if err != nil {
		t.Fatalf("WaitCount() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 1 {
		t.Errorf("WaitCount() = %+v", got)
	}

	if got, err := msgs.WaitCount(ctx, 0); err != nil || len(got) != 0 {
		t.Errorf("WaitCount(0) = %v, %v", got, err)
	}
	if _, err := msgs.WaitCount(ctx, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("WaitCount(-1) error = %v", err)
	}
}

func TestWaitCount_PagesOlderMessages(t *testing.T) {
	api, c := newFakeAPI(t)
	digests := func(from, to int64) []Message {
		var out []Message
		for id := from; id >= to; id-- {
			out = append(out, Message{ID: id, Subject: "Digest"})
		}
		return out
	}
	api.handle("GET /api/accounts/1/inboxes/3/messages", func(w http.ResponseWriter, r *http.Request) {
		page := digests(40, 11)
		if r.URL.Query().Get("last_id") == "11" {
			page = digests(10, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	})

	got, err := c.Account(1).Inbox(3).Messages().WaitCount(context.Background(), 35,
		WithSubject("Digest"), WithPollInterval(5*time.Millisecond), WithWaitTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("WaitCount() error = %v", err)
	}
	if len(got) != 35 || got[0].ID != 40 || got[34].ID != 6 {
		t.Fatalf("WaitCount() returned %d messages", len(got))
	}
	if api.count() != 2 {
		t.Errorf("requests = %d, want 2", api.count())
	}
	if q := api.last(t).Query; q != "last_id=11" {
		t.Errorf("second page query = %q", q)
	}
}

func TestWaitCount_StopsOnStalledCursor(t *testing.T) {
	api, c := newFakeAPI(t)
	var page []Message
	for id := int64(30); id >= 1; id-- {
		page = append(page, Message{ID: id, Subject: "Digest"})
	}
	// Serves the same full page whatever last_id says.
	api.json("GET /api/accounts/1/inboxes/3/messages", http.StatusOK, page)

	_, err := c.Account(1).Inbox(3).Messages().WaitCount(context.Background(), 31,
		WithPollInterval(time.Hour), WithWaitTimeout(100*time.Millisecond))
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("WaitCount() error = %v, want *TimeoutError", err)
	}
	if api.count() != 2 {
		t.Errorf("requests = %d, want 2", api.count())
	}
}

func TestWait_InvalidInbox(t *testing.T) {
	api, c := newFakeAPI(t)

	_, err := c.Account(1).Inbox(0).Messages().Wait(context.Background())
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Wait() error = %v, want ErrInvalidArgument", err)
	}
	if api.count() != 0 {
		t.Error("request sent for invalid inbox")
	}
}
