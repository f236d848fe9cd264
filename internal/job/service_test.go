package job

import (
	"context"
	"sync"
	"testing"

	"github.com/gigboard/gigboard/internal/apperror"
	"github.com/gigboard/gigboard/internal/notify"
)

type mockRepo struct {
	mu     sync.Mutex
	jobs   map[int64]*Job
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{jobs: make(map[int64]*Job), nextID: 1}
}

func (m *mockRepo) add(j Job) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	j.ID = m.nextID
	m.nextID++
	if j.Status == "" {
		j.Status = StatusNew
	}
	cp := j
	m.jobs[j.ID] = &cp
	return &cp
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, apperror.New(apperror.NotFound, "job not found")
	}
	cp := *j
	return &cp, nil
}

func (m *mockRepo) GetByLink(_ context.Context, link string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.Link == link {
			cp := *j
			return &cp, nil
		}
	}
	return nil, apperror.New(apperror.NotFound, "job not found")
}

func (m *mockRepo) List(_ context.Context, q ListQuery) ([]Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Job
	for _, j := range m.jobs {
		if q.Status != "" && j.Status != q.Status {
			continue
		}
		if q.AssigneeID != 0 && j.AssigneeID != q.AssigneeID {
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}

func (m *mockRepo) InsertBatch(_ context.Context, jobs []Job) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var inserted []string
	for _, j := range jobs {
		exists := false
		for _, have := range m.jobs {
			if have.Link == j.Link {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		j.ID = m.nextID
		m.nextID++
		cp := j
		m.jobs[j.ID] = &cp
		inserted = append(inserted, j.Link)
	}
	return inserted, nil
}

func (m *mockRepo) ListByLinks(_ context.Context, links []string, ownerID int64) ([]Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(links))
	for _, l := range links {
		want[l] = true
	}
	var out []Job
	for _, j := range m.jobs {
		if want[j.Link] && j.OwnerID == ownerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *mockRepo) TryClaim(_ context.Context, id, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok || j.Status != StatusNew {
		return false, nil
	}
	j.Status = StatusInProgress
	j.AssigneeID = userID
	return true, nil
}

func (m *mockRepo) TryClaimByLink(_ context.Context, link string, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.Link == link {
			if j.Status != StatusNew {
				return false, nil
			}
			j.Status = StatusInProgress
			j.AssigneeID = userID
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) TryComplete(_ context.Context, id, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok || j.Status != StatusInProgress || j.AssigneeID != userID {
		return false, nil
	}
	j.Status = StatusDone
	return true, nil
}

func (m *mockRepo) Stats(context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Stats{}
	for _, j := range m.jobs {
		s.Total++
		if j.AssigneeID != 0 {
			s.Taken++
		}
	}
	return s, nil
}

func (m *mockRepo) Analytics(context.Context) ([]UserStats, error) {
	return nil, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingSink) Publish(_ context.Context, e notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func TestClaim_Success(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	j := repo.add(Job{Link: "https://example.com/a"})

	got, err := svc.Claim(context.Background(), j.ID, 5)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got.Status != StatusInProgress {
		t.Errorf("expected in_progress, got %s", got.Status)
	}
	if got.AssigneeID != 5 {
		t.Errorf("expected assignee 5, got %d", got.AssigneeID)
	}
}

func TestClaim_NotFound(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	_, err := svc.Claim(context.Background(), 42, 5)
	assertCode(t, err, apperror.NotFound)
}

func TestClaim_IdempotentForSameUser(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	j := repo.add(Job{Link: "https://example.com/a"})

	if _, err := svc.Claim(context.Background(), j.ID, 5); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	got, err := svc.Claim(context.Background(), j.ID, 5)
	if err != nil {
		t.Fatalf("repeat claim by same user should succeed: %v", err)
	}
	if got.AssigneeID != 5 {
		t.Errorf("expected assignee 5, got %d", got.AssigneeID)
	}
}

func TestClaim_ConflictForOtherUser(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	j := repo.add(Job{Link: "https://example.com/a"})

	if _, err := svc.Claim(context.Background(), j.ID, 5); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	_, err := svc.Claim(context.Background(), j.ID, 7)
	assertCode(t, err, apperror.Conflict)

	got, _ := repo.Get(context.Background(), j.ID)
	if got.AssigneeID != 5 {
		t.Errorf("assignee should remain 5, got %d", got.AssigneeID)
	}
}

func TestComplete_Success_EmitsNotifications(t *testing.T) {
	repo := newMockRepo()
	sink := &recordingSink{}
	svc := NewService(repo, sink)
	j := repo.add(Job{Title: "Build a bot", Link: "https://example.com/a"})

	if _, err := svc.Claim(context.Background(), j.ID, 5); err != nil {
		t.Fatalf("claim: %v", err)
	}
	got, err := svc.Complete(context.Background(), j.ID, 5)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.Status != StatusDone {
		t.Errorf("expected done, got %s", got.Status)
	}

	types := sink.types()
	if len(types) != 2 || types[0] != notify.EventTaskCompleted || types[1] != notify.EventChatMessage {
		t.Errorf("expected [task_completed chat_message], got %v", types)
	}
}

func TestComplete_ForbiddenForNonAssignee(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	j := repo.add(Job{Link: "https://example.com/a"})

	if _, err := svc.Claim(context.Background(), j.ID, 5); err != nil {
		t.Fatalf("claim: %v", err)
	}
	_, err := svc.Complete(context.Background(), j.ID, 7)
	assertCode(t, err, apperror.Forbidden)

	got, _ := repo.Get(context.Background(), j.ID)
	if got.Status != StatusInProgress {
		t.Errorf("status should remain in_progress, got %s", got.Status)
	}
}

func TestComplete_InvalidStateWhenNotInProgress(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	j := repo.add(Job{Link: "https://example.com/a"})

	if _, err := svc.Claim(context.Background(), j.ID, 5); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := svc.Complete(context.Background(), j.ID, 5); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Completing a done job again is an invalid transition.
	_, err := svc.Complete(context.Background(), j.ID, 5)
	assertCode(t, err, apperror.Conflict)
}

func TestComplete_NotFound(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	_, err := svc.Complete(context.Background(), 42, 5)
	assertCode(t, err, apperror.NotFound)
}

func TestClaimByLink(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	repo.add(Job{Link: "https://example.com/a"})

	got, err := svc.ClaimByLink(context.Background(), "https://example.com/a", 5)
	if err != nil {
		t.Fatalf("claim by link: %v", err)
	}
	if got.AssigneeID != 5 || got.Status != StatusInProgress {
		t.Errorf("unexpected job after claim: %+v", got)
	}

	_, err = svc.ClaimByLink(context.Background(), "https://example.com/a", 7)
	assertCode(t, err, apperror.Conflict)

	_, err = svc.ClaimByLink(context.Background(), "https://example.com/missing", 5)
	assertCode(t, err, apperror.NotFound)

	_, err = svc.ClaimByLink(context.Background(), "", 5)
	assertCode(t, err, apperror.BadRequest)
}

func TestList_SortedByBudgetDescending(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	repo.add(Job{Link: "a", Budget: "$50"})
	repo.add(Job{Link: "b", Budget: "$1,200"})
	repo.add(Job{Link: "c", Budget: "junk"})

	jobs, err := svc.List(context.Background(), ListJobsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].Link != "b" || jobs[2].Link != "c" {
		t.Errorf("unexpected order: %s, %s, %s", jobs[0].Link, jobs[1].Link, jobs[2].Link)
	}
}

func TestList_InvalidStatusFilter(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	_, err := svc.List(context.Background(), ListJobsRequest{Status: "bogus"})
	assertCode(t, err, apperror.BadRequest)
}

func assertCode(t *testing.T, err error, code apperror.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	ae, ok := err.(*apperror.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if ae.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, ae.Code(), err)
	}
}
