package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/deskops/helpdesk/internal/auth"
	"github.com/deskops/helpdesk/internal/config"
	"github.com/deskops/helpdesk/internal/domain"
	"github.com/deskops/helpdesk/internal/events"
	"github.com/deskops/helpdesk/internal/persistence"
	"github.com/deskops/helpdesk/internal/repository"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// failingKV fails every write once armed.
type failingKV struct {
	*persistence.Memory
	fail bool
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("quota exceeded")
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *failingKV) Delete(ctx context.Context, key string) error {
	if f.fail {
		return errors.New("quota exceeded")
	}
	return f.Memory.Delete(ctx, key)
}

var (
	admin    = domain.Identity{ID: "1", Email: "it@example.com", DisplayName: "Admin", Role: domain.RoleAdmin}
	mailon   = domain.Identity{ID: "2", Email: "mailon@example.com", DisplayName: "Mailon", Role: domain.RoleStandard}
	networkT = domain.NewTicket{
		Requester:   admin.AsRequester(),
		Sector:      "IT",
		ProblemType: "Network",
		Description: "No internet",
		Urgency:     domain.TicketUrgencyUrgent,
	}
)

func newStore(t *testing.T, kv persistence.KeyValueStore, enforce bool) *TicketStore {
	t.Helper()
	return NewTicketStore(context.Background(), TicketStoreDependencies{
		Repo:               repository.NewTicketRepository(kv, "helpdesk:"),
		Now:                newFakeClock().Now,
		EnforceTransitions: enforce,
	})
}

func newDirectory(t *testing.T) *auth.Directory {
	t.Helper()
	adminHash, err := auth.HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)
	userHash, err := auth.HashPassword("mailon123", bcrypt.MinCost)
	require.NoError(t, err)

	dir, err := auth.NewDirectory([]auth.DirectoryEntry{
		{ID: admin.ID, Email: admin.Email, DisplayName: admin.DisplayName, Role: "admin", PasswordHash: adminHash},
		{ID: mailon.ID, Email: mailon.Email, DisplayName: mailon.DisplayName, Role: "user", PasswordHash: userHash},
	})
	require.NoError(t, err)
	return dir
}

func newSessions(t *testing.T, kv persistence.KeyValueStore, dispatcher events.Dispatcher) *SessionStore {
	t.Helper()
	return NewSessionStore(context.Background(), SessionStoreDependencies{
		Repo:       repository.NewSessionRepository(kv, "helpdesk:"),
		Identities: newDirectory(t),
		Dispatcher: dispatcher,
	})
}

func TestCreateProducesPendingTicket(t *testing.T) {
	store := newStore(t, persistence.NewMemory(), true)

	ticket, err := store.Create(context.Background(), networkT)
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Equal(t, ticket.CreatedAt, ticket.UpdatedAt)
	require.Len(t, ticket.History, 1)
	assert.Equal(t, "Ticket created", ticket.History[0].Description)
	assert.Nil(t, ticket.StartTime)
	assert.Nil(t, ticket.EndTime)
	assert.Nil(t, ticket.Cost)
	assert.Empty(t, ticket.Solution)
}

func TestTicketLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, persistence.NewMemory(), true)

	ticket, err := store.Create(ctx, networkT)
	require.NoError(t, err)

	ticket, err = store.Update(ctx, ticket.ID, domain.TicketPatch{Status: domain.Set(domain.TicketStatusInProgress)})
	require.NoError(t, err)
	require.NotNil(t, ticket.StartTime)
	assert.Len(t, ticket.History, 2)
	assert.Equal(t, "Status updated to: InProgress", ticket.History[1].Description)
	started := *ticket.StartTime

	cost, ok := domain.ParseMoney("25.50")
	require.True(t, ok)
	ticket, err = store.Update(ctx, ticket.ID, domain.TicketPatch{
		Status:   domain.Set(domain.TicketStatusFinished),
		Solution: domain.Set("Replaced cable"),
		Cost:     domain.Set(cost),
	})
	require.NoError(t, err)
	require.NotNil(t, ticket.EndTime)
	require.NotNil(t, ticket.Cost)
	assert.Equal(t, "25.50", ticket.Cost.StringFixed(2))
	assert.Equal(t, "Replaced cable", ticket.Solution)
	assert.Len(t, ticket.History, 3)
	assert.Equal(t, started, *ticket.StartTime)
}

func TestStartTimeIsSetOnce(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, persistence.NewMemory(), false)

	ticket, _ := store.Create(ctx, networkT)
	ticket, err := store.Update(ctx, ticket.ID, domain.TicketPatch{Status: domain.Set(domain.TicketStatusInProgress)})
	require.NoError(t, err)
	started := *ticket.StartTime

	later := started.Add(time.Hour)
	ticket, err = store.Update(ctx, ticket.ID, domain.TicketPatch{
		Description: domain.Set("Still no internet"),
		StartTime:   domain.Set(later),
	})
	require.NoError(t, err)
	assert.Equal(t, started, *ticket.StartTime)

	ticket, err = store.Update(ctx, ticket.ID, domain.TicketPatch{Status: domain.Set(domain.TicketStatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, started, *ticket.StartTime)
}

func TestEveryUpdateAppendsOneEntry(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, persistence.NewMemory(), true)
	ticket, _ := store.Create(ctx, networkT)

	patches := []domain.TicketPatch{
		{Description: domain.Set("Cable unplugged?")},
		{Status: domain.Set(domain.TicketStatusInProgress)},
		{Urgency: domain.Set(domain.TicketUrgencyMedium)},
		{Status: domain.Set(domain.TicketStatusFinished), Solution: domain.Set("Plugged in")},
		{Solution: domain.Clear[string]()},
	}
	previous := ticket
	for i, patch := range patches {
		next, err := store.Update(ctx, ticket.ID, patch)
		require.NoError(t, err, "patch %d", i)
		assert.Len(t, next.History, len(previous.History)+1)
		assert.False(t, next.UpdatedAt.Before(previous.UpdatedAt))
		assert.Equal(t, "Status updated to: "+string(next.Status), next.History[len(next.History)-1].Description)
		previous = next
	}
	assert.Empty(t, previous.Solution)
}

func TestUpdatedAtNeverDecreases(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := NewTicketStore(ctx, TicketStoreDependencies{
		Repo: repository.NewTicketRepository(persistence.NewMemory(), ""),
		Now:  func() time.Time { return now },
	})
	ticket, _ := store.Create(ctx, networkT)

	now = now.Add(-time.Hour)
	updated, err := store.Update(ctx, ticket.ID, domain.TicketPatch{Sector: domain.Set("Data")})
	require.NoError(t, err)
	assert.Equal(t, ticket.UpdatedAt, updated.UpdatedAt)
}

func TestUpdateUnknownTicket(t *testing.T) {
	kv := persistence.NewMemory()
	store := newStore(t, kv, true)
	_, _ = store.Create(context.Background(), networkT)
	before := store.ListAll()

	_, err := store.Update(context.Background(), "missing", domain.TicketPatch{Status: domain.Set(domain.TicketStatusFinished)})
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
	assert.Equal(t, before, store.ListAll())
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, persistence.NewMemory(), true)
	ticket, _ := store.Create(ctx, networkT)

	_, err := store.Update(ctx, ticket.ID, domain.TicketPatch{Sector: domain.Clear[string]()})
	assert.ErrorIs(t, err, domain.ErrInvalidPatch)

	got, err := store.Get(ticket.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, 1)
}

func TestTransitionEnforcement(t *testing.T) {
	ctx := context.Background()

	strict := newStore(t, persistence.NewMemory(), true)
	ticket, _ := strict.Create(ctx, networkT)
	_, err := strict.Update(ctx, ticket.ID, domain.TicketPatch{Status: domain.Set(domain.TicketStatusFinished)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	got, _ := strict.Get(ticket.ID)
	assert.Equal(t, domain.TicketStatusPending, got.Status)
	assert.Len(t, got.History, 1)

	permissive := newStore(t, persistence.NewMemory(), false)
	ticket, _ = permissive.Create(ctx, networkT)
	_, err = permissive.Update(ctx, ticket.ID, domain.TicketPatch{Status: domain.Set(domain.TicketStatusFinished)})
	require.NoError(t, err)
	back, err := permissive.Update(ctx, ticket.ID, domain.TicketPatch{Status: domain.Set(domain.TicketStatusPending)})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, back.Status)
	assert.Len(t, back.History, 3)
}

func TestListByUserIsSubsetOfListAll(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, persistence.NewMemory(), true)

	owners := []domain.Identity{admin, mailon, admin, mailon, mailon}
	for _, owner := range owners {
		input := networkT
		input.Requester = owner.AsRequester()
		_, err := store.Create(ctx, input)
		require.NoError(t, err)
	}

	all := store.ListAll()
	require.Len(t, all, len(owners))
	for _, user := range []string{admin.ID, mailon.ID, "nobody"} {
		var want []domain.Ticket
		for _, ticket := range all {
			if ticket.Requester.ID == user {
				want = append(want, ticket)
			}
		}
		got := store.ListByUser(user)
		if want == nil {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, want, got)
	}
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, persistence.NewMemory(), true)
	ticket, _ := store.Create(ctx, networkT)

	list := store.ListAll()
	list[0].Sector = "mutated"
	list[0].History[0].Description = "mutated"

	got, err := store.Get(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "IT", got.Sector)
	assert.Equal(t, "Ticket created", got.History[0].Description)
}

func TestStoreReloadsSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemory()
	store := newStore(t, kv, true)

	ticket, _ := store.Create(ctx, networkT)
	_, err := store.Update(ctx, ticket.ID, domain.TicketPatch{Status: domain.Set(domain.TicketStatusInProgress)})
	require.NoError(t, err)
	second := networkT
	second.Requester = mailon.AsRequester()
	_, err = store.Create(ctx, second)
	require.NoError(t, err)

	reloaded := newStore(t, kv, true)
	assert.Equal(t, store.ListAll(), reloaded.ListAll())
}

func TestStoreDegradesOnCorruptSnapshot(t *testing.T) {
	kv := persistence.NewMemory()
	require.NoError(t, kv.Set(context.Background(), "helpdesk:tickets", []byte(`[{"id":`)))

	store := newStore(t, kv, true)
	assert.Empty(t, store.ListAll())

	_, err := store.Create(context.Background(), networkT)
	require.NoError(t, err)
	assert.Len(t, store.ListAll(), 1)
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Memory: persistence.NewMemory()}
	dispatcher := events.NewInMemoryDispatcher()
	var failures []events.Event
	dispatcher.Subscribe(events.EventPersistenceFailed, func(_ context.Context, e events.Event) error {
		failures = append(failures, e)
		return nil
	})
	store := NewTicketStore(ctx, TicketStoreDependencies{
		Repo:       repository.NewTicketRepository(kv, ""),
		Dispatcher: dispatcher,
		Now:        newFakeClock().Now,
	})

	kv.fail = true
	ticket, err := store.Create(ctx, networkT)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	require.NotNil(t, ticket)
	assert.Len(t, store.ListAll(), 1)

	updated, err := store.Update(ctx, ticket.ID, domain.TicketPatch{Status: domain.Set(domain.TicketStatusInProgress)})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	require.NotNil(t, updated)
	got, _ := store.Get(ticket.ID)
	assert.Equal(t, domain.TicketStatusInProgress, got.Status)
	assert.Len(t, failures, 2)
}

func TestStorePublishesEvents(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	var seen []events.EventType
	record := func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, record)
	dispatcher.Subscribe(events.EventTicketUpdated, record)
	dispatcher.Subscribe(events.EventTicketStatusChanged, record)

	store := NewTicketStore(ctx, TicketStoreDependencies{
		Repo:       repository.NewTicketRepository(persistence.NewMemory(), ""),
		Dispatcher: dispatcher,
	})
	ticket, _ := store.Create(ctx, networkT)
	_, _ = store.Update(ctx, ticket.ID, domain.TicketPatch{Description: domain.Set("x")})
	_, _ = store.Update(ctx, ticket.ID, domain.TicketPatch{Status: domain.Set(domain.TicketStatusInProgress)})

	assert.Equal(t, []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketUpdated,
		events.EventTicketStatusChanged,
	}, seen)
}

func TestSignInUnknownUser(t *testing.T) {
	sessions := newSessions(t, persistence.NewMemory(), nil)

	_, err := sessions.SignIn(context.Background(), "unknown@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, ok := sessions.Current()
	assert.False(t, ok)
}

func TestSignInPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemory()
	sessions := newSessions(t, kv, nil)

	identity, err := sessions.SignIn(ctx, "IT@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, admin, identity)

	raw, err := kv.Get(ctx, "helpdesk:session")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "admin123")

	restored := NewSessionStore(ctx, SessionStoreDependencies{
		Repo: repository.NewSessionRepository(kv, "helpdesk:"),
		// nothing to authenticate against: the stored identity is trusted as-is
		Identities: &auth.Directory{},
	})
	current, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, admin, current)

	require.NoError(t, restored.SignOut(ctx))
	_, ok = restored.Current()
	assert.False(t, ok)
	_, err = kv.Get(ctx, "helpdesk:session")
	assert.ErrorIs(t, err, persistence.ErrKeyNotFound)
}

func TestRejectedSignInKeepsSession(t *testing.T) {
	ctx := context.Background()
	sessions := newSessions(t, persistence.NewMemory(), nil)
	_, err := sessions.SignIn(ctx, mailon.Email, "mailon123")
	require.NoError(t, err)

	_, err = sessions.SignIn(ctx, admin.Email, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	current, ok := sessions.Current()
	require.True(t, ok)
	assert.Equal(t, mailon, current)
}

func TestMalformedSessionIsIgnored(t *testing.T) {
	kv := persistence.NewMemory()
	require.NoError(t, kv.Set(context.Background(), "helpdesk:session", []byte(`"admin"`)))

	sessions := newSessions(t, kv, nil)
	_, ok := sessions.Current()
	assert.False(t, ok)
}

func TestFirstReleaseProfileRestores(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemory()
	require.NoError(t, kv.Set(ctx, "helpdesk:session",
		[]byte(`{"id":"2","email":"mailon@example.com","name":"Mailon","role":"user"}`)))
	require.NoError(t, kv.Set(ctx, "helpdesk:tickets", []byte(`[{
		"id":"old-1","userId":"2","userName":"Mailon","sector":"Data","problemType":"Printer",
		"description":"Paper jam","urgency":"Moderado","status":"Pendente",
		"createdAt":"2025-11-03T12:00:00.000Z","updatedAt":"2025-11-03T12:00:00.000Z",
		"history":[{"timestamp":"2025-11-03T12:00:00.000Z","description":"Ticket created"}]
	}]`)))

	sessions := newSessions(t, kv, nil)
	current, ok := sessions.Current()
	require.True(t, ok)
	assert.Equal(t, mailon, current)

	store := newStore(t, kv, true)
	svc := NewTicketService(store, sessions, nil)

	visible, err := svc.Visible(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, domain.Requester{ID: "2", Name: "Mailon"}, visible[0].Requester)
	assert.Equal(t, domain.TicketStatusPending, visible[0].Status)

	opened, err := svc.Open(ctx, OpenTicketInput{
		Sector: "Data", ProblemType: "Printer", Description: "Toner", Urgency: "Medium",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Requester{ID: "2", Name: "Mailon"}, opened.Requester)
	assert.Len(t, store.ListByUser("2"), 2)
}

func TestSessionPersistFailure(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Memory: persistence.NewMemory(), fail: true}
	sessions := newSessions(t, kv, nil)

	identity, err := sessions.SignIn(ctx, admin.Email, "admin123")
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, admin, identity)
	_, ok := sessions.Current()
	assert.True(t, ok)

	err = sessions.SignOut(ctx)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	_, ok = sessions.Current()
	assert.False(t, ok)
}

type workflow struct {
	sessions *SessionStore
	store    *TicketStore
	svc      *TicketService
}

func newWorkflow(t *testing.T) workflow {
	t.Helper()
	kv := persistence.NewMemory()
	sessions := newSessions(t, kv, nil)
	store := newStore(t, kv, true)
	return workflow{sessions: sessions, store: store, svc: NewTicketService(store, sessions, nil)}
}

func (w workflow) signIn(t *testing.T, email, password string) {
	t.Helper()
	_, err := w.sessions.SignIn(context.Background(), email, password)
	require.NoError(t, err)
}

func TestOpenRequiresSessionAndFields(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)

	_, err := w.svc.Open(ctx, OpenTicketInput{Sector: "IT", ProblemType: "Network", Description: "x", Urgency: "Urgent"})
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)

	w.signIn(t, mailon.Email, "mailon123")
	_, err = w.svc.Open(ctx, OpenTicketInput{Sector: " ", ProblemType: "Network", Urgency: "Whenever"})
	require.Error(t, err)
	assert.Empty(t, w.store.ListAll())

	ticket, err := w.svc.Open(ctx, OpenTicketInput{Sector: "Data", ProblemType: "Printer", Description: "Paper jam", Urgency: "Moderado"})
	require.NoError(t, err)
	assert.Equal(t, mailon.AsRequester(), ticket.Requester)
	assert.Equal(t, domain.TicketUrgencyModerate, ticket.Urgency)
}

func TestOpenValidationDetails(t *testing.T) {
	_, err := OpenTicketInput{Urgency: "Whenever"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing or invalid")
}

func TestStartAndFinishService(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)
	w.signIn(t, mailon.Email, "mailon123")
	ticket, err := w.svc.Open(ctx, OpenTicketInput{Sector: "IT", ProblemType: "Network", Description: "No internet", Urgency: "Urgent"})
	require.NoError(t, err)

	_, err = w.svc.StartService(ctx, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	w.signIn(t, admin.Email, "admin123")
	started, err := w.svc.StartService(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, started.Status)
	require.NotNil(t, started.StartTime)

	_, err = w.svc.StartService(ctx, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyStarted)

	_, err = w.svc.FinishService(ctx, ticket.ID, "   ", "10")
	require.Error(t, err)
	unchanged, _ := w.store.Get(ticket.ID)
	assert.Equal(t, domain.TicketStatusInProgress, unchanged.Status)
	assert.Len(t, unchanged.History, 2)

	finished, err := w.svc.FinishService(ctx, ticket.ID, "Replaced cable", "25,50")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusFinished, finished.Status)
	assert.Equal(t, "Replaced cable", finished.Solution)
	require.NotNil(t, finished.Cost)
	assert.Equal(t, "25.50", finished.Cost.StringFixed(2))
	assert.NotNil(t, finished.EndTime)
	assert.Equal(t, *started.StartTime, *finished.StartTime)
}

func TestFinishWithUnparseableCost(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)
	w.signIn(t, admin.Email, "admin123")
	ticket, err := w.svc.Open(ctx, OpenTicketInput{Sector: "IT", ProblemType: "Network", Description: "No internet", Urgency: "Urgent"})
	require.NoError(t, err)
	_, err = w.svc.StartService(ctx, ticket.ID)
	require.NoError(t, err)

	finished, err := w.svc.FinishService(ctx, ticket.ID, "Rebooted router", "free")
	require.NoError(t, err)
	assert.Nil(t, finished.Cost)
}

func TestVisibleAndOwnership(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)

	w.signIn(t, admin.Email, "admin123")
	adminTicket, err := w.svc.Open(ctx, OpenTicketInput{Sector: "IT", ProblemType: "Network", Description: "No internet", Urgency: "Urgent"})
	require.NoError(t, err)

	w.signIn(t, mailon.Email, "mailon123")
	own, err := w.svc.Open(ctx, OpenTicketInput{Sector: "Data", ProblemType: "Printer", Description: "Paper jam", Urgency: "Medium"})
	require.NoError(t, err)

	visible, err := w.svc.Visible(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, own.ID, visible[0].ID)

	_, err = w.svc.Ticket(ctx, adminTicket.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = w.svc.Ticket(ctx, own.ID)
	assert.NoError(t, err)

	w.signIn(t, admin.Email, "admin123")
	visible, err = w.svc.Visible(ctx)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	amended, err := w.svc.Amend(ctx, own.ID, domain.TicketPatch{Urgency: domain.Set(domain.TicketUrgencyUrgent)})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketUrgencyUrgent, amended.Urgency)
}

func TestNotificationServiceEmitsNotices(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	var notices []Notice
	core, logs := observer.New(zap.InfoLevel)
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{WebhookURL: "http://localhost/hook"}, func(n Notice) {
		notices = append(notices, n)
	}).RegisterHandlers()

	store := NewTicketStore(ctx, TicketStoreDependencies{
		Repo:       repository.NewTicketRepository(persistence.NewMemory(), ""),
		Dispatcher: dispatcher,
	})
	ticket, _ := store.Create(ctx, networkT)
	_, _ = store.Update(ctx, ticket.ID, domain.TicketPatch{Status: domain.Set(domain.TicketStatusInProgress)})

	sessions := newSessions(t, persistence.NewMemory(), dispatcher)
	_, _ = sessions.SignIn(ctx, "nobody@example.com", "nope")

	require.Len(t, notices, 3)
	assert.Equal(t, Notice{Level: "success", Message: "Ticket created successfully"}, notices[0])
	assert.Equal(t, "Ticket status changed to InProgress", notices[1].Message)
	assert.Equal(t, "error", notices[2].Level)

	webhook := logs.FilterMessage("webhook notice (log only)").All()
	require.Len(t, webhook, 2, "created and status change")
	assert.Equal(t, "http://localhost/hook", webhook[0].ContextMap()["url"])
	assert.Empty(t, logs.FilterMessage("email notice (log only)").All())
}
