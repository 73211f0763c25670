package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// In-memory repository stubs backing the service tests. They mirror the
// mongo implementations closely enough for use-case level assertions.

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	// findCalls counts FindByID hits so cache tests can assert read-through
	// behaviour.
	findCalls int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	clone := *user
	r.users[user.ID] = &clone
	return user, nil
}

func (r *stubUserRepo) SetPermissions(_ context.Context, userID string, perms domain.PermissionSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Permissions = perms
	return nil
}

func (r *stubUserRepo) UpdateTimezone(_ context.Context, userID, zone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Timezone = zone
	return nil
}

type stubCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[string]*domain.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.customers[c.ID] = &clone
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	clone := *c
	r.customers[c.ID] = &clone
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) List(_ context.Context, filter ports.CustomerListFilter) ([]*domain.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Customer
	for _, c := range r.customers {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, filter.Page, filter.Limit), int64(len(out)), nil
}

type stubJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*domain.Job
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[string]*domain.Job)}
}

func cloneJob(j *domain.Job) *domain.Job {
	clone := *j
	if j.Recurrence != nil {
		rec := *j.Recurrence
		clone.Recurrence = &rec
	}
	return &clone
}

func (r *stubJobRepo) Create(_ context.Context, j *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = cloneJob(j)
	return nil
}

func (r *stubJobRepo) FindByID(_ context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(j), nil
}

func (r *stubJobRepo) Update(_ context.Context, j *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[j.ID]; !ok {
		return domain.ErrJobNotFound
	}
	r.jobs[j.ID] = cloneJob(j)
	return nil
}

func (r *stubJobRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *stubJobRepo) List(_ context.Context, filter ports.JobListFilter) ([]*domain.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Job
	for _, j := range r.jobs {
		if filter.CustomerID != "" && j.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && string(j.Status) != filter.Status {
			continue
		}
		out = append(out, cloneJob(j))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r *stubJobRepo) ListInRange(_ context.Context, from, to time.Time) ([]*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Job
	for _, j := range r.jobs {
		if j.ScheduledEnd.Before(from) || j.ScheduledStart.After(to) {
			continue
		}
		out = append(out, cloneJob(j))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubJobRepo) ListRecurring(_ context.Context) ([]*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Job
	for _, j := range r.jobs {
		if j.IsRecurring() {
			out = append(out, cloneJob(j))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubOccurrenceRepo struct {
	mu    sync.Mutex
	byJob map[string][]*domain.Occurrence
}

func newStubOccurrenceRepo() *stubOccurrenceRepo {
	return &stubOccurrenceRepo{byJob: make(map[string][]*domain.Occurrence)}
}

func (r *stubOccurrenceRepo) ReplaceForJob(_ context.Context, jobID string, occurrences []*domain.Occurrence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(occurrences) == 0 {
		delete(r.byJob, jobID)
		return nil
	}
	out := make([]*domain.Occurrence, 0, len(occurrences))
	for _, o := range occurrences {
		clone := *o
		out = append(out, &clone)
	}
	r.byJob[jobID] = out
	return nil
}

func (r *stubOccurrenceRepo) InsertMany(_ context.Context, occurrences []*domain.Occurrence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range occurrences {
		clone := *o
		r.byJob[o.JobID] = append(r.byJob[o.JobID], &clone)
	}
	return nil
}

func (r *stubOccurrenceRepo) ListInRange(_ context.Context, from, to time.Time) ([]*domain.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Occurrence
	for _, occs := range r.byJob {
		for _, o := range occs {
			if o.End.Before(from) || o.Start.After(to) {
				continue
			}
			clone := *o
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *stubOccurrenceRepo) DeleteForJob(_ context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byJob, jobID)
	return nil
}

func (r *stubOccurrenceRepo) count(jobID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byJob[jobID])
}

type stubInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*domain.Invoice
	seq      int64
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[string]*domain.Invoice)}
}

func cloneInvoice(i *domain.Invoice) *domain.Invoice {
	clone := *i
	clone.LineItems = append([]domain.LineItem(nil), i.LineItems...)
	return &clone
}

func (r *stubInvoiceRepo) Create(_ context.Context, i *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[i.ID] = cloneInvoice(i)
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id string) (*domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	return cloneInvoice(i), nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, i *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[i.ID]; !ok {
		return domain.ErrInvoiceNotFound
	}
	r.invoices[i.ID] = cloneInvoice(i)
	return nil
}

func (r *stubInvoiceRepo) List(_ context.Context, filter ports.InvoiceListFilter) ([]*domain.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Invoice
	for _, i := range r.invoices {
		if filter.CustomerID != "" && i.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && string(i.Status) != filter.Status {
			continue
		}
		out = append(out, cloneInvoice(i))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return page(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r *stubInvoiceRepo) NextNumber(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

type stubSettingsRepo struct {
	mu       sync.Mutex
	settings *domain.Settings
}

func (r *stubSettingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, domain.ErrSettingsNotFound
	}
	clone := *r.settings
	return &clone, nil
}

func (r *stubSettingsRepo) Upsert(_ context.Context, s *domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.settings = &clone
	return nil
}

// stubPermissionCache records cache traffic so tests can assert read-through
// and invalidation behaviour.
type stubPermissionCache struct {
	mu          sync.Mutex
	entries     map[string]domain.PermissionSet
	gets, sets  int
	invalidates int
	getErr      error
}

func newStubPermissionCache() *stubPermissionCache {
	return &stubPermissionCache{entries: make(map[string]domain.PermissionSet)}
}

func (c *stubPermissionCache) Get(_ context.Context, userID string) (domain.PermissionSet, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	perms, ok := c.entries[userID]
	return perms, ok, nil
}

func (c *stubPermissionCache) Set(_ context.Context, userID string, perms domain.PermissionSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[userID] = perms
	return nil
}

func (c *stubPermissionCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidates++
	delete(c.entries, userID)
	return nil
}

// stubRegenerator records which jobs were queued for occurrence regeneration.
type stubRegenerator struct {
	mu   sync.Mutex
	jobs []string
}

func (r *stubRegenerator) EnqueueRegenerate(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, jobID)
}

func (r *stubRegenerator) queued() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.jobs...)
}

func page[T any](items []T, pageNum, limit int) []T {
	if pageNum < 1 {
		pageNum = 1
	}
	if limit <= 0 {
		return items
	}
	start := (pageNum - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
