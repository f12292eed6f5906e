package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

type restorable interface {
	snapshot() func()
}

type inTxKey struct{}

// memTx emulates transactional rollback by restoring store snapshots.
type memTx struct {
	stores     []restorable
	commits    int
	rollbacks  int
	savepoints int
}

func newMemTx(stores ...restorable) *memTx {
	return &memTx{stores: stores}
}

func (m *memTx) capture() func() {
	restores := make([]func(), 0, len(m.stores))
	for _, store := range m.stores {
		restores = append(restores, store.snapshot())
	}
	return func() {
		for _, restore := range restores {
			restore()
		}
	}
}

func (m *memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}
	restore := m.capture()
	if err := fn(context.WithValue(ctx, inTxKey{}, true)); err != nil {
		restore()
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

func (m *memTx) WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	m.savepoints++
	restore := m.capture()
	if err := fn(ctx); err != nil {
		restore()
		return err
	}
	return nil
}

type downwardKey struct {
	evaluatorID string
	employeeID  string
	periodID    string
	wbsItemID   string
	evalType    models.DownwardEvaluationType
}

func keyOf(e *models.DownwardEvaluation) downwardKey {
	return downwardKey{e.EvaluatorID, e.EmployeeID, e.PeriodID, e.WbsItemID, e.EvaluationType}
}

type memDownwardStore struct {
	mu           sync.Mutex
	records      map[string]*models.DownwardEvaluation
	order        []string
	seq          int
	createErrs   map[string]error
	completeErrs map[string]error
	listErr      error
	lockCalls    int
}

func newMemDownwardStore() *memDownwardStore {
	return &memDownwardStore{
		records:      map[string]*models.DownwardEvaluation{},
		createErrs:   map[string]error{},
		completeErrs: map[string]error{},
	}
}

func copyEval(e *models.DownwardEvaluation) *models.DownwardEvaluation {
	c := *e
	if e.Content != nil {
		v := *e.Content
		c.Content = &v
	}
	return &c
}

func (s *memDownwardStore) snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make(map[string]*models.DownwardEvaluation, len(s.records))
	for id, e := range s.records {
		records[id] = copyEval(e)
	}
	order := append([]string(nil), s.order...)
	seq := s.seq
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.records = records
		s.order = order
		s.seq = seq
	}
}

// seed stores a record as-is and returns its id.
func (s *memDownwardStore) seed(e models.DownwardEvaluation) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if e.ID == "" {
		e.ID = fmt.Sprintf("eval-%d", s.seq)
	}
	s.records[e.ID] = copyEval(&e)
	s.order = append(s.order, e.ID)
	return e.ID
}

func (s *memDownwardStore) get(id string) *models.DownwardEvaluation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.records[id]; ok {
		return copyEval(e)
	}
	return nil
}

func (s *memDownwardStore) CreateIfAbsent(_ context.Context, eval *models.DownwardEvaluation) (bool, error) {
	if err := s.createErrs[eval.WbsItemID]; err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if existing.DeletedAt == nil && keyOf(existing) == keyOf(eval) {
			return false, nil
		}
	}
	s.seq++
	if eval.ID == "" {
		eval.ID = fmt.Sprintf("eval-%d", s.seq)
	}
	eval.CreatedAt = time.Now().UTC()
	s.records[eval.ID] = copyEval(eval)
	s.order = append(s.order, eval.ID)
	return true, nil
}

func (s *memDownwardStore) FindByID(_ context.Context, id string) (*models.DownwardEvaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[id]
	if !ok || e.DeletedAt != nil {
		return nil, sql.ErrNoRows
	}
	return copyEval(e), nil
}

func (s *memDownwardStore) FindByIDForUpdate(ctx context.Context, id string) (*models.DownwardEvaluation, error) {
	return s.FindByID(ctx, id)
}

func (s *memDownwardStore) List(_ context.Context, filter models.DownwardEvaluationFilter) ([]models.DownwardEvaluation, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.DownwardEvaluation
	for _, id := range s.order {
		e := s.records[id]
		if e.DeletedAt != nil {
			continue
		}
		if filter.EvaluatorID != "" && e.EvaluatorID != filter.EvaluatorID {
			continue
		}
		if filter.EmployeeID != "" && e.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.PeriodID != "" && e.PeriodID != filter.PeriodID {
			continue
		}
		if filter.EvaluationType != "" && e.EvaluationType != filter.EvaluationType {
			continue
		}
		if filter.WbsItemID != "" && e.WbsItemID != filter.WbsItemID {
			continue
		}
		if filter.IsCompleted != nil && e.IsCompleted != *filter.IsCompleted {
			continue
		}
		out = append(out, *copyEval(e))
	}
	return out, nil
}

func (s *memDownwardStore) ListForUpdate(ctx context.Context, filter models.DownwardEvaluationFilter) ([]models.DownwardEvaluation, error) {
	s.lockCalls++
	return s.List(ctx, filter)
}

func (s *memDownwardStore) UpdateContent(_ context.Context, eval *models.DownwardEvaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[eval.ID]
	if !ok || e.DeletedAt != nil || e.IsCompleted {
		return sql.ErrNoRows
	}
	s.records[eval.ID] = copyEval(eval)
	return nil
}

func (s *memDownwardStore) MarkCompleted(_ context.Context, id, actorID string, at time.Time) error {
	if err := s.completeErrs[id]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[id]
	if !ok || e.DeletedAt != nil {
		return sql.ErrNoRows
	}
	e.IsCompleted = true
	e.CompletedAt = &at
	e.UpdatedBy = &actorID
	return nil
}

func (s *memDownwardStore) Reset(_ context.Context, id, actorID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[id]
	if !ok || e.DeletedAt != nil {
		return sql.ErrNoRows
	}
	e.Content = nil
	e.Score.Valid = false
	e.IsCompleted = false
	e.CompletedAt = nil
	e.UpdatedBy = &actorID
	e.UpdatedAt = at
	return nil
}

func (s *memDownwardStore) SoftDelete(_ context.Context, id, actorID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[id]
	if !ok || e.DeletedAt != nil {
		return false, nil
	}
	e.DeletedAt = &at
	e.UpdatedBy = &actorID
	return true, nil
}

type stubAssignments struct {
	items []models.WbsAssignment
	err   error
}

func (s *stubAssignments) ListByEmployee(_ context.Context, periodID, employeeID string) ([]models.WbsAssignment, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.WbsAssignment
	for _, a := range s.items {
		if a.PeriodID == periodID && a.EmployeeID == employeeID && a.DeletedAt == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

type stubDirectory struct {
	evaluators map[models.DownwardEvaluationType][]string
	wbsItems   map[string][]string
}

func (s *stubDirectory) Evaluators(_ context.Context, _, _ string, evaluatorType models.DownwardEvaluationType) ([]string, error) {
	return append([]string(nil), s.evaluators[evaluatorType]...), nil
}

func (s *stubDirectory) WbsItemsForEvaluator(_ context.Context, _, _, evaluatorID string, _ models.DownwardEvaluationType) ([]string, error) {
	return append([]string(nil), s.wbsItems[evaluatorID]...), nil
}

type approvalKey struct {
	periodID   string
	employeeID string
	stage      models.EvaluationStage
}

type memApprovals struct {
	mu        sync.Mutex
	rows      map[approvalKey]*models.StepApproval
	seq       int
	locks     int
	upsertErr error
}

func newMemApprovals() *memApprovals {
	return &memApprovals{rows: map[approvalKey]*models.StepApproval{}}
}

func (s *memApprovals) snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make(map[approvalKey]*models.StepApproval, len(s.rows))
	for k, v := range s.rows {
		c := *v
		rows[k] = &c
	}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows = rows
	}
}

func (s *memApprovals) status(periodID, employeeID string, stage models.EvaluationStage) models.StepApprovalStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[approvalKey{periodID, employeeID, stage}]; ok {
		return row.Status
	}
	return ""
}

func (s *memApprovals) set(approval models.StepApproval) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if approval.ID == "" {
		approval.ID = fmt.Sprintf("sa-%d", s.seq)
	}
	s.rows[approvalKey{approval.PeriodID, approval.EmployeeID, approval.Stage}] = &approval
}

func (s *memApprovals) Find(_ context.Context, periodID, employeeID string, stage models.EvaluationStage) (*models.StepApproval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[approvalKey{periodID, employeeID, stage}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *row
	return &c, nil
}

func (s *memApprovals) LockForUpdate(_ context.Context, periodID, employeeID string, stage models.EvaluationStage) (*models.StepApproval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks++
	key := approvalKey{periodID, employeeID, stage}
	row, ok := s.rows[key]
	if !ok {
		s.seq++
		row = &models.StepApproval{ID: fmt.Sprintf("sa-%d", s.seq), PeriodID: periodID, EmployeeID: employeeID, Stage: stage, Status: models.StepStatusPending}
		s.rows[key] = row
	}
	c := *row
	return &c, nil
}

func (s *memApprovals) ListByEmployee(_ context.Context, periodID, employeeID string) ([]models.StepApproval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StepApproval
	for k, v := range s.rows {
		if k.periodID == periodID && k.employeeID == employeeID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stage < out[j].Stage })
	return out, nil
}

func (s *memApprovals) Upsert(_ context.Context, approval *models.StepApproval) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if approval.ID == "" {
		s.seq++
		approval.ID = fmt.Sprintf("sa-%d", s.seq)
	}
	approval.UpdatedAt = time.Now().UTC()
	c := *approval
	s.rows[approvalKey{approval.PeriodID, approval.EmployeeID, approval.Stage}] = &c
	return nil
}

type memRevisions struct {
	mu         sync.Mutex
	requests   map[string]*models.RevisionRequest
	recipients []*models.RevisionRecipient
	seq        int
	createErr  error
}

func newMemRevisions() *memRevisions {
	return &memRevisions{requests: map[string]*models.RevisionRequest{}}
}

func (s *memRevisions) snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	requests := make(map[string]*models.RevisionRequest, len(s.requests))
	for k, v := range s.requests {
		c := *v
		requests[k] = &c
	}
	recipients := make([]*models.RevisionRecipient, 0, len(s.recipients))
	for _, r := range s.recipients {
		c := *r
		recipients = append(recipients, &c)
	}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.requests = requests
		s.recipients = recipients
	}
}

func (s *memRevisions) CreateRequest(_ context.Context, req *models.RevisionRequest) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if req.ID == "" {
		req.ID = fmt.Sprintf("req-%d", s.seq)
	}
	stored := *req
	stored.Recipients = nil
	s.requests[req.ID] = &stored
	for i := range req.Recipients {
		s.seq++
		req.Recipients[i].ID = fmt.Sprintf("row-%d", s.seq)
		req.Recipients[i].RevisionRequestID = req.ID
		c := req.Recipients[i]
		s.recipients = append(s.recipients, &c)
	}
	return nil
}

func (s *memRevisions) FindRequest(_ context.Context, id string) (*models.RevisionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *req
	for _, r := range s.recipients {
		if r.RevisionRequestID == id {
			c.Recipients = append(c.Recipients, *r)
		}
	}
	return &c, nil
}

func (s *memRevisions) recipient(requestID, recipientID string) *models.RevisionRecipient {
	for _, r := range s.recipients {
		if r.RevisionRequestID == requestID && r.RecipientID == recipientID && r.DeletedAt == nil {
			return r
		}
	}
	return nil
}

func (s *memRevisions) FindRecipientForUpdate(_ context.Context, requestID, recipientID string) (*models.RevisionRecipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.recipient(requestID, recipientID)
	if r == nil {
		return nil, sql.ErrNoRows
	}
	c := *r
	return &c, nil
}

func (s *memRevisions) byRowID(id string) *models.RevisionRecipient {
	for _, r := range s.recipients {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *memRevisions) MarkRead(_ context.Context, rowID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.byRowID(rowID)
	if r == nil || r.IsRead {
		return false, nil
	}
	r.IsRead = true
	r.ReadAt = &at
	return true, nil
}

func (s *memRevisions) MarkCompleted(_ context.Context, rowID, comment string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.byRowID(rowID)
	if r == nil || r.IsCompleted {
		return sql.ErrNoRows
	}
	r.IsCompleted = true
	r.CompletedAt = &at
	r.ResponseComment = &comment
	if !r.IsRead {
		r.IsRead = true
		r.ReadAt = &at
	}
	return nil
}

func (s *memRevisions) CountOutstanding(_ context.Context, periodID, employeeID string, step models.EvaluationStage) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.recipients {
		req := s.requests[r.RevisionRequestID]
		if req.PeriodID == periodID && req.EmployeeID == employeeID && req.Step == step && !r.IsCompleted && r.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

func (s *memRevisions) ListForRecipient(_ context.Context, filter models.RevisionRecipientFilter) ([]models.RecipientRevision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RecipientRevision
	for _, r := range s.recipients {
		req := s.requests[r.RevisionRequestID]
		if filter.RecipientID != "" && r.RecipientID != filter.RecipientID {
			continue
		}
		if filter.PeriodID != "" && req.PeriodID != filter.PeriodID {
			continue
		}
		if filter.Step != "" && req.Step != filter.Step {
			continue
		}
		if filter.IsRead != nil && r.IsRead != *filter.IsRead {
			continue
		}
		if filter.IsCompleted != nil && r.IsCompleted != *filter.IsCompleted {
			continue
		}
		out = append(out, models.RecipientRevision{
			RevisionRecipient: *r,
			PeriodID:          req.PeriodID,
			EmployeeID:        req.EmployeeID,
			Step:              req.Step,
			Comment:           req.Comment,
			RequestedBy:       req.RequestedBy,
			RequestedAt:       req.RequestedAt,
		})
	}
	return out, nil
}

func (s *memRevisions) CountUnread(_ context.Context, recipientID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.recipients {
		if r.RecipientID == recipientID && !r.IsRead && !r.IsCompleted {
			count++
		}
	}
	return count, nil
}

type recordedActivity struct {
	entry    models.ActivityLogEntry
	metadata interface{}
}

type recordingActivity struct {
	mu      sync.Mutex
	entries []recordedActivity
	err     error
}

func (r *recordingActivity) Record(_ context.Context, entry *models.ActivityLogEntry, metadata interface{}) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, recordedActivity{entry: *entry, metadata: metadata})
	return nil
}

func (r *recordingActivity) last() recordedActivity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[len(r.entries)-1]
}
