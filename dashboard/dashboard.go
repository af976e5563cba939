// Package dashboard builds the admin snapshot: the report feed, counters, map markers,
// gallery, rehab board and aid logs.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sajhasahayog/relief-api/aid"
	"github.com/sajhasahayog/relief-api/events"
	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/rehab"
)

// Stats are the dashboard counters. Dispatched includes in-progress reports.
type Stats struct {
	Pending    int `json:"pending"`
	Critical   int `json:"critical"`
	Dispatched int `json:"dispatched"`
	Resolved   int `json:"resolved"`
	Total      int `json:"total"`
}

// ComputeStats counts reports by status
func ComputeStats(reports []models.Report) Stats {
	st := Stats{Total: len(reports)}
	for _, r := range reports {
		switch r.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusDispatched, models.StatusInProgress:
			st.Dispatched++
		case models.StatusResolved:
			st.Resolved++
		}
		if r.IsCritical() {
			st.Critical++
		}
	}
	return st
}

// Gallery returns the reports that carry a photo
func Gallery(reports []models.Report) []models.Report {
	out := make([]models.Report, 0)
	for _, r := range reports {
		if r.HasImage() {
			out = append(out, r)
		}
	}
	return out
}

// MarkerCategory picks the pin style on the admin map
type MarkerCategory string

// Marker categories
const (
	MarkerResolved   MarkerCategory = "resolved"
	MarkerInProgress MarkerCategory = "in_progress"
	MarkerDispatched MarkerCategory = "dispatched"
	MarkerMissing    MarkerCategory = "missing"
	MarkerCritical   MarkerCategory = "critical"
	MarkerDamage     MarkerCategory = "damage"
)

// CategoryOf returns the marker category for r. Status wins over kind.
func CategoryOf(r models.Report) MarkerCategory {
	switch r.Status {
	case models.StatusResolved:
		return MarkerResolved
	case models.StatusInProgress:
		return MarkerInProgress
	case models.StatusDispatched:
		return MarkerDispatched
	}
	if r.Type == models.KindMissing {
		return MarkerMissing
	}
	if r.Critical {
		return MarkerCritical
	}
	return MarkerDamage
}

// Marker is one pin on the admin map
type Marker struct {
	models.Report
	Category MarkerCategory `json:"category"`
}

// Markers converts reports into map pins
func Markers(reports []models.Report) []Marker {
	out := make([]Marker, 0, len(reports))
	for _, r := range reports {
		out = append(out, Marker{Report: r, Category: CategoryOf(r)})
	}
	return out
}

// Snapshot is everything the admin views render from. It is never mutated once built.
type Snapshot struct {
	Reports     []models.Report    `json:"reports"`
	Stats       Stats              `json:"stats"`
	Gallery     []models.Report    `json:"gallery"`
	RehabCases  []models.RehabCase `json:"rehab_cases"`
	RehabStats  models.RehabStats  `json:"rehab_stats"`
	AidLogs     []models.AidLog    `json:"aid_logs"`
	AidTotals   []models.AidTotal  `json:"aid_totals"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Build derives every counter and view from the three lists
func Build(reports []models.Report, cases []models.RehabCase, logs []models.AidLog, at time.Time) *Snapshot {
	if reports == nil {
		reports = []models.Report{}
	}
	if cases == nil {
		cases = []models.RehabCase{}
	}
	if logs == nil {
		logs = []models.AidLog{}
	}
	return &Snapshot{
		Reports:     reports,
		Stats:       ComputeStats(reports),
		Gallery:     Gallery(reports),
		RehabCases:  cases,
		RehabStats:  rehab.Stats(cases),
		AidLogs:     logs,
		AidTotals:   aid.Totals(logs),
		GeneratedAt: at,
	}
}

// ReportLister lists every report newest first
type ReportLister interface {
	List(ctx context.Context) ([]models.Report, error)
}

// RehabLister lists every rehab case with its report title
type RehabLister interface {
	List(ctx context.Context) ([]models.RehabCase, error)
}

// AidLister lists every aid log newest first
type AidLister interface {
	List(ctx context.Context) ([]models.AidLog, error)
}

// Aggregator caches the latest snapshot and keeps it current from domain events.
// List fetches run outside the lock. Events handled while a fetch is in flight are
// journaled and replayed onto the fetched lists before they are installed.
type Aggregator struct {
	Reports ReportLister
	Rehab   RehabLister
	Aid     AidLister
	Now     func() time.Time
	// RefetchTimeout bounds the list refetches triggered by events
	RefetchTimeout time.Duration

	mu   sync.Mutex
	snap *Snapshot
	// gen counts handled events
	gen      uint64
	inflight int
	journal  []journaled
	// installed holds, per list, the generation the installed copy was fetched at
	installed [3]uint64
}

type journaled struct {
	gen uint64
	e   events.Event
}

const (
	listReports = iota
	listCases
	listLogs
)

// maxRefreshAttempts bounds how often a full refresh restarts because a case or aid log
// was inserted while it was fetching
const maxRefreshAttempts = 3

type fetched struct {
	reports, cases, logs bool
	reportList           []models.Report
	caseList             []models.RehabCase
	logList              []models.AidLog
}

// NewAggregator returns an aggregator with an empty cache
func NewAggregator(reports ReportLister, cases RehabLister, logs AidLister) *Aggregator {
	return &Aggregator{
		Reports:        reports,
		Rehab:          cases,
		Aid:            logs,
		RefetchTimeout: 10 * time.Second,
	}
}

// Snapshot returns the cached snapshot, fetching everything first when refresh is set or
// nothing is cached yet
func (a *Aggregator) Snapshot(ctx context.Context, refresh bool) (*Snapshot, error) {
	if !refresh {
		a.mu.Lock()
		snap := a.snap
		a.mu.Unlock()
		if snap != nil {
			return snap, nil
		}
	}
	return a.Refresh(ctx)
}

// Refresh refetches all three lists and replaces the cache. Report and rehab status events
// handled during the fetch are replayed onto the result, so it never rolls them back.
func (a *Aggregator) Refresh(ctx context.Context) (*Snapshot, error) {
	for attempt := 1; ; attempt++ {
		start := a.begin()
		f, err := a.fetchAll(ctx)

		a.mu.Lock()
		if err != nil {
			a.finishLocked()
			a.mu.Unlock()
			return nil, err
		}
		if attempt < maxRefreshAttempts && a.insertedSinceLocked(start) {
			a.finishLocked()
			a.mu.Unlock()
			continue
		}
		if attempt == maxRefreshAttempts && a.insertedSinceLocked(start) {
			zap.S().Warnw("dashboard refresh kept racing inserts, installing the last fetch", "attempts", attempt)
		}
		snap := a.installLocked(start, f)
		a.finishLocked()
		a.mu.Unlock()
		return snap, nil
	}
}

func (a *Aggregator) fetchAll(ctx context.Context) (fetched, error) {
	f := fetched{reports: true, cases: true, logs: true}
	var err error
	if f.reportList, err = a.Reports.List(ctx); err != nil {
		return f, errors.Wrap(err, "failed to list reports")
	}
	if f.caseList, err = a.Rehab.List(ctx); err != nil {
		return f, errors.Wrap(err, "failed to list rehab cases")
	}
	if f.logList, err = a.Aid.List(ctx); err != nil {
		return f, errors.Wrap(err, "failed to list aid logs")
	}
	return f, nil
}

// Handle applies a domain event to the cached snapshot. Report and rehab status events
// patch the cached lists; rehab creation and aid logging refetch their list. Every path
// rebuilds the counters with Build.
func (a *Aggregator) Handle(e events.Event) {
	a.mu.Lock()
	a.gen++
	if a.inflight > 0 {
		a.journal = append(a.journal, journaled{gen: a.gen, e: e})
	}
	cur := a.snap
	if cur == nil {
		a.mu.Unlock()
		return
	}

	var f fetched
	switch {
	case e.Report != nil:
		a.snap = Build(patchReport(cur.Reports, *e.Report), cur.RehabCases, cur.AidLogs, a.now())
	case e.Kind == events.RehabAdvanced && e.RehabCase != nil:
		a.snap = Build(cur.Reports, patchCase(cur.RehabCases, *e.RehabCase), cur.AidLogs, a.now())
	case e.Kind == events.RehabCreated:
		f.cases = true
	case e.Kind == events.AidLogged:
		f.logs = true
	}
	if !f.cases && !f.logs {
		a.mu.Unlock()
		return
	}
	a.inflight++
	start := a.gen
	a.mu.Unlock()

	ctx, cancel := a.refetchContext()
	defer cancel()
	var err error
	if f.cases {
		f.caseList, err = a.Rehab.List(ctx)
	} else {
		f.logList, err = a.Aid.List(ctx)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.finishLocked()
	if err != nil {
		zap.S().Errorw("failed to refetch dashboard list, dropping cached dashboard", "event", e.Kind, "error", err)
		a.snap = nil
		return
	}
	a.installLocked(start, f)
}

func (a *Aggregator) begin() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inflight++
	return a.gen
}

func (a *Aggregator) finishLocked() {
	a.inflight--
	if a.inflight == 0 {
		a.journal = nil
	}
}

// insertedSinceLocked reports whether a case or aid log was inserted after start. Fetched
// lists cannot be patched for those, only refetched.
func (a *Aggregator) insertedSinceLocked(start uint64) bool {
	for _, j := range a.journal {
		if j.gen > start && (j.e.Kind == events.RehabCreated || j.e.Kind == events.AidLogged) {
			return true
		}
	}
	return false
}

// installLocked merges lists fetched at generation start into the cache. A list already
// installed by a fetch that started later is kept. Partial fetches are dropped when
// nothing is cached.
func (a *Aggregator) installLocked(start uint64, f fetched) *Snapshot {
	var reports []models.Report
	var cases []models.RehabCase
	var logs []models.AidLog
	if a.snap != nil {
		reports, cases, logs = a.snap.Reports, a.snap.RehabCases, a.snap.AidLogs
	} else if !(f.reports && f.cases && f.logs) {
		return nil
	}

	take := func(list int, has bool) bool {
		if !has || (a.snap != nil && start < a.installed[list]) {
			return false
		}
		a.installed[list] = start
		return true
	}
	takeReports, takeCases, takeLogs := take(listReports, f.reports), take(listCases, f.cases), take(listLogs, f.logs)
	if takeReports {
		reports = f.reportList
	}
	if takeCases {
		cases = f.caseList
	}
	if takeLogs {
		logs = f.logList
	}

	for _, j := range a.journal {
		if j.gen <= start {
			continue
		}
		switch {
		case j.e.Report != nil && takeReports:
			reports = patchReport(reports, *j.e.Report)
		case j.e.Kind == events.RehabAdvanced && j.e.RehabCase != nil && takeCases:
			cases = patchCase(cases, *j.e.RehabCase)
		}
	}

	a.snap = Build(reports, cases, logs, a.now())
	return a.snap
}

func (a *Aggregator) refetchContext() (context.Context, context.CancelFunc) {
	timeout := a.RefetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

// patchReport returns a new list with r replacing the report of the same id, or r
// prepended when it is new
func patchReport(reports []models.Report, r models.Report) []models.Report {
	out := make([]models.Report, 0, len(reports)+1)
	replaced := false
	for _, cur := range reports {
		if cur.ID == r.ID && cur.Type == r.Type {
			out = append(out, r)
			replaced = true
			continue
		}
		out = append(out, cur)
	}
	if !replaced {
		out = append([]models.Report{r}, out...)
	}
	return out
}

func patchCase(cases []models.RehabCase, rc models.RehabCase) []models.RehabCase {
	out := make([]models.RehabCase, len(cases))
	copy(out, cases)
	for i := range out {
		if out[i].ID == rc.ID {
			if rc.DamageReportTitle == "" {
				rc.DamageReportTitle = out[i].DamageReportTitle
			}
			out[i] = rc
		}
	}
	return out
}
