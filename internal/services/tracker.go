package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vytor/linguaflash/internal/catalog"
	"github.com/vytor/linguaflash/internal/errors"
	"github.com/vytor/linguaflash/internal/logger"
	"github.com/vytor/linguaflash/internal/metrics"
	"github.com/vytor/linguaflash/internal/models"
	"github.com/vytor/linguaflash/internal/persistence"
	"github.com/vytor/linguaflash/internal/progress"
)

const (
	minDailyGoalMinutes = 1
	maxDailyGoalMinutes = 24 * 60
	minWeeklyGoalDays   = 1
	maxWeeklyGoalDays   = 7
)

// Tracker owns the live progress documents and applies completion events to them.
type Tracker interface {
	Snapshot(ctx context.Context, userID string) (*models.UserProgress, error)
	CompleteLesson(ctx context.Context, userID, unitID, lessonID string, minutes int) (*models.CompletionResult, error)
	CompleteQuiz(ctx context.Context, userID, unitID, lessonID string, score, minutes int) (*models.CompletionResult, error)
	CompleteRoleplay(ctx context.Context, userID, unitID, lessonID string, minutes int) (*models.CompletionResult, error)
	CompleteFinalQuiz(ctx context.Context, userID, unitID string, score, minutes int) (*models.CompletionResult, error)
	CompleteFinalRoleplay(ctx context.Context, userID, unitID string, minutes int) (*models.CompletionResult, error)
	Reset(ctx context.Context, userID string) error
	UnitOverview(ctx context.Context, userID, unitID string) (*models.UnitOverview, error)
	Goals(ctx context.Context, userID string) (*models.GoalsView, error)
	SetGoals(ctx context.Context, userID string, dailyMinutes, weeklyDays int) (*models.GoalsView, error)
	DecayStreak(ctx context.Context, userID string) (bool, error)
}

type TrackerOption func(*tracker)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) TrackerOption {
	return func(t *tracker) { t.clock = clock }
}

// WithLocation sets the time zone calendar days are counted in.
func WithLocation(loc *time.Location) TrackerOption {
	return func(t *tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithUnlockEnforcement rejects completions of locked activities.
func WithUnlockEnforcement(enabled bool) TrackerOption {
	return func(t *tracker) { t.enforceUnlock = enabled }
}

func WithMetrics(m *metrics.Metrics) TrackerOption {
	return func(t *tracker) { t.metrics = m }
}

// DefaultCacheSize bounds the snapshots kept in memory.
const DefaultCacheSize = 10000

// WithCacheSize sets how many saved snapshots stay cached. Non-positive keeps the default.
func WithCacheSize(n int) TrackerOption {
	return func(t *tracker) {
		if n > 0 {
			t.cacheSize = n
		}
	}
}

// userState serializes one user's events. It lives only while some call
// holds or waits for it.
type userState struct {
	mu   sync.Mutex
	refs int
}

type tracker struct {
	catalog       *catalog.Catalog
	store         *persistence.Adapter
	metrics       *metrics.Metrics
	clock         func() time.Time
	loc           *time.Location
	enforceUnlock bool
	cacheSize     int

	// snapshots holds documents that match storage; unsaved holds the ones
	// whose last save failed and must not be evicted.
	snapshots *lru.Cache

	mu      sync.Mutex
	users   map[string]*userState
	unsaved map[string]*models.UserProgress
}

// NewTracker creates a new Tracker
func NewTracker(cat *catalog.Catalog, store *persistence.Adapter, opts ...TrackerOption) Tracker {
	t := &tracker{
		catalog:   cat,
		store:     store,
		clock:     time.Now,
		loc:       time.Local,
		cacheSize: DefaultCacheSize,
		users:     map[string]*userState{},
		unsaved:   map[string]*models.UserProgress{},
	}
	for _, opt := range opts {
		opt(t)
	}
	// Only fails for a non-positive size, which WithCacheSize rules out.
	t.snapshots, _ = lru.New(t.cacheSize)
	return t
}

func (t *tracker) now() time.Time {
	return t.clock().In(t.loc)
}

// acquire locks the user's slot, creating it on first use.
func (t *tracker) acquire(userID string) *userState {
	t.mu.Lock()
	st, ok := t.users[userID]
	if !ok {
		st = &userState{}
		t.users[userID] = st
	}
	st.refs++
	t.mu.Unlock()

	st.mu.Lock()
	return st
}

// release unlocks the slot and forgets it once nobody else is waiting.
func (t *tracker) release(userID string, st *userState) {
	st.mu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	st.refs--
	if st.refs == 0 {
		delete(t.users, userID)
	}
}

func (t *tracker) cached(userID string) *models.UserProgress {
	t.mu.Lock()
	p, ok := t.unsaved[userID]
	t.mu.Unlock()
	if ok {
		return p
	}
	if v, ok := t.snapshots.Get(userID); ok {
		return v.(*models.UserProgress)
	}
	return nil
}

// remember caches p. Unsaved documents are pinned until a later save succeeds.
func (t *tracker) remember(userID string, p *models.UserProgress, saved bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if saved {
		delete(t.unsaved, userID)
		t.snapshots.Add(userID, p)
		return
	}
	t.unsaved[userID] = p
	t.snapshots.Remove(userID)
}

func (t *tracker) forget(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.unsaved, userID)
	t.snapshots.Remove(userID)
}

// load returns the live document, reading it from storage or initializing a
// new one when none is stored. A storage read failure is returned as is and
// nothing is written. Callers hold the user's slot.
func (t *tracker) load(ctx context.Context, userID string) (*models.UserProgress, error) {
	if p := t.cached(userID); p != nil {
		return p, nil
	}
	log := logger.FromContext(ctx)

	p, err := t.store.LoadProgress(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	saved := true
	if p == nil {
		log.Info("initializing progress: user_id=%s", userID)
		p = progress.Initialize(userID, t.catalog.FirstUnitID(), t.now())
		saved = t.store.SaveProgress(ctx, p)
	}
	t.remember(userID, p, saved)
	return p, nil
}

func requireUser(userID string) error {
	if userID == "" {
		return errors.NewBadRequestError("missing user id")
	}
	return nil
}

func (t *tracker) Snapshot(ctx context.Context, userID string) (*models.UserProgress, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	st := t.acquire(userID)
	defer t.release(userID, st)

	p, err := t.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// event is one completion applied to a loaded document.
type event struct {
	activity     string
	activityID   string
	activityType models.ActivityType
	unitID       string
	xp           int
	minutes      int
	badges       []string
	mark         func(p *models.UserProgress, now time.Time) *models.UserProgress
	locked       func(p *models.UserProgress) bool
	lockedErr    *errors.AppError
	nextLesson   *models.Lesson
}

// apply runs the shared completion pipeline: gate, mark, reward, record, persist.
func (t *tracker) apply(ctx context.Context, userID string, ev event) (*models.CompletionResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id":  userID,
		"activity": ev.activityID,
	})

	st := t.acquire(userID)
	defer t.release(userID, st)

	p, err := t.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if t.enforceUnlock && ev.locked != nil && ev.locked(p) {
		log.Debug("rejecting locked activity")
		return nil, ev.lockedErr
	}

	now := t.now()
	next := ev.mark(p, now)
	next = progress.AwardXP(next, ev.xp)
	next = progress.RecordActivity(next, ev.activityID, ev.activityType, ev.minutes, ev.xp, now)

	var newBadges []string
	for _, b := range ev.badges {
		if progress.HasBadge(next, b) {
			continue
		}
		next = progress.AwardBadge(next, b)
		newBadges = append(newBadges, b)
		t.metrics.BadgeAwarded(b)
	}

	next = progress.UpdateStreak(next, now)
	next = progress.RefreshUnitCompletion(t.catalog, next, ev.unitID)

	saved := t.store.SaveProgress(ctx, next)
	if !saved {
		log.Warn("progress kept in memory only")
	}
	t.remember(userID, next, saved)
	t.metrics.Completion(ev.activity, ev.xp)
	log.Info("activity completed: xp=%d, total_xp=%d, streak=%d", ev.xp, next.TotalXP, next.CurrentStreak)

	if newBadges == nil {
		newBadges = []string{}
	}
	return &models.CompletionResult{
		Progress:   next.Clone(),
		XPAwarded:  ev.xp,
		NewBadges:  newBadges,
		NextLesson: ev.nextLesson,
		Saved:      saved,
	}, nil
}

// lessonEvent validates the ids and minutes shared by the three lesson steps.
func (t *tracker) lessonEvent(userID, unitID, lessonID string, minutes, defaultMinutes int) (event, bool, error) {
	if err := requireUser(userID); err != nil {
		return event{}, false, err
	}
	if minutes < 0 {
		return event{}, false, errors.NewValidationError("minutes", "cannot be negative")
	}
	if minutes == 0 {
		minutes = defaultMinutes
	}
	u, ok := t.catalog.Unit(unitID)
	if !ok {
		return event{}, false, errors.NewNotFoundError("unit", unitID)
	}
	idx := u.LessonIndex(lessonID)
	if idx < 0 {
		return event{}, false, errors.NewNotFoundError("lesson", lessonID)
	}
	ev := event{
		unitID:  unitID,
		minutes: minutes,
		locked: func(p *models.UserProgress) bool {
			return !progress.IsLessonUnlocked(t.catalog, p, unitID, lessonID)
		},
		lockedErr:  errors.NewLockedError("lesson", lessonID),
		nextLesson: progress.NextLesson(t.catalog, unitID, lessonID),
	}
	return ev, idx == 0, nil
}

func activityID(parts ...string) string {
	return strings.Join(parts, "/")
}

func validateScore(score int) error {
	if score < 0 || score > progress.PerfectScore {
		return errors.NewValidationError("score", fmt.Sprintf("must be between 0 and %d", progress.PerfectScore))
	}
	return nil
}

func (t *tracker) CompleteLesson(ctx context.Context, userID, unitID, lessonID string, minutes int) (*models.CompletionResult, error) {
	logger.FromContext(ctx).Debug("completing lesson step: user_id=%s, unit=%s, lesson=%s", userID, unitID, lessonID)

	ev, first, err := t.lessonEvent(userID, unitID, lessonID, minutes, progress.MinutesLesson)
	if err != nil {
		return nil, err
	}
	ev.activity = string(models.ActivityLesson)
	ev.activityID = activityID(unitID, lessonID, "lesson")
	ev.activityType = models.ActivityLesson
	ev.xp = progress.XPLesson
	ev.mark = func(p *models.UserProgress, _ time.Time) *models.UserProgress {
		return progress.MarkLessonStep(p, unitID, lessonID, progress.XPLesson)
	}
	if first {
		ev.badges = []string{models.BadgeFirstLesson}
	}
	return t.apply(ctx, userID, ev)
}

func (t *tracker) CompleteQuiz(ctx context.Context, userID, unitID, lessonID string, score, minutes int) (*models.CompletionResult, error) {
	logger.FromContext(ctx).Debug("completing quiz step: user_id=%s, unit=%s, lesson=%s, score=%d", userID, unitID, lessonID, score)

	if err := validateScore(score); err != nil {
		return nil, err
	}
	ev, _, err := t.lessonEvent(userID, unitID, lessonID, minutes, progress.MinutesQuiz)
	if err != nil {
		return nil, err
	}
	xp := progress.QuizXP(score)
	ev.activity = string(models.ActivityQuiz)
	ev.activityID = activityID(unitID, lessonID, "quiz")
	ev.activityType = models.ActivityQuiz
	ev.xp = xp
	ev.mark = func(p *models.UserProgress, _ time.Time) *models.UserProgress {
		return progress.MarkQuizStep(p, unitID, lessonID, score, xp)
	}
	if score == progress.PerfectScore {
		ev.badges = []string{models.BadgeQuizMaster}
	}
	return t.apply(ctx, userID, ev)
}

func (t *tracker) CompleteRoleplay(ctx context.Context, userID, unitID, lessonID string, minutes int) (*models.CompletionResult, error) {
	logger.FromContext(ctx).Debug("completing roleplay step: user_id=%s, unit=%s, lesson=%s", userID, unitID, lessonID)

	ev, first, err := t.lessonEvent(userID, unitID, lessonID, minutes, progress.MinutesRoleplay)
	if err != nil {
		return nil, err
	}
	ev.activity = string(models.ActivityRoleplay)
	ev.activityID = activityID(unitID, lessonID, "roleplay")
	ev.activityType = models.ActivityRoleplay
	ev.xp = progress.XPRoleplay
	ev.mark = func(p *models.UserProgress, now time.Time) *models.UserProgress {
		return progress.MarkRoleplayStep(p, unitID, lessonID, progress.XPRoleplay, now)
	}
	if first {
		ev.badges = []string{models.BadgeConversationStarter}
	}
	return t.apply(ctx, userID, ev)
}

// finalEvent validates the ids and minutes shared by both unit finals.
func (t *tracker) finalEvent(userID, unitID string, minutes, defaultMinutes int) (event, error) {
	if err := requireUser(userID); err != nil {
		return event{}, err
	}
	if minutes < 0 {
		return event{}, errors.NewValidationError("minutes", "cannot be negative")
	}
	if minutes == 0 {
		minutes = defaultMinutes
	}
	if _, ok := t.catalog.Unit(unitID); !ok {
		return event{}, errors.NewNotFoundError("unit", unitID)
	}
	return event{unitID: unitID, minutes: minutes}, nil
}

func (t *tracker) CompleteFinalQuiz(ctx context.Context, userID, unitID string, score, minutes int) (*models.CompletionResult, error) {
	logger.FromContext(ctx).Debug("completing final quiz: user_id=%s, unit=%s, score=%d", userID, unitID, score)

	if err := validateScore(score); err != nil {
		return nil, err
	}
	ev, err := t.finalEvent(userID, unitID, minutes, progress.MinutesFinalQuiz)
	if err != nil {
		return nil, err
	}
	ev.activity = "final_quiz"
	ev.activityID = activityID(unitID, "final-quiz")
	ev.activityType = models.ActivityQuiz
	ev.xp = progress.FinalQuizXP(score)
	ev.mark = func(p *models.UserProgress, _ time.Time) *models.UserProgress {
		return progress.MarkFinalQuiz(p, unitID, score)
	}
	ev.locked = func(p *models.UserProgress) bool {
		return !progress.IsFinalQuizUnlocked(t.catalog, p, unitID)
	}
	ev.lockedErr = errors.NewLockedError("final quiz", unitID)
	if score == progress.PerfectScore {
		ev.badges = []string{models.BadgePerfectScore}
	}
	return t.apply(ctx, userID, ev)
}

func (t *tracker) CompleteFinalRoleplay(ctx context.Context, userID, unitID string, minutes int) (*models.CompletionResult, error) {
	logger.FromContext(ctx).Debug("completing final roleplay: user_id=%s, unit=%s", userID, unitID)

	ev, err := t.finalEvent(userID, unitID, minutes, progress.MinutesFinalRoleplay)
	if err != nil {
		return nil, err
	}
	ev.activity = "final_roleplay"
	ev.activityID = activityID(unitID, "final-roleplay")
	ev.activityType = models.ActivityRoleplay
	ev.xp = progress.XPFinalRoleplay
	ev.mark = func(p *models.UserProgress, _ time.Time) *models.UserProgress {
		return progress.MarkFinalRoleplay(p, unitID)
	}
	ev.locked = func(p *models.UserProgress) bool {
		return !progress.IsFinalRoleplayUnlocked(p, unitID)
	}
	ev.lockedErr = errors.NewLockedError("final roleplay", unitID)
	ev.badges = []string{models.BadgeWeekOneComplete}
	return t.apply(ctx, userID, ev)
}

// Reset drops the stored document and the cached snapshot.
func (t *tracker) Reset(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)
	log.Debug("resetting progress: user_id=%s", userID)

	if err := requireUser(userID); err != nil {
		return err
	}
	st := t.acquire(userID)
	defer t.release(userID, st)

	if err := t.store.Clear(ctx, userID); err != nil {
		return errors.NewInternalError(err)
	}
	t.forget(userID)
	log.Info("progress reset: user_id=%s", userID)
	return nil
}

func (t *tracker) UnitOverview(ctx context.Context, userID, unitID string) (*models.UnitOverview, error) {
	logger.FromContext(ctx).Debug("building unit overview: user_id=%s, unit=%s", userID, unitID)

	u, ok := t.catalog.Unit(unitID)
	if !ok {
		return nil, errors.NewNotFoundError("unit", unitID)
	}
	p, err := t.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	ov := &models.UnitOverview{
		UnitID:                unitID,
		Title:                 u.Title,
		Percentage:            progress.CalculateProgress(t.catalog, unitID, p),
		IsCompleted:           progress.IsUnitCompleted(t.catalog, p, unitID),
		Lessons:               make([]models.LessonOverview, 0, len(u.Lessons)),
		FinalQuizUnlocked:     progress.IsFinalQuizUnlocked(t.catalog, p, unitID),
		FinalRoleplayUnlocked: progress.IsFinalRoleplayUnlocked(p, unitID),
	}
	up := p.Units[unitID]
	if up != nil {
		ov.FinalQuizCompleted = up.FinalQuizCompleted
		ov.FinalRoleplayCompleted = up.FinalRoleplayCompleted
	}
	for _, l := range u.Lessons {
		lo := models.LessonOverview{
			LessonID: l.ID,
			Title:    l.Title,
			Unlocked: progress.IsLessonUnlocked(t.catalog, p, unitID, l.ID),
		}
		if up != nil {
			if lp := up.LessonsProgress[l.ID]; lp != nil {
				lo.Completed = lp.Completed
				lo.Steps = lp.Steps
				lo.XPEarned = lp.XPEarned
			}
		}
		ov.Lessons = append(ov.Lessons, lo)
	}
	return ov, nil
}

func (t *tracker) goalsView(p *models.UserProgress) *models.GoalsView {
	now := t.now()
	return &models.GoalsView{
		Daily:         progress.DailyGoalProgress(p, now),
		Weekly:        progress.WeeklyGoalProgress(p, now),
		CurrentStreak: progress.EffectiveStreak(p, now),
		LongestStreak: p.LongestStreak,
		TotalXP:       p.TotalXP,
	}
}

func (t *tracker) Goals(ctx context.Context, userID string) (*models.GoalsView, error) {
	p, err := t.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return t.goalsView(p), nil
}

func (t *tracker) SetGoals(ctx context.Context, userID string, dailyMinutes, weeklyDays int) (*models.GoalsView, error) {
	log := logger.FromContext(ctx)
	log.Debug("setting goals: user_id=%s, daily=%d, weekly=%d", userID, dailyMinutes, weeklyDays)

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if dailyMinutes < minDailyGoalMinutes || dailyMinutes > maxDailyGoalMinutes {
		return nil, errors.NewValidationError("dailyGoalMinutes", fmt.Sprintf("must be between %d and %d", minDailyGoalMinutes, maxDailyGoalMinutes))
	}
	if weeklyDays < minWeeklyGoalDays || weeklyDays > maxWeeklyGoalDays {
		return nil, errors.NewValidationError("weeklyGoalDays", fmt.Sprintf("must be between %d and %d", minWeeklyGoalDays, maxWeeklyGoalDays))
	}

	st := t.acquire(userID)
	defer t.release(userID, st)

	p, err := t.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	next := p.Clone()
	next.DailyGoalMinutes = dailyMinutes
	next.WeeklyGoalDays = weeklyDays
	saved := t.store.SaveProgress(ctx, next)
	if !saved {
		log.Warn("goals kept in memory only: user_id=%s", userID)
	}
	t.remember(userID, next, saved)
	return t.goalsView(next), nil
}

// DecayStreak persists the reset of a lapsed streak. Users without a stored
// document are left alone, and documents read only for the check are not
// cached.
func (t *tracker) DecayStreak(ctx context.Context, userID string) (bool, error) {
	log := logger.FromContext(ctx)

	st := t.acquire(userID)
	defer t.release(userID, st)

	p := t.cached(userID)
	wasCached := p != nil
	if !wasCached {
		var err error
		if p, err = t.store.LoadProgress(ctx, userID); err != nil {
			return false, errors.NewInternalError(err)
		}
		if p == nil {
			log.Debug("no stored progress to decay: user_id=%s", userID)
			return false, nil
		}
	}

	next, changed := progress.DecayStreak(p, t.now())
	if !changed {
		return false, nil
	}
	if !t.store.SaveProgress(ctx, next) {
		return false, errors.NewInternalError(fmt.Errorf("save decayed streak for %s", userID))
	}
	if wasCached {
		t.remember(userID, next, true)
	}
	return true, nil
}
