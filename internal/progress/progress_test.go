package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/linguaflash/internal/catalog"
	"github.com/vytor/linguaflash/internal/models"
	"github.com/vytor/linguaflash/internal/progress"
)

var now = time.Date(2026, time.March, 11, 15, 30, 0, 0, time.UTC) // a Wednesday

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]models.Unit{{
		ID:      "unit1",
		Lessons: []models.Lesson{{ID: "l1"}, {ID: "l2"}, {ID: "l3"}},
	}})
	require.NoError(t, err)
	return c
}

func fresh() *models.UserProgress {
	return progress.Initialize("user-1", "unit1", now)
}

func TestInitialize(t *testing.T) {
	p := fresh()

	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, models.CurrentSchemaVersion, p.SchemaVersion)
	require.Contains(t, p.Units, "unit1")
	assert.Empty(t, p.Units["unit1"].LessonsProgress)
	assert.Zero(t, p.TotalXP)
	assert.Zero(t, p.CurrentStreak)
	assert.Equal(t, "2026-03-11", p.LastActiveDate)
	assert.Empty(t, p.Badges)
	assert.NotNil(t, p.ActivityLog)
	assert.Equal(t, 10, p.DailyGoalMinutes)
	assert.Equal(t, 7, p.WeeklyGoalDays)
}

func TestInitialize_GeneratesUserID(t *testing.T) {
	a := progress.Initialize("", "unit1", now)
	b := progress.Initialize("", "unit1", now)
	assert.NotEmpty(t, a.UserID)
	assert.NotEqual(t, a.UserID, b.UserID)
}

func TestIsLessonUnlocked(t *testing.T) {
	cat := testCatalog(t)
	p := fresh()

	assert.True(t, progress.IsLessonUnlocked(cat, p, "unit1", "l1"), "first lesson is always open")
	assert.True(t, progress.IsLessonUnlocked(cat, nil, "unit1", "l1"))
	assert.False(t, progress.IsLessonUnlocked(cat, p, "unit1", "l2"))

	p = progress.MarkLessonStep(p, "unit1", "l1", 20)
	p = progress.MarkQuizStep(p, "unit1", "l1", 80, 10)
	assert.False(t, progress.IsLessonUnlocked(cat, p, "unit1", "l2"), "lesson and quiz steps do not unlock the next lesson")

	p = progress.MarkRoleplayStep(p, "unit1", "l1", 20, now)
	assert.True(t, progress.IsLessonUnlocked(cat, p, "unit1", "l2"))
	assert.False(t, progress.IsLessonUnlocked(cat, p, "unit1", "l3"))
}

func TestIsLessonUnlocked_FailsClosed(t *testing.T) {
	cat := testCatalog(t)
	p := fresh()
	p = progress.MarkRoleplayStep(p, "unit1", "l1", 0, now)

	assert.False(t, progress.IsLessonUnlocked(cat, p, "missing", "l1"))
	assert.False(t, progress.IsLessonUnlocked(cat, p, "unit1", "l42"))

	delete(p.Units, "unit1")
	assert.False(t, progress.IsLessonUnlocked(cat, p, "unit1", "l2"))
}

func completeAllLessons(p *models.UserProgress) *models.UserProgress {
	for _, id := range []string{"l1", "l2", "l3"} {
		p = progress.MarkRoleplayStep(p, "unit1", id, 0, now)
	}
	return p
}

func TestFinalGates(t *testing.T) {
	cat := testCatalog(t)
	p := fresh()

	assert.False(t, progress.IsFinalQuizUnlocked(cat, p, "unit1"))
	assert.False(t, progress.IsFinalRoleplayUnlocked(p, "unit1"))

	p = progress.MarkRoleplayStep(p, "unit1", "l1", 0, now)
	p = progress.MarkRoleplayStep(p, "unit1", "l2", 0, now)
	assert.False(t, progress.IsFinalQuizUnlocked(cat, p, "unit1"))

	p = completeAllLessons(p)
	assert.True(t, progress.IsFinalQuizUnlocked(cat, p, "unit1"))
	assert.False(t, progress.IsFinalRoleplayUnlocked(p, "unit1"))

	p = progress.MarkFinalQuiz(p, "unit1", 90)
	assert.True(t, progress.IsFinalRoleplayUnlocked(p, "unit1"))

	assert.False(t, progress.IsFinalQuizUnlocked(cat, p, "missing"))
	assert.False(t, progress.IsFinalRoleplayUnlocked(p, "missing"))
}

func TestNextLesson(t *testing.T) {
	cat := testCatalog(t)

	next := progress.NextLesson(cat, "unit1", "l1")
	require.NotNil(t, next)
	assert.Equal(t, "l2", next.ID)
	assert.Nil(t, progress.NextLesson(cat, "unit1", "l3"))
	assert.Nil(t, progress.NextLesson(cat, "unit1", "nope"))
	assert.Nil(t, progress.NextLesson(cat, "nope", "l1"))
}

func TestCalculateProgress(t *testing.T) {
	cat := testCatalog(t)
	p := fresh()

	assert.Equal(t, 0, progress.CalculateProgress(cat, "unit1", p))

	steps := []func(*models.UserProgress) *models.UserProgress{
		func(p *models.UserProgress) *models.UserProgress { return progress.MarkRoleplayStep(p, "unit1", "l1", 0, now) },
		func(p *models.UserProgress) *models.UserProgress { return progress.MarkRoleplayStep(p, "unit1", "l2", 0, now) },
		func(p *models.UserProgress) *models.UserProgress { return progress.MarkRoleplayStep(p, "unit1", "l3", 0, now) },
		func(p *models.UserProgress) *models.UserProgress { return progress.MarkFinalQuiz(p, "unit1", 100) },
		func(p *models.UserProgress) *models.UserProgress { return progress.MarkFinalRoleplay(p, "unit1") },
	}
	// 1/5, 2/5 ... of 3 lessons + 2 finals
	want := []int{20, 40, 60, 80, 100}

	last := 0
	for i, step := range steps {
		p = step(p)
		got := progress.CalculateProgress(cat, "unit1", p)
		assert.Equal(t, want[i], got)
		assert.GreaterOrEqual(t, got, last)
		last = got
	}
}

func TestCalculateProgress_RoundsHalfUp(t *testing.T) {
	c, err := catalog.New([]models.Unit{{
		ID:      "u",
		Lessons: []models.Lesson{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}, {ID: "f"}},
	}})
	require.NoError(t, err)

	p := progress.Initialize("x", "u", now)
	p = progress.MarkRoleplayStep(p, "u", "a", 0, now)
	// 1/8 = 12.5% rounds up
	assert.Equal(t, 13, progress.CalculateProgress(c, "u", p))

	assert.Equal(t, 0, progress.CalculateProgress(c, "missing", p))
	assert.Equal(t, 0, progress.CalculateProgress(c, "u", nil))
}

func TestUpdateStreak(t *testing.T) {
	tests := []struct {
		name        string
		lastActive  string
		current     int
		longest     int
		wantCurrent int
		wantLongest int
	}{
		{name: "yesterday extends", lastActive: "2026-03-10", current: 5, longest: 5, wantCurrent: 6, wantLongest: 6},
		{name: "yesterday keeps larger longest", lastActive: "2026-03-10", current: 5, longest: 9, wantCurrent: 6, wantLongest: 9},
		{name: "three days ago restarts", lastActive: "2026-03-08", current: 5, longest: 5, wantCurrent: 1, wantLongest: 5},
		{name: "same day is a no-op", lastActive: "2026-03-11", current: 4, longest: 7, wantCurrent: 4, wantLongest: 7},
		{name: "first activity of a fresh document", lastActive: "2026-03-11", current: 0, longest: 0, wantCurrent: 1, wantLongest: 1},
		{name: "unparsable date restarts", lastActive: "garbage", current: 3, longest: 3, wantCurrent: 1, wantLongest: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fresh()
			p.LastActiveDate = tt.lastActive
			p.CurrentStreak = tt.current
			p.LongestStreak = tt.longest

			got := progress.UpdateStreak(p, now)

			assert.Equal(t, tt.wantCurrent, got.CurrentStreak)
			assert.Equal(t, tt.wantLongest, got.LongestStreak)
			assert.Equal(t, "2026-03-11", got.LastActiveDate)
			assert.GreaterOrEqual(t, got.LongestStreak, got.CurrentStreak)
			assert.Equal(t, tt.current, p.CurrentStreak, "input must not be modified")
		})
	}
}

func TestUpdateStreak_TwiceSameDayIsNoop(t *testing.T) {
	p := fresh()
	p.LastActiveDate = "2026-03-10"
	p.CurrentStreak = 2
	p.LongestStreak = 2

	once := progress.UpdateStreak(p, now)
	twice := progress.UpdateStreak(once, now.Add(3*time.Hour))

	assert.Equal(t, once.CurrentStreak, twice.CurrentStreak)
	assert.Equal(t, once.LastActiveDate, twice.LastActiveDate)
	assert.Equal(t, once.LongestStreak, twice.LongestStreak)
}

func TestEffectiveStreakAndDecay(t *testing.T) {
	p := fresh()
	p.CurrentStreak = 4
	p.LongestStreak = 4

	p.LastActiveDate = "2026-03-10"
	assert.Equal(t, 4, progress.EffectiveStreak(p, now))
	_, changed := progress.DecayStreak(p, now)
	assert.False(t, changed)

	p.LastActiveDate = "2026-03-09"
	assert.Equal(t, 0, progress.EffectiveStreak(p, now))
	decayed, changed := progress.DecayStreak(p, now)
	assert.True(t, changed)
	assert.Equal(t, 0, decayed.CurrentStreak)
	assert.Equal(t, 4, decayed.LongestStreak)
	assert.Equal(t, "2026-03-09", decayed.LastActiveDate)

	next := progress.UpdateStreak(decayed, now)
	assert.Equal(t, 1, next.CurrentStreak)
}

func TestAwardXP(t *testing.T) {
	p := fresh()
	p = progress.AwardXP(p, 20)
	p = progress.AwardXP(p, 15)
	assert.Equal(t, 35, p.TotalXP)

	p = progress.AwardXP(p, -50)
	assert.Equal(t, 35, p.TotalXP, "negative amounts never decrease the total")
}

func TestAwardBadge_Idempotent(t *testing.T) {
	p := fresh()
	p = progress.AwardBadge(p, models.BadgeFirstLesson)
	p = progress.AwardBadge(p, models.BadgeQuizMaster)
	before := len(p.Badges)

	p = progress.AwardBadge(p, models.BadgeFirstLesson)
	assert.Len(t, p.Badges, before)
	assert.Equal(t, []string{models.BadgeFirstLesson, models.BadgeQuizMaster}, p.Badges)
	assert.True(t, progress.HasBadge(p, models.BadgeQuizMaster))
	assert.False(t, progress.HasBadge(p, models.BadgePerfectScore))
}

func TestRecordActivity(t *testing.T) {
	p := fresh()
	p = progress.RecordActivity(p, "unit1:l1:lesson", models.ActivityLesson, 5, 20, now)
	p = progress.RecordActivity(p, "unit1:l1:quiz", models.ActivityQuiz, 3, 15, now)
	p = progress.RecordActivity(p, "unit1:l1:quiz", models.ActivityQuiz, 3, 10, now)
	p = progress.RecordActivity(p, "unit1:l1:roleplay", models.ActivityRoleplay, 5, 20, now)

	entry := p.ActivityLog["2026-03-11"]
	require.NotNil(t, entry)
	assert.Equal(t, "2026-03-11", entry.Date)
	assert.Equal(t, 16, entry.MinutesSpent)
	assert.Equal(t, 65, entry.XPEarned)
	assert.Equal(t, 1, entry.LessonsCompleted)
	assert.Equal(t, 2, entry.QuizzesCompleted)
	assert.Equal(t, 1, entry.RoleplaysCompleted)
	assert.Len(t, entry.ActivitiesCompleted, 4, "repeated ids are kept")

	tomorrow := progress.RecordActivity(p, "unit1:l2:lesson", models.ActivityLesson, 5, 20, now.AddDate(0, 0, 1))
	assert.Len(t, tomorrow.ActivityLog, 2)
	assert.Len(t, p.ActivityLog, 1, "input must not be modified")
}

func TestMarkRoleplayStep_KeepsFirstCompletion(t *testing.T) {
	p := fresh()
	p = progress.MarkRoleplayStep(p, "unit1", "l1", 20, now)
	p = progress.MarkRoleplayStep(p, "unit1", "l1", 20, now.Add(time.Hour))

	lp := p.Units["unit1"].LessonsProgress["l1"]
	require.NotNil(t, lp.CompletedAt)
	assert.True(t, lp.CompletedAt.Equal(now))
	assert.True(t, lp.Completed)
	assert.Equal(t, 40, lp.XPEarned)
}

func TestRefreshUnitCompletion(t *testing.T) {
	cat := testCatalog(t)
	p := completeAllLessons(fresh())
	p = progress.MarkFinalQuiz(p, "unit1", 80)
	p = progress.RefreshUnitCompletion(cat, p, "unit1")
	assert.False(t, p.Units["unit1"].IsCompleted)

	p = progress.MarkFinalRoleplay(p, "unit1")
	p = progress.RefreshUnitCompletion(cat, p, "unit1")
	assert.True(t, p.Units["unit1"].IsCompleted)
}

func TestRewards(t *testing.T) {
	assert.Equal(t, 15, progress.QuizXP(100))
	assert.Equal(t, 10, progress.QuizXP(99))
	assert.Equal(t, 120, progress.FinalQuizXP(100))
	assert.Equal(t, 100, progress.FinalQuizXP(0))
}
