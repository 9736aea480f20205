package progress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/linguaflash/internal/models"
	"github.com/vytor/linguaflash/internal/progress"
)

func TestDailyGoalProgress(t *testing.T) {
	p := fresh()
	assert.Equal(t, models.GoalProgress{Current: 0, Target: 10}, progress.DailyGoalProgress(p, now))

	p = progress.RecordActivity(p, "a", models.ActivityLesson, 5, 0, now)
	g := progress.DailyGoalProgress(p, now)
	assert.Equal(t, 5, g.Current)
	assert.Equal(t, 50, g.Percentage)
	assert.False(t, g.IsComplete)

	p = progress.RecordActivity(p, "b", models.ActivityQuiz, 8, 0, now)
	g = progress.DailyGoalProgress(p, now)
	assert.Equal(t, 13, g.Current)
	assert.Equal(t, 100, g.Percentage, "percentage is capped")
	assert.True(t, g.IsComplete)
}

func TestDailyGoalProgress_ZeroTarget(t *testing.T) {
	p := fresh()
	p.DailyGoalMinutes = 0
	p = progress.RecordActivity(p, "a", models.ActivityLesson, 5, 0, now)
	g := progress.DailyGoalProgress(p, now)
	assert.Equal(t, 0, g.Percentage)
	assert.False(t, g.IsComplete)
}

func TestWeeklyGoalProgress(t *testing.T) {
	p := fresh()
	// now is Wednesday 2026-03-11; the week starts Monday 2026-03-09.
	p = progress.RecordActivity(p, "a", models.ActivityLesson, 5, 0, now.AddDate(0, 0, -2)) // Monday
	p = progress.RecordActivity(p, "b", models.ActivityLesson, 5, 0, now)                   // Wednesday
	p = progress.RecordActivity(p, "c", models.ActivityLesson, 5, 0, now.AddDate(0, 0, -3)) // previous Sunday

	g := progress.WeeklyGoalProgress(p, now)
	assert.Equal(t, 2, g.Current)
	assert.Equal(t, 7, g.Target)
	assert.Equal(t, 29, g.Percentage) // 28.57 rounds to 29
	assert.False(t, g.IsComplete)

	p.WeeklyGoalDays = 2
	g = progress.WeeklyGoalProgress(p, now)
	assert.True(t, g.IsComplete)
	assert.Equal(t, 100, g.Percentage)
}

func TestGoals_NilDocument(t *testing.T) {
	assert.Equal(t, models.GoalProgress{}, progress.DailyGoalProgress(nil, now))
	assert.Equal(t, models.GoalProgress{}, progress.WeeklyGoalProgress(nil, now))
}
