package progress

import (
	"time"

	"github.com/vytor/linguaflash/internal/models"
)

// DailyGoalProgress compares today's minutes against the daily goal.
func DailyGoalProgress(p *models.UserProgress, now time.Time) models.GoalProgress {
	if p == nil {
		return models.GoalProgress{}
	}
	current := 0
	if e := p.ActivityLog[DateOf(now)]; e != nil {
		current = e.MinutesSpent
	}
	return goal(current, p.DailyGoalMinutes)
}

// WeeklyGoalProgress counts active days in the Monday-based week containing now.
func WeeklyGoalProgress(p *models.UserProgress, now time.Time) models.GoalProgress {
	if p == nil {
		return models.GoalProgress{}
	}
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset)
	active := 0
	for i := 0; i <= offset; i++ {
		e := p.ActivityLog[DateOf(monday.AddDate(0, 0, i))]
		if e != nil && (e.MinutesSpent > 0 || len(e.ActivitiesCompleted) > 0) {
			active++
		}
	}
	return goal(active, p.WeeklyGoalDays)
}

func goal(current, target int) models.GoalProgress {
	g := models.GoalProgress{Current: current, Target: target}
	if target <= 0 {
		return g
	}
	g.Percentage = min(roundHalfUp(float64(current)/float64(target)*100), 100)
	g.IsComplete = current >= target
	return g
}
