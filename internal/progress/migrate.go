package progress

import "github.com/vytor/linguaflash/internal/models"

// upgrades[v] lifts a document from schema version v to v+1.
var upgrades = []func(*models.UserProgress){
	upgradeV0,
}

// upgradeV0 fills the goal-tracking fields that predate versioning.
func upgradeV0(p *models.UserProgress) {
	if p.ActivityLog == nil {
		p.ActivityLog = map[string]*models.ActivityEntry{}
	}
	if p.DailyGoalMinutes <= 0 {
		p.DailyGoalMinutes = DefaultDailyGoalMinutes
	}
	if p.WeeklyGoalDays <= 0 {
		p.WeeklyGoalDays = DefaultWeeklyGoalDays
	}
}

// Migrate brings a decoded document up to the current schema version and fills
// empty collections. It never fails; documents from a newer build are only
// normalised.
func Migrate(p *models.UserProgress) *models.UserProgress {
	if p == nil {
		return nil
	}
	out := p.Clone()
	if out.SchemaVersion < 0 {
		out.SchemaVersion = 0
	}
	for out.SchemaVersion < len(upgrades) {
		upgrades[out.SchemaVersion](out)
		out.SchemaVersion++
	}
	normalize(out)
	return out
}

func normalize(p *models.UserProgress) {
	if p.Units == nil {
		p.Units = map[string]*models.UnitProgress{}
	}
	for id, up := range p.Units {
		if up == nil {
			p.Units[id] = newUnitProgress()
			continue
		}
		if up.LessonsProgress == nil {
			up.LessonsProgress = map[string]*models.LessonProgress{}
		}
		for lid, lp := range up.LessonsProgress {
			if lp == nil {
				delete(up.LessonsProgress, lid)
			} else if lp.LessonID == "" {
				lp.LessonID = lid
			}
		}
	}
	if p.Badges == nil {
		p.Badges = []string{}
	}
	if p.ActivityLog == nil {
		p.ActivityLog = map[string]*models.ActivityEntry{}
	}
	if p.LongestStreak < p.CurrentStreak {
		p.LongestStreak = p.CurrentStreak
	}
}
