package progress

import "github.com/vytor/linguaflash/internal/models"

// IsLessonUnlocked reports whether lessonID may be started. The first lesson of
// a unit is always open; any other lesson needs its predecessor's roleplay step.
func IsLessonUnlocked(cat Catalog, p *models.UserProgress, unitID, lessonID string) bool {
	u, ok := cat.Unit(unitID)
	if !ok {
		return false
	}
	i := u.LessonIndex(lessonID)
	switch {
	case i < 0:
		return false
	case i == 0:
		return true
	}
	prev := lessonProgress(p, unitID, u.Lessons[i-1].ID)
	return prev != nil && prev.Steps.Roleplay
}

// IsFinalQuizUnlocked requires every lesson of the unit to be completed.
func IsFinalQuizUnlocked(cat Catalog, p *models.UserProgress, unitID string) bool {
	u, ok := cat.Unit(unitID)
	if !ok || unitProgress(p, unitID) == nil {
		return false
	}
	for _, l := range u.Lessons {
		lp := lessonProgress(p, unitID, l.ID)
		if lp == nil || !lp.Completed {
			return false
		}
	}
	return true
}

func IsFinalRoleplayUnlocked(p *models.UserProgress, unitID string) bool {
	up := unitProgress(p, unitID)
	return up != nil && up.FinalQuizCompleted
}

// NextLesson returns the lesson following currentLessonID, or nil.
func NextLesson(cat Catalog, unitID, currentLessonID string) *models.Lesson {
	u, ok := cat.Unit(unitID)
	if !ok {
		return nil
	}
	i := u.LessonIndex(currentLessonID)
	if i < 0 || i+1 >= len(u.Lessons) {
		return nil
	}
	next := u.Lessons[i+1]
	return &next
}

// CalculateProgress returns the unit completion percentage counting every
// lesson plus the two finals.
func CalculateProgress(cat Catalog, unitID string, p *models.UserProgress) int {
	u, ok := cat.Unit(unitID)
	if !ok {
		return 0
	}
	up := unitProgress(p, unitID)
	if up == nil {
		return 0
	}
	done := 0
	for _, l := range u.Lessons {
		if lp := up.LessonsProgress[l.ID]; lp != nil && lp.Completed {
			done++
		}
	}
	if up.FinalQuizCompleted {
		done++
	}
	if up.FinalRoleplayCompleted {
		done++
	}
	total := len(u.Lessons) + 2
	return roundHalfUp(float64(done) / float64(total) * 100)
}

// IsUnitCompleted derives UnitProgress.IsCompleted.
func IsUnitCompleted(cat Catalog, p *models.UserProgress, unitID string) bool {
	up := unitProgress(p, unitID)
	return up != nil && up.FinalQuizCompleted && up.FinalRoleplayCompleted && IsFinalQuizUnlocked(cat, p, unitID)
}

func unitProgress(p *models.UserProgress, unitID string) *models.UnitProgress {
	if p == nil || p.Units == nil {
		return nil
	}
	return p.Units[unitID]
}

func lessonProgress(p *models.UserProgress, unitID, lessonID string) *models.LessonProgress {
	up := unitProgress(p, unitID)
	if up == nil || up.LessonsProgress == nil {
		return nil
	}
	return up.LessonsProgress[lessonID]
}
