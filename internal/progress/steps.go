package progress

import (
	"time"

	"github.com/vytor/linguaflash/internal/models"
)

// ensureLesson returns the (possibly new) lesson entry inside out, creating the
// unit entry as needed. out must already be a private copy.
func ensureLesson(out *models.UserProgress, unitID, lessonID string) *models.LessonProgress {
	up := ensureUnit(out, unitID)
	lp, ok := up.LessonsProgress[lessonID]
	if !ok {
		lp = &models.LessonProgress{LessonID: lessonID}
		up.LessonsProgress[lessonID] = lp
	}
	return lp
}

func ensureUnit(out *models.UserProgress, unitID string) *models.UnitProgress {
	if out.Units == nil {
		out.Units = map[string]*models.UnitProgress{}
	}
	up, ok := out.Units[unitID]
	if !ok {
		up = newUnitProgress()
		out.Units[unitID] = up
	}
	if up.LessonsProgress == nil {
		up.LessonsProgress = map[string]*models.LessonProgress{}
	}
	return up
}

// MarkLessonStep marks the lesson (script/practice) step and credits xp to the lesson.
func MarkLessonStep(p *models.UserProgress, unitID, lessonID string, xp int) *models.UserProgress {
	out := p.Clone()
	lp := ensureLesson(out, unitID, lessonID)
	lp.Steps.Lesson = true
	lp.XPEarned += max(xp, 0)
	return out
}

// MarkQuizStep marks the quiz step with its latest score.
func MarkQuizStep(p *models.UserProgress, unitID, lessonID string, score, xp int) *models.UserProgress {
	out := p.Clone()
	lp := ensureLesson(out, unitID, lessonID)
	lp.Steps.Quiz = true
	lp.Steps.QuizScore = &score
	lp.XPEarned += max(xp, 0)
	return out
}

// MarkRoleplayStep marks the roleplay step, which completes the lesson.
// completedAt keeps the first completion time.
func MarkRoleplayStep(p *models.UserProgress, unitID, lessonID string, xp int, now time.Time) *models.UserProgress {
	out := p.Clone()
	lp := ensureLesson(out, unitID, lessonID)
	lp.Steps.Roleplay = true
	if !lp.Completed {
		lp.Completed = true
		t := now
		lp.CompletedAt = &t
	}
	lp.XPEarned += max(xp, 0)
	return out
}

func MarkFinalQuiz(p *models.UserProgress, unitID string, score int) *models.UserProgress {
	out := p.Clone()
	up := ensureUnit(out, unitID)
	up.FinalQuizCompleted = true
	up.FinalQuizScore = &score
	return out
}

func MarkFinalRoleplay(p *models.UserProgress, unitID string) *models.UserProgress {
	out := p.Clone()
	ensureUnit(out, unitID).FinalRoleplayCompleted = true
	return out
}

// RefreshUnitCompletion recomputes the derived isCompleted flag of unitID.
func RefreshUnitCompletion(cat Catalog, p *models.UserProgress, unitID string) *models.UserProgress {
	out := p.Clone()
	if up := unitProgress(out, unitID); up != nil {
		up.IsCompleted = IsUnitCompleted(cat, out, unitID)
	}
	return out
}
