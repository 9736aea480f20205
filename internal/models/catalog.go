package models

// Unit is a top-level group of lessons closed by a final quiz and a final roleplay.
type Unit struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Lessons     []Lesson       `json:"lessons" yaml:"lessons"`
	FinalQuiz   []QuizQuestion `json:"finalQuiz" yaml:"final_quiz"`
}

type Lesson struct {
	ID     string         `json:"id" yaml:"id"`
	Title  string         `json:"title" yaml:"title"`
	Phrase Phrase         `json:"phrase" yaml:"phrase"`
	Script []ScriptLine   `json:"script" yaml:"script"`
	Quiz   []QuizQuestion `json:"quiz" yaml:"quiz"`
}

type Phrase struct {
	Text          string `json:"text" yaml:"text"`
	Translation   string `json:"translation" yaml:"translation"`
	Pronunciation string `json:"pronunciation,omitempty" yaml:"pronunciation"`
}

type ScriptLine struct {
	Speaker string `json:"speaker" yaml:"speaker"`
	Text    string `json:"text" yaml:"text"`
}

type QuizQuestion struct {
	ID      string   `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []string `json:"options" yaml:"options"`
	Answer  int      `json:"answer" yaml:"answer"`
}

// LessonIndex returns the position of lessonID in the unit, or -1.
func (u Unit) LessonIndex(lessonID string) int {
	for i, l := range u.Lessons {
		if l.ID == lessonID {
			return i
		}
	}
	return -1
}
