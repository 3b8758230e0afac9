package app

import (
	"game-arena/internal/domain"
)

// QuizGame runs the timed multiple-choice quiz.
type QuizGame struct {
	finisher

	studentID int64
	moduleID  int64
	questions []domain.Question
	shuffle   Shuffler

	index        int
	correctCount int
	selected     *string
	hintUsed     bool
	hintOpen     bool
	instructions bool
	eliminated   map[domain.ChoiceKey]bool
	clock        *Countdown
}

// NewQuizGame starts a quiz with the instructions modal open and the clock paused.
func NewQuizGame(studentID, moduleID int64, questions []domain.Question, timeLimit int, rnd Randomness) (*QuizGame, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptyResult
	}
	if timeLimit <= 0 {
		timeLimit = DefaultLimits.QuizTimeLimit
	}
	return &QuizGame{
		studentID:    studentID,
		moduleID:     moduleID,
		questions:    questions,
		shuffle:      rnd.orDefault().Shuffle,
		instructions: true,
		eliminated:   make(map[domain.ChoiceKey]bool),
		clock:        NewCountdown(timeLimit),
	}, nil
}

func (g *QuizGame) Kind() string { return KindQuiz }

// DismissInstructions closes the intro modal and starts the first clock.
func (g *QuizGame) DismissInstructions() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() || !g.instructions {
		return
	}
	g.instructions = false
	g.syncClockLocked()
}

// OpenHint shows the hint modal, which suspends the clock.
func (g *QuizGame) OpenHint() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() || g.hintUsed || g.revealedLocked() {
		return
	}
	g.hintOpen = true
	g.syncClockLocked()
}

// CloseHint dismisses the hint modal without using the hint.
func (g *QuizGame) CloseHint() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.hintOpen {
		return
	}
	g.hintOpen = false
	g.syncClockLocked()
}

// UseHint eliminates two wrong choices of the current question. It returns the
// eliminated keys, or nil when the hint is not available.
func (g *QuizGame) UseHint() []domain.ChoiceKey {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() || g.instructions || g.hintUsed || g.revealedLocked() {
		return nil
	}

	current := g.questions[g.index]
	wrong := make([]domain.ChoiceKey, 0, len(domain.ChoiceKeys))
	for _, key := range domain.ChoiceKeys {
		if current.Choice(key) != current.CorrectAnswer {
			wrong = append(wrong, key)
		}
	}
	g.shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	if len(wrong) > 2 {
		wrong = wrong[:2]
	}
	for _, key := range wrong {
		g.eliminated[key] = true
	}
	g.hintUsed = true
	g.hintOpen = false
	g.syncClockLocked()
	return wrong
}

// SelectAnswer records the answer for the current question once. It reports
// whether the answer was accepted and whether it was correct. Unknown values
// count as wrong; eliminated choices are rejected.
func (g *QuizGame) SelectAnswer(answer string) (accepted, correct bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() || g.instructions || g.revealedLocked() {
		return false, false
	}
	current := g.questions[g.index]
	for key := range g.eliminated {
		if current.Choice(key) == answer {
			return false, false
		}
	}

	g.selected = &answer
	correct = current.IsCorrect(answer)
	if correct {
		g.correctCount++
	}
	g.hintOpen = false
	g.syncClockLocked()
	return true, correct
}

// Advance moves past a revealed answer, finishing after the last question.
func (g *QuizGame) Advance() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() || !g.revealedLocked() {
		return
	}
	g.advanceLocked()
}

// Tick counts the clock down; at zero the question is skipped without credit.
func (g *QuizGame) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() {
		return
	}
	if g.clock.Tick() {
		g.advanceLocked()
	}
}

func (g *QuizGame) advanceLocked() {
	if g.index < len(g.questions)-1 {
		g.index++
		g.selected = nil
		g.hintUsed = false
		g.hintOpen = false
		g.eliminated = make(map[domain.ChoiceKey]bool)
		g.clock.Reset()
		g.syncClockLocked()
		return
	}
	g.clock.Pause()
	g.finishLocked(domain.FinalResult{
		StudentID: g.studentID,
		ModuleID:  g.moduleID,
		GameName:  domain.GameQuiz,
		Correct:   g.correctCount,
		Total:     len(g.questions),
	})
}

func (g *QuizGame) revealedLocked() bool {
	return g.selected != nil
}

// syncClockLocked runs the clock only while an answer is awaited and no modal is open.
func (g *QuizGame) syncClockLocked() {
	if g.instructions || g.hintOpen || g.revealedLocked() {
		g.clock.Pause()
		return
	}
	g.clock.Resume()
}

// Close stops the game.
func (g *QuizGame) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.clock.Pause()
}

func (g *QuizGame) View() any {
	g.mu.Lock()
	defer g.mu.Unlock()
	current := g.questions[g.index]
	view := domain.QuizView{
		Index:            g.index,
		Total:            len(g.questions),
		Question:         current.Question,
		Choices:          choiceViews(current, g.eliminated),
		Revealed:         g.revealedLocked(),
		CorrectCount:     g.correctCount,
		TimeLeft:         g.clock.Left(),
		HintUsed:         g.hintUsed,
		HintOpen:         g.hintOpen,
		InstructionsOpen: g.instructions,
		Complete:         g.result != nil,
	}
	if g.selected != nil {
		view.Selected = *g.selected
		view.CorrectAnswer = current.CorrectAnswer
	}
	return view
}
