package app

import (
	"game-arena/internal/domain"
)

// RoundResult is the outcome of one played RPS round.
type RoundResult struct {
	Player  domain.Hand
	CPU     domain.Hand
	Outcome domain.Outcome
	Score   int
	// Bonus is set when a challenge question follows the round.
	Bonus bool
}

// RPSGame runs rock-paper-scissors rounds, optionally interleaved with bonus questions.
type RPSGame struct {
	finisher

	studentID   int64
	moduleID    int64
	questions   []domain.Question
	totalRounds int
	choose      Chooser

	mode       domain.RPSMode
	round      int
	score      int
	player     domain.Hand
	cpu        domain.Hand
	outcome    domain.Outcome
	bonusNext  int
	bonusOpen  bool
	bonusClock *Countdown
}

// NewRPSGame starts at the mode menu. Questions feed challenge-mode bonus rounds
// and may be empty.
func NewRPSGame(studentID, moduleID int64, questions []domain.Question, limits Limits, rnd Randomness) *RPSGame {
	if limits.RPSRounds <= 0 {
		limits.RPSRounds = DefaultLimits.RPSRounds
	}
	if limits.BonusTimeLimit <= 0 {
		limits.BonusTimeLimit = DefaultLimits.BonusTimeLimit
	}
	return &RPSGame{
		studentID:   studentID,
		moduleID:    moduleID,
		questions:   questions,
		totalRounds: limits.RPSRounds,
		choose:      rnd.orDefault().Choose,
		mode:        domain.ModeMenu,
		round:       1,
		bonusClock:  NewCountdown(limits.BonusTimeLimit),
	}
}

func (g *RPSGame) Kind() string { return KindRPS }

// ChooseMode leaves the menu (or switches mode) and resets the game.
func (g *RPSGame) ChooseMode(mode domain.RPSMode) error {
	if mode != domain.ModeClassic && mode != domain.ModeChallenge {
		return domain.ErrInvalidMode
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() {
		return nil
	}
	g.mode = mode
	g.round = 1
	g.score = 0
	g.bonusNext = 0
	g.bonusOpen = false
	g.clearRoundLocked()
	g.bonusClock.Reset()
	return nil
}

func (g *RPSGame) maxScoreLocked() int {
	if g.mode == domain.ModeChallenge {
		return g.totalRounds + len(g.questions)
	}
	return g.totalRounds
}

// Play resolves one round against a uniformly drawn CPU hand. The call is
// ignored in the menu and while a bonus question is open.
func (g *RPSGame) Play(hand domain.Hand) (RoundResult, error) {
	if !hand.Valid() {
		return RoundResult{}, domain.ErrInvalidChoice
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() || g.mode == domain.ModeMenu || g.bonusOpen {
		return RoundResult{}, nil
	}

	cpu := domain.Hands[g.choose(len(domain.Hands))]
	outcome := domain.Resolve(hand, cpu)
	g.player, g.cpu, g.outcome = hand, cpu, outcome
	if outcome == domain.OutcomeWin {
		g.addPointLocked()
	}

	res := RoundResult{Player: hand, CPU: cpu, Outcome: outcome}
	if g.mode == domain.ModeChallenge && g.bonusNext < len(g.questions) {
		g.bonusOpen = true
		g.bonusClock.Reset()
		g.bonusClock.Resume()
		res.Bonus = true
	} else {
		g.nextRoundLocked()
	}
	res.Score = g.score
	return res, nil
}

// AnswerBonus scores the open bonus question and moves on to the next round.
func (g *RPSGame) AnswerBonus(answer string) (accepted, correct bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() || !g.bonusOpen {
		return false, false
	}
	correct = g.questions[g.bonusNext].IsCorrect(answer)
	if correct {
		g.addPointLocked()
	}
	g.closeBonusLocked()
	return true, correct
}

// Tick runs the bonus question clock; expiry consumes the question without credit.
func (g *RPSGame) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() || !g.bonusOpen {
		return
	}
	if g.bonusClock.Tick() {
		g.closeBonusLocked()
	}
}

func (g *RPSGame) closeBonusLocked() {
	g.bonusOpen = false
	g.bonusNext++
	g.bonusClock.Reset()
	g.nextRoundLocked()
}

func (g *RPSGame) addPointLocked() {
	if g.score < g.maxScoreLocked() {
		g.score++
	}
}

func (g *RPSGame) nextRoundLocked() {
	if g.round < g.totalRounds {
		g.round++
		return
	}
	name := domain.GameRPSClassic
	if g.mode == domain.ModeChallenge {
		name = domain.GameRPSChallenge
	}
	g.finishLocked(domain.FinalResult{
		StudentID: g.studentID,
		ModuleID:  g.moduleID,
		GameName:  name,
		Correct:   g.score,
		Total:     g.maxScoreLocked(),
	})
}

// clearRoundLocked forgets the last resolved round.
func (g *RPSGame) clearRoundLocked() {
	g.player, g.cpu, g.outcome = "", "", domain.OutcomeNone
}

// Close stops the game and its bonus clock.
func (g *RPSGame) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.bonusClock.Pause()
}

func (g *RPSGame) View() any {
	g.mu.Lock()
	defer g.mu.Unlock()
	view := domain.RPSView{
		Mode:        g.mode,
		Round:       g.round,
		TotalRounds: g.totalRounds,
		PlayerHand:  g.player,
		CPUHand:     g.cpu,
		Outcome:     g.outcome,
		Score:       g.score,
		MaxScore:    g.maxScoreLocked(),
		Complete:    g.result != nil,
	}
	if g.bonusOpen {
		q := g.questions[g.bonusNext]
		view.Bonus = &domain.BonusView{
			Question: q.Question,
			Choices:  choiceViews(q, nil),
			TimeLeft: g.bonusClock.Left(),
		}
	}
	return view
}
