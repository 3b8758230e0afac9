package domain

// Hand is a rock-paper-scissors choice.
type Hand string

const (
	Rock     Hand = "rock"
	Paper    Hand = "paper"
	Scissors Hand = "scissors"
)

// Hands lists the RPS choices in draw order.
var Hands = []Hand{Rock, Paper, Scissors}

// Valid reports whether h is one of the three hands.
func (h Hand) Valid() bool {
	return h == Rock || h == Paper || h == Scissors
}

// Beats applies the cyclic dominance rule.
func (h Hand) Beats(other Hand) bool {
	switch h {
	case Rock:
		return other == Scissors
	case Paper:
		return other == Rock
	case Scissors:
		return other == Paper
	}
	return false
}

// Outcome is the result of one RPS round from the player's side.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeTie  Outcome = "tie"
)

// Resolve returns the player's outcome against cpu.
func Resolve(player, cpu Hand) Outcome {
	switch {
	case player == cpu:
		return OutcomeTie
	case player.Beats(cpu):
		return OutcomeWin
	default:
		return OutcomeLose
	}
}

// RPSMode selects between plain rounds and rounds with bonus questions.
type RPSMode string

const (
	ModeMenu      RPSMode = "menu"
	ModeClassic   RPSMode = "classic"
	ModeChallenge RPSMode = "challenge"
)

// CardHalf tells whether a matching card shows a question or its answer.
type CardHalf string

const (
	HalfQuestion CardHalf = "q"
	HalfAnswer   CardHalf = "a"
)

// Card is one face of a matching pair.
type Card struct {
	ID   string   `json:"id"`
	Half CardHalf `json:"type"`
	Pair int      `json:"pair"`
	Text string   `json:"text"`
}

// ChoiceView is an answer slot as shown to the player.
type ChoiceView struct {
	Key        ChoiceKey `json:"key"`
	Text       string    `json:"text"`
	Eliminated bool      `json:"eliminated"`
}

// QuizView is the quiz screen state.
type QuizView struct {
	Index            int          `json:"index"`
	Total            int          `json:"total"`
	Question         string       `json:"question"`
	Choices          []ChoiceView `json:"choices"`
	Selected         string       `json:"selected,omitempty"`
	Revealed         bool         `json:"revealed"`
	CorrectAnswer    string       `json:"correctAnswer,omitempty"`
	CorrectCount     int          `json:"correctCount"`
	TimeLeft         int          `json:"timeLeft"`
	HintUsed         bool         `json:"hintUsed"`
	HintOpen         bool         `json:"hintOpen"`
	InstructionsOpen bool         `json:"instructionsOpen"`
	Complete         bool         `json:"complete"`
}

// CardView is a matching card with its visibility resolved.
type CardView struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
	Matched bool   `json:"matched"`
	Text    string `json:"text,omitempty"`
}

// MatchingView is the matching screen state.
type MatchingView struct {
	Cards    []CardView `json:"cards"`
	Score    int        `json:"score"`
	Pairs    int        `json:"pairs"`
	Pending  bool       `json:"pending"`
	Complete bool       `json:"complete"`
}

// BonusView is the challenge-mode question modal.
type BonusView struct {
	Question string       `json:"question"`
	Choices  []ChoiceView `json:"choices"`
	TimeLeft int          `json:"timeLeft"`
}

// RPSView is the rock-paper-scissors screen state.
type RPSView struct {
	Mode        RPSMode    `json:"mode"`
	Round       int        `json:"round"`
	TotalRounds int        `json:"totalRounds"`
	PlayerHand  Hand       `json:"playerHand,omitempty"`
	CPUHand     Hand       `json:"cpuHand,omitempty"`
	Outcome     Outcome    `json:"outcome,omitempty"`
	Score       int        `json:"score"`
	MaxScore    int        `json:"maxScore"`
	Bonus       *BonusView `json:"bonus,omitempty"`
	Complete    bool       `json:"complete"`
}
