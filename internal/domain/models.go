package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Game names reported to the scoring API.
const (
	GameQuiz         = "Quiz Game"
	GameMatching     = "Matching Game"
	GameRPSClassic   = "RPS Classic"
	GameRPSChallenge = "RPS Challenge"
)

// QuestionID is an opaque question identifier. The API sends either numbers or strings.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = QuestionID(n.String())
	return nil
}

// ChoiceKey names one of the four answer slots of a question.
type ChoiceKey string

const (
	ChoiceA ChoiceKey = "choice_a"
	ChoiceB ChoiceKey = "choice_b"
	ChoiceC ChoiceKey = "choice_c"
	ChoiceD ChoiceKey = "choice_d"
)

// ChoiceKeys lists the answer slots in display order.
var ChoiceKeys = []ChoiceKey{ChoiceA, ChoiceB, ChoiceC, ChoiceD}

// Question is one trivia item as served by the games API.
type Question struct {
	ID            QuestionID `json:"id"`
	Question      string     `json:"question"`
	ChoiceA       string     `json:"choice_a"`
	ChoiceB       string     `json:"choice_b"`
	ChoiceC       string     `json:"choice_c"`
	ChoiceD       string     `json:"choice_d"`
	CorrectAnswer string     `json:"correct_answer"`
}

// Choice returns the text stored under key.
func (q Question) Choice(key ChoiceKey) string {
	switch key {
	case ChoiceA:
		return q.ChoiceA
	case ChoiceB:
		return q.ChoiceB
	case ChoiceC:
		return q.ChoiceC
	case ChoiceD:
		return q.ChoiceD
	}
	return ""
}

// IsCorrect reports whether answer matches the correct answer exactly.
func (q Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// FinalResult is produced once per completed session.
type FinalResult struct {
	StudentID int64  `json:"student_id"`
	ModuleID  int64  `json:"module_id"`
	GameName  string `json:"game_name"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
}

// Percentage is the rounded share of correct answers; a zero total counts as one.
func (r FinalResult) Percentage() int {
	total := r.Total
	if total <= 0 {
		total = 1
	}
	correct := r.Correct
	if correct < 0 {
		correct = 0
	}
	return int(float64(correct)/float64(total)*100 + 0.5)
}

// ScoreReceipt is the scoring API's answer to a saved result.
type ScoreReceipt struct {
	XPEarned int `json:"xp_earned"`
}

// ScoreReport summarizes the outcome of reporting a final result.
type ScoreReport struct {
	Result     FinalResult `json:"result"`
	Percentage int         `json:"percentage"`
	XPEarned   int         `json:"xpEarned"`
	Merged     bool        `json:"merged"`
	Error      string      `json:"error,omitempty"`
}

// UserProfile is the locally cached user record.
type UserProfile struct {
	ID       int64  `json:"id"`
	Fullname string `json:"fullname"`
	Avatar   string `json:"avatar"`
	XP       int    `json:"xp"`
	Streak   int    `json:"streak"`
}

// Snapshot is the published state of one game session.
type Snapshot struct {
	SessionID string       `json:"sessionId"`
	Game      string       `json:"game"`
	State     any          `json:"state"`
	Result    *FinalResult `json:"result,omitempty"`
	Report    *ScoreReport `json:"report,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ParseID parses a numeric student or module identifier.
func ParseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
