package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sherlock/internal/storage"
)

// historyEntry is the shape a session turn takes inside the rewrite prompt.
type historyEntry struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// buildRewritePrompt asks the model to fold chat history into a follow-up
// question, or to return the question untouched when it stands alone.
func buildRewritePrompt(question string, turns []storage.SessionTurn) string {
	entries := make([]historyEntry, 0, len(turns))
	for _, turn := range turns {
		entries = append(entries, historyEntry{
			Question:  turn.Question,
			Answer:    turn.Answer,
			Timestamp: turn.CreatedAt.Format(time.RFC3339),
		})
	}

	historyJSON, err := json.Marshal(entries)
	if err != nil {
		historyJSON = []byte("[]")
	}

	return fmt.Sprintf(`Your job is to read the chat history and if the question is a follow up question of the chat history then add details of the history to the question and rephrase it.
If the question is unrelated to the history then return the original question as it is as the rephrased question.

User question: %s

Chat history:
%s

Rephrased question:
**Only return the rephrased question in the output**`, question, historyJSON)
}

// buildAnswerPrompt grounds the model on the retrieved context and instructs
// it to admit when the answer is absent.
func buildAnswerPrompt(question string, contexts []string) string {
	return fmt.Sprintf(`<Problem Statement>
Using only the context, think carefully then craft your detailed (if required) answer to the user question. If the answer is not in the context then say "I don't have the answer".
user question: %s
</Problem Statement>

<Answer Structure>
**Detailed answer here**
**Cite the source of your answer here**
</Answer Structure>

<context>
%s
</context>`, question, strings.Join(contexts, "\n\n"))
}
