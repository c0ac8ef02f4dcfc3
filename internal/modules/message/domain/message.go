package domain

import (
	"strings"
	"time"
)

// Message is one inbound update from the messaging channel: typed text or a button press
type Message struct {
	ID       int       `json:"id"`
	Kind     Kind      `json:"kind"`
	ChatID   int64     `json:"chat_id"`
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
	// CallbackID and CallbackData are set for button presses.
	CallbackID   string `json:"callback_id,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
	// ReplyToMessageID is the message carrying the pressed button.
	ReplyToMessageID int `json:"reply_to_message_id,omitempty"`
}

func (m *Message) IsCallback() bool {
	return m.Kind == KindCallback
}

// Button is an inline keyboard button
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// MaxTextRunes is the longest text one chat message may carry.
const MaxTextRunes = 4096

// SplitText cuts text into pieces of at most limit runes, preferring line breaks.
func SplitText(text string, limit int) []string {
	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	return append(chunks, string(runes))
}
