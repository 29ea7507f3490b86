package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pcbuilder/internal/gateway"
	"pcbuilder/internal/logger"
	"pcbuilder/internal/models"
)

const placeholderText = "🤖 AI가 열심히 생각 중입니다...\n🔍 견적을 계산하고 있습니다...\n⏳ 잠시만 기다려주세요..."

const (
	chatFailureText        = "⚠️ AI 응답을 가져오지 못했습니다. 다시 시도해주세요."
	chatNetworkFailureText = "⚠️ 네트워크 오류가 발생했습니다. 다시 시도해주세요."

	softFailureNotice       = "AI 서비스에 일시적인 문제가 있습니다. 기본 응답을 제공합니다."
	searchSoftFailureNotice = "견적 서비스에 일시적인 문제가 있습니다. 기본 응답을 제공합니다."
	networkFailureNotice    = "네트워크 오류가 발생했습니다. 기본 응답을 제공합니다."
)

func fallbackReply(query string) string {
	return fmt.Sprintf("입력하신 요청(%q)에 대한 기본 견적을 준비 중입니다.", query)
}

// Send posts a chat turn. The user message and a pending assistant
// placeholder are appended before the network round-trip, and the
// placeholder is patched in place once the reply settles. Only one send
// may be in flight at a time.
func (a *App) Send(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	a.mu.Lock()
	if a.sending {
		a.mu.Unlock()
		return
	}
	a.sending = true
	placeholderID := a.appendTurn(text)
	a.mu.Unlock()
	a.changed()

	res := a.gw.SendChatMessage(ctx, text, a.sessionID)
	a.settle(res, placeholderID, chatFailureText, chatNetworkFailureText, softFailureNotice)

	a.mu.Lock()
	a.sending = false
	a.mu.Unlock()
	a.changed()
}

// Search runs the landing-page estimate request. It behaves like Send but
// jumps to the chat screen and substitutes a canned reply when the
// backend returns nothing usable.
func (a *App) Search(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	a.mu.Lock()
	if a.searching {
		a.mu.Unlock()
		return
	}
	a.searching = true
	a.screen = ScreenChat
	placeholderID := a.appendTurn(query)
	a.mu.Unlock()
	a.changed()

	res := a.gw.RequestEstimate(ctx, gateway.Requirements{Query: query}, a.sessionID)
	a.settle(res, placeholderID, fallbackReply(query), fallbackReply(query), searchSoftFailureNotice)

	a.mu.Lock()
	a.searching = false
	a.mu.Unlock()
	a.changed()
}

// appendTurn appends the user message and its pending placeholder,
// returning the placeholder id. Caller holds a.mu.
func (a *App) appendTurn(text string) string {
	id := uuid.NewString()
	a.transcript = append(a.transcript,
		models.ChatMessage{ID: uuid.NewString(), Role: models.RoleUser, Content: text},
		models.ChatMessage{ID: id, Role: models.RoleAI, Content: placeholderText, Pending: true},
	)
	return id
}

// settle resolves the placeholder for one chat turn and refreshes the
// last-estimate slot from whatever text ends up displayed.
func (a *App) settle(res gateway.Result, placeholderID, emptyText, transportText, softNotice string) {
	ok := res.Success && res.BusinessOK()

	display := ""
	if ok {
		display = res.ReplyText()
	}
	if display == "" {
		if !res.Success {
			display = transportText
		} else {
			display = emptyText
		}
	}

	est := models.ParseEstimate(display)

	a.mu.Lock()
	for i := range a.transcript {
		if a.transcript[i].ID == placeholderID {
			a.transcript[i].Content = display
			a.transcript[i].Pending = false
			break
		}
	}
	a.lastEstimate = est
	a.mu.Unlock()

	if !res.Success {
		logger.Warn("chat request failed", "status", res.Status, "error", res.Err)
		a.sendNotification(LevelError, networkFailureNotice)
	} else if !res.BusinessOK() {
		msg := res.DataMessage()
		if msg == "" {
			msg = softNotice
		}
		a.sendNotification(LevelWarning, msg)
	}
}

// Transcript returns a copy of the chat history.
func (a *App) Transcript() []models.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.ChatMessage, len(a.transcript))
	copy(out, a.transcript)
	return out
}

// LastEstimate returns the most recent structured estimate, or nil when
// the last reply was plain text.
func (a *App) LastEstimate() *models.Estimate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastEstimate
}

func (a *App) Sending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sending
}
