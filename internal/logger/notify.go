package logger

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// alertTimeout bounds one Telegram request and the wait for pending alerts on Sync.
const alertTimeout = 10 * time.Second

var (
	// send delivers one alert text; nil when the notifier is disabled.
	send    func(text string) error
	once    sync.Once
	pending sync.WaitGroup
)

// InitNotifier wires Telegram alerts to the admin chat. Without a token or admin id
// alerts are only logged.
func InitNotifier(token string, admin int64) error {
	if token == "" || admin == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: alertTimeout})
	if err != nil {
		return fmt.Errorf("telegram notifier: %w", err)
	}
	once.Do(func() {
		send = func(text string) error {
			_, err := bot.Send(tgbotapi.NewMessage(admin, text))
			return err
		}
	})
	log.Info("admin notifier enabled", zap.String("bot", bot.Self.UserName))
	return nil
}

// NotifyAdmin logs a critical event and forwards it to the admin chat in the
// background. The caller never waits for Telegram.
func NotifyAdmin(msg string) {
	log.Warn("admin_alert", zap.String("message", msg))
	deliver := send
	if deliver == nil {
		return
	}
	pending.Add(1)
	go func() {
		defer pending.Done()
		if err := deliver("[ALERT] " + msg); err != nil {
			log.Error("admin alert not delivered", zap.Error(err))
		}
	}()
}

// flushAlerts waits up to timeout for alerts still being delivered.
func flushAlerts(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// NotifyOnPanic recovers a panic in a background job, logs it and alerts the admin.
func NotifyOnPanic(context string) {
	if r := recover(); r != nil {
		log.Error("panic recovered", zap.String("context", context), zap.Any("panic", r))
		NotifyAdmin("Panic in " + context + ": " + toString(r))
	}
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	}
	return "panic: unknown error"
}
