package termengine

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/danielgatis/go-ansicode"
)

// NotificationPayload carries one desktop-notification chunk (OSC 99, the
// Kitty notification protocol). A notification may arrive in several
// chunks sharing an ID; Done marks the final chunk. PayloadType "?" is a
// capability query the provider answers with a response string.
type NotificationPayload struct {
	ID          string   // i= notification identifier
	Done        bool     // d= final chunk (default true)
	PayloadType string   // p= title, body, close, icon, alive, buttons, or "?"
	Encoding    string   // e= "1" means Data arrived base64-encoded
	Actions     []string // a= focus, report, ...
	TrackClose  bool     // c= report when the notification closes
	Timeout     int      // w= auto-close timeout in milliseconds
	AppName     string   // f= application name
	Type        string   // t= notification type/category
	IconName    string   // n= symbolic icon name
	IconCacheID string   // g= icon cache key
	Sound       string   // s= sound name
	Urgency     int      // u= 0 low, 1 normal, 2 critical
	Occasion    string   // o= when to honor: always, unfocused, invisible
	Data        []byte   // payload (title/body text or icon bytes, decoded)
}

// NotificationProvider presents desktop notifications to the user. The
// return value, when non-empty, is written back to the host verbatim
// (used for p=? capability queries and close reports).
type NotificationProvider interface {
	Notify(payload *NotificationPayload) string
}

// NoopNotification discards notifications.
type NoopNotification struct{}

// Notify implements NotificationProvider by ignoring the payload.
func (NoopNotification) Notify(payload *NotificationPayload) string { return "" }

var _ NotificationProvider = (*NoopNotification)(nil)

// WithNotification sets the handler for desktop notifications (OSC 99 and
// the urxvt OSC 777 form). Defaults to a no-op if not set.
func WithNotification(p NotificationProvider) Option {
	return func(t *Terminal) {
		t.notificationProvider = p
	}
}

// NotificationProvider returns the current notification provider.
func (t *Terminal) NotificationProvider() NotificationProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.notificationProvider
}

// SetNotificationProvider sets the notification provider at runtime.
func (t *Terminal) SetNotificationProvider(p NotificationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationProvider = p
}

// DesktopNotification delivers a notification payload to the configured
// provider; a non-empty provider response is written back to the host.
func (t *Terminal) DesktopNotification(payload *NotificationPayload) {
	if t.middleware != nil && t.middleware.DesktopNotification != nil {
		t.middleware.DesktopNotification(payload, t.desktopNotificationInternal)
		return
	}
	t.desktopNotificationInternal(payload)
}

// ansicodeHandler adapts *Terminal to ansicode.Handler. It is needed because
// Terminal.DesktopNotification uses this package's own NotificationPayload
// type (for its public API and tests), while ansicode.Handler requires
// ansicode.NotificationPayload; this type overrides just that one method.
type ansicodeHandler struct {
	*Terminal
}

func (a ansicodeHandler) DesktopNotification(payload *ansicode.NotificationPayload) {
	a.Terminal.DesktopNotification(&NotificationPayload{
		ID:          payload.ID,
		Done:        payload.Done,
		PayloadType: payload.PayloadType,
		Encoding:    payload.Encoding,
		Actions:     payload.Actions,
		TrackClose:  payload.TrackClose,
		Timeout:     payload.Timeout,
		AppName:     payload.AppName,
		Type:        payload.Type,
		IconName:    payload.IconName,
		IconCacheID: payload.IconCacheID,
		Sound:       payload.Sound,
		Urgency:     payload.Urgency,
		Occasion:    payload.Occasion,
		Data:        payload.Data,
	})
}

func (t *Terminal) desktopNotificationInternal(payload *NotificationPayload) {
	t.mu.RLock()
	provider := t.notificationProvider
	t.mu.RUnlock()

	if provider == nil {
		return
	}
	if response := provider.Notify(payload); response != "" {
		t.writeResponseString(response)
	}
}

// parseNotification parses the body of an OSC 99 sequence (everything
// after "99;"): metadata key=value pairs separated by ':', then ';' and
// the payload. Unknown keys are ignored; e=1 payloads are base64-decoded.
func parseNotification(body string) *NotificationPayload {
	payload := &NotificationPayload{
		Done:        true,
		PayloadType: "title",
		Urgency:     1,
	}

	metadata := body
	if idx := strings.IndexByte(body, ';'); idx >= 0 {
		metadata = body[:idx]
		payload.Data = []byte(body[idx+1:])
	}

	for _, item := range strings.Split(metadata, ":") {
		eq := strings.IndexByte(item, '=')
		if eq <= 0 {
			continue
		}
		key, value := item[:eq], item[eq+1:]
		switch key {
		case "i":
			payload.ID = value
		case "d":
			payload.Done = value != "0"
		case "p":
			payload.PayloadType = value
		case "e":
			payload.Encoding = value
		case "a":
			payload.Actions = strings.Split(value, ",")
		case "c":
			payload.TrackClose = value == "1"
		case "w":
			if n, err := strconv.Atoi(value); err == nil {
				payload.Timeout = n
			}
		case "f":
			payload.AppName = decodeMaybeBase64(value)
		case "t":
			payload.Type = value
		case "n":
			payload.IconName = value
		case "g":
			payload.IconCacheID = value
		case "s":
			payload.Sound = value
		case "u":
			if n, err := strconv.Atoi(value); err == nil {
				payload.Urgency = n
			}
		case "o":
			payload.Occasion = value
		}
	}

	if payload.Encoding == "1" && len(payload.Data) > 0 {
		if decoded, err := base64.StdEncoding.DecodeString(string(payload.Data)); err == nil {
			payload.Data = decoded
		}
	}
	return payload
}

// decodeMaybeBase64 decodes base64 values that the protocol allows to be
// sent either raw or encoded, keeping the raw form on decode failure.
func decodeMaybeBase64(s string) string {
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return string(decoded)
	}
	return s
}

// handleNotificationOSC dispatches an intercepted notification OSC: the
// Kitty form ("99;...") or the urxvt form ("777;notify;title;body"), the
// latter translated into a title chunk followed by a final body chunk so
// both forms reach the provider through the same payload type.
func (t *Terminal) handleNotificationOSC(body string) {
	if strings.HasPrefix(body, "99;") {
		t.DesktopNotification(parseNotification(body[3:]))
		return
	}

	rest := strings.TrimPrefix(body, "777;")
	parts := strings.SplitN(rest, ";", 3)
	if len(parts) < 2 || parts[0] != "notify" {
		return
	}
	title := parts[1]
	bodyText := ""
	if len(parts) == 3 {
		bodyText = parts[2]
	}

	t.DesktopNotification(&NotificationPayload{
		PayloadType: "title",
		Done:        bodyText == "",
		Data:        []byte(title),
	})
	if bodyText != "" {
		t.DesktopNotification(&NotificationPayload{
			PayloadType: "body",
			Done:        true,
			Data:        []byte(bodyText),
		})
	}
}
